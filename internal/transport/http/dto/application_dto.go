package dto

import "time"

type ApplyRequest struct {
	ActorID string `json:"actor_id,omitempty"`
	Message string `json:"message,omitempty"`
}

type ApplicationResponse struct {
	Success     bool      `json:"success"`
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	ApplicantID string    `json:"applicant_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type DecideRequest struct {
	ActorID string `json:"actor_id,omitempty"`
	Action  string `json:"action"`
}

type DecideResponse struct {
	Success    bool   `json:"success"`
	Status     string `json:"status"`
	Idempotent bool   `json:"idempotent,omitempty"`
}
