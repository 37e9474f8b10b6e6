package model

import (
	"time"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
)

type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
}

type TeamApplication struct {
	ID          string                  `json:"id"`
	TeamID      string                  `json:"team_id"`
	ApplicantID string                  `json:"applicant_id"`
	Message     string                  `json:"message,omitempty"`
	Status      enums.ApplicationStatus `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
}

type TeamMembership struct {
	TeamID   string               `json:"team_id"`
	UserID   string               `json:"user_id"`
	Role     enums.MembershipRole `json:"role"`
	JoinedAt time.Time            `json:"joined_at"`
}
