package dto

import "time"

type InteractionRequest struct {
	ActorID  string `json:"actor_id,omitempty"`
	TargetID string `json:"target_id"`
	Message  string `json:"message,omitempty"`
}

type LikeResponse struct {
	Success bool   `json:"success"`
	Matched bool   `json:"matched"`
	MatchID string `json:"match_id,omitempty"`
}

type InteractionResponse struct {
	Success bool `json:"success"`
}

type MatchItemResponse struct {
	ID            string     `json:"id"`
	UserAID       string     `json:"user_a_id"`
	UserBID       string     `json:"user_b_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessage   string     `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}

type ReceivedLikeResponse struct {
	SwiperID  string    `json:"swiper_id"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReceivedLikesResponse struct {
	Items []ReceivedLikeResponse `json:"items"`
}

type StarItemResponse struct {
	StarredID string    `json:"starred_id"`
	CreatedAt time.Time `json:"created_at"`
}

type StarsResponse struct {
	Items []StarItemResponse `json:"items"`
}
