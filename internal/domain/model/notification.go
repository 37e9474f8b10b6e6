package model

import (
	"time"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
)

type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]string      `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}

type Star struct {
	UserID    string    `json:"user_id"`
	StarredID string    `json:"starred_id"`
	CreatedAt time.Time `json:"created_at"`
}
