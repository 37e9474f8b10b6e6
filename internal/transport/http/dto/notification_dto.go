package dto

import "time"

type NotificationItemResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	IsRead    bool              `json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}

type NotificationsResponse struct {
	Items []NotificationItemResponse `json:"items"`
}

type MarkReadResponse struct {
	Success bool `json:"success"`
}
