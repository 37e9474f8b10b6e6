package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/auth"
	notifysvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/notify"
	"github.com/kpramod0/SkillLinkr-sub000/internal/transport/http/dto"
	httperrors "github.com/kpramod0/SkillLinkr-sub000/internal/transport/http/errors"
)

type NotificationHandler struct {
	dispatcher *notifysvc.Dispatcher
	auth       *authsvc.Service
}

func NewNotificationHandler(dispatcher *notifysvc.Dispatcher, auth *authsvc.Service) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher, auth: auth}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := resolveActor(w, r, h.auth, r.URL.Query().Get("actor_id"))
	if !ok {
		return
	}

	notifications, err := h.dispatcher.List(r.Context(), actorID, limitFromRequest(r))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list notifications")
		return
	}

	items := make([]dto.NotificationItemResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationItemResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			Data:      n.Data,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, dto.NotificationsResponse{Items: items})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := chi.URLParam(r, "notificationID")
	if notificationID == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "notification id is required")
		return
	}

	actorID, ok := resolveActor(w, r, h.auth, r.URL.Query().Get("actor_id"))
	if !ok {
		return
	}

	updated, err := h.dispatcher.MarkRead(r.Context(), notificationID, actorID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to mark notification read")
		return
	}
	if !updated {
		writeNotFound(w, "NOTIFICATION_NOT_FOUND", "notification not found")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MarkReadResponse{Success: true})
}
