package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	authsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/auth"
	interactionsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/interactions"
	"github.com/kpramod0/SkillLinkr-sub000/internal/transport/http/dto"
	httperrors "github.com/kpramod0/SkillLinkr-sub000/internal/transport/http/errors"
)

type InteractionHandler struct {
	service *interactionsvc.Service
	auth    *authsvc.Service
}

func NewInteractionHandler(service *interactionsvc.Service, auth *authsvc.Service) *InteractionHandler {
	return &InteractionHandler{service: service, auth: auth}
}

func (h *InteractionHandler) Like(w http.ResponseWriter, r *http.Request) {
	req, actorID, ok := h.decodeInteraction(w, r)
	if !ok {
		return
	}

	result, err := h.service.Like(r.Context(), actorID, req.TargetID, req.Message)
	if err != nil {
		h.writeInteractionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LikeResponse{
		Success: true,
		Matched: result.Matched,
		MatchID: result.MatchID,
	})
}

func (h *InteractionHandler) Pass(w http.ResponseWriter, r *http.Request) {
	req, actorID, ok := h.decodeInteraction(w, r)
	if !ok {
		return
	}

	if err := h.service.Pass(r.Context(), actorID, req.TargetID); err != nil {
		h.writeInteractionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.InteractionResponse{Success: true})
}

func (h *InteractionHandler) Star(w http.ResponseWriter, r *http.Request) {
	req, actorID, ok := h.decodeInteraction(w, r)
	if !ok {
		return
	}

	if err := h.service.Star(r.Context(), actorID, req.TargetID); err != nil {
		h.writeInteractionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.InteractionResponse{Success: true})
}

func (h *InteractionHandler) Unstar(w http.ResponseWriter, r *http.Request) {
	req, actorID, ok := h.decodeInteraction(w, r)
	if !ok {
		return
	}

	if err := h.service.Unstar(r.Context(), actorID, req.TargetID); err != nil {
		h.writeInteractionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.InteractionResponse{Success: true})
}

func (h *InteractionHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	req, actorID, ok := h.decodeInteraction(w, r)
	if !ok {
		return
	}

	if err := h.service.Unmatch(r.Context(), actorID, req.TargetID); err != nil {
		h.writeInteractionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.InteractionResponse{Success: true})
}

func (h *InteractionHandler) Matches(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.resolveQueryActor(w, r)
	if !ok {
		return
	}

	matches, err := h.service.ListMatches(r.Context(), actorID, limitFromRequest(r))
	if err != nil {
		h.writeInteractionError(w, err)
		return
	}

	items := make([]dto.MatchItemResponse, 0, len(matches))
	for _, m := range matches {
		items = append(items, dto.MatchItemResponse{
			ID:            m.ID,
			UserAID:       m.UserAID,
			UserBID:       m.UserBID,
			CreatedAt:     m.CreatedAt,
			LastMessage:   m.LastMessage,
			LastMessageAt: m.LastMessageAt,
		})
	}
	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: items})
}

func (h *InteractionHandler) ReceivedLikes(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.resolveQueryActor(w, r)
	if !ok {
		return
	}

	likes, err := h.service.ListReceivedLikes(r.Context(), actorID, limitFromRequest(r))
	if err != nil {
		h.writeInteractionError(w, err)
		return
	}

	items := make([]dto.ReceivedLikeResponse, 0, len(likes))
	for _, l := range likes {
		items = append(items, dto.ReceivedLikeResponse{
			SwiperID:  l.SwiperID,
			Message:   l.Message,
			CreatedAt: l.CreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, dto.ReceivedLikesResponse{Items: items})
}

func (h *InteractionHandler) Starred(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.resolveQueryActor(w, r)
	if !ok {
		return
	}

	stars, err := h.service.ListStarred(r.Context(), actorID, limitFromRequest(r))
	if err != nil {
		h.writeInteractionError(w, err)
		return
	}

	items := make([]dto.StarItemResponse, 0, len(stars))
	for _, s := range stars {
		items = append(items, dto.StarItemResponse{
			StarredID: s.StarredID,
			CreatedAt: s.CreatedAt,
		})
	}
	httperrors.Write(w, http.StatusOK, dto.StarsResponse{Items: items})
}

func (h *InteractionHandler) decodeInteraction(w http.ResponseWriter, r *http.Request) (dto.InteractionRequest, string, bool) {
	var req dto.InteractionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return dto.InteractionRequest{}, "", false
	}
	if req.TargetID == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id is required")
		return dto.InteractionRequest{}, "", false
	}

	actorID, ok := resolveActor(w, r, h.auth, req.ActorID)
	if !ok {
		return dto.InteractionRequest{}, "", false
	}
	return req, actorID, true
}

func (h *InteractionHandler) resolveQueryActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	return resolveActor(w, r, h.auth, r.URL.Query().Get("actor_id"))
}

func (h *InteractionHandler) writeInteractionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interactionsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid interaction request")
	default:
		if rl, ok := interactionsvc.IsRateLimited(err); ok {
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "TOO_FAST",
				Message:       "too many like actions, slow down",
				RetryAfterSec: rl.RetryAfterSec,
			})
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to process interaction")
	}
}

// resolveActor maps the auth gate's outcomes onto HTTP statuses: a
// spoofed supplied id is forbidden, a missing identity unauthorized.
func resolveActor(w http.ResponseWriter, r *http.Request, auth *authsvc.Service, suppliedID string) (string, bool) {
	if auth == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return "", false
	}

	actorID, err := auth.ResolveActor(r.Context(), suppliedID)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrIdentityMismatch):
			writeForbidden(w, "IDENTITY_MISMATCH", "supplied actor does not match credential")
		default:
			writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		}
		return "", false
	}
	return actorID, true
}

func limitFromRequest(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 50
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > 200 {
		return 50
	}
	return n
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeConflict(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusConflict, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}
