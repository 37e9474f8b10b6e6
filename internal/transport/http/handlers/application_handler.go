package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/kpramod0/SkillLinkr-sub000/internal/repo/postgres"
	applicationsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/applications"
	authsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/auth"
	"github.com/kpramod0/SkillLinkr-sub000/internal/transport/http/dto"
	httperrors "github.com/kpramod0/SkillLinkr-sub000/internal/transport/http/errors"
)

type ApplicationHandler struct {
	service *applicationsvc.Service
	auth    *authsvc.Service
}

func NewApplicationHandler(service *applicationsvc.Service, auth *authsvc.Service) *ApplicationHandler {
	return &ApplicationHandler{service: service, auth: auth}
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	if teamID == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "team id is required")
		return
	}

	var req dto.ApplyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	actorID, ok := resolveActor(w, r, h.auth, req.ActorID)
	if !ok {
		return
	}

	app, err := h.service.Apply(r.Context(), teamID, actorID, req.Message)
	if err != nil {
		h.writeApplicationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.ApplicationResponse{
		Success:     true,
		ID:          app.ID,
		TeamID:      app.TeamID,
		ApplicantID: app.ApplicantID,
		Status:      string(app.Status),
		CreatedAt:   app.CreatedAt,
	})
}

func (h *ApplicationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	applicationID := chi.URLParam(r, "applicationID")
	if applicationID == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "application id is required")
		return
	}

	var req dto.DecideRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	action, ok := decideActionFromString(req.Action)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "action must be approve or reject")
		return
	}

	actorID, ok := resolveActor(w, r, h.auth, req.ActorID)
	if !ok {
		return
	}

	result, err := h.service.Decide(r.Context(), actorID, applicationID, action)
	if err != nil {
		h.writeApplicationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DecideResponse{
		Success:    true,
		Status:     string(result.Status),
		Idempotent: result.Idempotent,
	})
}

// decideActionFromString is the only place the wire-level action verb
// is interpreted; past this point the action is a closed enum.
func decideActionFromString(s string) (applicationsvc.DecideAction, bool) {
	switch s {
	case "approve":
		return applicationsvc.DecideApprove, true
	case "reject":
		return applicationsvc.DecideReject, true
	default:
		return 0, false
	}
}

func (h *ApplicationHandler) writeApplicationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, applicationsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid application request")
	case errors.Is(err, applicationsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "team admin role required")
	case errors.Is(err, applicationsvc.ErrConflict):
		writeConflict(w, "APPLICATION_EXISTS", "an open application already exists")
	case errors.Is(err, pgrepo.ErrTeamNotFound):
		writeNotFound(w, "TEAM_NOT_FOUND", "team not found")
	case errors.Is(err, pgrepo.ErrApplicationNotFound):
		writeNotFound(w, "APPLICATION_NOT_FOUND", "application not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process application")
	}
}
