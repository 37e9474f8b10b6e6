package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
	pgrepo "github.com/kpramod0/SkillLinkr-sub000/internal/repo/postgres"
	applicationsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/applications"
	authsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/auth"
)

type appTeamStoreStub struct {
	teams map[string]model.Team
}

func (s *appTeamStoreStub) GetByID(_ context.Context, teamID string) (model.Team, error) {
	if t, ok := s.teams[teamID]; ok {
		return t, nil
	}
	return model.Team{}, pgrepo.ErrTeamNotFound
}

type appStoreStub struct {
	rows map[string]model.TeamApplication
}

func (s *appStoreStub) Create(_ context.Context, app model.TeamApplication) error {
	s.rows[app.ID] = app
	return nil
}

func (s *appStoreStub) GetByID(_ context.Context, id string) (model.TeamApplication, error) {
	if app, ok := s.rows[id]; ok {
		return app, nil
	}
	return model.TeamApplication{}, pgrepo.ErrApplicationNotFound
}

func (s *appStoreStub) HasOpenApplication(_ context.Context, teamID, applicantID string) (bool, error) {
	for _, app := range s.rows {
		if app.TeamID == teamID && app.ApplicantID == applicantID &&
			app.Status != enums.ApplicationStatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (s *appStoreStub) CompareAndTransition(_ context.Context, id string, expected, next enums.ApplicationStatus) (pgrepo.TransitionOutcome, error) {
	app, ok := s.rows[id]
	if !ok || app.Status != expected {
		return pgrepo.TransitionLostToConcurrent, nil
	}
	app.Status = next
	s.rows[id] = app
	return pgrepo.TransitionWon, nil
}

type appMembershipStoreStub struct {
	rows map[string]enums.MembershipRole
}

func (s *appMembershipStoreStub) Insert(_ context.Context, m model.TeamMembership) error {
	s.rows[m.TeamID+"|"+m.UserID] = m.Role
	return nil
}

func (s *appMembershipStoreStub) Upsert(_ context.Context, m model.TeamMembership) error {
	s.rows[m.TeamID+"|"+m.UserID] = m.Role
	return nil
}

func (s *appMembershipStoreStub) RoleOf(_ context.Context, teamID, userID string) (enums.MembershipRole, bool, error) {
	role, ok := s.rows[teamID+"|"+userID]
	return role, ok, nil
}

func (s *appMembershipStoreStub) Exists(_ context.Context, teamID, userID string) (bool, error) {
	_, ok := s.rows[teamID+"|"+userID]
	return ok, nil
}

func newApplicationHandler(t *testing.T) (*ApplicationHandler, *appStoreStub) {
	t.Helper()
	applications := &appStoreStub{rows: map[string]model.TeamApplication{}}
	svc := applicationsvc.NewService(applicationsvc.Dependencies{
		TeamStore: &appTeamStoreStub{teams: map[string]model.Team{
			"team-1": {ID: "team-1", Name: "Backend Crew", CreatorID: "owner@x"},
		}},
		ApplicationStore: applications,
		MembershipStore:  &appMembershipStoreStub{rows: map[string]enums.MembershipRole{}},
		MatchStore:       newMatchStoreStub(),
		Notifier:         notifierStub{},
	})
	auth := authsvc.NewService(authsvc.NewJWTManager("test-secret", time.Minute), true)
	return NewApplicationHandler(svc, auth), applications
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestApplyOverHTTP(t *testing.T) {
	h, _ := newApplicationHandler(t)

	req := postJSON(t, "/teams/team-1/applications", map[string]any{
		"actor_id": "alice@x",
		"message":  "let me in",
	})
	req = withURLParam(req, "teamID", "team-1")
	rr := httptest.NewRecorder()
	h.Apply(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var payload struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.ID == "" || payload.Status != "pending" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestApplyDuplicateReturnsConflict(t *testing.T) {
	h, _ := newApplicationHandler(t)

	first := postJSON(t, "/teams/team-1/applications", map[string]any{"actor_id": "alice@x"})
	first = withURLParam(first, "teamID", "team-1")
	rr := httptest.NewRecorder()
	h.Apply(rr, first)
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed apply status: %d", rr.Code)
	}

	second := postJSON(t, "/teams/team-1/applications", map[string]any{"actor_id": "alice@x"})
	second = withURLParam(second, "teamID", "team-1")
	rr = httptest.NewRecorder()
	h.Apply(rr, second)

	if rr.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusConflict)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "APPLICATION_EXISTS" {
		t.Fatalf("unexpected error code: %q", payload.Code)
	}
}

func TestApplyUnknownTeamReturns404(t *testing.T) {
	h, _ := newApplicationHandler(t)

	req := postJSON(t, "/teams/ghost/applications", map[string]any{"actor_id": "alice@x"})
	req = withURLParam(req, "teamID", "ghost")
	rr := httptest.NewRecorder()
	h.Apply(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDecideApproveOverHTTP(t *testing.T) {
	h, applications := newApplicationHandler(t)
	applications.rows["app-1"] = model.TeamApplication{
		ID:          "app-1",
		TeamID:      "team-1",
		ApplicantID: "alice@x",
		Status:      enums.ApplicationStatusPending,
	}

	req := postJSON(t, "/applications/app-1/decide", map[string]any{
		"actor_id": "owner@x",
		"action":   "approve",
	})
	req = withURLParam(req, "applicationID", "app-1")
	rr := httptest.NewRecorder()
	h.Decide(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var payload struct {
		Success    bool   `json:"success"`
		Status     string `json:"status"`
		Idempotent bool   `json:"idempotent"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.Status != "accepted" || payload.Idempotent {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecideRejectsNonAdmin(t *testing.T) {
	h, applications := newApplicationHandler(t)
	applications.rows["app-1"] = model.TeamApplication{
		ID:          "app-1",
		TeamID:      "team-1",
		ApplicantID: "alice@x",
		Status:      enums.ApplicationStatusPending,
	}

	req := postJSON(t, "/applications/app-1/decide", map[string]any{
		"actor_id": "stranger@z",
		"action":   "approve",
	})
	req = withURLParam(req, "applicationID", "app-1")
	rr := httptest.NewRecorder()
	h.Decide(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}
}

func TestDecideRejectsUnknownAction(t *testing.T) {
	h, _ := newApplicationHandler(t)

	req := postJSON(t, "/applications/app-1/decide", map[string]any{
		"actor_id": "owner@x",
		"action":   "maybe",
	})
	req = withURLParam(req, "applicationID", "app-1")
	rr := httptest.NewRecorder()
	h.Decide(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}
