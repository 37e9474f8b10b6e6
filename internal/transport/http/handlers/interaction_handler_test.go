package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
	pgrepo "github.com/kpramod0/SkillLinkr-sub000/internal/repo/postgres"
	authsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/auth"
	interactionsvc "github.com/kpramod0/SkillLinkr-sub000/internal/services/interactions"
)

type swipeStoreStub struct {
	rows map[string]enums.SwipeAction
}

func newSwipeStoreStub() *swipeStoreStub {
	return &swipeStoreStub{rows: map[string]enums.SwipeAction{}}
}

func (s *swipeStoreStub) Upsert(_ context.Context, swiperID, targetID string, action enums.SwipeAction, _ string) error {
	s.rows[swiperID+"|"+targetID] = action
	return nil
}

func (s *swipeStoreStub) HasLike(_ context.Context, swiperID, targetID string) (bool, error) {
	return s.rows[swiperID+"|"+targetID] == enums.SwipeActionLike, nil
}

func (s *swipeStoreStub) Delete(_ context.Context, swiperID, targetID string) error {
	delete(s.rows, swiperID+"|"+targetID)
	return nil
}

func (s *swipeStoreStub) ListReceivedLikes(context.Context, string, int) ([]model.Swipe, error) {
	return nil, nil
}

type matchStoreStub struct {
	rows map[string]model.Match
}

func newMatchStoreStub() *matchStoreStub {
	return &matchStoreStub{rows: map[string]model.Match{}}
}

func (s *matchStoreStub) Create(_ context.Context, id, userA, userB string) (pgrepo.TransitionOutcome, error) {
	a, b := model.NormalizePair(userA, userB)
	if _, ok := s.rows[a+"|"+b]; ok {
		return pgrepo.TransitionLostToConcurrent, nil
	}
	s.rows[a+"|"+b] = model.Match{ID: id, UserAID: a, UserBID: b}
	return pgrepo.TransitionWon, nil
}

func (s *matchStoreStub) GetByPair(_ context.Context, userA, userB string) (model.Match, error) {
	a, b := model.NormalizePair(userA, userB)
	if m, ok := s.rows[a+"|"+b]; ok {
		return m, nil
	}
	return model.Match{}, pgrepo.ErrMatchNotFound
}

func (s *matchStoreStub) DeleteByPair(_ context.Context, userA, userB string) (bool, error) {
	a, b := model.NormalizePair(userA, userB)
	_, ok := s.rows[a+"|"+b]
	delete(s.rows, a+"|"+b)
	return ok, nil
}

func (s *matchStoreStub) ListForUser(context.Context, string, int) ([]model.Match, error) {
	var items []model.Match
	for _, m := range s.rows {
		items = append(items, m)
	}
	return items, nil
}

type starStoreStub struct{}

func (starStoreStub) Add(context.Context, string, string) error    { return nil }
func (starStoreStub) Remove(context.Context, string, string) error { return nil }
func (starStoreStub) ListForUser(context.Context, string, int) ([]model.Star, error) {
	return nil, nil
}

type notifierStub struct{}

func (notifierStub) Dispatch(context.Context, string, enums.NotificationType, string, string, map[string]string) {
}

type deniedLimiter struct{}

func (deniedLimiter) AllowLike(context.Context, string) (int64, bool, error) {
	return 42, false, nil
}

func newInteractionHandler(t *testing.T, legacyActorParam bool, limiter interactionsvc.RateLimiter) *InteractionHandler {
	t.Helper()
	svc := interactionsvc.NewService(interactionsvc.Dependencies{
		SwipeStore:  newSwipeStoreStub(),
		MatchStore:  newMatchStoreStub(),
		StarStore:   starStoreStub{},
		Notifier:    notifierStub{},
		RateLimiter: limiter,
	})
	auth := authsvc.NewService(authsvc.NewJWTManager("test-secret", time.Minute), legacyActorParam)
	return NewInteractionHandler(svc, auth)
}

func postJSON(t *testing.T, path string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	return httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
}

func TestLikeLegacyActorParam(t *testing.T) {
	h := newInteractionHandler(t, true, nil)

	req := postJSON(t, "/interactions/like", map[string]any{
		"actor_id":  "alice@x",
		"target_id": "bob@y",
	})
	rr := httptest.NewRecorder()
	h.Like(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var payload struct {
		Success bool `json:"success"`
		Matched bool `json:"matched"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.Matched {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestLikeRejectsSpoofedActor(t *testing.T) {
	h := newInteractionHandler(t, true, nil)

	req := postJSON(t, "/interactions/like", map[string]any{
		"actor_id":  "mallory@z",
		"target_id": "bob@y",
	})
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: "alice@x",
		Role:   "user",
	}))
	rr := httptest.NewRecorder()
	h.Like(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "IDENTITY_MISMATCH" {
		t.Fatalf("unexpected error code: %q", payload.Code)
	}
}

func TestLikeRequiresIdentityWhenLegacyModeOff(t *testing.T) {
	h := newInteractionHandler(t, false, nil)

	req := postJSON(t, "/interactions/like", map[string]any{
		"actor_id":  "alice@x",
		"target_id": "bob@y",
	})
	rr := httptest.NewRecorder()
	h.Like(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLikeRateLimitedReturns429(t *testing.T) {
	h := newInteractionHandler(t, true, deniedLimiter{})

	req := postJSON(t, "/interactions/like", map[string]any{
		"actor_id":  "alice@x",
		"target_id": "bob@y",
	})
	rr := httptest.NewRecorder()
	h.Like(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}

	var payload struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "TOO_FAST" || payload.RetryAfterSec != 42 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestLikeValidatesTargetID(t *testing.T) {
	h := newInteractionHandler(t, true, nil)

	req := postJSON(t, "/interactions/like", map[string]any{
		"actor_id": "alice@x",
	})
	rr := httptest.NewRecorder()
	h.Like(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestMutualLikeOverHTTP(t *testing.T) {
	h := newInteractionHandler(t, true, nil)

	first := httptest.NewRecorder()
	h.Like(first, postJSON(t, "/interactions/like", map[string]any{
		"actor_id":  "alice@x",
		"target_id": "bob@y",
	}))
	if first.Code != http.StatusOK {
		t.Fatalf("first like status: %d", first.Code)
	}

	second := httptest.NewRecorder()
	h.Like(second, postJSON(t, "/interactions/like", map[string]any{
		"actor_id":  "bob@y",
		"target_id": "alice@x",
	}))
	if second.Code != http.StatusOK {
		t.Fatalf("second like status: %d", second.Code)
	}

	var payload struct {
		Matched bool   `json:"matched"`
		MatchID string `json:"match_id"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Matched || payload.MatchID == "" {
		t.Fatalf("expected match on reciprocal like, got %+v", payload)
	}
}
