package interactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
	pgrepo "github.com/kpramod0/SkillLinkr-sub000/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

// RateLimitedError is returned when the like limiter denies an action.
type RateLimitedError struct {
	RetryAfterSec int64
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfterSec)
}

func IsRateLimited(err error) (RateLimitedError, bool) {
	var rl RateLimitedError
	if errors.As(err, &rl) {
		return rl, true
	}
	return RateLimitedError{}, false
}

type SwipeStore interface {
	Upsert(ctx context.Context, swiperID, targetID string, action enums.SwipeAction, message string) error
	HasLike(ctx context.Context, swiperID, targetID string) (bool, error)
	Delete(ctx context.Context, swiperID, targetID string) error
	ListReceivedLikes(ctx context.Context, userID string, limit int) ([]model.Swipe, error)
}

type MatchStore interface {
	Create(ctx context.Context, id, userA, userB string) (pgrepo.TransitionOutcome, error)
	GetByPair(ctx context.Context, userA, userB string) (model.Match, error)
	DeleteByPair(ctx context.Context, userA, userB string) (bool, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]model.Match, error)
}

type StarStore interface {
	Add(ctx context.Context, userID, starredID string) error
	Remove(ctx context.Context, userID, starredID string) error
	ListForUser(ctx context.Context, userID string, limit int) ([]model.Star, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, recipientID string, ntype enums.NotificationType, title, message string, data map[string]string)
}

type RateLimiter interface {
	AllowLike(ctx context.Context, actorID string) (int64, bool, error)
}

type Service struct {
	swipeStore  SwipeStore
	matchStore  MatchStore
	starStore   StarStore
	notifier    Notifier
	rateLimiter RateLimiter
	now         func() time.Time
}

type Dependencies struct {
	SwipeStore  SwipeStore
	MatchStore  MatchStore
	StarStore   StarStore
	Notifier    Notifier
	RateLimiter RateLimiter
}

func NewService(deps Dependencies) *Service {
	return &Service{
		swipeStore:  deps.SwipeStore,
		matchStore:  deps.MatchStore,
		starStore:   deps.StarStore,
		notifier:    deps.Notifier,
		rateLimiter: deps.RateLimiter,
		now:         time.Now,
	}
}

type LikeResult struct {
	Matched bool
	MatchID string
}

// Like records the actor's swipe and detects reciprocity. The actor's
// own swipe is committed before the reverse direction is read: two users
// liking each other in the same instant then cannot both observe "no
// mutual like yet" — whoever runs second sees the first's committed row.
func (s *Service) Like(ctx context.Context, actorID, targetID, message string) (LikeResult, error) {
	if actorID == "" || targetID == "" || actorID == targetID {
		return LikeResult{}, ErrValidation
	}
	if s.swipeStore == nil || s.matchStore == nil {
		return LikeResult{}, fmt.Errorf("interaction dependencies are not configured")
	}

	if s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowLike(ctx, actorID)
		if err != nil {
			return LikeResult{}, fmt.Errorf("apply like rate limiter: %w", err)
		}
		if !allowed {
			return LikeResult{}, RateLimitedError{RetryAfterSec: retryAfter}
		}
	}

	if err := s.swipeStore.Upsert(ctx, actorID, targetID, enums.SwipeActionLike, message); err != nil {
		return LikeResult{}, err
	}

	reciprocal, err := s.swipeStore.HasLike(ctx, targetID, actorID)
	if err != nil {
		return LikeResult{}, err
	}

	if !reciprocal {
		s.dispatch(ctx, targetID, enums.NotificationTypeLikeReceived,
			"Someone is interested in you",
			message,
			map[string]string{"from": actorID},
		)
		return LikeResult{Matched: false}, nil
	}

	matchID, created, err := s.ensureMatch(ctx, actorID, targetID)
	if err != nil {
		return LikeResult{}, err
	}
	if !created {
		// Idempotent no-op: the match already exists, either from a
		// resubmitted like, a race winner, or the team-application path.
		return LikeResult{Matched: true, MatchID: matchID}, nil
	}

	data := map[string]string{"match_id": matchID}
	s.dispatch(ctx, actorID, enums.NotificationTypeMatchCreated,
		"It's a match!",
		fmt.Sprintf("You and %s are now connected", targetID),
		data,
	)
	s.dispatch(ctx, targetID, enums.NotificationTypeMatchCreated,
		"It's a match!",
		fmt.Sprintf("You and %s are now connected", actorID),
		data,
	)

	return LikeResult{Matched: true, MatchID: matchID}, nil
}

func (s *Service) dispatch(ctx context.Context, recipientID string, ntype enums.NotificationType, title, message string, data map[string]string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Dispatch(ctx, recipientID, ntype, title, message, data)
}

// ensureMatch returns the match id for the pair, creating the row if
// needed. A pre-check catches matches that already exist through the
// team-application path; losing the insert race falls back to re-reading
// the winner's row. created is true only for the caller that actually
// inserted the row, so match notifications fire exactly once per pair.
func (s *Service) ensureMatch(ctx context.Context, userA, userB string) (string, bool, error) {
	existing, err := s.matchStore.GetByPair(ctx, userA, userB)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, pgrepo.ErrMatchNotFound) {
		return "", false, err
	}

	id := fmt.Sprintf("match_%d", s.now().UnixMilli())
	outcome, err := s.matchStore.Create(ctx, id, userA, userB)
	if err != nil {
		return "", false, err
	}
	if outcome.Won() {
		return id, true, nil
	}

	winner, err := s.matchStore.GetByPair(ctx, userA, userB)
	if err != nil {
		return "", false, fmt.Errorf("read concurrent match: %w", err)
	}
	return winner.ID, false, nil
}

func (s *Service) Pass(ctx context.Context, actorID, targetID string) error {
	if actorID == "" || targetID == "" || actorID == targetID {
		return ErrValidation
	}
	if s.swipeStore == nil {
		return fmt.Errorf("swipe store is nil")
	}

	return s.swipeStore.Upsert(ctx, actorID, targetID, enums.SwipeActionPass, "")
}

func (s *Service) Star(ctx context.Context, actorID, targetID string) error {
	if actorID == "" || targetID == "" || actorID == targetID {
		return ErrValidation
	}
	if s.starStore == nil {
		return fmt.Errorf("star store is nil")
	}

	return s.starStore.Add(ctx, actorID, targetID)
}

func (s *Service) Unstar(ctx context.Context, actorID, targetID string) error {
	if actorID == "" || targetID == "" || actorID == targetID {
		return ErrValidation
	}
	if s.starStore == nil {
		return fmt.Errorf("star store is nil")
	}

	return s.starStore.Remove(ctx, actorID, targetID)
}

// Unmatch deletes the match row and both swipe directions so the pair
// can interact fresh. The three deletes are independently retryable
// best-effort operations: a failure on one never blocks the others, and
// every partial outcome is safe to re-drive.
func (s *Service) Unmatch(ctx context.Context, actorID, targetID string) error {
	if actorID == "" || targetID == "" || actorID == targetID {
		return ErrValidation
	}
	if s.swipeStore == nil || s.matchStore == nil {
		return fmt.Errorf("interaction dependencies are not configured")
	}

	var errs []error
	if _, err := s.matchStore.DeleteByPair(ctx, actorID, targetID); err != nil {
		errs = append(errs, fmt.Errorf("delete match: %w", err))
	}
	if err := s.swipeStore.Delete(ctx, actorID, targetID); err != nil {
		errs = append(errs, fmt.Errorf("delete swipe %s->%s: %w", actorID, targetID, err))
	}
	if err := s.swipeStore.Delete(ctx, targetID, actorID); err != nil {
		errs = append(errs, fmt.Errorf("delete swipe %s->%s: %w", targetID, actorID, err))
	}

	return errors.Join(errs...)
}

func (s *Service) ListMatches(ctx context.Context, userID string, limit int) ([]model.Match, error) {
	if userID == "" {
		return nil, ErrValidation
	}
	if s.matchStore == nil {
		return nil, fmt.Errorf("match store is nil")
	}
	return s.matchStore.ListForUser(ctx, userID, limit)
}

func (s *Service) ListReceivedLikes(ctx context.Context, userID string, limit int) ([]model.Swipe, error) {
	if userID == "" {
		return nil, ErrValidation
	}
	if s.swipeStore == nil {
		return nil, fmt.Errorf("swipe store is nil")
	}
	return s.swipeStore.ListReceivedLikes(ctx, userID, limit)
}

func (s *Service) ListStarred(ctx context.Context, userID string, limit int) ([]model.Star, error) {
	if userID == "" {
		return nil, ErrValidation
	}
	if s.starStore == nil {
		return nil, fmt.Errorf("star store is nil")
	}
	return s.starStore.ListForUser(ctx, userID, limit)
}
