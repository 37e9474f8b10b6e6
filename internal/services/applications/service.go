// Package applications processes team join applications: applicants
// apply, team admins approve or reject. The approve path spans a
// status flip and a membership insert with no surrounding transaction,
// so it runs as a compensating saga.
package applications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
	pgrepo "github.com/kpramod0/SkillLinkr-sub000/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("applications: validation failed")
	// ErrConflict reports an open (pending or accepted) application
	// already exists for the same team and applicant.
	ErrConflict = errors.New("applications: application already exists")
	// ErrForbidden reports the actor is neither the team creator nor
	// an admin member.
	ErrForbidden = errors.New("applications: insufficient role")
)

// errLostTransition signals inside the approve saga that another
// decision already moved the application out of pending. It never
// escapes Decide.
var errLostTransition = errors.New("applications: lost transition")

// DecideAction is the closed set of decisions on an application.
type DecideAction int

const (
	DecideApprove DecideAction = iota + 1
	DecideReject
)

func (a DecideAction) valid() bool {
	return a == DecideApprove || a == DecideReject
}

type TeamStore interface {
	GetByID(ctx context.Context, teamID string) (model.Team, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, app model.TeamApplication) error
	GetByID(ctx context.Context, id string) (model.TeamApplication, error)
	HasOpenApplication(ctx context.Context, teamID, applicantID string) (bool, error)
	CompareAndTransition(ctx context.Context, id string, expected, next enums.ApplicationStatus) (pgrepo.TransitionOutcome, error)
}

type MembershipStore interface {
	Insert(ctx context.Context, m model.TeamMembership) error
	Upsert(ctx context.Context, m model.TeamMembership) error
	RoleOf(ctx context.Context, teamID, userID string) (enums.MembershipRole, bool, error)
	Exists(ctx context.Context, teamID, userID string) (bool, error)
}

type MatchStore interface {
	Create(ctx context.Context, id, userA, userB string) (pgrepo.TransitionOutcome, error)
	GetByPair(ctx context.Context, userA, userB string) (model.Match, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, recipientID string, ntype enums.NotificationType, title, message string, data map[string]string)
}

type Service struct {
	teamStore        TeamStore
	applicationStore ApplicationStore
	membershipStore  MembershipStore
	matchStore       MatchStore
	notifier         Notifier
	logger           *zap.Logger
	now              func() time.Time
}

type Dependencies struct {
	TeamStore        TeamStore
	ApplicationStore ApplicationStore
	MembershipStore  MembershipStore
	MatchStore       MatchStore
	Notifier         Notifier
	Logger           *zap.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		teamStore:        deps.TeamStore,
		applicationStore: deps.ApplicationStore,
		membershipStore:  deps.MembershipStore,
		matchStore:       deps.MatchStore,
		notifier:         deps.Notifier,
		logger:           logger,
		now:              time.Now,
	}
}

// Apply files a pending application from applicantID to teamID. An
// open application for the same pair is a conflict, not a duplicate.
//
// The duplicate check is a pre-insert read, not a schema constraint,
// so two truly simultaneous applies can both pass it. Decide tolerates
// the resulting extra pending row: only one can win the guarded
// transition for a given id.
func (s *Service) Apply(ctx context.Context, teamID, applicantID, message string) (model.TeamApplication, error) {
	if teamID == "" || applicantID == "" {
		return model.TeamApplication{}, ErrValidation
	}

	team, err := s.teamStore.GetByID(ctx, teamID)
	if err != nil {
		return model.TeamApplication{}, err
	}

	open, err := s.applicationStore.HasOpenApplication(ctx, teamID, applicantID)
	if err != nil {
		return model.TeamApplication{}, fmt.Errorf("check open application: %w", err)
	}
	if open {
		return model.TeamApplication{}, ErrConflict
	}

	app := model.TeamApplication{
		ID:          uuid.NewString(),
		TeamID:      teamID,
		ApplicantID: applicantID,
		Message:     message,
		Status:      enums.ApplicationStatusPending,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.applicationStore.Create(ctx, app); err != nil {
		return model.TeamApplication{}, fmt.Errorf("create application: %w", err)
	}

	s.dispatch(ctx, team.CreatorID, enums.NotificationTypeApplicationReceived,
		"New application", "Someone applied to join your team", map[string]string{
			"application_id": app.ID,
			"team_id":        teamID,
			"applicant_id":   applicantID,
		})

	return app, nil
}

// DecideResult reports the application's status after a decision.
// Idempotent is set when the call applied no side effects because the
// application had already left pending.
type DecideResult struct {
	Status     enums.ApplicationStatus
	Idempotent bool
}

// Decide approves or rejects a pending application. The actor must be
// the team creator or an admin member. Concurrent decisions on the
// same application have at most one winner; losers get an idempotent
// result carrying the settled status.
func (s *Service) Decide(ctx context.Context, actorID, applicationID string, action DecideAction) (DecideResult, error) {
	if actorID == "" || applicationID == "" || !action.valid() {
		return DecideResult{}, ErrValidation
	}

	app, err := s.applicationStore.GetByID(ctx, applicationID)
	if err != nil {
		return DecideResult{}, err
	}
	team, err := s.teamStore.GetByID(ctx, app.TeamID)
	if err != nil {
		return DecideResult{}, err
	}

	if err := s.authorize(ctx, team, actorID); err != nil {
		return DecideResult{}, err
	}

	if app.Status != enums.ApplicationStatusPending {
		return s.settle(ctx, team, app, action)
	}

	switch action {
	case DecideApprove:
		return s.approve(ctx, team, app)
	case DecideReject:
		return s.reject(ctx, app)
	default:
		return DecideResult{}, ErrValidation
	}
}

// authorize admits the team creator or an admin member. A creator
// missing from the membership table (teams created before memberships
// were recorded) gets an admin row upserted on the way through.
func (s *Service) authorize(ctx context.Context, team model.Team, actorID string) error {
	if actorID == team.CreatorID {
		m := model.TeamMembership{
			TeamID:   team.ID,
			UserID:   actorID,
			Role:     enums.MembershipRoleAdmin,
			JoinedAt: s.now().UTC(),
		}
		if err := s.membershipStore.Upsert(ctx, m); err != nil {
			return fmt.Errorf("self-heal creator membership: %w", err)
		}
		return nil
	}

	role, ok, err := s.membershipStore.RoleOf(ctx, team.ID, actorID)
	if err != nil {
		return fmt.Errorf("check membership role: %w", err)
	}
	if !ok || role != enums.MembershipRoleAdmin {
		return ErrForbidden
	}
	return nil
}

// settle handles a decision on an application that already left
// pending. Normally a pure no-op; the one exception is an accepted
// application whose membership insert failed after a process crash,
// which gets repaired here without flipping status again.
func (s *Service) settle(ctx context.Context, team model.Team, app model.TeamApplication, action DecideAction) (DecideResult, error) {
	if app.Status == enums.ApplicationStatusAccepted && action == DecideApprove {
		exists, err := s.membershipStore.Exists(ctx, team.ID, app.ApplicantID)
		if err != nil {
			return DecideResult{}, fmt.Errorf("check membership: %w", err)
		}
		if !exists {
			if err := s.repair(ctx, team, app); err != nil {
				return DecideResult{}, err
			}
		}
	}
	return DecideResult{Status: app.Status, Idempotent: true}, nil
}

// repair finishes the post-accept steps for an application stuck at
// accepted without a membership row. No notifications: the original
// winner already sent them.
func (s *Service) repair(ctx context.Context, team model.Team, app model.TeamApplication) error {
	if err := s.insertMembership(ctx, team.ID, app.ApplicantID); err != nil {
		return err
	}
	if _, _, err := s.ensureMatch(ctx, team.CreatorID, app.ApplicantID); err != nil {
		return err
	}
	return nil
}

func (s *Service) approve(ctx context.Context, team model.Team, app model.TeamApplication) (DecideResult, error) {
	steps := saga{
		logger: s.logger,
		steps: []sagaStep{
			{
				name: "accept-status",
				run: func(ctx context.Context) error {
					outcome, err := s.applicationStore.CompareAndTransition(ctx,
						app.ID, enums.ApplicationStatusPending, enums.ApplicationStatusAccepted)
					if err != nil {
						return err
					}
					if !outcome.Won() {
						return errLostTransition
					}
					return nil
				},
				rollback: func(ctx context.Context) error {
					// Guarded revert: only undoes our own flip.
					_, err := s.applicationStore.CompareAndTransition(ctx,
						app.ID, enums.ApplicationStatusAccepted, enums.ApplicationStatusPending)
					return err
				},
			},
			{
				name: "insert-membership",
				run: func(ctx context.Context) error {
					return s.insertMembership(ctx, team.ID, app.ApplicantID)
				},
			},
		},
	}

	if err := steps.execute(ctx); err != nil {
		if errors.Is(err, errLostTransition) {
			return s.lostDecision(ctx, app.ID)
		}
		return DecideResult{}, err
	}

	// The membership row is committed; from here nothing reverts the
	// accepted status. A match-create failure surfaces as an error but
	// the approval itself stands and is re-driven by the repair path.
	matchID, _, err := s.ensureMatch(ctx, team.CreatorID, app.ApplicantID)
	if err != nil {
		return DecideResult{}, err
	}

	s.dispatch(ctx, app.ApplicantID, enums.NotificationTypeApplicationAccepted,
		"Application accepted", "You joined the team", map[string]string{
			"application_id": app.ID,
			"team_id":        team.ID,
			"match_id":       matchID,
		})
	s.dispatch(ctx, team.CreatorID, enums.NotificationTypeMemberJoined,
		"New member", "An applicant joined your team", map[string]string{
			"application_id": app.ID,
			"team_id":        team.ID,
			"user_id":        app.ApplicantID,
		})

	return DecideResult{Status: enums.ApplicationStatusAccepted}, nil
}

func (s *Service) reject(ctx context.Context, app model.TeamApplication) (DecideResult, error) {
	outcome, err := s.applicationStore.CompareAndTransition(ctx,
		app.ID, enums.ApplicationStatusPending, enums.ApplicationStatusRejected)
	if err != nil {
		return DecideResult{}, fmt.Errorf("reject application: %w", err)
	}
	if !outcome.Won() {
		return s.lostDecision(ctx, app.ID)
	}

	s.dispatch(ctx, app.ApplicantID, enums.NotificationTypeApplicationRejected,
		"Application rejected", "Your application was not accepted", map[string]string{
			"application_id": app.ID,
			"team_id":        app.TeamID,
		})

	return DecideResult{Status: enums.ApplicationStatusRejected}, nil
}

// lostDecision reloads the application after losing a guarded
// transition so the caller sees the status the winner settled on.
func (s *Service) lostDecision(ctx context.Context, applicationID string) (DecideResult, error) {
	current, err := s.applicationStore.GetByID(ctx, applicationID)
	if err != nil {
		return DecideResult{}, err
	}
	return DecideResult{Status: current.Status, Idempotent: true}, nil
}

// insertMembership adds the applicant as a plain member. A duplicate
// key means the row exists via another path and counts as success.
func (s *Service) insertMembership(ctx context.Context, teamID, userID string) error {
	m := model.TeamMembership{
		TeamID:   teamID,
		UserID:   userID,
		Role:     enums.MembershipRoleMember,
		JoinedAt: s.now().UTC(),
	}
	err := s.membershipStore.Insert(ctx, m)
	if err != nil && !pgrepo.IsUniqueViolation(err) {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// ensureMatch opens a DM channel between owner and applicant,
// independent of the swipe pathway. Pre-check plus insert-if-absent
// keeps it to one match per pair.
func (s *Service) ensureMatch(ctx context.Context, ownerID, applicantID string) (string, bool, error) {
	existing, err := s.matchStore.GetByPair(ctx, ownerID, applicantID)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, pgrepo.ErrMatchNotFound) {
		return "", false, fmt.Errorf("get match: %w", err)
	}

	matchID := fmt.Sprintf("match_%d", s.now().UnixMilli())
	outcome, err := s.matchStore.Create(ctx, matchID, ownerID, applicantID)
	if err != nil {
		return "", false, fmt.Errorf("create match: %w", err)
	}
	if outcome.Won() {
		return matchID, true, nil
	}

	winner, err := s.matchStore.GetByPair(ctx, ownerID, applicantID)
	if err != nil {
		return "", false, fmt.Errorf("get winning match: %w", err)
	}
	return winner.ID, false, nil
}

func (s *Service) dispatch(ctx context.Context, recipientID string, ntype enums.NotificationType, title, message string, data map[string]string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Dispatch(ctx, recipientID, ntype, title, message, data)
}
