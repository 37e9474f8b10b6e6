package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

func (r *ApplicationRepo) Create(ctx context.Context, app model.TeamApplication) error {
	if app.ID == "" || app.TeamID == "" || app.ApplicantID == "" {
		return fmt.Errorf("invalid application payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO team_applications (
	id,
	team_id,
	applicant_id,
	message,
	status,
	created_at
) VALUES ($1, $2, $3, $4, $5, NOW())
`, app.ID, app.TeamID, app.ApplicantID, app.Message, string(app.Status)); err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	return nil
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (model.TeamApplication, error) {
	if id == "" {
		return model.TeamApplication{}, fmt.Errorf("invalid application id")
	}

	var (
		app    model.TeamApplication
		status string
	)
	err := r.pool.QueryRow(ctx, `
SELECT id, team_id, applicant_id, COALESCE(message, ''), status, created_at
FROM team_applications
WHERE id = $1
`, id).Scan(&app.ID, &app.TeamID, &app.ApplicantID, &app.Message, &status, &app.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TeamApplication{}, ErrApplicationNotFound
		}
		return model.TeamApplication{}, fmt.Errorf("get application: %w", err)
	}
	app.Status = enums.ApplicationStatus(status)

	return app, nil
}

// HasOpenApplication reports whether a pending or accepted application
// already exists for the pair. Duplicate prevention is this pre-insert
// check; the schema is assumed to also carry a uniqueness constraint on
// (team_id, applicant_id) but the engine does not depend on it.
func (r *ApplicationRepo) HasOpenApplication(ctx context.Context, teamID, applicantID string) (bool, error) {
	if teamID == "" || applicantID == "" {
		return false, fmt.Errorf("invalid application lookup payload")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM team_applications
WHERE team_id = $1 AND applicant_id = $2 AND status IN ($3, $4)
LIMIT 1
`, teamID, applicantID, string(enums.ApplicationStatusPending), string(enums.ApplicationStatusAccepted)).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup open application: %w", err)
	}

	return true, nil
}

// CompareAndTransition flips the application status only if the row is
// still in the expected state. Zero rows affected means a concurrent
// decision already moved it.
func (r *ApplicationRepo) CompareAndTransition(ctx context.Context, id string, expected, next enums.ApplicationStatus) (TransitionOutcome, error) {
	if id == "" || expected == next {
		return TransitionLostToConcurrent, fmt.Errorf("invalid transition payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE team_applications
SET status = $1
WHERE id = $2 AND status = $3
`, string(next), id, string(expected))
	if err != nil {
		return TransitionLostToConcurrent, fmt.Errorf("transition application %s->%s: %w", expected, next, err)
	}

	if result.RowsAffected() == 0 {
		return TransitionLostToConcurrent, nil
	}
	return TransitionWon, nil
}
