package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// Create inserts the match row for a user pair. The pair is normalized
// before insert so both directions key the same row; losing the unique
// key race is reported as TransitionLostToConcurrent, not an error.
func (r *MatchRepo) Create(ctx context.Context, id, userA, userB string) (TransitionOutcome, error) {
	if id == "" || userA == "" || userB == "" {
		return TransitionLostToConcurrent, fmt.Errorf("invalid match payload")
	}

	a, b := model.NormalizePair(userA, userB)

	var insertedID string
	err := r.pool.QueryRow(ctx, `
INSERT INTO matches (
	id,
	user_a_id,
	user_b_id,
	created_at
) VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING id
`, id, a, b).Scan(&insertedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TransitionLostToConcurrent, nil
		}
		return TransitionLostToConcurrent, fmt.Errorf("create match: %w", err)
	}

	return TransitionWon, nil
}

// GetByPair returns the match for the unordered pair, or ErrMatchNotFound.
func (r *MatchRepo) GetByPair(ctx context.Context, userA, userB string) (model.Match, error) {
	if userA == "" || userB == "" {
		return model.Match{}, fmt.Errorf("invalid match lookup payload")
	}

	a, b := model.NormalizePair(userA, userB)

	var (
		m      model.Match
		lastAt *time.Time
	)
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, created_at, COALESCE(last_message, ''), last_message_at
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2
`, a, b).Scan(&m.ID, &m.UserAID, &m.UserBID, &m.CreatedAt, &m.LastMessage, &lastAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match by pair: %w", err)
	}
	m.LastMessageAt = lastAt

	return m, nil
}

func (r *MatchRepo) DeleteByPair(ctx context.Context, userA, userB string) (bool, error) {
	if userA == "" || userB == "" {
		return false, fmt.Errorf("invalid match delete payload")
	}

	a, b := model.NormalizePair(userA, userB)

	result, err := r.pool.Exec(ctx, `
DELETE FROM matches
WHERE user_a_id = $1 AND user_b_id = $2
`, a, b)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListForUser returns the matches userID participates in, newest first.
func (r *MatchRepo) ListForUser(ctx context.Context, userID string, limit int) ([]model.Match, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_a_id, user_b_id, created_at, COALESCE(last_message, ''), last_message_at
FROM matches
WHERE user_a_id = $1 OR user_b_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]model.Match, 0, limit)
	for rows.Next() {
		var (
			m      model.Match
			lastAt *time.Time
		)
		if err := rows.Scan(&m.ID, &m.UserAID, &m.UserBID, &m.CreatedAt, &m.LastMessage, &lastAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.LastMessageAt = lastAt
		items = append(items, m)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}
