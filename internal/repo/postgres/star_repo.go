package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
)

type StarRepo struct {
	pool *pgxpool.Pool
}

func NewStarRepo(pool *pgxpool.Pool) *StarRepo {
	return &StarRepo{pool: pool}
}

func (r *StarRepo) Add(ctx context.Context, userID, starredID string) error {
	if userID == "" || starredID == "" {
		return fmt.Errorf("invalid star payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO stars (
	user_id,
	starred_id,
	created_at
) VALUES ($1, $2, NOW())
ON CONFLICT (user_id, starred_id) DO NOTHING
`, userID, starredID); err != nil {
		return fmt.Errorf("add star: %w", err)
	}

	return nil
}

func (r *StarRepo) Remove(ctx context.Context, userID, starredID string) error {
	if userID == "" || starredID == "" {
		return fmt.Errorf("invalid star delete payload")
	}

	if _, err := r.pool.Exec(ctx, `
DELETE FROM stars
WHERE user_id = $1 AND starred_id = $2
`, userID, starredID); err != nil {
		return fmt.Errorf("remove star: %w", err)
	}

	return nil
}

func (r *StarRepo) ListForUser(ctx context.Context, userID string, limit int) ([]model.Star, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT user_id, starred_id, created_at
FROM stars
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stars: %w", err)
	}
	defer rows.Close()

	items := make([]model.Star, 0, limit)
	for rows.Next() {
		var item model.Star
		if err := rows.Scan(&item.UserID, &item.StarredID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan star: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate stars: %w", rows.Err())
	}

	return items, nil
}
