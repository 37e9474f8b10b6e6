package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
)

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// Upsert records a directional swipe. Resubmitting the same direction
// overwrites the previous action and message.
func (r *SwipeRepo) Upsert(ctx context.Context, swiperID, targetID string, action enums.SwipeAction, message string) error {
	if swiperID == "" || targetID == "" {
		return fmt.Errorf("invalid swipe payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO swipes (
	swiper_id,
	target_id,
	action,
	message,
	created_at
) VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (swiper_id, target_id) DO UPDATE SET
	action = EXCLUDED.action,
	message = EXCLUDED.message,
	created_at = NOW()
`, swiperID, targetID, string(action), message); err != nil {
		return fmt.Errorf("upsert swipe: %w", err)
	}

	return nil
}

// HasLike reports whether swiperID has an active like pointed at targetID.
func (r *SwipeRepo) HasLike(ctx context.Context, swiperID, targetID string) (bool, error) {
	if swiperID == "" || targetID == "" {
		return false, fmt.Errorf("invalid swipe lookup payload")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM swipes
WHERE swiper_id = $1 AND target_id = $2 AND action = $3
LIMIT 1
`, swiperID, targetID, string(enums.SwipeActionLike)).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup like: %w", err)
	}

	return true, nil
}

func (r *SwipeRepo) Delete(ctx context.Context, swiperID, targetID string) error {
	if swiperID == "" || targetID == "" {
		return fmt.Errorf("invalid swipe delete payload")
	}

	if _, err := r.pool.Exec(ctx, `
DELETE FROM swipes
WHERE swiper_id = $1 AND target_id = $2
`, swiperID, targetID); err != nil {
		return fmt.Errorf("delete swipe: %w", err)
	}

	return nil
}

// ListReceivedLikes returns the like swipes pointed at userID, newest first.
func (r *SwipeRepo) ListReceivedLikes(ctx context.Context, userID string, limit int) ([]model.Swipe, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT swiper_id, target_id, action, COALESCE(message, ''), created_at
FROM swipes
WHERE target_id = $1 AND action = $2
ORDER BY created_at DESC
LIMIT $3
`, userID, string(enums.SwipeActionLike), limit)
	if err != nil {
		return nil, fmt.Errorf("list received likes: %w", err)
	}
	defer rows.Close()

	items := make([]model.Swipe, 0, limit)
	for rows.Next() {
		var (
			item   model.Swipe
			action string
			at     time.Time
		)
		if err := rows.Scan(&item.SwiperID, &item.TargetID, &action, &item.Message, &at); err != nil {
			return nil, fmt.Errorf("scan received like: %w", err)
		}
		item.Action = enums.SwipeAction(action)
		item.CreatedAt = at
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate received likes: %w", rows.Err())
	}

	return items, nil
}
