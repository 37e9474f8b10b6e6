package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Insert(ctx context.Context, n model.Notification) error {
	if n.ID == "" || n.UserID == "" || n.Type == "" {
		return fmt.Errorf("invalid notification payload")
	}

	data := []byte("{}")
	if len(n.Data) > 0 {
		encoded, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("encode notification data: %w", err)
		}
		data = encoded
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO notifications (
	id,
	user_id,
	type,
	title,
	message,
	data,
	is_read,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())
`, n.ID, n.UserID, string(n.Type), n.Title, n.Message, data); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, type, title, message, data, is_read, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	items := make([]model.Notification, 0, limit)
	for rows.Next() {
		var (
			n     model.Notification
			ntype string
			data  []byte
		)
		if err := rows.Scan(&n.ID, &n.UserID, &ntype, &n.Title, &n.Message, &data, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = enums.NotificationType(ntype)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				return nil, fmt.Errorf("decode notification data: %w", err)
			}
		}
		items = append(items, n)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate notifications: %w", rows.Err())
	}

	return items, nil
}

// MarkRead flips is_read for the owner's notification; false when the row
// does not exist or belongs to someone else.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	if id == "" || userID == "" {
		return false, fmt.Errorf("invalid mark-read payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE notifications
SET is_read = TRUE
WHERE id = $1 AND user_id = $2
`, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
