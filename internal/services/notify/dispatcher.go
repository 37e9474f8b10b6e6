package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
)

type NotificationStore interface {
	Insert(ctx context.Context, n model.Notification) error
	ListForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
}

// Dispatcher appends notification rows after a state-changing write has
// committed. Dispatch never fails the parent operation: a store error is
// logged and swallowed.
type Dispatcher struct {
	store  NotificationStore
	logger *zap.Logger
	now    func() time.Time
}

func NewDispatcher(store NotificationStore, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, recipientID string, ntype enums.NotificationType, title, message string, data map[string]string) {
	if d == nil || d.store == nil {
		return
	}
	if recipientID == "" || ntype == "" {
		return
	}

	n := model.Notification{
		ID:        uuid.NewString(),
		UserID:    recipientID,
		Type:      ntype,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: d.now().UTC(),
	}

	if err := d.store.Insert(ctx, n); err != nil && d.logger != nil {
		d.logger.Warn("notification dispatch failed",
			zap.String("recipient", recipientID),
			zap.String("type", string(ntype)),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) List(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if d.store == nil {
		return nil, fmt.Errorf("notification store is nil")
	}
	return d.store.ListForUser(ctx, userID, limit)
}

// MarkRead flips a notification owned by userID; false when no such row.
func (d *Dispatcher) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	if id == "" || userID == "" {
		return false, fmt.Errorf("invalid mark-read payload")
	}
	if d.store == nil {
		return false, fmt.Errorf("notification store is nil")
	}
	return d.store.MarkRead(ctx, id, userID)
}
