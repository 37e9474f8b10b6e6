package notify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
)

type notificationStoreStub struct {
	inserted  []model.Notification
	insertErr error
	marked    bool
}

func (s *notificationStoreStub) Insert(_ context.Context, n model.Notification) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, n)
	return nil
}

func (s *notificationStoreStub) ListForUser(context.Context, string, int) ([]model.Notification, error) {
	return s.inserted, nil
}

func (s *notificationStoreStub) MarkRead(context.Context, string, string) (bool, error) {
	s.marked = true
	return true, nil
}

func TestDispatchAppendsRow(t *testing.T) {
	store := &notificationStoreStub{}
	d := NewDispatcher(store, zap.NewNop())

	d.Dispatch(context.Background(), "bob@y", enums.NotificationTypeLikeReceived, "Someone likes you", "You have a new like", map[string]string{"from": "alice@x"})

	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.inserted))
	}
	n := store.inserted[0]
	if n.UserID != "bob@y" || n.Type != enums.NotificationTypeLikeReceived {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.ID == "" {
		t.Fatal("expected generated notification id")
	}
	if n.IsRead {
		t.Fatal("new notifications must start unread")
	}
}

func TestDispatchSwallowsStoreFailure(t *testing.T) {
	store := &notificationStoreStub{insertErr: errors.New("store down")}
	d := NewDispatcher(store, zap.NewNop())

	// Must not panic or surface the error.
	d.Dispatch(context.Background(), "bob@y", enums.NotificationTypeMatchCreated, "It's a match", "", nil)

	if len(store.inserted) != 0 {
		t.Fatalf("expected no rows, got %d", len(store.inserted))
	}
}

func TestDispatchIgnoresEmptyRecipient(t *testing.T) {
	store := &notificationStoreStub{}
	d := NewDispatcher(store, zap.NewNop())

	d.Dispatch(context.Background(), "", enums.NotificationTypeMatchCreated, "t", "m", nil)

	if len(store.inserted) != 0 {
		t.Fatalf("expected no rows, got %d", len(store.inserted))
	}
}
