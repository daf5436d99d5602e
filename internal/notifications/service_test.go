package notifications

import (
	"context"
	"testing"

	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/internal/upstream"
	"github.com/santelink/provider-portal/pkg/enums"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
)

type stubAPI struct {
	lastParams upstream.ListNotificationsParams
	markedID   string
	deletedID  string
	updated    int
}

func (s *stubAPI) ListNotifications(_ context.Context, _ upstream.TokenSource, params upstream.ListNotificationsParams) (*upstream.NotificationPage, error) {
	s.lastParams = params
	return &upstream.NotificationPage{}, nil
}

func (s *stubAPI) GetNotificationStats(context.Context, upstream.TokenSource) (*upstream.NotificationStats, error) {
	return &upstream.NotificationStats{Total: 12, Unread: 3}, nil
}

func (s *stubAPI) MarkNotificationRead(_ context.Context, _ upstream.TokenSource, id string) (*upstream.Notification, error) {
	s.markedID = id
	return &upstream.Notification{ID: id, Read: true, Type: enums.NotificationTypeOrder}, nil
}

func (s *stubAPI) MarkAllNotificationsRead(context.Context, upstream.TokenSource) (int, error) {
	return s.updated, nil
}

func (s *stubAPI) DeleteNotification(_ context.Context, _ upstream.TokenSource, id string) error {
	s.deletedID = id
	return nil
}

type stubSessions struct{}

func (stubSessions) TokenSource(string) upstream.TokenSource { return nil }

func newTestService(t *testing.T) (*Service, *stubAPI) {
	t.Helper()
	api := &stubAPI{}
	svc, err := NewService(api, stubSessions{})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, api
}

func TestListNormalizesPaginationAndValidatesType(t *testing.T) {
	t.Parallel()

	svc, api := newTestService(t)
	sess := &session.Session{ID: "s1"}

	if _, err := svc.List(context.Background(), sess, upstream.ListNotificationsParams{Type: "BOGUS"}); err == nil {
		t.Fatal("expected unknown type to be rejected")
	}

	params := upstream.ListNotificationsParams{UnreadOnly: true, Type: enums.NotificationTypeOrder}
	if _, err := svc.List(context.Background(), sess, params); err != nil {
		t.Fatalf("list: %v", err)
	}
	if api.lastParams.Pagination.Page != 1 || api.lastParams.Pagination.Limit == 0 {
		t.Fatalf("expected normalized pagination, got %+v", api.lastParams.Pagination)
	}
	if !api.lastParams.UnreadOnly {
		t.Fatal("unread filter must pass through")
	}
}

func TestMarkReadReturnsUpdatedEntity(t *testing.T) {
	t.Parallel()

	svc, api := newTestService(t)
	sess := &session.Session{ID: "s1"}

	notification, err := svc.MarkRead(context.Background(), sess, "n1")
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !notification.Read || notification.ID != "n1" {
		t.Fatalf("expected the updated entity back, got %+v", notification)
	}
	if api.markedID != "n1" {
		t.Fatalf("wrong id forwarded: %q", api.markedID)
	}

	if _, err := svc.MarkRead(context.Background(), sess, ""); err == nil {
		t.Fatal("expected empty id to be rejected")
	}
}

func TestMarkAllReadReportsUpdatedCount(t *testing.T) {
	t.Parallel()

	svc, api := newTestService(t)
	api.updated = 7

	updated, err := svc.MarkAllRead(context.Background(), &session.Session{ID: "s1"})
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if updated != 7 {
		t.Fatalf("expected 7 updates, got %d", updated)
	}
}

func TestOperationsRequireSession(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.List(ctx, nil, upstream.ListNotificationsParams{}); pkgerrors.As(err) == nil {
		t.Fatal("list must require a session")
	}
	if _, err := svc.Stats(ctx, nil); pkgerrors.As(err) == nil {
		t.Fatal("stats must require a session")
	}
	if err := svc.Delete(ctx, nil, "n1"); pkgerrors.As(err) == nil {
		t.Fatal("delete must require a session")
	}
}

func TestDeleteForwardsID(t *testing.T) {
	t.Parallel()

	svc, api := newTestService(t)
	if err := svc.Delete(context.Background(), &session.Session{ID: "s1"}, "n9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if api.deletedID != "n9" {
		t.Fatalf("wrong id forwarded: %q", api.deletedID)
	}
}
