package notifications

import (
	"context"

	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/pagination"
)

type platformAPI interface {
	ListNotifications(ctx context.Context, ts upstream.TokenSource, params upstream.ListNotificationsParams) (*upstream.NotificationPage, error)
	GetNotificationStats(ctx context.Context, ts upstream.TokenSource) (*upstream.NotificationStats, error)
	MarkNotificationRead(ctx context.Context, ts upstream.TokenSource, notificationID string) (*upstream.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, ts upstream.TokenSource) (int, error)
	DeleteNotification(ctx context.Context, ts upstream.TokenSource, notificationID string) error
}

type tokenSources interface {
	TokenSource(sessionID string) upstream.TokenSource
}

// Service fronts the platform notification endpoints for one provider.
type Service struct {
	api      platformAPI
	sessions tokenSources
}

func NewService(api platformAPI, sessions tokenSources) (*Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications service requires a platform client")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications service requires a token source provider")
	}
	return &Service{api: api, sessions: sessions}, nil
}

// List pages through the provider's notifications.
func (s *Service) List(ctx context.Context, sess *session.Session, params upstream.ListNotificationsParams) (*upstream.NotificationPage, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if params.Type != "" && !params.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown notification type")
	}
	params.Pagination = pagination.Normalize(params.Pagination)
	return s.api.ListNotifications(ctx, s.sessions.TokenSource(sess.ID), params)
}

// Stats returns the unread/total counters.
func (s *Service) Stats(ctx context.Context, sess *session.Session) (*upstream.NotificationStats, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return s.api.GetNotificationStats(ctx, s.sessions.TokenSource(sess.ID))
}

// MarkRead flags one notification and hands back the updated entity, so the
// caller can patch its local list without a refetch.
func (s *Service) MarkRead(ctx context.Context, sess *session.Session, notificationID string) (*upstream.Notification, error) {
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if notificationID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification id is required")
	}
	return s.api.MarkNotificationRead(ctx, s.sessions.TokenSource(sess.ID), notificationID)
}

// MarkAllRead flags every notification and reports how many changed.
func (s *Service) MarkAllRead(ctx context.Context, sess *session.Session) (int, error) {
	if sess == nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return s.api.MarkAllNotificationsRead(ctx, s.sessions.TokenSource(sess.ID))
}

// Delete removes one notification.
func (s *Service) Delete(ctx context.Context, sess *session.Session, notificationID string) error {
	if sess == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if notificationID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id is required")
	}
	return s.api.DeleteNotification(ctx, s.sessions.TokenSource(sess.ID), notificationID)
}
