package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/santelink/provider-portal/api/middleware"
	"github.com/santelink/provider-portal/api/responses"
	"github.com/santelink/provider-portal/api/validators"
	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/internal/upstream"
	"github.com/santelink/provider-portal/pkg/enums"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/logger"
	"github.com/santelink/provider-portal/pkg/pagination"
)

// NotificationService fronts the platform notification endpoints.
type NotificationService interface {
	List(ctx context.Context, sess *session.Session, params upstream.ListNotificationsParams) (*upstream.NotificationPage, error)
	Stats(ctx context.Context, sess *session.Session) (*upstream.NotificationStats, error)
	MarkRead(ctx context.Context, sess *session.Session, notificationID string) (*upstream.Notification, error)
	MarkAllRead(ctx context.Context, sess *session.Session) (int, error)
	Delete(ctx context.Context, sess *session.Session, notificationID string) error
}

// NotificationList returns one page of notifications.
func NotificationList(svc NotificationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unreadOnly, err := validators.ParseQueryBool(r, "unread")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := upstream.ListNotificationsParams{
			Pagination: pagination.Params{Page: page, Limit: limit},
			UnreadOnly: unreadOnly,
			Type:       enums.NotificationType(strings.TrimSpace(r.URL.Query().Get("type"))),
		}

		result, err := svc.List(r.Context(), sess, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// NotificationStats returns the unread/total counters.
func NotificationStats(svc NotificationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		stats, err := svc.Stats(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// NotificationMarkRead flags one notification and returns the updated entity.
func NotificationMarkRead(svc NotificationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		notification, err := svc.MarkRead(r.Context(), sess, chi.URLParam(r, "notificationId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, notification)
	}
}

// NotificationMarkAllRead flags everything and reports how many rows changed.
func NotificationMarkAllRead(svc NotificationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		updated, err := svc.MarkAllRead(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"updated": updated})
	}
}

// NotificationDelete removes one notification.
func NotificationDelete(svc NotificationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		if err := svc.Delete(r.Context(), sess, chi.URLParam(r, "notificationId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
