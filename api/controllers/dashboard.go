package controllers

import (
	"context"
	"net/http"

	"github.com/santelink/provider-portal/api/middleware"
	"github.com/santelink/provider-portal/api/responses"
	"github.com/santelink/provider-portal/internal/dashboard"
	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/pkg/logger"
)

// DashboardLoader assembles the provider dashboard view model.
type DashboardLoader interface {
	Load(ctx context.Context, sess *session.Session) (*dashboard.Stats, error)
}

// DashboardFetch returns the composed dashboard. Degraded sections come back
// at their zero values and are named in the payload.
func DashboardFetch(svc DashboardLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		stats, err := svc.Load(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
