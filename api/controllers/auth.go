package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/santelink/provider-portal/api/middleware"
	"github.com/santelink/provider-portal/api/responses"
	"github.com/santelink/provider-portal/api/validators"
	"github.com/santelink/provider-portal/internal/session"
	"github.com/santelink/provider-portal/internal/upstream"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/logger"
)

// SessionService is the slice of the session manager the auth handlers need.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*session.Session, string, error)
	Logout(ctx context.Context, sessionID string) error
	Restore(ctx context.Context, rawToken string) (*session.Session, error)
	TokenSource(sessionID string) upstream.TokenSource
}

// ProfileFetcher loads the provider profile from the supply platform.
type ProfileFetcher interface {
	Profile(ctx context.Context, ts upstream.TokenSource) (*upstream.Profile, error)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string           `json:"token"`
	User  *session.Session `json:"user"`
}

// AuthLogin exchanges provider credentials for a portal session token.
func AuthLogin(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, loginResponse{Token: token, User: sess})
	}
}

// AuthLogout ends the authenticated session. Logging out twice is fine.
func AuthLogout(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := svc.Logout(r.Context(), sess.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthSession rebuilds the session from a previously issued portal token,
// re-reading the provider's role from the platform. Used on app reload.
func AuthSession(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("Authorization"))
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		sess, err := svc.Restore(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess)
	}
}

// AuthProfile returns the provider profile from the supply platform.
func AuthProfile(svc SessionService, api ProfileFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		profile, err := api.Profile(r.Context(), svc.TokenSource(sess.ID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
