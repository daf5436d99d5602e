package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/santelink/provider-portal/api/responses"
	"github.com/santelink/provider-portal/internal/session"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/logger"
)

// Authenticator resolves a bearer token into a live session. Resolution also
// resets the inactivity clock, so any authenticated request keeps the
// session alive.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*session.Session, error)
}

// Session validates the portal bearer token and seeds the request context.
func Session(manager Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			sess, err := manager.Authenticate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    sess.UserID,
					"session_id": sess.ID,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
