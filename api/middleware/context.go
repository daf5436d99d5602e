package middleware

import (
	"context"

	"github.com/santelink/provider-portal/internal/session"
)

type contextKey string

const ctxSession contextKey = "session"

// SessionFromContext returns the authenticated session seeded by the Session
// middleware, or nil on unauthenticated routes.
func SessionFromContext(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return v
	}
	return nil
}

// WithSession injects the session for downstream handlers.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}
