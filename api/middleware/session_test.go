package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/santelink/provider-portal/internal/session"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
)

type stubAuthenticator struct {
	sess *session.Session
	err  error
}

func (s stubAuthenticator) Authenticate(context.Context, string) (*session.Session, error) {
	return s.sess, s.err
}

func okHandler(captured **session.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = SessionFromContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionRejectsMissingToken(t *testing.T) {
	handler := Session(stubAuthenticator{}, nil)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSessionRejectsExpiredSession(t *testing.T) {
	auth := stubAuthenticator{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")}
	handler := Session(auth, nil)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSessionSeedsContext(t *testing.T) {
	want := &session.Session{ID: "s1", UserID: "u1", Email: "p@clinic.cm", Role: "PROVIDER"}
	handler := Session(stubAuthenticator{sess: want}, nil)

	var captured *session.Session
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp := httptest.NewRecorder()
	handler(okHandler(&captured)).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured == nil || captured.ID != "s1" || captured.UserID != "u1" {
		t.Fatalf("session not seeded, got %+v", captured)
	}
}

func TestSessionAcceptsRawTokenWithoutScheme(t *testing.T) {
	want := &session.Session{ID: "s1", UserID: "u1"}
	handler := Session(stubAuthenticator{sess: want}, nil)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "tokenwithoutscheme")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
