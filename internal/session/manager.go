package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santelink/provider-portal/internal/upstream"
	"github.com/santelink/provider-portal/pkg/config"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/logger"
)

// State is the lifecycle position of one provider session.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// Event notifies observers about session state changes.
type Event struct {
	SessionID string
	UserID    string
	State     State
}

// Session is the authenticated provider attached to a request.
type Session struct {
	ID     string
	UserID string
	Email  string
	Role   string
}

type platformAPI interface {
	Login(ctx context.Context, email, password string) (*upstream.TokenPair, error)
	Profile(ctx context.Context, ts upstream.TokenSource) (*upstream.Profile, error)
}

// Manager owns the provider session state machine: login, logout, restore,
// and inactivity expiry. It is the sole writer of tokens on login/logout; the
// upstream client writes only on refresh.
type Manager struct {
	api   platformAPI
	store Store
	cfg   config.SessionConfig
	logg  *logger.Logger
	now   func() time.Time

	mu        sync.Mutex
	observers []func(Event)
}

// NewManager wires the session manager dependencies.
func NewManager(api platformAPI, store Store, cfg config.SessionConfig, logg *logger.Logger) (*Manager, error) {
	if api == nil {
		return nil, fmt.Errorf("platform api is required")
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.InactivityWindow() <= 0 {
		return nil, fmt.Errorf("inactivity window must be positive")
	}
	if cfg.TTL() <= cfg.InactivityWindow() {
		return nil, fmt.Errorf("session ttl (%s) must exceed the inactivity window (%s)", cfg.TTL(), cfg.InactivityWindow())
	}
	return &Manager{
		api:   api,
		store: store,
		cfg:   cfg,
		logg:  logg,
		now:   time.Now,
	}, nil
}

// OnChange registers an observer for session state transitions.
func (m *Manager) OnChange(fn func(Event)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Manager) emit(event Event) {
	m.mu.Lock()
	observers := make([]func(Event), len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()
	for _, fn := range observers {
		fn(event)
	}
}

// Login authenticates against the platform, stores the token pair under a
// fresh session id, caches the role, and returns the signed portal token.
// Failures come back wrapped under a stable "login failed" prefix with the
// platform's message preserved as the cause.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, string, error) {
	tokens, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "login failed")
	}

	sessionID := uuid.NewString()
	record := Record{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}
	if err := m.store.Save(ctx, sessionID, record, m.cfg.InactivityWindow()); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session")
	}

	profile, err := m.api.Profile(ctx, m.TokenSource(sessionID))
	if err != nil {
		_ = m.store.Delete(ctx, sessionID)
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "login failed")
	}

	record.Role = profile.Role
	if err := m.store.Save(ctx, sessionID, record, m.cfg.InactivityWindow()); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session")
	}

	token, err := MintSessionToken(m.cfg, m.now(), sessionID, profile.ID, profile.Email, profile.Role)
	if err != nil {
		_ = m.store.Delete(ctx, sessionID)
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	sess := &Session{ID: sessionID, UserID: profile.ID, Email: profile.Email, Role: profile.Role}
	m.emit(Event{SessionID: sessionID, UserID: profile.ID, State: StateAuthenticated})
	return sess, token, nil
}

// Authenticate resolves a portal bearer token into a live session and resets
// the inactivity clock. An idle-expired or unknown session is unauthorized.
func (m *Manager) Authenticate(ctx context.Context, rawToken string) (*Session, error) {
	claims, err := ParseSessionToken(m.cfg, rawToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}

	alive, err := m.store.Touch(ctx, claims.ID, m.cfg.InactivityWindow())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check session")
	}
	if !alive {
		m.emit(Event{SessionID: claims.ID, UserID: claims.UserID, State: StateUnauthenticated})
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}

	return &Session{ID: claims.ID, UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

// Logout drops the stored tokens. Client-only and idempotent: it succeeds
// whether or not the session still existed.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		if m.logg != nil {
			m.logg.Warn(m.logg.WithSessionID(ctx, sessionID), "failed to delete session record")
		}
	}
	m.emit(Event{SessionID: sessionID, State: StateUnauthenticated})
	return nil
}

// Restore revalidates a previously issued portal token against the platform:
// profile fetch succeeds and the session lives on, anything else purges it.
func (m *Manager) Restore(ctx context.Context, rawToken string) (*Session, error) {
	claims, err := ParseSessionToken(m.cfg, rawToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}

	record, err := m.store.Load(ctx, claims.ID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "session expired")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	profile, err := m.api.Profile(ctx, m.TokenSource(claims.ID))
	if err != nil {
		_ = m.store.Delete(ctx, claims.ID)
		m.emit(Event{SessionID: claims.ID, UserID: claims.UserID, State: StateUnauthenticated})
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "session restore failed")
	}

	if record.Role != profile.Role {
		record.Role = profile.Role
		if err := m.store.Save(ctx, claims.ID, record, m.cfg.InactivityWindow()); err != nil && m.logg != nil {
			m.logg.Warn(m.logg.WithSessionID(ctx, claims.ID), "failed to refresh cached role")
		}
	}

	return &Session{ID: claims.ID, UserID: profile.ID, Email: profile.Email, Role: profile.Role}, nil
}

// TokenSource exposes the stored platform tokens for one session to the
// upstream client.
func (m *Manager) TokenSource(sessionID string) upstream.TokenSource {
	return &tokenSource{store: m.store, sessionID: sessionID, ttl: m.cfg.InactivityWindow()}
}

type tokenSource struct {
	store     Store
	sessionID string
	ttl       time.Duration
}

func (t *tokenSource) Tokens(ctx context.Context) (upstream.TokenPair, error) {
	record, err := t.store.Load(ctx, t.sessionID)
	if err != nil {
		return upstream.TokenPair{}, err
	}
	return upstream.TokenPair{AccessToken: record.AccessToken, RefreshToken: record.RefreshToken}, nil
}

func (t *tokenSource) StoreAccess(ctx context.Context, accessToken string) error {
	record, err := t.store.Load(ctx, t.sessionID)
	if err != nil {
		return err
	}
	record.AccessToken = accessToken
	return t.store.Save(ctx, t.sessionID, record, t.ttl)
}

func (t *tokenSource) Invalidate(ctx context.Context) error {
	return t.store.Delete(ctx, t.sessionID)
}
