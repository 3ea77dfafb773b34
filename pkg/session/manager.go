package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/boardkit/board/pkg/cookie"
)

// Default manager configuration.
const (
	defaultCookieName = "__sid"
	defaultTTL        = 30 * 24 * time.Hour
)

// Manager binds HTTP requests to sessions.
// The session token travels in a signed cookie; session state lives in
// the configured Store.
type Manager struct {
	store      Store
	cookies    *cookie.Manager
	cookieName string
	ttl        time.Duration
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithCookieName sets the session cookie name. Default: "__sid".
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) {
		m.cookieName = name
	}
}

// WithTTL sets the session lifetime. Default: 30 days.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// NewManager creates a session manager over the given store and cookie manager.
func NewManager(store Store, cookies *cookie.Manager, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		cookies:    cookies,
		cookieName: defaultCookieName,
		ttl:        defaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load returns the session bound to the request's cookie.
// Returns ErrNotFound if the request carries no usable session.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.cookies.GetSigned(r, m.cookieName)
	if err != nil {
		if errors.Is(err, cookie.ErrBadSig) {
			return nil, ErrInvalidToken
		}
		return nil, ErrNotFound
	}
	if token == "" {
		return nil, ErrInvalidToken
	}

	s, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Authenticate creates a session bound to userID and sets the cookie.
// A fresh token is always issued, so a pre-login session cannot be
// replayed as an authenticated one.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int64, userName string) (*Session, error) {
	// Drop whatever session the request arrived with.
	if old, err := m.Load(ctx, r); err == nil {
		_ = m.store.Delete(ctx, old.Token)
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	s := New(uuid.NewString(), token, m.ttl)
	s.UserID = userID
	s.UserName = userName

	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}

	if err := m.cookies.SetSigned(w, m.cookieName, token, int(m.ttl.Seconds())); err != nil {
		_ = m.store.Delete(ctx, token)
		return nil, err
	}

	return s, nil
}

// Destroy removes the request's session and clears the cookie.
// Destroying a request without a session is a no-op.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	s, err := m.Load(ctx, r)
	if err == nil {
		if derr := m.store.Delete(ctx, s.Token); derr != nil {
			return derr
		}
	}
	m.cookies.Delete(w, m.cookieName)
	return nil
}

// newToken returns a 256-bit random token in URL-safe base64.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
