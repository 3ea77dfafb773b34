package middleware

import (
	"context"
	"net/http"

	"github.com/boardkit/board/pkg/session"
)

// Identity is the authenticated user bound to the current request.
// It is threaded through the request context, never read from a global.
type Identity struct {
	Name   string
	UserID int64
}

type identityKey struct{}

// IdentityFrom returns the request's authenticated identity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// WithIdentity resolves the session once per request and stores the
// identity in the context. It never rejects: anonymous requests pass
// through without an identity so public pages can still render the
// logged-in state when present.
func WithIdentity(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, err := sessions.Load(r.Context(), r); err == nil && s.IsAuthenticated() {
				ctx := context.WithValue(r.Context(), identityKey{}, Identity{
					UserID: s.UserID,
					Name:   s.UserName,
				})
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth gates a route on an authenticated session.
// The check runs before any handler logic; failures redirect to the
// login form and the handler body never executes.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
