package session

import "time"

// Session binds a browser to an authenticated user across requests.
// Only the Token leaves the server, inside a signed cookie; everything
// else lives in the store.
type Session struct {
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	ID       string `json:"id"`        // unique identifier (UUID)
	Token    string `json:"token"`     // cookie token, rotated on authentication
	UserName string `json:"user_name"` // display name of the authenticated user
	UserID   int64  `json:"user_id"`   // 0 = anonymous session
}

// New creates an anonymous session with the given ID and token.
func New(id, token string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsAuthenticated returns true if the session has an associated user.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != 0
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TTL returns the remaining lifetime of the session.
// Returns zero for expired sessions.
func (s *Session) TTL() time.Duration {
	return max(time.Until(s.ExpiresAt), 0)
}
