package session

import (
	"context"
	"sync"
)

// Memory is an in-process session store.
// Intended for tests and single-instance development setups; production
// deployments should use the Redis store so sessions survive restarts.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemory creates an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]Session)}
}

func (m *Memory) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = *s
	return nil
}

func (m *Memory) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.IsExpired() {
		// Lazy expiry: drop on access instead of running a sweeper.
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, ErrExpired
	}

	return &s, nil
}

func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
