// Package session tracks the signed-in operator: a token and username pair
// that survives restarts and is dropped on logout or when the backend rejects
// the token.
package session

import (
	"fmt"
	"log/slog"
	"sync"
)

// Session is an authenticated identity.
type Session struct {
	Token    string
	Username string
}

// Valid reports whether both halves of the pair are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.Username != ""
}

// Store persists the session pair. Save writes both values as one unit;
// Delete is idempotent.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Delete() error
}

// Manager owns the current session and keeps it in sync with its Store.
// It satisfies gateway.TokenSource.
type Manager struct {
	store  Store
	logger *slog.Logger

	mu      sync.RWMutex
	current *Session
}

// NewManager creates a manager backed by store. A nil logger means
// slog.Default().
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger}
}

// Restore reads the persisted pair. It returns false if either value is
// missing or the store cannot be read; it never writes.
func (m *Manager) Restore() (*Session, bool) {
	s, err := m.store.Load()
	if err != nil {
		m.logger.Warn("session: restore failed", "error", err)
		return nil, false
	}
	if !s.Valid() {
		return nil, false
	}
	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
	out := s
	return &out, true
}

// Store persists token and username and makes them current.
func (m *Manager) Store(token, username string) error {
	s := Session{Token: token, Username: username}
	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
	if err := m.store.Save(s); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Clear forgets the current session and removes the persisted pair. Calling
// it while logged out is a no-op.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	if err := m.store.Delete(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Current returns the active session, if any.
func (m *Manager) Current() (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	out := *m.current
	return &out, true
}

// CurrentToken returns the active token, or "" when logged out.
func (m *Manager) CurrentToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Username returns the active username, or "" when logged out.
func (m *Manager) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Username
}
