// Package client is the Go API client for the adminboard service: a
// session store plus an HTTP wrapper that transparently refreshes an
// expired access token and retries the original request once.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"adminboard-service/internal/domain/user"
)

// SessionStore holds the client session. User and the authenticated flag
// persist to a JSON file across restarts; the access token deliberately
// lives only in memory, so after a restart a new one must be obtained
// through the cookie-driven refresh flow.
type SessionStore struct {
	mu   sync.Mutex
	path string

	user            *user.User
	isAuthenticated bool
	accessToken     string
}

// persistedSession is the on-disk shape. No access token field on
// purpose.
type persistedSession struct {
	User            *user.User `json:"user"`
	IsAuthenticated bool       `json:"isAuthenticated"`
}

// NewSessionStore creates a store persisting to path. Pass an empty path
// for a memory-only session.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load restores the persisted user, if any. A missing file is not an
// error.
func (s *SessionStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var p persistedSession
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}
	s.user = p.User
	s.isAuthenticated = p.IsAuthenticated
	return nil
}

// SetUser stores the user and marks the session authenticated.
func (s *SessionStore) SetUser(u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.isAuthenticated = true
	return s.save()
}

// SetAccessToken stores the access token in memory only.
func (s *SessionStore) SetAccessToken(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = tok
}

// User returns the cached user, or nil.
func (s *SessionStore) User() *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// AccessToken returns the in-memory access token, or "".
func (s *SessionStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// Authenticated reports whether the session holds a logged-in user.
func (s *SessionStore) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAuthenticated
}

// Clear wipes the session, both in memory and on disk.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.isAuthenticated = false
	s.accessToken = ""
	return s.save()
}

// save writes the persistent half of the session. Caller holds the lock.
func (s *SessionStore) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.Marshal(persistedSession{
		User:            s.user,
		IsAuthenticated: s.isAuthenticated,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
