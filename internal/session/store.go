// Package session owns the client's authentication credentials.
//
// The store is the single component that touches durable credential storage:
// a JSON file with two fixed keys, "token" (access) and "refreshToken".
// Everything else observes authentication state through it.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	accessKey  = "token"
	refreshKey = "refreshToken"
)

// Store holds the session credentials and persists them across runs.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open creates a store backed by the file at path and restores any
// previously persisted credentials. A missing file means an unauthenticated
// session; an unreadable or corrupt file is a fatal error.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("invalid session file: %w", err)
	}
	return s, nil
}

// Establish persists both tokens and marks the session authenticated.
func (s *Store) Establish(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[accessKey] = accessToken
	s.values[refreshKey] = refreshToken
	return s.persist()
}

// AccessToken returns the access token, or "" when absent.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[accessKey]
}

// RefreshToken returns the refresh token, or "" when absent.
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[refreshKey]
}

// Authenticated reports whether an access token is present. The token is
// never validated locally; an expired token is discovered on the first
// failing call.
func (s *Store) Authenticated() bool {
	return s.AccessToken() != ""
}

// Clear erases both tokens and removes the backing file. Idempotent: clearing
// an already-clear store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, accessKey)
	delete(s.values, refreshKey)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// persist writes the current values with mode 0600. Caller holds the lock.
func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
