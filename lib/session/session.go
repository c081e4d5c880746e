// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the authenticated identity for the lifetime of
// an eventdesk process.
//
// There is exactly one Store per process. It is created at startup with
// Open, which restores a previously persisted identity if one exists.
// Init installs a new identity at login and persists it; Teardown
// clears it at logout and removes the persisted copy. Every component
// that needs the credential or role reads it from the Store instead of
// keeping its own copy, so a logout is observed everywhere at once.
//
// The persisted form is a JSON file written with mode 0600 inside a
// directory created with mode 0700, since it contains a bearer token.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

// PathEnvironmentVariable overrides the default session file location.
const PathEnvironmentVariable = "EVENTDESK_SESSION_FILE"

// DefaultPath returns the session file location: $EVENTDESK_SESSION_FILE
// if set, else $XDG_CONFIG_HOME/eventdesk/session.json, else
// ~/.config/eventdesk/session.json.
func DefaultPath() string {
	if envPath := os.Getenv(PathEnvironmentVariable); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "eventdesk-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "eventdesk", "session.json")
}

// Store is the process-wide session state. Safe for concurrent use.
type Store struct {
	mutex    sync.RWMutex
	path     string
	identity *booking.Identity
}

// Open creates the Store backed by path and restores any identity
// persisted there. A missing file yields an unauthenticated Store. An
// unreadable or malformed file is an error; the caller can still use the
// returned Store (unauthenticated) and Teardown will remove the file.
func Open(path string) (*Store, error) {
	store := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return store, fmt.Errorf("reading session file %s: %w", path, err)
	}
	defer clear(data)

	var identity booking.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return store, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	if err := validate(identity); err != nil {
		return store, fmt.Errorf("session file %s: %w", path, err)
	}

	store.identity = &identity
	return store, nil
}

// NewMemory creates a Store that never touches the filesystem. Used by
// tests and by one-shot commands that must not disturb a saved session.
func NewMemory() *Store {
	return &Store{}
}

// Path returns the session file path, or "" for an in-memory Store.
func (store *Store) Path() string {
	return store.path
}

// Init installs identity as the current session and persists it. The
// previous identity, if any, is replaced.
func (store *Store) Init(identity booking.Identity) error {
	if err := validate(identity); err != nil {
		return err
	}

	store.mutex.Lock()
	defer store.mutex.Unlock()

	if store.path != "" {
		if err := save(store.path, identity); err != nil {
			return err
		}
	}
	store.identity = &identity
	return nil
}

// Teardown clears the session and removes the persisted copy. Calling
// Teardown on an unauthenticated Store is not an error.
func (store *Store) Teardown() error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	store.identity = nil
	if store.path == "" {
		return nil
	}
	if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file %s: %w", store.path, err)
	}
	return nil
}

// Identity returns the current identity and whether one is installed.
func (store *Store) Identity() (booking.Identity, bool) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	if store.identity == nil {
		return booking.Identity{}, false
	}
	return *store.identity, true
}

// Token returns the bearer credential, or "" when unauthenticated.
func (store *Store) Token() string {
	identity, _ := store.Identity()
	return identity.Token
}

// Authenticated reports whether an identity is installed.
func (store *Store) Authenticated() bool {
	_, ok := store.Identity()
	return ok
}

func validate(identity booking.Identity) error {
	if identity.Token == "" {
		return errors.New("identity has no token")
	}
	if identity.ID == "" && identity.Email == "" {
		return errors.New("identity has neither _id nor email")
	}
	return nil
}

// save writes identity to path, creating the parent directory with mode
// 0700. The file is written with mode 0600.
func save(path string, identity booking.Identity) error {
	data, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')
	defer clear(data)

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing session file %s: %w", path, err)
	}
	return nil
}
