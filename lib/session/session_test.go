// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/eventdesk/lib/schema/booking"
)

func testIdentity() booking.Identity {
	return booking.Identity{
		ID:    "u-1",
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  booking.RoleAdmin,
		Token: "token-abc",
	}
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	store, err := Open(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if store.Authenticated() {
		t.Error("store with no file should be unauthenticated")
	}
	if store.Token() != "" {
		t.Errorf("Token() = %q, want empty", store.Token())
	}
}

func TestInitPersistsAndOpenRestores(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Init(testIdentity()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("file mode = %o, want 600", mode)
	}
	directoryInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Stat directory: %v", err)
	}
	if mode := directoryInfo.Mode().Perm(); mode != 0700 {
		t.Errorf("directory mode = %o, want 700", mode)
	}

	restored, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	identity, ok := restored.Identity()
	if !ok {
		t.Fatal("restored store is unauthenticated")
	}
	if identity != testIdentity() {
		t.Errorf("restored identity = %+v, want %+v", identity, testIdentity())
	}
}

func TestTeardownRemovesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	store, _ := Open(path)
	if err := store.Init(testIdentity()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := store.Teardown(); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if store.Authenticated() {
		t.Error("store still authenticated after Teardown")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("session file still present: %v", err)
	}
	if err := store.Teardown(); err != nil {
		t.Errorf("second Teardown: %v", err)
	}
}

func TestInitRejectsIdentityWithoutToken(t *testing.T) {
	t.Parallel()

	store := NewMemory()
	identity := testIdentity()
	identity.Token = ""
	if err := store.Init(identity); err == nil {
		t.Fatal("expected error for identity without token")
	}
	if store.Authenticated() {
		t.Error("rejected identity was installed")
	}
}

func TestOpenMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	store, err := Open(path)
	if err == nil {
		t.Fatal("expected error for malformed session file")
	}
	if store == nil || store.Authenticated() {
		t.Fatal("malformed file should yield an unauthenticated store")
	}
	if err := store.Teardown(); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Teardown did not remove malformed file")
	}
}

func TestDefaultPathEnvironmentOverride(t *testing.T) {
	t.Setenv(PathEnvironmentVariable, "/tmp/custom-session.json")
	if got := DefaultPath(); got != "/tmp/custom-session.json" {
		t.Errorf("DefaultPath() = %q", got)
	}

	t.Setenv(PathEnvironmentVariable, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultPath(); got != "/xdg/eventdesk/session.json" {
		t.Errorf("DefaultPath() = %q, want /xdg/eventdesk/session.json", got)
	}
}
