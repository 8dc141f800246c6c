package session_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"trackctl/internal/session"
)

func openStore(t *testing.T, dir string) *session.Store {
	t.Helper()
	store, err := session.Open(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store
}

func TestOpen_MissingFileIsUnauthenticated(t *testing.T) {
	store := openStore(t, t.TempDir())

	if store.Authenticated() {
		t.Error("expected unauthenticated session for missing file")
	}
	if store.AccessToken() != "" || store.RefreshToken() != "" {
		t.Error("expected empty tokens for missing file")
	}
}

func TestEstablishPersistsAndRestores(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)

	if err := store.Establish("access-1", "refresh-1"); err != nil {
		t.Fatalf("establish failed: %v", err)
	}
	if !store.Authenticated() {
		t.Error("expected authenticated after establish")
	}

	// A fresh store restores the same credentials without backend validation.
	restored := openStore(t, dir)
	if got := restored.AccessToken(); got != "access-1" {
		t.Errorf("expected restored access token %q, got %q", "access-1", got)
	}
	if got := restored.RefreshToken(); got != "refresh-1" {
		t.Errorf("expected restored refresh token %q, got %q", "refresh-1", got)
	}
	if !restored.Authenticated() {
		t.Error("expected authenticated after restore")
	}
}

func TestStorageKeys(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)

	if err := store.Establish("a", "r"); err != nil {
		t.Fatalf("establish failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("failed to read session file: %v", err)
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		t.Fatalf("session file is not valid JSON: %v", err)
	}
	if values["token"] != "a" {
		t.Errorf("expected key %q = %q, got %q", "token", "a", values["token"])
	}
	if values["refreshToken"] != "r" {
		t.Errorf("expected key %q = %q, got %q", "refreshToken", "r", values["refreshToken"])
	}
}

func TestClearIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	store := openStore(t, dir)

	if err := store.Establish("access-1", "refresh-1"); err != nil {
		t.Fatalf("establish failed: %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("first clear failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}

	if store.Authenticated() {
		t.Error("expected unauthenticated after clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected session file to be removed")
	}
}

func TestOpen_CorruptFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := session.Open(path); err == nil {
		t.Error("expected error for corrupt session file")
	}
}
