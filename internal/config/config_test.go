package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"trackctl/internal/config"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "")

	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != config.DefaultBaseURL {
		t.Errorf("expected default base URL %q, got %q", config.DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.Logger == nil {
		t.Error("expected a non-nil logger")
	}
}

func TestNewReadsConfigFile(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "")

	dir := t.TempDir()
	data := "api:\n  base_url: https://tracker.example.com/api/\n"
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://tracker.example.com/api" {
		t.Errorf("expected file base URL without trailing slash, got %q", cfg.BaseURL)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := "api:\n  base_url: https://file.example.com/api\n"
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(data), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(config.EnvBaseURL, "https://env.example.com/api")

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://env.example.com/api" {
		t.Errorf("expected env base URL to win, got %q", cfg.BaseURL)
	}
}

func TestNewRejectsInvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("api: ["), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := config.New(dir); err == nil {
		t.Error("expected an error for an invalid config file")
	}
}

func TestHasSession(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HasSession() {
		t.Error("expected no session in a fresh directory")
	}
	if err := os.WriteFile(cfg.SessionPath(), []byte("{}"), 0600); err != nil {
		t.Fatalf("failed to write session file: %v", err)
	}
	if !cfg.HasSession() {
		t.Error("expected a session after writing the file")
	}
}
