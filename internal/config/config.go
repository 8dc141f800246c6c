// Package config handles XDG configuration directory, file paths and the
// backend base URL.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "trackctl"

	// SessionFile is the stored session credentials filename.
	SessionFile = "session.json"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// DefaultBaseURL is used when neither config file nor environment
	// provide a backend address.
	DefaultBaseURL = "http://localhost:8000/api"

	// EnvBaseURL overrides the backend base URL when set.
	EnvBaseURL = "TRACKCTL_API_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the backend base URL, without trailing slash.
	BaseURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger is never nil after New; defaults to a nop logger.
	Logger *zap.Logger
}

// fileConfig is the shape of config.yaml.
type fileConfig struct {
	API struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"api"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/trackctl or
// $HOME/.config/trackctl. The base URL is resolved from config.yaml if
// present, then the TRACKCTL_API_URL environment variable, then the default.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:     dir,
		BaseURL: DefaultBaseURL,
		Logger:  zap.NewNop(),
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if env := os.Getenv(EnvBaseURL); env != "" {
		cfg.BaseURL = env
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg, nil
}

// loadFile applies config.yaml if it exists. A missing file is not an error.
func (c *Config) loadFile() error {
	f, err := os.Open(c.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", ConfigFile, err)
	}
	defer f.Close()

	var fc fileConfig
	if err := yaml.NewDecoder(f).Decode(&fc); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if fc.API.BaseURL != "" {
		c.BaseURL = fc.API.BaseURL
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the optional settings file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session credentials file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if the session credentials file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}
