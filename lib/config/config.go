// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when no --config flag is
// given.
const EnvironmentVariable = "EVENTDESK_CONFIG"

// DefaultBaseURL is the service address used without a config file.
const DefaultBaseURL = "http://localhost:8080"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development against the mock service.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for the live booking service.
	Production Environment = "production"
)

// Config is the eventdesk client configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// Service locates the booking service.
	Service ServiceConfig `yaml:"service"`

	// Session configures the persisted login.
	Session SessionConfig `yaml:"session"`

	// Log configures diagnostic output.
	Log LogConfig `yaml:"log"`

	// Viewer configures the interactive client.
	Viewer ViewerConfig `yaml:"viewer"`

	// Per-environment overrides, applied after the base values.
	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides contains fields that can be overridden per environment.
// Empty strings leave the base value in place.
type Overrides struct {
	Service *ServiceConfig `yaml:"service,omitempty"`
	Session *SessionConfig `yaml:"session,omitempty"`
	Log     *LogConfig     `yaml:"log,omitempty"`
	Viewer  *ViewerConfig  `yaml:"viewer,omitempty"`
}

// ServiceConfig locates the booking service.
type ServiceConfig struct {
	// BaseURL is prefixed to every endpoint path.
	// Default: http://localhost:8080
	BaseURL string `yaml:"base_url"`
}

// SessionConfig configures the persisted login.
type SessionConfig struct {
	// File is the session file path. Empty means the session package's
	// default location.
	File string `yaml:"file"`
}

// LogConfig configures diagnostic output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Output, when set, receives JSON log records in addition to the
	// terminal.
	Output string `yaml:"output"`
}

// ViewerConfig configures the interactive client.
type ViewerConfig struct {
	// Theme names the color scheme (dark or light).
	// Default: dark
	Theme string `yaml:"theme"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Environment: Development,
		Service:     ServiceConfig{BaseURL: DefaultBaseURL},
		Log:         LogConfig{Level: "info"},
		Viewer:      ViewerConfig{Theme: "dark"},
	}
}

// Load loads the file named by EVENTDESK_CONFIG, or returns [Default]
// when it is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Resolve loads flagPath when non-empty, and otherwise defers to
// [Load]. This is the entry point for commands with a --config flag.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return LoadFile(flagPath)
	}
	return Load()
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc may contain comments and trailing commas; any
// other extension is parsed as YAML.
//
// The file is the single source of truth. Environment variables do not
// override config values; the only expansion is ${HOME} and
// ${VAR:-default} in path and address fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// loadFile merges one file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so the yaml tags serve both
		// formats once comments are stripped.
		data = jsonc.ToJSON(data)
	}
	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: no debug chatter.
		if overrides == nil && c.Log.Level == "debug" {
			overrides = &Overrides{Log: &LogConfig{Level: "info"}}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Service != nil && overrides.Service.BaseURL != "" {
		c.Service.BaseURL = overrides.Service.BaseURL
	}
	if overrides.Session != nil && overrides.Session.File != "" {
		c.Session.File = overrides.Session.File
	}
	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Output != "" {
			c.Log.Output = overrides.Log.Output
		}
	}
	if overrides.Viewer != nil && overrides.Viewer.Theme != "" {
		c.Viewer.Theme = overrides.Viewer.Theme
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Service.BaseURL = expandVars(c.Service.BaseURL, vars)
	c.Session.File = expandVars(c.Session.File, vars)
	c.Log.Output = expandVars(c.Log.Output, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces each ${NAME} with vars[NAME], then the
// environment, then the pattern's default.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		defaultValue := parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %q", c.Environment))
	}

	if c.Service.BaseURL == "" {
		errs = append(errs, errors.New("service.base_url is required"))
	} else if parsed, err := url.Parse(c.Service.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("service.base_url: %w", err))
	} else {
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errs = append(errs, fmt.Errorf("service.base_url must be an http or https URL, got %q", c.Service.BaseURL))
		} else if parsed.Host == "" {
			errs = append(errs, fmt.Errorf("service.base_url has no host: %q", c.Service.BaseURL))
		}
		if c.Environment == Production && parsed.Scheme == "http" {
			errs = append(errs, errors.New("service.base_url must use https in production"))
		}
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// LogLevel returns Log.Level as a slog level. Call after Validate.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
