// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete CLI configuration.
type Config struct {
	// API settings for the HitCraft backend.
	API APIConfig `toml:"api"`

	// Auth settings.
	Auth AuthConfig `toml:"auth"`

	// Chat session settings.
	Chat ChatConfig `toml:"chat"`
}

// APIConfig contains backend connection configuration.
type APIConfig struct {
	// BaseURL is the HitCraft API base URL.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxResponseKB caps the size of a single response body in kilobytes.
	MaxResponseKB int `toml:"max_response_kb"`
	// RateLimitRPS throttles outgoing requests per second (0 = unlimited).
	RateLimitRPS float64 `toml:"rate_limit_rps"`
	// RateLimitBurst is the burst allowance when rate limiting is active.
	RateLimitBurst int `toml:"rate_limit_burst"`
}

// AuthConfig contains authentication configuration.
type AuthConfig struct {
	// Token is the HitCraft API bearer token.
	// SECURITY: Prefer the HITCRAFT_TOKEN environment variable; the config
	// file is kept at 0600 when a token is stored here.
	Token string `toml:"token"`
}

// ChatConfig contains chat session configuration.
type ChatConfig struct {
	// ArtistID selects the artist persona new threads are created under.
	ArtistID string `toml:"artist_id"`
	// WelcomeMessage overrides the greeting shown when a session starts.
	// Empty means the built-in default.
	WelcomeMessage string `toml:"welcome_message"`
	// HistoryLimit is the number of past threads fetched for the picker.
	HistoryLimit int `toml:"history_limit"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://api.hitcraft.ai",
			TimeoutSecs:    30,
			MaxResponseKB:  4096,
			RateLimitRPS:   0,
			RateLimitBurst: 1,
		},
		Auth: AuthConfig{},
		Chat: ChatConfig{
			HistoryLimit: 20,
		},
	}
}

// =============================================================================
// FILE LOCATIONS
// =============================================================================

// ConfigDir returns the configuration directory path (~/.hitcraft).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".hitcraft"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on the config file.
// SECURITY: The file may hold an API token, so it should be 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, nil
	}
	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file.
func LoadFromPath(path string) (*Config, error) {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all filesystems.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default config path with 0600
// permissions.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// OVERRIDES AND DEFAULTS
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment values win over file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HITCRAFT_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("HITCRAFT_TOKEN"); v != "" {
		c.Auth.Token = v
	}
	if v := os.Getenv("HITCRAFT_ARTIST_ID"); v != "" {
		c.Chat.ArtistID = v
	}
}

// SetDefaults fills in zero values that have non-zero defaults.
func (c *Config) SetDefaults() {
	def := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = def.API.TimeoutSecs
	}
	if c.API.MaxResponseKB <= 0 {
		c.API.MaxResponseKB = def.API.MaxResponseKB
	}
	if c.API.RateLimitBurst <= 0 {
		c.API.RateLimitBurst = def.API.RateLimitBurst
	}
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = def.Chat.HistoryLimit
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors aggregates validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{"api.base_url", "must be an absolute http(s) URL"})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{"api.base_url", "scheme must be http or https"})
	}
	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{"api.timeout_secs", "must not be negative"})
	}
	if c.API.RateLimitRPS < 0 {
		errs = append(errs, ValidationError{"api.rate_limit_rps", "must not be negative"})
	}
	if c.Chat.HistoryLimit < 0 {
		errs = append(errs, ValidationError{"chat.history_limit", "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
