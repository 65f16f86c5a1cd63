// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and persistent key/value
// storage for passkeep.
//
// Settings live in TOML with sensible defaults and environment variable
// overrides:
//   - ~/.passkeep/config.toml
//   - Built-in defaults
//
// Small mutable state items (the device trust identifier, the cached
// session) live in the per-key Store alongside the config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete passkeep configuration.
type Config struct {
	// Login configuration
	Login LoginConfig `toml:"login"`
}

// LoginConfig contains login handshake configuration.
type LoginConfig struct {
	// Server is the primary login server host.
	Server string `toml:"server"`

	// Iterations is the KDF iteration count used when the account's
	// count is not supplied on the command line.
	Iterations int `toml:"iterations"`

	// MaxRedirects bounds regional-redirection hops per attempt.
	MaxRedirects int `toml:"max_redirects"`

	// PollIntervalMS paces the out-of-band approval poll loop.
	// 0 (default) lets the server's own response latency pace it.
	PollIntervalMS int `toml:"poll_interval_ms"`

	// PollMaxWaitSecs caps the total out-of-band wait. 0 (default)
	// means no client-side cap; the wait ends only on approval, server
	// error, or user cancellation.
	PollMaxWaitSecs int `toml:"poll_max_wait_secs"`

	// TOTPSecret, when set, autofills the first one-time-code prompt
	// of a Google/Microsoft Authenticator challenge.
	TOTPSecret string `toml:"totp_secret"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Login: LoginConfig{
			Server:       "lastpass.com",
			Iterations:   100100,
			MaxRedirects: 3,
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

var (
	globalMu  sync.Mutex
	globalCfg *Config
)

// Dir returns the passkeep configuration directory (~/.passkeep),
// creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".passkeep")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// Load reads config.toml from the passkeep directory, applies environment
// overrides and validation, and returns the result. A missing file is not
// an error; defaults are used.
func Load() (*Config, error) {
	cfg := Default()

	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.validate()
	return cfg, nil
}

// Global returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults.
func Global() *Config {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide configuration (used by tests).
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// applyEnvOverrides applies PASSKEEP_* environment variables on top of
// the file configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PASSKEEP_LOGIN_SERVER"); v != "" {
		cfg.Login.Server = v
	}
	if v := os.Getenv("PASSKEEP_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Login.Iterations = n
		}
	}
	if v := os.Getenv("PASSKEEP_TOTP_SECRET"); v != "" {
		cfg.Login.TOTPSecret = v
	}
}

// validate clamps out-of-range values back to usable defaults.
func (c *Config) validate() {
	if c.Login.Server == "" {
		c.Login.Server = "lastpass.com"
	}
	if c.Login.Iterations < 1 {
		c.Login.Iterations = 100100
	}
	if c.Login.MaxRedirects < 1 {
		c.Login.MaxRedirects = 3
	}
	if c.Login.PollIntervalMS < 0 {
		c.Login.PollIntervalMS = 0
	}
	if c.Login.PollMaxWaitSecs < 0 {
		c.Login.PollMaxWaitSecs = 0
	}
}
