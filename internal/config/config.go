// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for nanami-tui.
//
// Configuration is TOML with environment variable overrides and built-in
// defaults. File location: ~/.nanami/config.toml.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/nanami-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete nanami-tui configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	UI      UIConfig      `toml:"ui"`
	Todos   TodosConfig   `toml:"todos"`
}

// BackendConfig locates the Nanami agent backend.
type BackendConfig struct {
	// BaseURL is the backend root, e.g. "http://127.0.0.1:7878".
	BaseURL string `toml:"base_url"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme is "dark" or "light". The store's persisted preference, when
	// set, wins over this value.
	Theme string `toml:"theme"`
	// MarkdownWidth caps rendered message width (0 = follow terminal).
	MarkdownWidth int `toml:"markdown_width"`
}

// TodosConfig controls the todo feed.
type TodosConfig struct {
	// FeedMode selects the snapshot source: "push" (SSE) or "poll".
	FeedMode string `toml:"feed_mode"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL: "http://127.0.0.1:7878",
		},
		UI: UIConfig{
			Theme:         "dark",
			MarkdownWidth: 0,
		},
		Todos: TodosConfig{
			FeedMode: "push",
		},
	}
}

// DefaultPath returns ~/.nanami/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nanami", "config.toml"), nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the config file, layering file values over defaults and
// environment overrides over both. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides layers NANAMI_* environment variables over the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NANAMI_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("NANAMI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("NANAMI_TODO_FEED"); v != "" {
		cfg.Todos.FeedMode = v
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url must not be empty")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url %q is not a valid URL", c.Backend.BaseURL)
	}

	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme %q is not valid (dark, light)", c.UI.Theme)
	}

	switch strings.ToLower(c.Todos.FeedMode) {
	case "push", "poll":
	default:
		return fmt.Errorf("todos.feed_mode %q is not valid (push, poll)", c.Todos.FeedMode)
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the config as TOML, atomically.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}
