// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for haven.
//
// Configuration lives at ~/.haven/config.toml, with sensible defaults
// and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete haven configuration.
type Config struct {
	// Version of the config schema, for future migrations
	Version string `toml:"version"`

	// Backend connection settings
	Backend BackendConfig `toml:"backend"`

	// Chat behavior
	Chat ChatConfig `toml:"chat"`

	// Voice recording
	Voice VoiceConfig `toml:"voice"`

	// UI settings
	UI UIConfig `toml:"ui"`
}

// BackendConfig contains API gateway connection settings.
type BackendConfig struct {
	// URL is the API gateway base URL
	URL string `toml:"url"`

	// TimeoutSeconds for ordinary requests
	TimeoutSeconds int `toml:"timeout_seconds"`

	// VoiceTimeoutSeconds for voice uploads, which include server-side
	// transcription time
	VoiceTimeoutSeconds int `toml:"voice_timeout_seconds"`
}

// ChatConfig contains conversation settings.
type ChatConfig struct {
	// Language is the BCP 47 code sent with outgoing messages
	Language string `toml:"language"`

	// ReportDays is the default wellness report window
	ReportDays int `toml:"report_days"`
}

// VoiceConfig contains recording settings.
type VoiceConfig struct {
	// Enabled toggles the voice input feature
	Enabled bool `toml:"enabled"`

	// MaxSeconds caps a single recording
	MaxSeconds int `toml:"max_seconds"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "dark", "light", or "auto"
	Theme string `toml:"theme"`

	// CompactMode reduces message spacing
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Backend: BackendConfig{
			URL:                 "http://127.0.0.1:8000",
			TimeoutSeconds:      30,
			VoiceTimeoutSeconds: 120,
		},
		Chat: ChatConfig{
			Language:   "en",
			ReportDays: 7,
		},
		Voice: VoiceConfig{
			Enabled:    true,
			MaxSeconds: 120,
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// VoiceTimeout returns the voice upload timeout as a duration.
func (c *BackendConfig) VoiceTimeout() time.Duration {
	return time.Duration(c.VoiceTimeoutSeconds) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the haven configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".haven"), nil
}

// ConfigPath returns the path to config.toml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration, layering the config file and
// environment overrides over the defaults. A missing file is not an
// error.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if loadErr := LoadFromPath(cfg, path); loadErr != nil && !os.IsNotExist(loadErr) {
			return cfg, loadErr
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadFromPath decodes a TOML config file over cfg. Returns an error
// satisfying os.IsNotExist when the file is missing.
func LoadFromPath(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to config.toml.
func Save(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(dir, "config.toml")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides layers HAVEN_* environment variables over the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HAVEN_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("HAVEN_LANGUAGE"); v != "" {
		c.Chat.Language = v
	}
	if v := os.Getenv("HAVEN_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("backend.url must be an http(s) URL, got %q", c.Backend.URL)
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("backend.timeout_seconds must be positive")
	}
	if _, err := language.Parse(c.Chat.Language); err != nil {
		return fmt.Errorf("chat.language %q is not a valid language tag: %w", c.Chat.Language, err)
	}
	if c.Chat.ReportDays <= 0 || c.Chat.ReportDays > 90 {
		return fmt.Errorf("chat.report_days must be between 1 and 90")
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light, or auto, got %q", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	loaded, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		globalConfig = loaded
	}
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
}
