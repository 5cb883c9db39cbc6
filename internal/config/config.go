// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

// Package config provides configuration loading and management for promptdeck.
//
// Configuration lives in ~/.promptdeck/config.toml with sensible defaults and
// environment variable overrides. The generation settings are read fresh on
// every send, so edits apply to the next exchange without restarting.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/promptdeck/promptdeck/internal/model"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete promptdeck configuration.
type Config struct {
	// Provider connection settings
	Provider ProviderConfig `toml:"provider"`

	// Chat generation settings
	Chat ChatConfig `toml:"chat"`

	// UI settings
	UI UIConfig `toml:"ui"`
}

// ProviderConfig contains the provider connection settings.
type ProviderConfig struct {
	// BaseURL is the provider API base URL, e.g. "https://api.openai.com/v1"
	BaseURL string `toml:"base_url"`
	// APIKey is the provider credential. Sent verbatim in the Authorization
	// header; include a "Bearer " prefix here if the provider requires one.
	APIKey string `toml:"api_key"`
	// TimeoutSecs is the HTTP request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
}

// ChatConfig contains the per-exchange generation settings.
type ChatConfig struct {
	// Model is the model identifier sent with each request
	Model string `toml:"model"`
	// Temperature is passed to the provider verbatim; the provider defines
	// the acceptable range
	Temperature float64 `toml:"temperature"`
	// SystemPrompt, when non-empty, is sent as the first message of each
	// request. It is rebuilt fresh each send, never stored in the log.
	SystemPrompt string `toml:"system_prompt"`
}

// UIConfig contains display settings.
type UIConfig struct {
	// Markdown enables rich rendering of assistant replies
	Markdown bool `toml:"markdown"`
	// Theme selects the glamour style: "auto", "dark", "light", or "notty"
	Theme string `toml:"theme"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:     "https://api.openai.com/v1",
			TimeoutSecs: 60,
		},
		Chat: ChatConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
		},
		UI: UIConfig{
			Markdown: true,
			Theme:    "auto",
		},
	}
}

// GenerationConfig snapshots the current generation settings for one send.
func (c *Config) GenerationConfig() model.GenerationConfig {
	return model.GenerationConfig{
		Model:        c.Chat.Model,
		Temperature:  c.Chat.Temperature,
		SystemPrompt: c.Chat.SystemPrompt,
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the promptdeck configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".promptdeck"), nil
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
// SECURITY: Config files should be 0600 (owner read/write only) because the
// API key lives in them.
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

// Load loads the configuration from the default path, falling back to
// defaults when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads the configuration from the given TOML file. A missing
// file is not an error; defaults apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := ensureSecurePermissions(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes the configuration to the default path with owner-only
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

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	// PROMPTDECK_API_KEY takes priority; OPENAI_API_KEY is honored for
	// compatibility with other tooling.
	if key := os.Getenv("PROMPTDECK_API_KEY"); key != "" {
		c.Provider.APIKey = key
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}

	if base := os.Getenv("PROMPTDECK_BASE_URL"); base != "" {
		c.Provider.BaseURL = base
	}

	if m := os.Getenv("PROMPTDECK_MODEL"); m != "" {
		c.Chat.Model = m
	}
}

// fillDefaults backfills zero values a partial config file left unset.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = def.Provider.BaseURL
	}
	if c.Provider.TimeoutSecs <= 0 {
		c.Provider.TimeoutSecs = def.Provider.TimeoutSecs
	}
	if c.Chat.Model == "" {
		c.Chat.Model = def.Chat.Model
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// =============================================================================
// GLOBAL CONFIG INSTANCE
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// UpdateGlobal applies fn to the global configuration under the global
// lock. UI mutations go through here so background sends reading the
// generation settings never observe a torn write.
func UpdateGlobal(fn func(*Config)) {
	cfg := Global()
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	fn(cfg)
}

// CurrentGeneration snapshots the global generation settings for one send.
func CurrentGeneration() model.GenerationConfig {
	cfg := Global()
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return cfg.GenerationConfig()
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
	globalConfigOnce.Do(func() {})
}

// ResetGlobalForTesting resets the global config state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
