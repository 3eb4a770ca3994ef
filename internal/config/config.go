package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when a setting is absent from config.json.
const (
	DefaultLanguage   = "en"
	DefaultCutoffHour = 17
)

// Config represents the flat stride configuration.
type Config struct {
	Version            string `json:"version"`
	DefaultLanguage    string `json:"default_language,omitempty"`     // "en" or "fr", applied at enrollment
	FallbackCutoffHour int    `json:"fallback_cutoff_hour,omitempty"` // local hour after which missing data triggers fallback
}

// DefaultConfig returns a config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:            "1",
		DefaultLanguage:    DefaultLanguage,
		FallbackCutoffHour: DefaultCutoffHour,
	}
}

// ConfigDir returns the directory holding config.json and the database.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".stride"), nil
}

// LoadConfig reads config.json from the stride directory. A missing file is
// not an error: commands must work on defaults before `stride init` has run.
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = DefaultLanguage
	}
	if cfg.FallbackCutoffHour == 0 {
		cfg.FallbackCutoffHour = DefaultCutoffHour
	}

	return &cfg, nil
}

// SaveConfig writes config.json to the stride directory.
func SaveConfig(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create stride dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
