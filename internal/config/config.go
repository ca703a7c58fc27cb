// Package config loads client configuration from an optional YAML file,
// applies environment overrides, and fills in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the ONVO CLI.
type Config struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	LogLevel       string `yaml:"log_level"`
	StoragePath    string `yaml:"storage_path"`
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "onvo", "config.yaml")
}

// Load reads the config file at path, if it exists, then overlays
// environment variables and fills in defaults. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ONVO_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("ONVO_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("ONVO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ONVO_STORAGE_PATH"); v != "" {
		c.StoragePath = v
	}
}

func (c *Config) setDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://yamimanga.me/"
	}
	// Endpoint paths are appended directly to the base URL.
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StoragePath == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			c.StoragePath = filepath.Join(homeDir, ".local", "onvo-cli", "db", "onvo.db")
		}
	}
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.StoragePath == "" {
		return fmt.Errorf("storage_path is required")
	}
	return nil
}
