package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".pseudonym"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .pseudonym configuration file.
// Durations are YAML strings in Go duration syntax ("100s", "2m30s").
// Every field is optional; absent fields keep their defaults.
type File struct {
	// Listen overrides the HTTP server bind address.
	Listen string `yaml:"listen,omitempty"`

	// TTL overrides how long stored identity records stay fresh.
	TTL string `yaml:"ttl,omitempty"`

	// FetchTimeout overrides the timeout for a single page fetch.
	FetchTimeout string `yaml:"fetchTimeout,omitempty"`

	// UserAgent overrides the User-Agent header for page fetches.
	UserAgent string `yaml:"userAgent,omitempty"`

	// DBDir overrides the database directory.
	DBDir string `yaml:"dbDir,omitempty"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies the file's overrides onto cfg. Duration fields are parsed
// with time.ParseDuration; a malformed duration fails the whole load so
// that a typo does not silently fall back to a default.
func (f *File) Apply(cfg *Config) error {
	if f.Listen != "" {
		cfg.ListenAddress = f.Listen
	}
	if f.TTL != "" {
		d, err := time.ParseDuration(f.TTL)
		if err != nil {
			return fmt.Errorf("config file ttl: %w", err)
		}
		cfg.TTL = d
	}
	if f.FetchTimeout != "" {
		d, err := time.ParseDuration(f.FetchTimeout)
		if err != nil {
			return fmt.Errorf("config file fetchTimeout: %w", err)
		}
		cfg.FetchTimeout = d
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.DBDir != "" {
		cfg.DBDir = f.DBDir
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .pseudonym in the current directory
// 3. Look for .pseudonym in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
