// Package config handles YAML configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/eduardolat/pwforge/internal/backup"
	"github.com/eduardolat/pwforge/internal/generator"
	"github.com/eduardolat/pwforge/internal/history"
)

const (
	// AppDirName is the per-user directory name for config and state
	AppDirName = "pwforge"

	// DefaultLength is the default password length
	DefaultLength = 16

	// EnvConfigPath overrides the config file path
	EnvConfigPath = "PWFORGE_CONFIG"

	// EnvHistoryPath overrides the history store path
	EnvHistoryPath = "PWFORGE_HISTORY_FILE"
)

// Config represents the complete application configuration
type Config struct {
	Defaults Defaults `yaml:"defaults"`
	History  History  `yaml:"history"`
	Display  Display  `yaml:"display"`
}

// Defaults are the generation options used when no flag overrides them
type Defaults struct {
	Length  *int  `yaml:"length"`
	Upper   *bool `yaml:"upper"`
	Lower   *bool `yaml:"lower"`
	Numbers *bool `yaml:"numbers"`
	Symbols *bool `yaml:"symbols"`
}

// GetLength returns the password length (default: 16)
func (d Defaults) GetLength() int {
	if d.Length == nil {
		return DefaultLength
	}
	return *d.Length
}

// Request builds a generation request from the defaults.
// Every class is enabled unless explicitly disabled.
func (d Defaults) Request() generator.Request {
	return generator.Request{
		Length:  d.GetLength(),
		Upper:   boolOrDefault(d.Upper, true),
		Lower:   boolOrDefault(d.Lower, true),
		Numbers: boolOrDefault(d.Numbers, true),
		Symbols: boolOrDefault(d.Symbols, true),
	}
}

// History controls persistence of recently generated passwords
type History struct {
	Enabled             *bool  `yaml:"enabled"`
	Path                string `yaml:"path"`
	Slot                string `yaml:"slot"`
	QuarantineRetention *int   `yaml:"quarantine_retention"`
}

// IsEnabled returns true if history is recorded (default: true)
func (h History) IsEnabled() bool {
	return boolOrDefault(h.Enabled, true)
}

// GetPath returns the store file path (default: user state directory)
func (h History) GetPath() string {
	if h.Path == "" {
		return DefaultHistoryPath()
	}
	return h.Path
}

// GetSlot returns the store slot name (default: passwordHistory)
func (h History) GetSlot() string {
	if h.Slot == "" {
		return history.DefaultSlot
	}
	return h.Slot
}

// GetQuarantineRetention returns how many corrupt store copies to keep (default: 5)
func (h History) GetQuarantineRetention() int {
	if h.QuarantineRetention == nil {
		return backup.DefaultRetentionCount
	}
	return *h.QuarantineRetention
}

// Display controls terminal output
type Display struct {
	Color    *bool `yaml:"color"`
	Estimate *bool `yaml:"estimate"`
}

// IsColorEnabled returns true if output is colored (default: true)
func (d Display) IsColorEnabled() bool {
	return boolOrDefault(d.Color, true)
}

// IsEstimateEnabled returns true if the entropy estimate is shown (default: true)
func (d Display) IsEstimateEnabled() bool {
	return boolOrDefault(d.Estimate, true)
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/pwforge/config.yaml or the
// platform equivalent
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", AppDirName, "config.yaml")
	}
	return filepath.Join(dir, AppDirName, "config.yaml")
}

// DefaultHistoryPath returns $XDG_STATE_HOME/pwforge/store.json, falling
// back to ~/.local/state
func DefaultHistoryPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppDirName, "store.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", AppDirName, "store.json")
	}
	return filepath.Join(home, ".local", "state", AppDirName, "store.json")
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{}
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// LoadOrDefault is Load, except that a missing file yields Default
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Parse parses YAML configuration data
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnv applies environment overrides to the configuration
func (c *Config) ApplyEnv(getenv func(string) string) {
	if path := getenv(EnvHistoryPath); path != "" {
		c.History.Path = path
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	length := c.Defaults.GetLength()
	if length < 1 || length > generator.MaxLength {
		return fmt.Errorf("config: defaults.length must be between 1 and %d, got %d", generator.MaxLength, length)
	}

	if c.History.GetQuarantineRetention() < 0 {
		return errors.New("config: history.quarantine_retention cannot be negative")
	}

	return nil
}

func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
