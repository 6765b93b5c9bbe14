package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Hearth Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	Logging       LoggingConfig       `yaml:"logging"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Energy        EnergyConfig        `yaml:"energy"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// NotificationsConfig contains notification queue settings.
type NotificationsConfig struct {
	// Capacity is the fixed size of the in-memory notification ring.
	// Older notifications are evicted; the audit trail retains everything.
	Capacity int `yaml:"capacity"`
}

// EnergyConfig contains energy reading settings.
type EnergyConfig struct {
	// SeedSamples inserts a sample week of readings when the table is empty,
	// so the dashboard chart has something to draw on first run.
	SeedSamples bool `yaml:"seed_samples"`
}

// Load reads configuration from a YAML file, applies environment variable
// overrides, and validates the result.
//
// Environment overrides follow the pattern HEARTH_SECTION_KEY,
// for example: HEARTH_DATABASE_PATH, HEARTH_LOG_LEVEL.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/hearth.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Notifications: NotificationsConfig{
			Capacity: 50,
		},
		Energy: EnergyConfig{
			SeedSamples: true,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HEARTH_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEARTH_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("HEARTH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HEARTH_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate checks the configuration for invalid or inconsistent values.
//
// Returns:
//   - error: Describing the first invalid field found, or nil
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout must not be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q is not one of json, text", c.Logging.Format)
	}

	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("logging.output %q is not one of stdout, stderr", c.Logging.Output)
	}

	if c.Notifications.Capacity <= 0 {
		return fmt.Errorf("notifications.capacity must be positive")
	}

	return nil
}
