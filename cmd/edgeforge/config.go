package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration. This is the tool's own
// configuration (logging, platform CLI, history store); the deploy
// configuration describing domains is a separate file loaded by the
// registry.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Deploy  DeployConfig  `mapstructure:"deploy"`
	History HistoryConfig `mapstructure:"history"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DeployConfig holds deployment execution configuration.
type DeployConfig struct {
	// ConfigPath is the deploy configuration file describing domains.
	ConfigPath string `mapstructure:"config_path"`

	// Command is the external platform CLI invoked to deploy one domain.
	// The domain identifier is appended as the final argument.
	Command string `mapstructure:"command"`

	// Args are passed to the command before the domain identifier.
	Args []string `mapstructure:"args"`

	// Timeout bounds a single domain's deploy invocation. The orchestrator
	// itself applies no timeout; this is enforced inside the deploy
	// operation.
	Timeout time.Duration `mapstructure:"timeout"`

	// Parallelism bounds how many domains deploy concurrently per batch.
	Parallelism int `mapstructure:"parallelism"`

	// RollbackOnError escalates any per-domain failure to a failed run.
	RollbackOnError bool `mapstructure:"rollback_on_error"`
}

// HistoryConfig holds run history store configuration.
type HistoryConfig struct {
	// Enabled determines whether runs are recorded.
	Enabled bool `mapstructure:"enabled"`

	// DSN is the SQLite database path.
	DSN string `mapstructure:"dsn"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("deploy.config_path", "edgeforge.json")
	v.SetDefault("deploy.command", "wrangler")
	v.SetDefault("deploy.args", []string{"deploy"})
	v.SetDefault("deploy.timeout", "10m")
	v.SetDefault("deploy.parallelism", 3)
	v.SetDefault("deploy.rollback_on_error", false)
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.dsn", "./data/edgeforge.db")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("EDGEFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
