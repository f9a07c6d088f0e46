// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the cube engine.
type Config struct {
	WarehousePath string        // path to the DuckDB warehouse file ("" = in-memory)
	WarehousePool int           // warehouse connection pool size (default 4)
	CubeConfigDir string        // directory of declarative cube definitions (optional)
	QueryTimeout  time.Duration // per-query deadline (default 30s, 0 disables)
	RefreshCron   string        // cron schedule for cube refreshes (optional)
	LogLevel      string        // log level: debug, info, warn, error (default "info")
	Env           string        // environment: "development" (default) or "production"
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		WarehousePath: os.Getenv("WAREHOUSE_PATH"),
		CubeConfigDir: os.Getenv("CUBE_CONFIG_DIR"),
		RefreshCron:   os.Getenv("REFRESH_CRON"),
		LogLevel:      envDefault("LOG_LEVEL", "info"),
		Env:           envDefault("ENV", "development"),
		QueryTimeout:  30 * time.Second,
		WarehousePool: 4,
	}

	if v := os.Getenv("QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("QUERY_TIMEOUT: %w", err)
		}
		cfg.QueryTimeout = d
	}
	if v := os.Getenv("WAREHOUSE_POOL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("WAREHOUSE_POOL must be a positive integer, got %q", v)
		}
		cfg.WarehousePool = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be \"development\" or \"production\", got %q", c.Env)
	}
	if c.QueryTimeout < 0 {
		return fmt.Errorf("QUERY_TIMEOUT must not be negative")
	}
	if c.Env == "production" && c.WarehousePath == "" {
		return fmt.Errorf("WAREHOUSE_PATH is required in production")
	}
	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
