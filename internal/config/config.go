// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

// Package config defines the application configuration and its layered
// loading (defaults, optional YAML file, environment variables).
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Security    SecurityConfig    `koanf:"security"`
	Audit       AuditConfig       `koanf:"audit"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds the DuckDB ping-store settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file; empty means in-memory.
	Path         string `koanf:"path"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"`
	SeedMockData bool   `koanf:"seed_mock_data"`
}

// SecurityConfig holds admission-control and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// AuditConfig holds security-audit-log settings.
type AuditConfig struct {
	Enabled         bool          `koanf:"enabled"`
	RetentionDays   int           `koanf:"retention_days"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	BufferSize      int           `koanf:"buffer_size"`
	LogToStdout     bool          `koanf:"log_to_stdout"`
}

// AggregationConfig holds the tunables of the two aggregation pipelines.
// Defaults match the calibrated production values; change with care, they
// shift grid-cell boundaries and filtering bands.
type AggregationConfig struct {
	DensityGridSize  float64 `koanf:"density_grid_size"`
	MovementGridSize float64 `koanf:"movement_grid_size"`
	MinMoveMeters    float64 `koanf:"min_move_meters"`
	MaxMoveMeters    float64 `koanf:"max_move_meters"`
	MinFrequency     int     `koanf:"min_frequency"`
	MaxPoints        int     `koanf:"max_points"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid combinations and returns a
// descriptive error for the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_requests must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("security.rate_limit_window must be at least 1s, got %s", c.Security.RateLimitWindow)
	}
	if c.Audit.BufferSize < 1 {
		return fmt.Errorf("audit.buffer_size must be at least 1, got %d", c.Audit.BufferSize)
	}
	if c.Audit.RetentionDays < 1 {
		return fmt.Errorf("audit.retention_days must be at least 1, got %d", c.Audit.RetentionDays)
	}
	if c.Audit.CleanupInterval < time.Minute {
		return fmt.Errorf("audit.cleanup_interval must be at least 1m, got %s", c.Audit.CleanupInterval)
	}
	if c.Aggregation.DensityGridSize <= 0 {
		return fmt.Errorf("aggregation.density_grid_size must be positive, got %g", c.Aggregation.DensityGridSize)
	}
	if c.Aggregation.MovementGridSize <= 0 {
		return fmt.Errorf("aggregation.movement_grid_size must be positive, got %g", c.Aggregation.MovementGridSize)
	}
	if c.Aggregation.MinMoveMeters < 0 {
		return fmt.Errorf("aggregation.min_move_meters must not be negative, got %g", c.Aggregation.MinMoveMeters)
	}
	if c.Aggregation.MaxMoveMeters <= c.Aggregation.MinMoveMeters {
		return fmt.Errorf("aggregation.max_move_meters (%g) must exceed min_move_meters (%g)",
			c.Aggregation.MaxMoveMeters, c.Aggregation.MinMoveMeters)
	}
	if c.Aggregation.MinFrequency < 1 {
		return fmt.Errorf("aggregation.min_frequency must be at least 1, got %d", c.Aggregation.MinFrequency)
	}
	if c.Aggregation.MaxPoints < 1 {
		return fmt.Errorf("aggregation.max_points must be at least 1, got %d", c.Aggregation.MaxPoints)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
