// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestDefaultRateLimitValues(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Security.RateLimitReqs != 15 {
		t.Errorf("default rate_limit_requests = %d, want 15", cfg.Security.RateLimitReqs)
	}
	if cfg.Security.RateLimitWindow != 60*time.Second {
		t.Errorf("default rate_limit_window = %s, want 60s", cfg.Security.RateLimitWindow)
	}
}

func TestDefaultAggregationValues(t *testing.T) {
	cfg := defaultConfig()
	agg := cfg.Aggregation
	if agg.DensityGridSize != 0.003 {
		t.Errorf("default density_grid_size = %g, want 0.003", agg.DensityGridSize)
	}
	if agg.MovementGridSize != 0.001 {
		t.Errorf("default movement_grid_size = %g, want 0.001", agg.MovementGridSize)
	}
	if agg.MinMoveMeters != 50 || agg.MaxMoveMeters != 10000 {
		t.Errorf("default move band = (%g, %g), want (50, 10000)", agg.MinMoveMeters, agg.MaxMoveMeters)
	}
	if agg.MinFrequency != 2 {
		t.Errorf("default min_frequency = %d, want 2", agg.MinFrequency)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "server.timeout"},
		{"zero rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "rate_limit_requests"},
		{"sub-second window", func(c *Config) { c.Security.RateLimitWindow = 500 * time.Millisecond }, "rate_limit_window"},
		{"zero audit buffer", func(c *Config) { c.Audit.BufferSize = 0 }, "audit.buffer_size"},
		{"zero retention", func(c *Config) { c.Audit.RetentionDays = 0 }, "audit.retention_days"},
		{"negative min move", func(c *Config) { c.Aggregation.MinMoveMeters = -1 }, "min_move_meters"},
		{"inverted move band", func(c *Config) { c.Aggregation.MaxMoveMeters = 10 }, "max_move_meters"},
		{"zero density grid", func(c *Config) { c.Aggregation.DensityGridSize = 0 }, "density_grid_size"},
		{"zero min frequency", func(c *Config) { c.Aggregation.MinFrequency = 0 }, "min_frequency"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"PORT", "server.port"},
		{"DATABASE_PATH", "database.path"},
		{"DUCKDB_PATH", "database.path"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_requests"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"AUDIT_RETENTION_DAYS", "audit.retention_days"},
		{"MIN_FREQUENCY", "aggregation.min_frequency"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
		{"SOME_RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("RATE_LIMIT_REQUESTS", "30")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Security.RateLimitReqs != 30 {
		t.Errorf("RateLimitReqs = %d, want 30", cfg.Security.RateLimitReqs)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}

func TestServerAddr(t *testing.T) {
	sc := ServerConfig{Host: "127.0.0.1", Port: 3857}
	if got := sc.Addr(); got != "127.0.0.1:3857" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:3857")
	}
}
