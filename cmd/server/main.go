// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

// Package main is the entry point for the Driftmap server.
//
// Driftmap aggregates raw GPS location pings into privacy-preserving map
// layers: a density heatmap of where people spend time, and a movement
// graph of how they travel between places. Individual trajectories never
// leave the server; only grid-snapped aggregates are served.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment variables (Koanf v2)
//  2. Database: DuckDB ping store (file-backed or in-memory)
//  3. Audit: DuckDB-backed security audit log with async writer
//  4. Rate limiter: fixed-window admission control per client
//  5. HTTP server: chi router with the two map endpoints plus health and metrics
//  6. Supervisor tree: suture-managed lifecycle for all long-running services
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file (config.yaml),
// built-in defaults. Commonly used variables:
//
//	PORT               HTTP port (default 3857)
//	DUCKDB_PATH        database file; empty means in-memory
//	SEED_MOCK_DATA     seed demo pings on an empty store (default false)
//	RATE_LIMIT_REQUESTS  admission ceiling per window (default 15)
//	CORS_ORIGINS         comma-separated allowed origins
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, drains in-flight requests (10s timeout),
// flushes the audit writer, and closes the database.
//
// # Port 3857
//
// The default port 3857 references EPSG:3857 (Web Mercator projection),
// the coordinate system used by web mapping libraries.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/driftmap/driftmap/internal/api"
	"github.com/driftmap/driftmap/internal/audit"
	"github.com/driftmap/driftmap/internal/config"
	"github.com/driftmap/driftmap/internal/database"
	"github.com/driftmap/driftmap/internal/logging"
	"github.com/driftmap/driftmap/internal/ratelimit"
	"github.com/driftmap/driftmap/internal/supervisor"
	"github.com/driftmap/driftmap/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Bool("rate_limit_disabled", cfg.Security.RateLimitDisabled).
		Msg("Starting Driftmap")

	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Seed demo pings if enabled (for local development and screenshots).
	if cfg.Database.SeedMockData {
		logging.Info().Msg("Mock data seeding enabled (SEED_MOCK_DATA=true)")
		if err := db.SeedMockPings(context.Background()); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed mock data")
		}
	}

	// Audit log shares the DuckDB connection with the ping store.
	auditStore := audit.NewDuckDBStore(db.Conn())
	if err := auditStore.CreateTable(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create audit schema")
	}
	auditLog := audit.NewLogger(auditStore, &audit.Config{
		Enabled:         cfg.Audit.Enabled,
		RetentionDays:   cfg.Audit.RetentionDays,
		CleanupInterval: cfg.Audit.CleanupInterval,
		BufferSize:      cfg.Audit.BufferSize,
		LogToStdout:     cfg.Audit.LogToStdout,
	})
	defer func() {
		if err := auditLog.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing audit logger")
		}
	}()

	limiter := ratelimit.New(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)

	handler := api.NewHandler(db, cfg, auditLog, limiter)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	// Context for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddDataService(services.NewLimiterSweeperService(limiter, time.Minute))
	if cfg.Audit.Enabled {
		tree.AddDataService(services.NewAuditRetentionService(auditLog))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished).
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
