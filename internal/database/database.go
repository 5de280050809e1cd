// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

// Package database provides the DuckDB-backed location ping store.
//
// The ingest path (client devices writing pings) is owned by a separate
// service; this package only reads the location_pings table, plus an
// insert helper used for seeding and tests.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/driftmap/driftmap/internal/config"
	"github.com/driftmap/driftmap/internal/logging"
	"github.com/driftmap/driftmap/internal/metrics"
	"github.com/driftmap/driftmap/internal/models"
)

// DB wraps the DuckDB connection for the ping store.
type DB struct {
	conn *sql.DB
	cfg  config.DatabaseConfig
}

// New opens the DuckDB database, configures the connection pool, and
// creates the schema if missing.
func New(cfg config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(runtime.NumCPU())
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	db := &DB{conn: conn, cfg: cfg}

	if err := db.initSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Str("max_memory", cfg.MaxMemory).
		Msg("Database connection established")

	return db, nil
}

// initSchema creates the location_pings table and its indexes if missing.
func (db *DB) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE SEQUENCE IF NOT EXISTS location_pings_id_seq`,
		`CREATE TABLE IF NOT EXISTS location_pings (
			id BIGINT PRIMARY KEY DEFAULT nextval('location_pings_id_seq'),
			user_id TEXT NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pings_created_at ON location_pings(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_pings_user_id ON location_pings(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	return nil
}

// Conn exposes the underlying connection so other stores (the audit sink)
// can share the same database file.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// QueryPings returns pings created at or after since, ordered by creation
// time. A nil since means no lower bound. maxPoints caps the result size so
// one aggregation pass stays bounded.
func (db *DB) QueryPings(ctx context.Context, since *time.Time, maxPoints int) ([]models.LocationPing, error) {
	start := time.Now()

	query := "SELECT user_id, latitude, longitude, created_at FROM location_pings"
	var args []interface{}
	if since != nil {
		query += " WHERE created_at >= ?"
		args = append(args, *since)
	}
	query += " ORDER BY created_at ASC"
	if maxPoints > 0 {
		query += fmt.Sprintf(" LIMIT %d", maxPoints)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "location_pings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query pings: %w", err)
	}
	defer rows.Close()

	var pings []models.LocationPing
	for rows.Next() {
		var p models.LocationPing
		if err := rows.Scan(&p.UserID, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ping: %w", err)
		}
		pings = append(pings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pings: %w", err)
	}

	metrics.DBPingsQueried.Add(float64(len(pings)))
	return pings, nil
}

// InsertPing writes one ping. Used by seeding and tests; production ingest
// goes through the separate writer service.
func (db *DB) InsertPing(ctx context.Context, p *models.LocationPing) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO location_pings (user_id, latitude, longitude, created_at) VALUES (?, ?, ?, ?)",
		p.UserID, p.Latitude, p.Longitude, p.CreatedAt)
	metrics.RecordDBQuery("insert", "location_pings", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert ping: %w", err)
	}
	return nil
}

// CountPings returns the total number of stored pings.
func (db *DB) CountPings(ctx context.Context) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM location_pings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pings: %w", err)
	}
	return count, nil
}
