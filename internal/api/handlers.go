// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

// Package api provides the HTTP endpoint handlers and routing for the two
// aggregate map views, plus health and metrics endpoints.
package api

import (
	"context"
	"time"

	"github.com/driftmap/driftmap/internal/audit"
	"github.com/driftmap/driftmap/internal/config"
	"github.com/driftmap/driftmap/internal/models"
	"github.com/driftmap/driftmap/internal/ratelimit"
)

// PingSource is the read interface onto the location ping store.
type PingSource interface {
	// QueryPings returns pings created at or after since, chronologically
	// ordered. A nil since means unbounded.
	QueryPings(ctx context.Context, since *time.Time, maxPoints int) ([]models.LocationPing, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	pings     PingSource
	cfg       *config.Config
	auditLog  *audit.Logger
	limiter   *ratelimit.Limiter
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(pings PingSource, cfg *config.Config, auditLog *audit.Logger, limiter *ratelimit.Limiter) *Handler {
	return &Handler{
		pings:     pings,
		cfg:       cfg,
		auditLog:  auditLog,
		limiter:   limiter,
		startTime: time.Now(),
	}
}
