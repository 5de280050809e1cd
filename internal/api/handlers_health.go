// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package api

import (
	"context"
	"net/http"
	"time"
)

// healthResponse is the body of the health endpoints.
type healthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds,omitempty"`
	Database      string  `json:"database,omitempty"`
}

// HealthLive handles GET /api/v1/health/live. Liveness only: the process
// is up and serving. Never touches the database.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &healthResponse{Status: "ok"})
}

// HealthReady handles GET /api/v1/health/ready. Readiness includes a ping
// to the ping store; a failing store means 503.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.pings.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "Database not ready", err)
		return
	}

	respondJSON(w, http.StatusOK, &healthResponse{
		Status:   "ready",
		Database: "ok",
	})
}

// Health handles GET /api/v1/health. Summary status with uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "ok"
	status := "ok"
	if err := h.pings.Ping(ctx); err != nil {
		dbStatus = "unavailable"
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, &healthResponse{
		Status:        status,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Database:      dbStatus,
	})
}
