// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package api

import (
	"net/http"
	"time"

	"github.com/driftmap/driftmap/internal/aggregate"
	"github.com/driftmap/driftmap/internal/models"
	"github.com/driftmap/driftmap/internal/validation"
)

// densityRequest carries the validated query parameters of the density
// endpoint. HourOfDay and DayOfWeek use -1 for "not set".
type densityRequest struct {
	TimeFilter string `validate:"oneof=all today this_week this_hour"`
	HourOfDay  int    `validate:"min=-1,max=23"`
	DayOfWeek  int    `validate:"min=-1,max=6"`
}

// movementRequest carries the validated query parameters of the
// movement-paths endpoint.
type movementRequest struct {
	TimeFilter   string `validate:"oneof=all today this_week this_hour"`
	MinFrequency int    `validate:"min=1"`
}

// MapDensity handles GET|POST /api/v1/map/density.
//
// Query parameters: time_filter (all|today|this_week|this_hour, default
// all), hour_of_day (0-23), day_of_week (0-6, Sunday=0).
func (h *Handler) MapDensity(w http.ResponseWriter, r *http.Request) {
	req := densityRequest{
		TimeFilter: getStringParam(r, "time_filter", "all"),
		HourOfDay:  getIntParam(r, "hour_of_day", -1),
		DayOfWeek:  getIntParam(r, "day_of_week", -1),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.ToAPIError().Message, nil)
		return
	}

	since := models.TimeFilter(req.TimeFilter).WindowStart(time.Now())

	pings, err := h.pings.QueryPings(r.Context(), since, h.cfg.Aggregation.MaxPoints)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load location data", err)
		return
	}

	fc, stats := aggregate.Density(pings, h.cfg.Aggregation, req.HourOfDay, req.DayOfWeek)

	respondJSON(w, http.StatusOK, &models.DensityResponse{
		Success: true,
		GeoJSON: fc,
		Stats:   stats,
	})
}

// MapMovementPaths handles GET /api/v1/map/movement-paths.
//
// Query parameters: time_filter (same set as density), min_frequency
// (default 2) — edges seen fewer times are dropped.
func (h *Handler) MapMovementPaths(w http.ResponseWriter, r *http.Request) {
	req := movementRequest{
		TimeFilter:   getStringParam(r, "time_filter", "all"),
		MinFrequency: getIntParam(r, "min_frequency", h.cfg.Aggregation.MinFrequency),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, verr.ToAPIError().Message, nil)
		return
	}

	since := models.TimeFilter(req.TimeFilter).WindowStart(time.Now())

	pings, err := h.pings.QueryPings(r.Context(), since, h.cfg.Aggregation.MaxPoints)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load location data", err)
		return
	}

	fc, stats := aggregate.Movement(pings, h.cfg.Aggregation, req.MinFrequency)

	respondJSON(w, http.StatusOK, &models.MovementResponse{
		GeoJSON: fc,
		Stats:   stats,
	})
}
