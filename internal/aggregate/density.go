// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

// Package aggregate implements the two privacy-preserving aggregation
// passes: the density heatmap and the movement-path graph. Both operate on
// a bounded, time-filtered slice of pings and keep no state between calls;
// individual trajectories never reach the output.
package aggregate

import (
	"time"

	"github.com/driftmap/driftmap/internal/config"
	"github.com/driftmap/driftmap/internal/geo"
	"github.com/driftmap/driftmap/internal/metrics"
	"github.com/driftmap/driftmap/internal/models"
)

// cellKey identifies one grid cell by its snapped origin.
type cellKey struct {
	lat float64
	lng float64
}

// Density bins pings into the density grid and returns the populated cells
// as a GeoJSON feature collection plus summary statistics.
//
// hourOfDay (0-23) and dayOfWeek (0-6, Sunday=0) are post-filters applied
// after the time-window query; pass -1 to disable either. Pings with
// non-finite coordinates are skipped, never fatal.
func Density(pings []models.LocationPing, cfg config.AggregationConfig, hourOfDay, dayOfWeek int) (models.DensityFeatureCollection, models.DensityStats) {
	start := time.Now()

	counts := make(map[cellKey]int)
	totalPoints := 0

	for i := range pings {
		p := &pings[i]

		if hourOfDay >= 0 && p.CreatedAt.Hour() != hourOfDay {
			continue
		}
		if dayOfWeek >= 0 && int(p.CreatedAt.Weekday()) != dayOfWeek {
			continue
		}
		if !geo.Finite(p.Latitude, p.Longitude) {
			continue
		}

		lat, lng := geo.SnapFloor(p.Latitude, p.Longitude, cfg.DensityGridSize)
		counts[cellKey{lat: lat, lng: lng}]++
		totalPoints++
	}

	fc, stats := encodeDensity(counts, totalPoints)
	metrics.RecordAggregation("density", time.Since(start), len(fc.Features))
	return fc, stats
}
