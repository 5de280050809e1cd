// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package aggregate

import (
	"sort"
	"time"

	"github.com/driftmap/driftmap/internal/config"
	"github.com/driftmap/driftmap/internal/geo"
	"github.com/driftmap/driftmap/internal/metrics"
	"github.com/driftmap/driftmap/internal/models"
)

// edgeKey identifies a directed transition between two movement-grid cells.
// Coordinates are stored in GeoJSON order (lng, lat). A→B and its reverse
// B→A are distinct edges.
type edgeKey struct {
	fromLng float64
	fromLat float64
	toLng   float64
	toLat   float64
}

// edgeAcc accumulates one edge's frequency and unique-user set.
type edgeAcc struct {
	frequency int
	users     map[string]struct{}
}

// Movement reconstructs per-user chronological ping sequences, keeps
// consecutive pairs whose ground distance falls strictly inside the
// configured band, snaps both endpoints to the movement grid, and
// accumulates directed edge frequencies and unique-user counts.
//
// Edges below minFrequency are dropped after aggregation. A user with
// fewer than two pings contributes nothing. If filtering removes every
// edge, the result is an empty collection with zeroed statistics.
func Movement(pings []models.LocationPing, cfg config.AggregationConfig, minFrequency int) (models.MovementFeatureCollection, models.MovementStats) {
	start := time.Now()

	byUser := make(map[string][]models.LocationPing)
	for i := range pings {
		byUser[pings[i].UserID] = append(byUser[pings[i].UserID], pings[i])
	}

	edges := make(map[edgeKey]*edgeAcc)

	for userID, sequence := range byUser {
		sort.Slice(sequence, func(i, j int) bool {
			return sequence[i].CreatedAt.Before(sequence[j].CreatedAt)
		})

		for i := 0; i+1 < len(sequence); i++ {
			cur, next := &sequence[i], &sequence[i+1]

			if !geo.Finite(cur.Latitude, cur.Longitude) || !geo.Finite(next.Latitude, next.Longitude) {
				continue
			}

			// Strict band: at or below the minimum is GPS noise, at or
			// above the maximum is a teleport (clock skew, spoofing).
			d := geo.DistanceMeters(cur.Latitude, cur.Longitude, next.Latitude, next.Longitude)
			if !(d > cfg.MinMoveMeters && d < cfg.MaxMoveMeters) {
				continue
			}

			fromLat, fromLng := geo.SnapRound(cur.Latitude, cur.Longitude, cfg.MovementGridSize)
			toLat, toLng := geo.SnapRound(next.Latitude, next.Longitude, cfg.MovementGridSize)

			key := edgeKey{fromLng: fromLng, fromLat: fromLat, toLng: toLng, toLat: toLat}
			acc, ok := edges[key]
			if !ok {
				acc = &edgeAcc{users: make(map[string]struct{})}
				edges[key] = acc
			}
			acc.frequency++
			acc.users[userID] = struct{}{}
		}
	}

	for key, acc := range edges {
		if acc.frequency < minFrequency {
			delete(edges, key)
		}
	}

	fc, stats := encodeMovement(edges)
	metrics.RecordAggregation("movement", time.Since(start), len(fc.Features))
	return fc, stats
}
