// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/driftmap/driftmap/internal/logging"
	"github.com/driftmap/driftmap/internal/models"
)

// SeedMockPings populates the ping store with synthetic random-walk
// trajectories for demo and development use. Skips seeding when the table
// already has data.
func (db *DB) SeedMockPings(ctx context.Context) error {
	count, err := db.CountPings(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing pings: %w", err)
	}
	if count > 0 {
		logging.Info().Int64("existing", count).Msg("Ping store not empty, skipping mock seed")
		return nil
	}

	const (
		numUsers     = 25
		pingsPerUser = 80
		// Seed walks start around central Berlin.
		centerLat = 52.5200
		centerLng = 13.4050
	)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()
	inserted := 0

	for u := 0; u < numUsers; u++ {
		userID := uuid.NewString()

		// Scatter starting points within ~5km of the center.
		lat := centerLat + (rng.Float64()-0.5)*0.09
		lng := centerLng + (rng.Float64()-0.5)*0.09

		// Walk backwards in time so created_at stays plausible.
		ts := now.Add(-time.Duration(rng.Intn(7*24)) * time.Hour)

		for p := 0; p < pingsPerUser; p++ {
			ping := &models.LocationPing{
				UserID:    userID,
				Latitude:  lat,
				Longitude: lng,
				CreatedAt: ts,
			}
			if err := db.InsertPing(ctx, ping); err != nil {
				return fmt.Errorf("failed to seed ping: %w", err)
			}
			inserted++

			// Steps of roughly 100-800m keep pairs inside the movement
			// filter's distance band most of the time.
			lat += (rng.Float64() - 0.5) * 0.008
			lng += (rng.Float64() - 0.5) * 0.008
			ts = ts.Add(time.Duration(2+rng.Intn(20)) * time.Minute)
		}
	}

	logging.Info().Int("pings", inserted).Int("users", numUsers).Msg("Seeded mock location pings")
	return nil
}
