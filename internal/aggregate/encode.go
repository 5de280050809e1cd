// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package aggregate

import (
	"sort"

	"github.com/driftmap/driftmap/internal/models"
)

// encodeDensity converts per-cell counts into a GeoJSON feature collection
// and statistics. Features are sorted by cell origin for stable output.
func encodeDensity(counts map[cellKey]int, totalPoints int) (models.DensityFeatureCollection, models.DensityStats) {
	fc := models.DensityFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]models.DensityFeature, 0, len(counts)),
	}

	keys := make([]cellKey, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].lat != keys[j].lat {
			return keys[i].lat < keys[j].lat
		}
		return keys[i].lng < keys[j].lng
	})

	maxDensity := 0
	sum := 0

	for _, key := range keys {
		count := counts[key]

		intensity := float64(count) / 10
		if intensity > 1 {
			intensity = 1
		}

		fc.Features = append(fc.Features, models.DensityFeature{
			Type: "Feature",
			Geometry: models.PointGeometry{
				Type:        "Point",
				Coordinates: []float64{key.lng, key.lat},
			},
			Properties: models.DensityProperties{
				Density:   count,
				Intensity: intensity,
			},
		})

		if count > maxDensity {
			maxDensity = count
		}
		sum += count
	}

	stats := models.DensityStats{
		TotalPoints: totalPoints,
		GridCells:   len(counts),
		MaxDensity:  maxDensity,
	}
	if len(counts) > 0 {
		stats.AvgDensity = float64(sum) / float64(len(counts))
	}

	return fc, stats
}

// encodeMovement converts surviving edges into a GeoJSON feature collection
// and statistics. Features are sorted by edge endpoints for stable output.
func encodeMovement(edges map[edgeKey]*edgeAcc) (models.MovementFeatureCollection, models.MovementStats) {
	fc := models.MovementFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]models.MovementFeature, 0, len(edges)),
	}

	keys := make([]edgeKey, 0, len(edges))
	for key := range edges {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		switch {
		case a.fromLng != b.fromLng:
			return a.fromLng < b.fromLng
		case a.fromLat != b.fromLat:
			return a.fromLat < b.fromLat
		case a.toLng != b.toLng:
			return a.toLng < b.toLng
		default:
			return a.toLat < b.toLat
		}
	})

	allUsers := make(map[string]struct{})
	totalMovements := 0
	maxFrequency := 0

	for _, key := range keys {
		acc := edges[key]

		weight := float64(acc.frequency) / 2
		if weight > 10 {
			weight = 10
		}

		fc.Features = append(fc.Features, models.MovementFeature{
			Type: "Feature",
			Geometry: models.LineStringGeometry{
				Type: "LineString",
				Coordinates: [][]float64{
					{key.fromLng, key.fromLat},
					{key.toLng, key.toLat},
				},
			},
			Properties: models.MovementProperties{
				Frequency:   acc.frequency,
				UniqueUsers: len(acc.users),
				Weight:      weight,
			},
		})

		totalMovements += acc.frequency
		if acc.frequency > maxFrequency {
			maxFrequency = acc.frequency
		}
		for user := range acc.users {
			allUsers[user] = struct{}{}
		}
	}

	stats := models.MovementStats{
		TotalPaths:     len(edges),
		TotalMovements: totalMovements,
		UniqueUsers:    len(allUsers),
		MaxFrequency:   maxFrequency,
	}
	if len(edges) > 0 {
		stats.AvgFrequency = float64(totalMovements) / float64(len(edges))
	}

	return fc, stats
}
