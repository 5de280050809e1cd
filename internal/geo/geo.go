// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

// Package geo provides pure geographic primitives: great-circle distance and
// grid snapping. No dependencies, no state.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for haversine distances.
const EarthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle (haversine) distance in meters
// between two coordinates given in decimal degrees.
//
// Total over all finite inputs. If any input is NaN the result is NaN;
// callers are expected to check and skip such pairs rather than propagate.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// SnapFloor quantizes a coordinate to the origin of its grid cell by
// flooring each component to a multiple of gridSize. Used by the density
// grid (~300 m cells at 0.003 degrees).
//
// Idempotent: snapping an already-snapped coordinate at the same grid size
// returns itself.
func SnapFloor(lat, lng, gridSize float64) (float64, float64) {
	return math.Floor(lat/gridSize) * gridSize, math.Floor(lng/gridSize) * gridSize
}

// SnapRound quantizes a coordinate to the nearest grid cell origin by
// rounding each component to a multiple of gridSize. Used by the movement
// grid (~110 m cells at 0.001 degrees).
//
// SnapRound and SnapFloor are deliberately distinct: the two aggregation
// grids encode different granularities and rounding behavior, and unifying
// them would silently shift cell boundaries.
func SnapRound(lat, lng, gridSize float64) (float64, float64) {
	return math.Round(lat/gridSize) * gridSize, math.Round(lng/gridSize) * gridSize
}

// Finite reports whether both coordinate components are finite numbers.
// Pings with NaN or infinite coordinates are malformed and must be skipped.
func Finite(lat, lng float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) && !math.IsNaN(lng) && !math.IsInf(lng, 0)
}
