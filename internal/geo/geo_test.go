// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		want       float64
		tolerance  float64
	}{
		{
			name: "same point",
			lat1: 51.5074, lng1: -0.1278,
			lat2: 51.5074, lng2: -0.1278,
			want: 0, tolerance: 0.001,
		},
		{
			name: "london to paris",
			lat1: 51.5074, lng1: -0.1278,
			lat2: 48.8566, lng2: 2.3522,
			want: 343556, tolerance: 1000,
		},
		{
			name: "one degree latitude at equator",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			want: 111195, tolerance: 100,
		},
		{
			name: "short hop ~150m",
			lat1: 40.7580, lng1: -73.9855,
			lat2: 40.7593, lng2: -73.9850,
			want: 147, tolerance: 10,
		},
		{
			name: "antipodal points",
			lat1: 0, lng1: 0,
			lat2: 0, lng2: 180,
			want: math.Pi * EarthRadiusMeters, tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceMeters() = %v, want %v (±%v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceMetersSymmetric(t *testing.T) {
	ab := DistanceMeters(51.5, -0.12, 48.85, 2.35)
	ba := DistanceMeters(48.85, 2.35, 51.5, -0.12)
	if math.Abs(ab-ba) > 1e-6 {
		t.Errorf("distance not symmetric: a→b=%v b→a=%v", ab, ba)
	}
}

func TestDistanceMetersNaNPropagation(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
	}{
		{"nan lat1", math.NaN(), 0, 1, 1},
		{"nan lng1", 0, math.NaN(), 1, 1},
		{"nan lat2", 0, 0, math.NaN(), 1},
		{"nan lng2", 0, 0, 1, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if !math.IsNaN(got) {
				t.Errorf("DistanceMeters() = %v, want NaN", got)
			}
		})
	}
}

func TestSnapFloor(t *testing.T) {
	tests := []struct {
		name             string
		lat, lng         float64
		gridSize         float64
		wantLat, wantLng float64
	}{
		{"positive coords", 51.50851, -0.12571, 0.003, 51.507, -0.126},
		{"already snapped", 51.507, -0.126, 0.003, 51.507, -0.126},
		{"zero", 0, 0, 0.003, 0, 0},
		{"negative coords", -33.86882, 151.20930, 0.003, -33.870, 151.209},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLat, gotLng := SnapFloor(tt.lat, tt.lng, tt.gridSize)
			if math.Abs(gotLat-tt.wantLat) > 1e-9 || math.Abs(gotLng-tt.wantLng) > 1e-9 {
				t.Errorf("SnapFloor(%v, %v) = (%v, %v), want (%v, %v)",
					tt.lat, tt.lng, gotLat, gotLng, tt.wantLat, tt.wantLng)
			}
		})
	}
}

func TestSnapRound(t *testing.T) {
	tests := []struct {
		name             string
		lat, lng         float64
		gridSize         float64
		wantLat, wantLng float64
	}{
		{"rounds down", 51.5081, -0.1264, 0.001, 51.508, -0.126},
		{"rounds up", 51.5086, -0.1266, 0.001, 51.509, -0.127},
		{"already snapped", 51.508, -0.126, 0.001, 51.508, -0.126},
		{"zero", 0, 0, 0.001, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLat, gotLng := SnapRound(tt.lat, tt.lng, tt.gridSize)
			if math.Abs(gotLat-tt.wantLat) > 1e-9 || math.Abs(gotLng-tt.wantLng) > 1e-9 {
				t.Errorf("SnapRound(%v, %v) = (%v, %v), want (%v, %v)",
					tt.lat, tt.lng, gotLat, gotLng, tt.wantLat, tt.wantLng)
			}
		})
	}
}

// Snapping an already-snapped coordinate at the same grid size must be a no-op.
func TestSnapIdempotent(t *testing.T) {
	coords := []struct{ lat, lng float64 }{
		{51.50851, -0.12571},
		{-33.86882, 151.20930},
		{40.7580, -73.9855},
		{0.0001, -0.0001},
	}

	for _, c := range coords {
		lat1, lng1 := SnapFloor(c.lat, c.lng, 0.003)
		lat2, lng2 := SnapFloor(lat1, lng1, 0.003)
		if lat1 != lat2 || lng1 != lng2 {
			t.Errorf("SnapFloor not idempotent at (%v, %v): first (%v, %v), second (%v, %v)",
				c.lat, c.lng, lat1, lng1, lat2, lng2)
		}

		lat1, lng1 = SnapRound(c.lat, c.lng, 0.001)
		lat2, lng2 = SnapRound(lat1, lng1, 0.001)
		if lat1 != lat2 || lng1 != lng2 {
			t.Errorf("SnapRound not idempotent at (%v, %v): first (%v, %v), second (%v, %v)",
				c.lat, c.lng, lat1, lng1, lat2, lng2)
		}
	}
}

func TestFinite(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"normal coords", 51.5, -0.12, true},
		{"zero", 0, 0, true},
		{"nan lat", math.NaN(), 0, false},
		{"nan lng", 0, math.NaN(), false},
		{"inf lat", math.Inf(1), 0, false},
		{"negative inf lng", 0, math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Finite(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Finite(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}
