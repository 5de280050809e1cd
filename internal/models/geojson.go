// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package models

// GeoJSON response shapes for the two map endpoints. Coordinates follow the
// GeoJSON convention: [longitude, latitude].

// PointGeometry is a GeoJSON Point.
type PointGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// LineStringGeometry is a GeoJSON LineString (here always two positions,
// the from and to cell origins of a movement edge).
type LineStringGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// DensityProperties carries the per-cell values of the density heatmap.
type DensityProperties struct {
	Density   int     `json:"density"`
	Intensity float64 `json:"intensity"`
}

// MovementProperties carries the per-edge values of the movement graph.
type MovementProperties struct {
	Frequency   int     `json:"frequency"`
	UniqueUsers int     `json:"unique_users"`
	Weight      float64 `json:"weight"`
}

// DensityFeature is one populated grid cell.
type DensityFeature struct {
	Type       string            `json:"type"`
	Geometry   PointGeometry     `json:"geometry"`
	Properties DensityProperties `json:"properties"`
}

// MovementFeature is one directed movement edge between two grid cells.
type MovementFeature struct {
	Type       string             `json:"type"`
	Geometry   LineStringGeometry `json:"geometry"`
	Properties MovementProperties `json:"properties"`
}

// DensityFeatureCollection is the GeoJSON body of a density response.
type DensityFeatureCollection struct {
	Type     string           `json:"type"`
	Features []DensityFeature `json:"features"`
}

// MovementFeatureCollection is the GeoJSON body of a movement-paths response.
type MovementFeatureCollection struct {
	Type     string            `json:"type"`
	Features []MovementFeature `json:"features"`
}

// DensityStats summarizes a density aggregation pass.
type DensityStats struct {
	TotalPoints int     `json:"total_points"`
	GridCells   int     `json:"grid_cells"`
	MaxDensity  int     `json:"max_density"`
	AvgDensity  float64 `json:"avg_density"`
}

// MovementStats summarizes a movement-graph aggregation pass.
type MovementStats struct {
	TotalPaths     int     `json:"total_paths"`
	TotalMovements int     `json:"total_movements"`
	UniqueUsers    int     `json:"unique_users"`
	MaxFrequency   int     `json:"max_frequency"`
	AvgFrequency   float64 `json:"avg_frequency"`
}

// DensityResponse is the full body of GET|POST /api/v1/map/density.
type DensityResponse struct {
	Success bool                     `json:"success"`
	GeoJSON DensityFeatureCollection `json:"geojson"`
	Stats   DensityStats             `json:"stats"`
}

// MovementResponse is the full body of GET /api/v1/map/movement-paths.
type MovementResponse struct {
	GeoJSON MovementFeatureCollection `json:"geojson"`
	Stats   MovementStats             `json:"stats"`
}
