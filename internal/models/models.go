// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

// Package models defines the data types shared across the aggregation
// pipeline: raw pings, time filters, and the GeoJSON response shapes.
package models

import "time"

// LocationPing is a single raw GPS ping as stored by the ingest layer.
// Read-only from this service's point of view.
type LocationPing struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TimeFilter restricts an aggregation query to a wall-clock window.
type TimeFilter string

const (
	TimeFilterAll      TimeFilter = "all"
	TimeFilterToday    TimeFilter = "today"
	TimeFilterThisWeek TimeFilter = "this_week"
	TimeFilterThisHour TimeFilter = "this_hour"
)

// Valid reports whether f is one of the recognized filter values.
func (f TimeFilter) Valid() bool {
	switch f {
	case TimeFilterAll, TimeFilterToday, TimeFilterThisWeek, TimeFilterThisHour:
		return true
	}
	return false
}

// WindowStart returns the inclusive lower bound of the filter's window
// relative to now, or nil for an unbounded query.
//
// "today" starts at midnight local time; "this_week" and "this_hour" are
// rolling windows anchored at now.
func (f TimeFilter) WindowStart(now time.Time) *time.Time {
	var start time.Time
	switch f {
	case TimeFilterToday:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case TimeFilterThisWeek:
		start = now.Add(-7 * 24 * time.Hour)
	case TimeFilterThisHour:
		start = now.Add(-1 * time.Hour)
	default:
		return nil
	}
	return &start
}
