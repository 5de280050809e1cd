// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

// Package audit provides security audit logging for the admission layer.
// It records rate-limit abuse events for forensic analysis. Writes are
// asynchronous and best-effort: a failure to persist an event never affects
// the request that triggered it.
package audit

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// EventType categorizes audit events.
type EventType string

const (
	// EventTypeRateLimitExceeded fires on every denied admission check.
	EventTypeRateLimitExceeded EventType = "ratelimit.exceeded"

	// EventTypeSuspiciousPattern fires once per window when a client reaches
	// 80% of the request ceiling.
	EventTypeSuspiciousPattern EventType = "ratelimit.suspicious_pattern"

	// EventTypeRepeatedViolator fires on the first request of a fresh window
	// for a client with an accumulated violation history.
	EventTypeRepeatedViolator EventType = "ratelimit.repeated_violator"
)

// Severity indicates the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is a single security audit record. Write-once; the request path
// never reads events back.
type Event struct {
	// ID is a unique identifier for this event.
	ID string `json:"id"`

	// Timestamp when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// Severity of the event.
	Severity Severity `json:"severity"`

	// ClientIdentity is the admission-control key (forwarded IP or "unknown").
	ClientIdentity string `json:"client_identity"`

	// UserAgent from the originating request.
	UserAgent string `json:"user_agent,omitempty"`

	// RequestCount is the client's in-window request count at event time.
	RequestCount int `json:"request_count"`

	// WindowSeconds is the rate-limit window length.
	WindowSeconds int `json:"window_seconds"`

	// Details contains event-specific fields (violations, seconds to reset).
	Details json.RawMessage `json:"details,omitempty"`

	// RequestID from the originating HTTP request, when available.
	RequestID string `json:"request_id,omitempty"`
}

// QueryFilter selects events from a Store. Used by the retention routine
// and by tests; never by the request path.
type QueryFilter struct {
	Types          []EventType
	ClientIdentity string
	StartTime      *time.Time
	EndTime        *time.Time
	Limit          int
}

// Store persists audit events.
type Store interface {
	// Save persists one event.
	Save(ctx context.Context, event *Event) error

	// Query retrieves events matching the filter, most recent first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Count returns the number of events matching the filter.
	Count(ctx context.Context, filter QueryFilter) (int64, error)

	// Delete removes events older than the given time and returns the count.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}
