// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

// Package metrics provides Prometheus instrumentation for the aggregation
// pipeline: ping-store queries, aggregation passes, API latency, admission
// control, and the audit logger.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	DBPingsQueried = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "location_pings_queried_total",
			Help: "Total number of location pings returned by store queries",
		},
	)

	// Aggregation Metrics
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Duration of an aggregation pass in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"}, // "density" or "movement"
	)

	AggregationFeatures = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_output_features",
			Help:    "Number of features produced per aggregation pass",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"kind"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Admission Control Metrics
	RateLimitChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_checks_total",
			Help: "Total number of admission checks by outcome",
		},
		[]string{"outcome"}, // "allowed" or "denied"
	)

	RateLimitTrackedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limit_tracked_clients",
			Help: "Current number of client entries in the rate limiter",
		},
	)

	RateLimitSweepEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_sweep_evictions_total",
			Help: "Total number of expired entries removed by the sweep",
		},
	)

	// Audit Logger Metrics
	AuditEventsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_logged_total",
			Help: "Total number of security audit events written",
		},
		[]string{"event_type"},
	)

	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_events_dropped_total",
			Help: "Total number of audit events dropped because the buffer was full",
		},
	)

	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Total number of failed writes to the audit sink",
		},
	)
)

// RecordDBQuery records a database query metric with error tracking.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAggregation records one aggregation pass.
func RecordAggregation(kind string, duration time.Duration, features int) {
	AggregationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	AggregationFeatures.WithLabelValues(kind).Observe(float64(features))
}

// RecordRateLimitCheck records an admission check outcome.
func RecordRateLimitCheck(allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	RateLimitChecks.WithLabelValues(outcome).Inc()
}

// TrackActiveRequest increments/decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
