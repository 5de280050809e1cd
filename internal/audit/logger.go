// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/driftmap/driftmap/internal/logging"
	"github.com/driftmap/driftmap/internal/metrics"
)

// Config holds configuration for the audit logger.
type Config struct {
	// Enabled controls whether audit logging is active.
	Enabled bool

	// RetentionDays is how long to keep audit events.
	RetentionDays int

	// CleanupInterval is how often retention cleanup runs.
	CleanupInterval time.Duration

	// BufferSize is the size of the async write buffer. When the buffer is
	// full, new events are dropped rather than blocking the request path.
	BufferSize int

	// LogToStdout also writes events through the application logger.
	LogToStdout bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		RetentionDays:   90,
		CleanupInterval: 24 * time.Hour,
		BufferSize:      100,
		LogToStdout:     false,
	}
}

// Logger is the async security audit logger. Events are buffered and
// written by a background goroutine; Log never blocks.
type Logger struct {
	config    *Config
	store     Store
	eventChan chan *Event
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewLogger creates an audit logger and starts its async writer.
func NewLogger(store Store, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}

	l := &Logger{
		config:    config,
		store:     store,
		eventChan: make(chan *Event, config.BufferSize),
		stopChan:  make(chan struct{}),
	}

	l.wg.Add(1)
	go l.asyncWriter()

	return l
}

// asyncWriter processes events from the buffer.
func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			// Drain remaining events
			for {
				select {
				case event := <-l.eventChan:
					l.writeEvent(event)
				default:
					return
				}
			}
		case event := <-l.eventChan:
			l.writeEvent(event)
		}
	}
}

// writeEvent persists an event to the store. Failures are logged locally
// and swallowed.
func (l *Logger) writeEvent(event *Event) {
	if l.config.LogToStdout {
		l.logToStdout(event)
	}

	if l.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.store.Save(ctx, event); err != nil {
		metrics.AuditWriteFailures.Inc()
		logging.Error().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", string(event.Type)).
			Msg("Failed to save audit event")
		return
	}

	metrics.AuditEventsLogged.WithLabelValues(string(event.Type)).Inc()
}

// logToStdout writes an event through the application logger in JSON form.
func (l *Logger) logToStdout(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal audit event")
		return
	}
	logging.Info().RawJSON("event", data).Msg("Audit event")
}

// Log records an audit event. Non-blocking: when the buffer is full the
// event is dropped and the drop is logged locally.
func (l *Logger) Log(event *Event) {
	if !l.config.Enabled {
		return
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case l.eventChan <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		logging.Warn().
			Str("event_id", event.ID).
			Str("event_type", string(event.Type)).
			Msg("Audit event buffer full, dropping event")
	}
}

// Close shuts down the logger, draining buffered events first.
// Safe to call more than once.
func (l *Logger) Close() error {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
	return nil
}

// RunRetention deletes events older than the configured retention period.
// Called periodically by the retention service.
func (l *Logger) RunRetention(ctx context.Context) {
	if l.store == nil {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -l.config.RetentionDays)
	count, err := l.store.Delete(ctx, cutoff)
	if err != nil {
		logging.Error().Err(err).Msg("Audit retention cleanup error")
		return
	}
	if count > 0 {
		logging.Info().Int64("count", count).Msg("Cleaned up old audit events")
	}
}

// CleanupInterval returns how often retention cleanup should run.
func (l *Logger) CleanupInterval() time.Duration {
	return l.config.CleanupInterval
}

// Query retrieves events matching the filter. For tests and tooling only;
// the request path never reads events back.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

// Count returns the number of events matching the filter.
func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return l.store.Count(ctx, filter)
}

// Helper methods for the three admission-layer events.

// LogRateLimitExceeded records a denied admission check.
func (l *Logger) LogRateLimitExceeded(clientIdentity, userAgent, requestID string, requestCount, windowSeconds, violations int, resetIn time.Duration) {
	l.Log(&Event{
		Type:           EventTypeRateLimitExceeded,
		Severity:       SeverityWarning,
		ClientIdentity: clientIdentity,
		UserAgent:      userAgent,
		RequestCount:   requestCount,
		WindowSeconds:  windowSeconds,
		RequestID:      requestID,
		Details: mustJSON(map[string]interface{}{
			"violations":       violations,
			"seconds_to_reset": int(resetIn.Seconds()),
		}),
	})
}

// LogSuspiciousPattern records a client reaching 80% of its window budget.
func (l *Logger) LogSuspiciousPattern(clientIdentity, userAgent, requestID string, requestCount, windowSeconds, limit int) {
	l.Log(&Event{
		Type:           EventTypeSuspiciousPattern,
		Severity:       SeverityWarning,
		ClientIdentity: clientIdentity,
		UserAgent:      userAgent,
		RequestCount:   requestCount,
		WindowSeconds:  windowSeconds,
		RequestID:      requestID,
		Details: mustJSON(map[string]interface{}{
			"limit":            limit,
			"percent_of_limit": requestCount * 100 / limit,
		}),
	})
}

// LogRepeatedViolator records a known violator opening a fresh window.
func (l *Logger) LogRepeatedViolator(clientIdentity, userAgent, requestID string, windowSeconds, violations int) {
	l.Log(&Event{
		Type:           EventTypeRepeatedViolator,
		Severity:       SeverityCritical,
		ClientIdentity: clientIdentity,
		UserAgent:      userAgent,
		RequestCount:   1,
		WindowSeconds:  windowSeconds,
		RequestID:      requestID,
		Details: mustJSON(map[string]interface{}{
			"violations": violations,
		}),
	})
}

// mustJSON converts a value to JSON, returning an empty object on error.
func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}
