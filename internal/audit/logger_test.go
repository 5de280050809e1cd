// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// failingStore always fails Save, for verifying best-effort behavior.
type failingStore struct {
	saves int
	mu    sync.Mutex
}

func (s *failingStore) Save(_ context.Context, _ *Event) error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return errors.New("sink unavailable")
}

func (s *failingStore) Query(_ context.Context, _ QueryFilter) ([]Event, error) {
	return nil, nil
}

func (s *failingStore) Count(_ context.Context, _ QueryFilter) (int64, error) {
	return 0, nil
}

func (s *failingStore) Delete(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

// blockingStore blocks Save until released, for filling the buffer.
type blockingStore struct {
	release chan struct{}
}

func (s *blockingStore) Save(_ context.Context, _ *Event) error {
	<-s.release
	return nil
}

func (s *blockingStore) Query(_ context.Context, _ QueryFilter) ([]Event, error) {
	return nil, nil
}

func (s *blockingStore) Count(_ context.Context, _ QueryFilter) (int64, error) {
	return 0, nil
}

func (s *blockingStore) Delete(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func TestLoggerWritesEvents(t *testing.T) {
	store := NewMemoryStore(100)
	logger := NewLogger(store, &Config{Enabled: true, BufferSize: 10, RetentionDays: 90, CleanupInterval: time.Hour})

	logger.LogRateLimitExceeded("203.0.113.7", "test-agent", "req-1", 15, 60, 2, 30*time.Second)
	logger.LogSuspiciousPattern("203.0.113.7", "test-agent", "req-2", 12, 60, 15)
	logger.LogRepeatedViolator("203.0.113.7", "test-agent", "req-3", 60, 4)

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	if store.Len() != 3 {
		t.Fatalf("store has %d events after close, want 3", store.Len())
	}

	events, err := store.Query(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}

	types := map[EventType]bool{}
	for _, e := range events {
		types[e.Type] = true
		if e.ID == "" {
			t.Error("event has empty ID")
		}
		if e.Timestamp.IsZero() {
			t.Error("event has zero timestamp")
		}
		if e.ClientIdentity != "203.0.113.7" {
			t.Errorf("ClientIdentity = %q, want 203.0.113.7", e.ClientIdentity)
		}
	}
	for _, want := range []EventType{EventTypeRateLimitExceeded, EventTypeSuspiciousPattern, EventTypeRepeatedViolator} {
		if !types[want] {
			t.Errorf("missing event type %q", want)
		}
	}
}

func TestLoggerDisabledDropsEverything(t *testing.T) {
	store := NewMemoryStore(100)
	logger := NewLogger(store, &Config{Enabled: false, BufferSize: 10, RetentionDays: 90, CleanupInterval: time.Hour})

	logger.LogRateLimitExceeded("203.0.113.7", "", "", 15, 60, 1, time.Second)
	_ = logger.Close()

	if store.Len() != 0 {
		t.Errorf("disabled logger wrote %d events, want 0", store.Len())
	}
}

func TestLoggerBufferFullDoesNotBlock(t *testing.T) {
	store := &blockingStore{release: make(chan struct{})}
	logger := NewLogger(store, &Config{Enabled: true, BufferSize: 2, RetentionDays: 90, CleanupInterval: time.Hour})

	done := make(chan struct{})
	go func() {
		// Far more events than the buffer holds; Log must never block.
		for i := 0; i < 50; i++ {
			logger.LogRateLimitExceeded("203.0.113.7", "", "", 15, 60, 1, time.Second)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Log blocked on a full buffer")
	}

	close(store.release)
	_ = logger.Close()
}

func TestLoggerStoreFailureIsSwallowed(t *testing.T) {
	store := &failingStore{}
	logger := NewLogger(store, &Config{Enabled: true, BufferSize: 10, RetentionDays: 90, CleanupInterval: time.Hour})

	logger.LogRateLimitExceeded("203.0.113.7", "", "", 15, 60, 1, time.Second)
	_ = logger.Close()

	store.mu.Lock()
	saves := store.saves
	store.mu.Unlock()
	if saves != 1 {
		t.Errorf("Save called %d times, want 1", saves)
	}
}

func TestLoggerCloseIsIdempotent(t *testing.T) {
	logger := NewLogger(NewMemoryStore(10), nil)
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close() error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
}

func TestRateLimitExceededDetails(t *testing.T) {
	store := NewMemoryStore(10)
	logger := NewLogger(store, &Config{Enabled: true, BufferSize: 10, RetentionDays: 90, CleanupInterval: time.Hour})

	logger.LogRateLimitExceeded("203.0.113.7", "agent", "req-9", 15, 60, 5, 42*time.Second)
	_ = logger.Close()

	events, _ := store.Query(context.Background(), QueryFilter{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	var details map[string]interface{}
	if err := json.Unmarshal(events[0].Details, &details); err != nil {
		t.Fatalf("unmarshal details: %v", err)
	}
	if details["violations"] != float64(5) {
		t.Errorf("details.violations = %v, want 5", details["violations"])
	}
	if details["seconds_to_reset"] != float64(42) {
		t.Errorf("details.seconds_to_reset = %v, want 42", details["seconds_to_reset"])
	}
	if events[0].Severity != SeverityWarning {
		t.Errorf("Severity = %q, want warning", events[0].Severity)
	}
}

func TestRepeatedViolatorSeverityCritical(t *testing.T) {
	store := NewMemoryStore(10)
	logger := NewLogger(store, &Config{Enabled: true, BufferSize: 10, RetentionDays: 90, CleanupInterval: time.Hour})

	logger.LogRepeatedViolator("203.0.113.7", "", "", 60, 3)
	_ = logger.Close()

	events, _ := store.Query(context.Background(), QueryFilter{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Severity != SeverityCritical {
		t.Errorf("Severity = %q, want critical", events[0].Severity)
	}
	if events[0].RequestCount != 1 {
		t.Errorf("RequestCount = %d, want 1 (first request of window)", events[0].RequestCount)
	}
}

func TestRunRetention(t *testing.T) {
	store := NewMemoryStore(100)
	logger := NewLogger(store, &Config{Enabled: true, BufferSize: 10, RetentionDays: 30, CleanupInterval: time.Hour})

	old := &Event{
		Type:           EventTypeRateLimitExceeded,
		Severity:       SeverityWarning,
		ClientIdentity: "a",
		Timestamp:      time.Now().AddDate(0, 0, -60),
		ID:             "old",
	}
	fresh := &Event{
		Type:           EventTypeRateLimitExceeded,
		Severity:       SeverityWarning,
		ClientIdentity: "b",
		Timestamp:      time.Now(),
		ID:             "fresh",
	}
	_ = store.Save(context.Background(), old)
	_ = store.Save(context.Background(), fresh)

	logger.RunRetention(context.Background())

	if store.Len() != 1 {
		t.Fatalf("store has %d events after retention, want 1", store.Len())
	}
	events, _ := store.Query(context.Background(), QueryFilter{})
	if events[0].ID != "fresh" {
		t.Errorf("surviving event = %q, want fresh", events[0].ID)
	}

	_ = logger.Close()
}
