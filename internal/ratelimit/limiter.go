// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

// Package ratelimit implements fixed-window admission control with a
// per-client violation history.
//
// Unlike a plain request counter, each client entry carries a violations
// count that persists across window resets and only grows. The Check result
// surfaces two escalation signals derived from that history so the caller
// can emit security audit events: a suspicious-frequency flag when a client
// burns through 80% of its window budget, and a repeated-violator flag when
// a client with three or more past denials opens a fresh window.
//
// State is process-wide and instance-local. Running multiple instances
// behind a balancer multiplies the effective ceiling by the instance count;
// a deployment that needs a true global limit must put a shared atomic
// counter store behind the same Check interface.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// entry tracks one client's in-window count and lifetime violation history.
type entry struct {
	count         int
	windowResetAt time.Time
	violations    int
}

// Result is the outcome of a single admission check.
type Result struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Limit is the per-window request ceiling.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// ResetAt is when the current window ends.
	ResetAt time.Time

	// RetryAfter is the time until the window resets. Meaningful on denial.
	RetryAfter time.Duration

	// Count is the in-window request count after this check.
	Count int

	// Violations is the client's accumulated denial count across all windows.
	Violations int

	// Suspicious is set exactly once per window, on the request that brings
	// the count to 80% of the ceiling.
	Suspicious bool

	// RepeatedViolator is set on the first request of a fresh window for a
	// client with three or more accumulated violations.
	RepeatedViolator bool
}

// repeatedViolatorThreshold is the violation count at which a client is
// flagged on each fresh window.
const repeatedViolatorThreshold = 3

// Limiter is a fixed-window rate limiter keyed by client identity.
// Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	limit  int
	window time.Duration

	// suspiciousAt is the in-window count that trips the suspicious flag
	// (80% of limit). Precomputed so Check stays branch-cheap.
	suspiciousAt int

	// now is swapped in tests to control the clock.
	now func() time.Time
}

// New creates a Limiter allowing limit requests per window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		entries:      make(map[string]*entry),
		limit:        limit,
		window:       window,
		suspiciousAt: limit * 80 / 100,
		now:          time.Now,
	}
}

// Check performs one admission check for the given client key and returns
// the outcome. It mutates the client's entry:
//
//   - No entry, or the window has elapsed: the entry is (re)created with
//     count=1; the violations count carries over.
//   - Count at the ceiling: denied; violations is incremented.
//   - Otherwise: allowed; count is incremented.
func (l *Limiter) Check(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[key]
	if !ok || !now.Before(e.windowResetAt) {
		violations := 0
		if ok {
			violations = e.violations
		}
		e = &entry{
			count:         1,
			windowResetAt: now.Add(l.window),
			violations:    violations,
		}
		l.entries[key] = e

		return Result{
			Allowed:          true,
			Limit:            l.limit,
			Remaining:        l.limit - 1,
			ResetAt:          e.windowResetAt,
			Count:            1,
			Violations:       e.violations,
			Suspicious:       l.suspiciousAt == 1,
			RepeatedViolator: e.violations >= repeatedViolatorThreshold,
		}
	}

	if e.count >= l.limit {
		e.violations++

		return Result{
			Allowed:    false,
			Limit:      l.limit,
			Remaining:  0,
			ResetAt:    e.windowResetAt,
			RetryAfter: e.windowResetAt.Sub(now),
			Count:      e.count,
			Violations: e.violations,
		}
	}

	e.count++

	return Result{
		Allowed:    true,
		Limit:      l.limit,
		Remaining:  l.limit - e.count,
		ResetAt:    e.windowResetAt,
		Count:      e.count,
		Violations: e.violations,
		Suspicious: e.count == l.suspiciousAt,
	}
}

// Sweep removes entries whose window has already elapsed and returns the
// number removed. An evicted client's violation history is gone with it;
// the limiter only remembers clients seen within the last window.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	evicted := 0
	for key, e := range l.entries {
		if !now.Before(e.windowResetAt) {
			delete(l.entries, key)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of tracked client entries.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Limit returns the per-window request ceiling.
func (l *Limiter) Limit() int {
	return l.limit
}

// ClientKey derives the client identity for admission control from
// forwarding headers: the first X-Forwarded-For address, then X-Real-IP,
// then the literal "unknown".
//
// All clients without forwarding headers share the "unknown" bucket. That
// is deliberate: behind a proxy that sets the headers it never triggers,
// and without one it fails closed rather than letting unattributed traffic
// bypass the limit.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			first = xff[:idx]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	return "unknown"
}
