// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package services

import (
	"context"
	"time"

	"github.com/driftmap/driftmap/internal/logging"
	"github.com/driftmap/driftmap/internal/metrics"
)

// ClientLimiter matches the limiter surface the sweeper needs.
//
// Satisfied by *ratelimit.Limiter.
type ClientLimiter interface {
	// Sweep evicts expired window entries and returns the eviction count.
	Sweep() int

	// Len returns the number of tracked clients.
	Len() int
}

// LimiterSweeperService periodically evicts expired rate-limit windows so
// one-off clients do not accumulate in memory forever.
type LimiterSweeperService struct {
	limiter  ClientLimiter
	interval time.Duration
	name     string
}

// NewLimiterSweeperService creates a sweeper running at the given interval.
func NewLimiterSweeperService(limiter ClientLimiter, interval time.Duration) *LimiterSweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &LimiterSweeperService{
		limiter:  limiter,
		interval: interval,
		name:     "limiter-sweeper",
	}
}

// Serve implements suture.Service.
func (s *LimiterSweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			evicted := s.limiter.Sweep()
			tracked := s.limiter.Len()
			metrics.RateLimitSweepEvictions.Add(float64(evicted))
			metrics.RateLimitTrackedClients.Set(float64(tracked))
			if evicted > 0 {
				logging.Debug().
					Int("evicted", evicted).
					Int("tracked", tracked).
					Msg("Swept expired rate limit entries")
			}
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *LimiterSweeperService) String() string {
	return s.name
}
