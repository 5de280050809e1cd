// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

package services

import (
	"context"
	"time"
)

// RetentionRunner matches the audit logger's retention surface.
//
// Satisfied by *audit.Logger.
type RetentionRunner interface {
	// RunRetention deletes events past the retention period.
	RunRetention(ctx context.Context)

	// CleanupInterval returns how often retention should run.
	CleanupInterval() time.Duration
}

// AuditRetentionService periodically purges expired audit events.
type AuditRetentionService struct {
	runner RetentionRunner
	name   string
}

// NewAuditRetentionService creates a retention service over the runner.
func NewAuditRetentionService(runner RetentionRunner) *AuditRetentionService {
	return &AuditRetentionService{
		runner: runner,
		name:   "audit-retention",
	}
}

// Serve implements suture.Service. One cleanup pass runs immediately on
// start so a long-idle deployment does not wait a full interval.
func (s *AuditRetentionService) Serve(ctx context.Context) error {
	interval := s.runner.CleanupInterval()
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	s.runner.RunRetention(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runner.RunRetention(ctx)
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *AuditRetentionService) String() string {
	return s.name
}
