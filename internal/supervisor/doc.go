// Driftmap - Privacy-Preserving Location Aggregation and Map Visualization
// Copyright 2026 M. Keller
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftmap/driftmap

/*
Package supervisor provides process supervision for Driftmap using suture v4.

The tree organizes long-running services into two layers for failure
isolation:

	RootSupervisor ("driftmap")
	├── DataSupervisor ("data-layer")
	│   ├── LimiterSweeperService
	│   └── AuditRetentionService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in a background maintenance loop never takes the HTTP server down
with it, and each layer restarts independently with suture's backoff.
*/
package supervisor
