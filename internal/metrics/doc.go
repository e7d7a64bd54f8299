// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package metrics provides Prometheus instrumentation for all application
// components. Metrics are registered with the default registry via promauto
// and exposed at /metrics by the HTTP server.
//
// # Metric Categories
//
//   - sqlite_*: Database query latency, errors, transaction outcomes
//   - api_*: Request counts, latency, active requests, rate limit hits
//   - scrape_*: Results-site requests, pass durations, records created
//   - recalc_*: Recalculation runs, per-stage durations
//   - points_created_total, category_changes_total, pending_upgrades:
//     outcomes of the upgrade engine
//   - cache_*: Hit/miss/eviction counts per backend
//   - websocket_*: Connection and message counts
//   - circuit_breaker_*: Breaker state and transitions for the scraper
//   - reports_*: Upgrade report generation
//   - app_*: Version info and uptime
//
// # Usage
//
// Record helpers wrap the common observation patterns:
//
//	start := time.Now()
//	rows, err := db.QueryContext(ctx, query)
//	metrics.RecordDBQuery("SELECT", "results", time.Since(start), err)
//
//	metrics.RecordRecalculation("road", "full", elapsed, err)
//	metrics.RecordRecalcStage("road", "points", stageElapsed)
//
// Gauges and counters without a helper are exported directly:
//
//	metrics.CacheHits.WithLabelValues("memory").Inc()
//	metrics.WSConnections.Inc()
//
// # Label Cardinality
//
// Labels are bounded by design: disciplines come from a fixed set of four,
// stages from a fixed set of five, and error types are truncated or bucketed
// before being used as label values.
package metrics
