// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Database query performance (SQLite)
// - API endpoint latency and throughput
// - Scrape passes against the results site
// - Point recalculation runs and their stages
// - Cache efficiency
// - WebSocket connections

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlite_query_duration_seconds",
			Help:    "Duration of SQLite queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlite_query_errors_total",
			Help: "Total number of SQLite query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlite_transactions_total",
			Help: "Total number of write transactions",
		},
		[]string{"result"}, // "committed", "rolled_back"
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Scrape Metrics
	ScrapeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_requests_total",
			Help: "Total number of HTTP requests to the results site",
		},
		[]string{"kind", "result"}, // kind: "year", "parents", "person", "recent"; result: "success", "failure"
	)

	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrape_pass_duration_seconds",
			Help:    "Duration of scrape passes in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600}, // Full passes can take minutes
		},
		[]string{"pass"}, // "full", "recent"
	)

	ScrapeResultsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_results_created_total",
			Help: "Total number of race results created from scraped pages",
		},
		[]string{"discipline"},
	)

	ScrapeSnapshotsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scrape_member_snapshots_created_total",
			Help: "Total number of member category snapshots scraped",
		},
	)

	ScrapeLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scrape_last_success_timestamp",
			Help: "Unix timestamp of the last successful scrape pass",
		},
		[]string{"pass"},
	)

	// Recalculation Metrics
	RecalcRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recalc_runs_total",
			Help: "Total number of point recalculation runs",
		},
		[]string{"discipline", "trigger", "result"}, // trigger: "full", "recent", "manual"; result: "success", "failure", "skipped"
	)

	RecalcDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recalc_duration_seconds",
			Help:    "Duration of recalculation runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"discipline"},
	)

	RecalcStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recalc_stage_duration_seconds",
			Help:    "Duration of individual recalculation stages in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"discipline", "stage"}, // stage: "points", "upgrades", "ranks", "sums", "pending"
	)

	PointsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_created_total",
			Help: "Total number of point records created by the assigner",
		},
		[]string{"discipline"},
	)

	ResultsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "results_processed_total",
			Help: "Total number of results walked by the category state machine",
		},
		[]string{"discipline"},
	)

	CategoryChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "category_changes_total",
			Help: "Total number of category transitions detected",
		},
		[]string{"discipline", "kind"}, // kind: "upgrade", "premature_upgrade", "downgrade"
	)

	PendingUpgrades = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pending_upgrades",
			Help: "Current number of riders flagged for an upgrade",
		},
		[]string{"discipline"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "memory", "badger"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry or flush)",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Report Metrics
	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_generated_total",
			Help: "Total number of upgrade reports generated",
		},
		[]string{"format", "result"}, // format: "text", "html"; result: "success", "failure"
	)

	ReportGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_generation_duration_seconds",
			Help:    "Duration of upgrade report generation in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordTransaction records the outcome of a write transaction
func RecordTransaction(committed bool) {
	if committed {
		DBTransactions.WithLabelValues("committed").Inc()
	} else {
		DBTransactions.WithLabelValues("rolled_back").Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordScrapeRequest records a single request against the results site
func RecordScrapeRequest(kind string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ScrapeRequests.WithLabelValues(kind, result).Inc()
}

// RecordScrapePass records a completed scrape pass
func RecordScrapePass(pass string, duration time.Duration, err error) {
	ScrapeDuration.WithLabelValues(pass).Observe(duration.Seconds())
	if err == nil {
		ScrapeLastSuccess.WithLabelValues(pass).Set(float64(time.Now().Unix()))
	}
}

// RecordRecalculation records a recalculation run for a discipline
func RecordRecalculation(discipline, trigger string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = categorizeRecalcError(err)
	}
	RecalcRuns.WithLabelValues(discipline, trigger, result).Inc()
	RecalcDuration.WithLabelValues(discipline).Observe(duration.Seconds())
}

// categorizeRecalcError buckets recalculation errors for the result label
func categorizeRecalcError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "database"), strings.Contains(msg, "sqlite"):
		return "database_error"
	case strings.Contains(msg, "context"):
		return "canceled"
	default:
		return "failure"
	}
}

// RecordRecalcStage records an individual stage within a recalculation run
func RecordRecalcStage(discipline, stage string, duration time.Duration) {
	RecalcStageDuration.WithLabelValues(discipline, stage).Observe(duration.Seconds())
}

// RecordCategoryChange records a detected category transition
func RecordCategoryChange(discipline, kind string) {
	CategoryChanges.WithLabelValues(discipline, kind).Inc()
}

// SetPendingUpgrades updates the pending upgrade gauge for a discipline
func SetPendingUpgrades(discipline string, count int) {
	PendingUpgrades.WithLabelValues(discipline).Set(float64(count))
}

// RecordReportGeneration records an upgrade report generation
func RecordReportGeneration(format string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ReportsGenerated.WithLabelValues(format, result).Inc()
	ReportGenerationDuration.Observe(duration.Seconds())
}
