// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful SELECT query",
			operation: "SELECT",
			table:     "results",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful INSERT query",
			operation: "INSERT",
			table:     "points",
			duration:  5 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query with short error",
			operation: "UPDATE",
			table:     "races",
			duration:  100 * time.Millisecond,
			err:       errors.New("database is locked"),
		},
		{
			name:      "failed query with long error - should truncate to 50 chars",
			operation: "DELETE",
			table:     "pending_upgrades",
			duration:  50 * time.Millisecond,
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
		{
			name:      "fast query under 1ms",
			operation: "SELECT",
			table:     "people",
			duration:  500 * time.Microsecond,
			err:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the query - should not panic
			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)
		})
	}
}

// TestRecordDBQuery_ErrorTruncation verifies error messages are truncated at 50 chars
func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	err50 := errors.New(strings.Repeat("a", 50))
	RecordDBQuery("SELECT", "test", time.Millisecond, err50)

	err51 := errors.New(strings.Repeat("b", 51))
	RecordDBQuery("SELECT", "test", time.Millisecond, err51)

	err100 := errors.New(strings.Repeat("c", 100))
	RecordDBQuery("SELECT", "test", time.Millisecond, err100)
}

func TestRecordTransaction(t *testing.T) {
	before := testutil.ToFloat64(DBTransactions.WithLabelValues("committed"))
	RecordTransaction(true)
	after := testutil.ToFloat64(DBTransactions.WithLabelValues("committed"))

	if after != before+1 {
		t.Errorf("committed counter = %v, want %v", after, before+1)
	}

	beforeRB := testutil.ToFloat64(DBTransactions.WithLabelValues("rolled_back"))
	RecordTransaction(false)
	afterRB := testutil.ToFloat64(DBTransactions.WithLabelValues("rolled_back"))

	if afterRB != beforeRB+1 {
		t.Errorf("rolled_back counter = %v, want %v", afterRB, beforeRB+1)
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful GET request",
			method:     "GET",
			endpoint:   "/api/v1/events/recent",
			statusCode: "200",
			duration:   25 * time.Millisecond,
		},
		{
			name:       "not found",
			method:     "GET",
			endpoint:   "/api/v1/results/event/{id}",
			statusCode: "404",
			duration:   5 * time.Millisecond,
		},
		{
			name:       "validation error",
			method:     "GET",
			endpoint:   "/api/v1/people",
			statusCode: "400",
			duration:   1 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests after inc = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests after dec = %v, want %v", got, before)
	}
}

func TestRecordScrapeRequest(t *testing.T) {
	before := testutil.ToFloat64(ScrapeRequests.WithLabelValues("person", "failure"))
	RecordScrapeRequest("person", errors.New("connection refused"))
	after := testutil.ToFloat64(ScrapeRequests.WithLabelValues("person", "failure"))

	if after != before+1 {
		t.Errorf("failure counter = %v, want %v", after, before+1)
	}

	beforeOK := testutil.ToFloat64(ScrapeRequests.WithLabelValues("year", "success"))
	RecordScrapeRequest("year", nil)
	afterOK := testutil.ToFloat64(ScrapeRequests.WithLabelValues("year", "success"))

	if afterOK != beforeOK+1 {
		t.Errorf("success counter = %v, want %v", afterOK, beforeOK+1)
	}
}

func TestRecordScrapePass(t *testing.T) {
	// Successful pass sets the last-success timestamp
	RecordScrapePass("full", 42*time.Second, nil)
	ts := testutil.ToFloat64(ScrapeLastSuccess.WithLabelValues("full"))
	if ts == 0 {
		t.Error("successful pass should set last-success timestamp")
	}

	// Failed pass records duration but leaves the timestamp alone
	prev := testutil.ToFloat64(ScrapeLastSuccess.WithLabelValues("recent"))
	RecordScrapePass("recent", time.Second, errors.New("breaker open"))
	if got := testutil.ToFloat64(ScrapeLastSuccess.WithLabelValues("recent")); got != prev {
		t.Errorf("failed pass should not update last-success timestamp, got %v want %v", got, prev)
	}
}

func TestRecordRecalculation(t *testing.T) {
	tests := []struct {
		name       string
		discipline string
		trigger    string
		err        error
		wantResult string
	}{
		{
			name:       "successful full run",
			discipline: "road",
			trigger:    "full",
			err:        nil,
			wantResult: "success",
		},
		{
			name:       "database failure",
			discipline: "cyclocross",
			trigger:    "recent",
			err:        errors.New("database is locked"),
			wantResult: "database_error",
		},
		{
			name:       "canceled run",
			discipline: "track",
			trigger:    "manual",
			err:        errors.New("context canceled"),
			wantResult: "canceled",
		},
		{
			name:       "generic failure",
			discipline: "mountain_bike",
			trigger:    "full",
			err:        errors.New("something odd"),
			wantResult: "failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecalcRuns.WithLabelValues(tt.discipline, tt.trigger, tt.wantResult))
			RecordRecalculation(tt.discipline, tt.trigger, time.Second, tt.err)
			after := testutil.ToFloat64(RecalcRuns.WithLabelValues(tt.discipline, tt.trigger, tt.wantResult))

			if after != before+1 {
				t.Errorf("recalc counter for %s = %v, want %v", tt.wantResult, after, before+1)
			}
		})
	}
}

func TestRecordRecalcStage(t *testing.T) {
	stages := []string{"points", "upgrades", "ranks", "sums", "pending"}
	for _, stage := range stages {
		RecordRecalcStage("road", stage, 100*time.Millisecond)
	}
}

func TestRecordCategoryChange(t *testing.T) {
	before := testutil.ToFloat64(CategoryChanges.WithLabelValues("road", "upgrade"))
	RecordCategoryChange("road", "upgrade")
	after := testutil.ToFloat64(CategoryChanges.WithLabelValues("road", "upgrade"))

	if after != before+1 {
		t.Errorf("category change counter = %v, want %v", after, before+1)
	}
}

func TestSetPendingUpgrades(t *testing.T) {
	SetPendingUpgrades("cyclocross", 17)
	if got := testutil.ToFloat64(PendingUpgrades.WithLabelValues("cyclocross")); got != 17 {
		t.Errorf("pending upgrades gauge = %v, want 17", got)
	}

	SetPendingUpgrades("cyclocross", 0)
	if got := testutil.ToFloat64(PendingUpgrades.WithLabelValues("cyclocross")); got != 0 {
		t.Errorf("pending upgrades gauge = %v, want 0", got)
	}
}

func TestRecordReportGeneration(t *testing.T) {
	before := testutil.ToFloat64(ReportsGenerated.WithLabelValues("html", "success"))
	RecordReportGeneration("html", 2*time.Second, nil)
	after := testutil.ToFloat64(ReportsGenerated.WithLabelValues("html", "success"))

	if after != before+1 {
		t.Errorf("reports generated counter = %v, want %v", after, before+1)
	}
}

// TestConcurrentRecording verifies helpers are safe under concurrent use
func TestConcurrentRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				RecordDBQuery("SELECT", "results", time.Millisecond, nil)
				RecordAPIRequest("GET", "/api/v1/events/recent", "200", time.Millisecond)
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}()
	}
	wg.Wait()
}

// TestMetricGathering tests that metrics can be gathered and pass lint checks
func TestMetricGathering(t *testing.T) {
	// Touch a few vector metrics so they materialize with at least one child
	RecordDBQuery("SELECT", "results", time.Millisecond, nil)
	RecordAPIRequest("GET", "/api/v1/events/recent", "200", time.Millisecond)
	RecordScrapeRequest("year", nil)
	RecordRecalculation("road", "full", time.Second, nil)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() returned error: %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric lint problem: %s: %s", p.Metric, p.Text)
	}
}
