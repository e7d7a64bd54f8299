// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability and caching information.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [{"id": 1, "name": "Cross Crusade #1", ...}],
//	  "metadata": {
//	    "timestamp": "2026-08-25T12:00:00Z",
//	    "query_time_ms": 4,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Search string too short",
//	    "details": {"field": "name"}
//	  },
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
//
// Query time tracking:
//   - Cached responses: QueryTimeMS is 0, Cached is true
//   - Fresh queries: QueryTimeMS shows actual DB execution time
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - NOT_FOUND: Resource doesn't exist
//   - DATABASE_ERROR: Query execution failure
//   - UNAUTHORIZED: Invalid/missing admin credentials
//   - ADMIN_DISABLED: Admin API not configured
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status            string     `json:"status"`
	Version           string     `json:"version"`
	DatabaseConnected bool       `json:"database_connected"`
	ScrapingEnabled   bool       `json:"scraping_enabled"`
	LastFullRun       *time.Time `json:"last_full_run,omitempty"`
	Uptime            float64    `json:"uptime_seconds"`
}

// SeriesRef is the embedded series reference in event projections.
type SeriesRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DisciplineInfo names a discipline with its display form.
type DisciplineInfo struct {
	Name    string `json:"name"`
	Display string `json:"display"`
}

// RecentEvent is one row of the recent-events listing: an event with
// its latest race date and discipline.
type RecentEvent struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Date       Date           `json:"date"`
	Series     *SeriesRef     `json:"series"`
	Discipline DisciplineInfo `json:"discipline"`
}

// YearEvent is one event row in the per-year listing.
type YearEvent struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Date   Date       `json:"date"`
	Series *SeriesRef `json:"series"`
}

// DisciplineEvents groups a year's events under one upgrade-discipline.
type DisciplineEvents struct {
	Name    string      `json:"name"`
	Display string      `json:"display"`
	Events  []YearEvent `json:"events"`
}

// PersonInfo is the person projection embedded in result payloads.
// Name is the title-cased "First Last" display form.
type PersonInfo struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	TeamName  string `json:"team_name"`
	Name      string `json:"name"`
}

// PersonSearchResult is one row of the people search. Name is the raw
// "first last" concatenation used for matching.
type PersonSearchResult struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	TeamName  string `json:"team_name"`
}

// EventRef is the embedded event reference in race projections.
type EventRef struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Year   int        `json:"year"`
	Series *SeriesRef `json:"series"`
}

// RaceInfo is the race projection shared by event and person results.
// Quality is the race quality truncated to an integer, null when the
// ranker has not produced one.
type RaceInfo struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Date       Date    `json:"date"`
	Starters   int     `json:"starters"`
	Categories IntList `json:"categories"`
	Quality    *int    `json:"quality"`
}

// RaceWithEvent is a race projection carrying its owning event.
type RaceWithEvent struct {
	RaceInfo
	Event EventRef `json:"event"`
}

// ResultRow is the result projection shared by person and event views.
// Points-derived fields are null when the result has no Points row.
type ResultRow struct {
	ID            int64   `json:"id"`
	Place         string  `json:"place"`
	Time          *int64  `json:"time"`
	Laps          *int    `json:"laps"`
	Value         *int    `json:"value"`
	SumValue      *int    `json:"sum_value"`
	SumCategories IntList `json:"sum_categories"`
	Notes         *string `json:"notes"`
	NeedsUpgrade  *bool   `json:"needs_upgrade"`
	Rank          *int    `json:"rank"`
	PendingDate   *Date   `json:"pending_date"`
}

// ResultWithPerson is a result row with its rider, for event views.
type ResultWithPerson struct {
	ResultRow
	Person *PersonInfo `json:"person"`
}

// ResultWithRace is a result row with its race, for person views.
type ResultWithRace struct {
	ResultRow
	Race RaceWithEvent `json:"race"`
}

// EventRaceResults groups an event's results by race.
type EventRaceResults struct {
	RaceInfo
	Results []ResultWithPerson `json:"results"`
}

// EventResults contains all results for an event, grouped by race.
type EventResults struct {
	EventRef
	Races []EventRaceResults `json:"races"`
}

// DisciplineResults groups a person's results under one
// upgrade-discipline, with the person's current rank in it.
type DisciplineResults struct {
	Name    string           `json:"name"`
	Display string           `json:"display"`
	Rank    *int             `json:"rank"`
	Results []ResultWithRace `json:"results"`
}

// PersonResults contains all results for a person, grouped by
// upgrade-discipline.
type PersonResults struct {
	PersonInfo
	Disciplines []DisciplineResults `json:"disciplines"`
}

// PendingUpgradeRow is one row of the pending-upgrades listing: a rider
// the engine believes has been upgraded on the federation site but who
// has not yet raced at the new category.
type PendingUpgradeRow struct {
	Person        PersonInfo `json:"person"`
	Discipline    string     `json:"discipline"`
	Display       string     `json:"display"`
	RaceDate      Date       `json:"race_date"`
	SumValue      int        `json:"sum_value"`
	SumCategories IntList    `json:"sum_categories"`
	ConfirmedDate Date       `json:"confirmed_date"`
}
