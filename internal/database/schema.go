// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

/*
schema.go - Database Schema Management

Tables:
  - series: multi-event series as published upstream
  - events: race days, optionally nested under a parent event or series
  - races: starts within an event, with category list and starter count
  - people: riders keyed by the upstream identifier
  - member_snapshots: point-in-time federation profile copies
  - results: finish-line entries
  - points: derived upgrade points per result (1:1)
  - pending_upgrades: site-confirmed upgrades not yet raced at category
  - ranks: derived ranking value per result (1:1)
  - qualities: derived field quality per race

Upstream entities (series through results) keep their scraped IDs as
primary keys, so re-scrapes upsert in place. Derived tables key on the
entity they extend and are rebuilt by the engine, never scraped.

Dates are ISO-8601 TEXT ("YYYY-MM-DD"); created/updated are RFC 3339
TEXT. Category lists are JSON arrays in TEXT columns ("[]" when empty).
*/
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the table creation SQL statements,
// ordered so referenced tables exist before their referents.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS series (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			year INTEGER NOT NULL DEFAULT 0,
			dates TEXT NOT NULL DEFAULT ''
		);`,

		// ignore marks events excluded from listings and derivation:
		// umbrella parents, zero-result scrapes, series standings.
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			discipline TEXT NOT NULL,
			year INTEGER NOT NULL,
			date TEXT,
			series_id INTEGER REFERENCES series(id) ON DELETE CASCADE,
			parent_id INTEGER REFERENCES events(id) ON DELETE CASCADE,
			ignore INTEGER NOT NULL DEFAULT 0
		);`,

		// categories is a JSON array; '[]' means an uncategorized field.
		// created is the upstream result-publication timestamp and the
		// only intra-day ordering tiebreak.
		`CREATE TABLE IF NOT EXISTS races (
			id INTEGER PRIMARY KEY,
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			date TEXT NOT NULL,
			categories TEXT NOT NULL DEFAULT '[]',
			starters INTEGER NOT NULL DEFAULT 0,
			created TEXT NOT NULL,
			updated TEXT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS people (
			id INTEGER PRIMARY KEY,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			team_name TEXT NOT NULL DEFAULT ''
		);`,

		// license NULL means the profile page showed no membership.
		// Category defaults mirror the federation's new-member values.
		`CREATE TABLE IF NOT EXISTS member_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			person_id INTEGER NOT NULL REFERENCES people(id) ON DELETE CASCADE,
			license INTEGER,
			mtb_category INTEGER NOT NULL DEFAULT 3,
			dh_category INTEGER NOT NULL DEFAULT 3,
			ccx_category INTEGER NOT NULL DEFAULT 5,
			road_category INTEGER NOT NULL DEFAULT 5,
			track_category INTEGER NOT NULL DEFAULT 5,
			UNIQUE(date, person_id)
		);`,

		// place is the raw upstream string: numeric rank, "dnf", "dq",
		// or free text. person_id NULL for unidentified rows.
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			race_id INTEGER NOT NULL REFERENCES races(id) ON DELETE CASCADE,
			person_id INTEGER REFERENCES people(id) ON DELETE CASCADE,
			place TEXT NOT NULL DEFAULT '',
			time INTEGER,
			laps INTEGER
		);`,

		`CREATE TABLE IF NOT EXISTS points (
			result_id INTEGER PRIMARY KEY REFERENCES results(id) ON DELETE CASCADE,
			value INTEGER NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			needs_upgrade INTEGER NOT NULL DEFAULT 0,
			upgrade_confirmation_id INTEGER REFERENCES member_snapshots(id) ON DELETE SET NULL,
			sum_value INTEGER NOT NULL DEFAULT 0,
			sum_categories TEXT NOT NULL DEFAULT '[]'
		);`,

		`CREATE TABLE IF NOT EXISTS pending_upgrades (
			result_id INTEGER PRIMARY KEY REFERENCES results(id) ON DELETE CASCADE,
			upgrade_confirmation_id INTEGER NOT NULL REFERENCES member_snapshots(id) ON DELETE CASCADE,
			discipline TEXT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS ranks (
			result_id INTEGER PRIMARY KEY REFERENCES results(id) ON DELETE CASCADE,
			value REAL NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS qualities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			race_id INTEGER NOT NULL UNIQUE REFERENCES races(id) ON DELETE CASCADE,
			value REAL NOT NULL,
			points_per_place REAL NOT NULL
		);`,
	}
}

// createIndexes creates indexes on the foreign key columns and the
// chronological race ordering used by every engine walk.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_events_series ON events(series_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_parent ON events(parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_discipline_year ON events(discipline, year);`,

		`CREATE INDEX IF NOT EXISTS idx_races_event ON races(event_id);`,
		`CREATE INDEX IF NOT EXISTS idx_races_date_created ON races(date, created);`,

		`CREATE INDEX IF NOT EXISTS idx_snapshots_person_date ON member_snapshots(person_id, date);`,

		`CREATE INDEX IF NOT EXISTS idx_results_race ON results(race_id);`,
		`CREATE INDEX IF NOT EXISTS idx_results_person ON results(person_id);`,

		`CREATE INDEX IF NOT EXISTS idx_points_confirmation ON points(upgrade_confirmation_id);`,
		`CREATE INDEX IF NOT EXISTS idx_points_needs_upgrade ON points(needs_upgrade);`,

		`CREATE INDEX IF NOT EXISTS idx_pending_discipline ON pending_upgrades(discipline);`,
		`CREATE INDEX IF NOT EXISTS idx_pending_confirmation ON pending_upgrades(upgrade_confirmation_id);`,
	}

	for _, index := range indexes {
		if _, err := db.conn.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", index, err)
		}
	}

	return nil
}
