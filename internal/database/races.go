// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/velorank/internal/models"
)

// UpsertRace inserts or updates a race by its upstream ID. All fields
// come from the upstream results page, including both timestamps.
func (db *DB) UpsertRace(ctx context.Context, q Querier, r *models.Race) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("upsert", "races", func() error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO races (id, event_id, name, date, categories, starters, created, updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				event_id = excluded.event_id,
				name = excluded.name,
				date = excluded.date,
				categories = excluded.categories,
				starters = excluded.starters,
				created = excluded.created,
				updated = excluded.updated`,
			r.ID, r.EventID, r.Name, r.Date, r.Categories, r.Starters, r.Created, r.Updated)
		if err != nil {
			return fmt.Errorf("failed to upsert race %d: %w", r.ID, err)
		}
		return nil
	})
}

// GetRace returns the race with the given ID, or nil when none exists.
func (db *DB) GetRace(ctx context.Context, q Querier, id int64) (*models.Race, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var r models.Race
	err := q.QueryRowContext(ctx, `
		SELECT id, event_id, name, date, categories, starters, created, updated
		FROM races WHERE id = ?`, id).
		Scan(&r.ID, &r.EventID, &r.Name, &r.Date, &r.Categories, &r.Starters, &r.Created, &r.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get race %d: %w", id, err)
	}
	return &r, nil
}

// RacesForEvent returns an event's races ordered by name.
func (db *DB) RacesForEvent(ctx context.Context, q Querier, eventID int64) ([]models.Race, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	races, err := queryAndScan(ctx, q, `
		SELECT id, event_id, name, date, categories, starters, created, updated
		FROM races WHERE event_id = ?
		ORDER BY name ASC`, []any{eventID}, scanRace)
	if err != nil {
		return nil, fmt.Errorf("failed to list races for event %d: %w", eventID, err)
	}
	return races, nil
}

func scanRace(rows *sql.Rows) (models.Race, error) {
	var r models.Race
	err := rows.Scan(&r.ID, &r.EventID, &r.Name, &r.Date, &r.Categories, &r.Starters, &r.Created, &r.Updated)
	return r, err
}

// AssignerRace is a candidate race for the points assigner: a
// categorized race with published results and no Points rows yet.
type AssignerRace struct {
	models.Race
	EventDiscipline string
	EventName       string
}

// AssignerRaces returns the discipline's categorized races that have
// results but no Points rows, oldest first. After a full delete every
// race qualifies; on incremental passes only freshly scraped races do.
func (db *DB) AssignerRaces(ctx context.Context, q Querier, eventDisciplines []string) ([]AssignerRace, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return nil, nil
	}

	query := `
		SELECT r.id, r.event_id, r.name, r.date, r.categories, r.starters, r.created, r.updated,
		       e.discipline, e.name
		FROM races r
		JOIN events e ON e.id = r.event_id
		JOIN results res ON res.race_id = r.id
		LEFT JOIN points p ON p.result_id = res.id
		WHERE e.discipline IN (` + placeholders(len(eventDisciplines)) + `)
		  AND r.categories != '[]'
		GROUP BY r.id
		HAVING COUNT(p.result_id) = 0
		ORDER BY r.date ASC, r.created ASC`

	races, err := queryAndScan(ctx, q, query, disciplineArgs(eventDisciplines),
		func(rows *sql.Rows) (AssignerRace, error) {
			var r AssignerRace
			err := rows.Scan(&r.ID, &r.EventID, &r.Name, &r.Date, &r.Categories,
				&r.Starters, &r.Created, &r.Updated, &r.EventDiscipline, &r.EventName)
			return r, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list assigner races: %w", err)
	}
	return races, nil
}
