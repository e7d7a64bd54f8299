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

// InsertAssignedPoints creates the initial points row for a placed
// result. Callers only hand it results from races without points, so a
// plain insert suffices.
func (db *DB) InsertAssignedPoints(ctx context.Context, q Querier, resultID int64, value int) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("insert", "points", func() error {
		_, err := q.ExecContext(ctx,
			`INSERT INTO points (result_id, value) VALUES (?, ?)`, resultID, value)
		if err != nil {
			return fmt.Errorf("failed to insert points for result %d: %w", resultID, err)
		}
		return nil
	})
}

// SavePoints writes the full derived points state for a result,
// inserting or replacing as needed.
func (db *DB) SavePoints(ctx context.Context, q Querier, p *models.Points) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("upsert", "points", func() error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO points (result_id, value, notes, needs_upgrade, upgrade_confirmation_id, sum_value, sum_categories)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(result_id) DO UPDATE SET
				value = excluded.value,
				notes = excluded.notes,
				needs_upgrade = excluded.needs_upgrade,
				upgrade_confirmation_id = excluded.upgrade_confirmation_id,
				sum_value = excluded.sum_value,
				sum_categories = excluded.sum_categories`,
			p.ResultID, p.Value, p.Notes, p.NeedsUpgrade, p.ConfirmationID, p.SumValue, p.SumCategories)
		if err != nil {
			return fmt.Errorf("failed to save points for result %d: %w", p.ResultID, err)
		}
		return nil
	})
}

// GetPoints returns the points row for a result, or nil when none exists.
func (db *DB) GetPoints(ctx context.Context, q Querier, resultID int64) (*models.Points, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var p models.Points
	err := q.QueryRowContext(ctx, `
		SELECT result_id, value, notes, needs_upgrade, upgrade_confirmation_id, sum_value, sum_categories
		FROM points WHERE result_id = ?`, resultID).
		Scan(&p.ResultID, &p.Value, &p.Notes, &p.NeedsUpgrade, &p.ConfirmationID, &p.SumValue, &p.SumCategories)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get points for result %d: %w", resultID, err)
	}
	return &p, nil
}

// DeletePoints removes the points row for a result, if any.
func (db *DB) DeletePoints(ctx context.Context, q Querier, resultID int64) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("delete", "points", func() error {
		_, err := q.ExecContext(ctx, `DELETE FROM points WHERE result_id = ?`, resultID)
		if err != nil {
			return fmt.Errorf("failed to delete points for result %d: %w", resultID, err)
		}
		return nil
	})
}

// DeletePointsForDiscipline wipes every points row belonging to the
// given event disciplines, ahead of a from-scratch recalculation.
func (db *DB) DeletePointsForDiscipline(ctx context.Context, q Querier, eventDisciplines []string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return nil
	}

	query := `
		DELETE FROM points WHERE result_id IN (
			SELECT res.id
			FROM results res
			JOIN races r ON r.id = res.race_id
			JOIN events e ON e.id = r.event_id
			WHERE e.discipline IN (` + placeholders(len(eventDisciplines)) + `))`

	return timedQuery("delete_discipline", "points", func() error {
		_, err := q.ExecContext(ctx, query, disciplineArgs(eventDisciplines)...)
		if err != nil {
			return fmt.Errorf("failed to delete points: %w", err)
		}
		return nil
	})
}

// RosterEntry is a rider the upgrade report lists as due: their most
// recent points row inside the reporting window still flags an upgrade.
type RosterEntry struct {
	ResultID        int64
	Place           string
	PersonID        int64
	FirstName       string
	LastName        string
	EventDiscipline string
	RaceDate        models.Date
	Value           int
	Notes           string
	SumValue        int
	SumCategories   models.IntList
}

// UpgradeRoster returns riders whose latest points row on or after
// since still needs an upgrade, ordered strongest first. The race
// creation timestamp breaks same-day ties when picking the latest row.
func (db *DB) UpgradeRoster(ctx context.Context, q Querier, since models.Date, eventDisciplines []string) ([]RosterEntry, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return nil, nil
	}

	query := `
		SELECT result_id, place, person_id, first_name, last_name,
		       discipline, race_date, value, notes, sum_value, sum_categories
		FROM (
			SELECT p.result_id, res.place, per.id AS person_id,
			       per.first_name, per.last_name,
			       e.discipline, r.date AS race_date,
			       p.value, p.notes, p.needs_upgrade, p.sum_value, p.sum_categories,
			       ROW_NUMBER() OVER (
			           PARTITION BY per.id
			           ORDER BY r.date DESC, r.created DESC
			       ) AS rn
			FROM points p
			JOIN results res ON res.id = p.result_id
			JOIN people per ON per.id = res.person_id
			JOIN races r ON r.id = res.race_id
			JOIN events e ON e.id = r.event_id
			WHERE r.date >= ?
			  AND e.discipline IN (` + placeholders(len(eventDisciplines)) + `)
		)
		WHERE rn = 1 AND needs_upgrade
		ORDER BY sum_categories ASC, sum_value DESC,
		         last_name COLLATE NOCASE ASC, first_name COLLATE NOCASE ASC`

	args := append([]any{since}, disciplineArgs(eventDisciplines)...)

	var entries []RosterEntry
	err := timedQuery("roster", "points", func() error {
		var err error
		entries, err = queryAndScan(ctx, q, query, args,
			func(rows *sql.Rows) (RosterEntry, error) {
				var e RosterEntry
				err := rows.Scan(&e.ResultID, &e.Place, &e.PersonID, &e.FirstName, &e.LastName,
					&e.EventDiscipline, &e.RaceDate, &e.Value, &e.Notes, &e.SumValue, &e.SumCategories)
				return e, err
			})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build upgrade roster: %w", err)
	}
	return entries, nil
}

// HistoryEntry is one points row in the per-rider report history, with
// enough race and event context to print a line.
type HistoryEntry struct {
	PersonID        int64
	FirstName       string
	LastName        string
	TeamName        string
	ResultID        int64
	Place           string
	RaceID          int64
	RaceName        string
	RaceDate        models.Date
	Starters        int
	Categories      models.IntList
	EventName       string
	EventDiscipline string
	Value           int
	Notes           string
	NeedsUpgrade    bool
	SumValue        int
	SumCategories   models.IntList
}

// PointsHistory returns every points row for the given event
// disciplines, grouped by rider (name order) and chronological within
// each rider. Single-letter surnames are placeholder rows upstream and
// are skipped.
func (db *DB) PointsHistory(ctx context.Context, q Querier, eventDisciplines []string) ([]HistoryEntry, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return nil, nil
	}

	query := `
		SELECT per.id, per.first_name, per.last_name, per.team_name,
		       res.id, res.place,
		       r.id, r.name, r.date, r.starters, r.categories,
		       e.name, e.discipline,
		       p.value, p.notes, p.needs_upgrade, p.sum_value, p.sum_categories
		FROM points p
		JOIN results res ON res.id = p.result_id
		JOIN people per ON per.id = res.person_id
		JOIN races r ON r.id = res.race_id
		JOIN events e ON e.id = r.event_id
		WHERE e.discipline IN (` + placeholders(len(eventDisciplines)) + `)
		  AND LENGTH(per.last_name) > 1
		ORDER BY per.last_name COLLATE NOCASE ASC,
		         per.first_name COLLATE NOCASE ASC,
		         r.date ASC`

	var entries []HistoryEntry
	err := timedQuery("history", "points", func() error {
		var err error
		entries, err = queryAndScan(ctx, q, query, disciplineArgs(eventDisciplines),
			func(rows *sql.Rows) (HistoryEntry, error) {
				var e HistoryEntry
				err := rows.Scan(&e.PersonID, &e.FirstName, &e.LastName, &e.TeamName,
					&e.ResultID, &e.Place,
					&e.RaceID, &e.RaceName, &e.RaceDate, &e.Starters, &e.Categories,
					&e.EventName, &e.EventDiscipline,
					&e.Value, &e.Notes, &e.NeedsUpgrade, &e.SumValue, &e.SumCategories)
				return e, err
			})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load points history: %w", err)
	}
	return entries, nil
}
