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

// UpsertResult inserts or updates a result by its upstream ID.
func (db *DB) UpsertResult(ctx context.Context, q Querier, r *models.Result) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("upsert", "results", func() error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO results (id, race_id, person_id, place, time, laps)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				race_id = excluded.race_id,
				person_id = excluded.person_id,
				place = excluded.place,
				time = excluded.time,
				laps = excluded.laps`,
			r.ID, r.RaceID, r.PersonID, r.Place, r.Time, r.Laps)
		if err != nil {
			return fmt.Errorf("failed to upsert result %d: %w", r.ID, err)
		}
		return nil
	})
}

// GetResult returns the result with the given ID, or nil when none exists.
func (db *DB) GetResult(ctx context.Context, q Querier, id int64) (*models.Result, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var r models.Result
	err := q.QueryRowContext(ctx, `
		SELECT id, race_id, person_id, place, time, laps
		FROM results WHERE id = ?`, id).
		Scan(&r.ID, &r.RaceID, &r.PersonID, &r.Place, &r.Time, &r.Laps)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result %d: %w", id, err)
	}
	return &r, nil
}

// Finisher is a placed result with its rider, as consumed by the
// points assigner. Place is the numeric cast of the raw place string.
type Finisher struct {
	ResultID  int64
	Place     int
	PersonID  int64
	FirstName string
	LastName  string
}

// TopFinishers returns a race's numerically placed results up to
// maxPlace, in finishing order. Results without a rider and rows whose
// place does not cast to a positive integer are excluded.
func (db *DB) TopFinishers(ctx context.Context, q Querier, raceID int64, maxPlace int) ([]Finisher, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	finishers, err := queryAndScan(ctx, q, `
		SELECT res.id, CAST(res.place AS INTEGER), per.id, per.first_name, per.last_name
		FROM results res
		JOIN people per ON per.id = res.person_id
		WHERE res.race_id = ?
		  AND CAST(res.place AS INTEGER) > 0
		  AND CAST(res.place AS INTEGER) <= ?
		ORDER BY CAST(res.place AS INTEGER) ASC`,
		[]any{raceID, maxPlace},
		func(rows *sql.Rows) (Finisher, error) {
			var f Finisher
			err := rows.Scan(&f.ResultID, &f.Place, &f.PersonID, &f.FirstName, &f.LastName)
			return f, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list finishers for race %d: %w", raceID, err)
	}
	return finishers, nil
}

// WalkResult is one result in the person-ordered walk that recomputes
// running point sums and inferred categories. Points is the full stored
// row (nil when none exists): the recalculation rewrites some of its
// fields and must retain the rest, so the walk prefetches everything.
type WalkResult struct {
	ResultID        int64
	Place           string
	PersonID        int64
	FirstName       string
	LastName        string
	RaceID          int64
	RaceName        string
	RaceDate        models.Date
	RaceCategories  models.IntList
	Starters        int
	EventName       string
	EventDiscipline string
	Points          *models.Points
}

// ResultsWalk returns every result with a known rider across the given
// event disciplines, ordered for the running-sum recalculation: rider,
// then race date, then race creation time. The creation timestamp is
// the only available tiebreak for same-day races. The whole set is
// materialized so callers can write points while iterating.
func (db *DB) ResultsWalk(ctx context.Context, q Querier, eventDisciplines []string) ([]WalkResult, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return nil, nil
	}

	query := `
		SELECT res.id, res.place,
		       per.id, per.first_name, per.last_name,
		       r.id, r.name, r.date, r.categories, r.starters,
		       e.name, e.discipline,
		       p.result_id, p.value, p.notes, p.needs_upgrade,
		       p.upgrade_confirmation_id, p.sum_value, p.sum_categories
		FROM results res
		JOIN people per ON per.id = res.person_id
		JOIN races r ON r.id = res.race_id
		JOIN events e ON e.id = r.event_id
		LEFT JOIN points p ON p.result_id = res.id
		WHERE e.discipline IN (` + placeholders(len(eventDisciplines)) + `)
		ORDER BY per.id ASC, r.date ASC, r.created ASC`

	var walk []WalkResult
	err := timedQuery("walk", "results", func() error {
		var err error
		walk, err = queryAndScan(ctx, q, query, disciplineArgs(eventDisciplines), scanWalkResult)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk results: %w", err)
	}
	return walk, nil
}

func scanWalkResult(rows *sql.Rows) (WalkResult, error) {
	var (
		w            WalkResult
		pointsID     sql.NullInt64
		value        sql.NullInt64
		notes        sql.NullString
		needsUpgrade sql.NullBool
		confirmation sql.NullInt64
		sumValue     sql.NullInt64
		sumCats      models.IntList
	)
	err := rows.Scan(&w.ResultID, &w.Place,
		&w.PersonID, &w.FirstName, &w.LastName,
		&w.RaceID, &w.RaceName, &w.RaceDate, &w.RaceCategories, &w.Starters,
		&w.EventName, &w.EventDiscipline,
		&pointsID, &value, &notes, &needsUpgrade,
		&confirmation, &sumValue, &sumCats)
	if err != nil {
		return w, err
	}
	if pointsID.Valid {
		w.Points = &models.Points{
			ResultID:      pointsID.Int64,
			Value:         int(value.Int64),
			Notes:         notes.String,
			NeedsUpgrade:  needsUpgrade.Valid && needsUpgrade.Bool,
			SumValue:      int(sumValue.Int64),
			SumCategories: sumCats,
		}
		if confirmation.Valid {
			w.Points.ConfirmationID = &confirmation.Int64
		}
	}
	return w, nil
}
