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

// SaveRank writes the derived ranking value for a result.
func (db *DB) SaveRank(ctx context.Context, q Querier, r *models.Rank) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("upsert", "ranks", func() error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO ranks (result_id, value) VALUES (?, ?)
			ON CONFLICT(result_id) DO UPDATE SET value = excluded.value`,
			r.ResultID, r.Value)
		if err != nil {
			return fmt.Errorf("failed to save rank for result %d: %w", r.ResultID, err)
		}
		return nil
	})
}

// GetRank returns a result's rank row, or nil when none exists.
func (db *DB) GetRank(ctx context.Context, q Querier, resultID int64) (*models.Rank, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var r models.Rank
	err := q.QueryRowContext(ctx,
		`SELECT result_id, value FROM ranks WHERE result_id = ?`, resultID).
		Scan(&r.ResultID, &r.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rank for result %d: %w", resultID, err)
	}
	return &r, nil
}

// SaveQuality writes the derived field quality for a race.
func (db *DB) SaveQuality(ctx context.Context, q Querier, quality *models.Quality) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("upsert", "qualities", func() error {
		err := q.QueryRowContext(ctx, `
			INSERT INTO qualities (race_id, value, points_per_place)
			VALUES (?, ?, ?)
			ON CONFLICT(race_id) DO UPDATE SET
				value = excluded.value,
				points_per_place = excluded.points_per_place
			RETURNING id`,
			quality.RaceID, quality.Value, quality.PointsPerPlace).
			Scan(&quality.ID)
		if err != nil {
			return fmt.Errorf("failed to save quality for race %d: %w", quality.RaceID, err)
		}
		return nil
	})
}

// GetQuality returns a race's quality row, or nil when none exists.
func (db *DB) GetQuality(ctx context.Context, q Querier, raceID int64) (*models.Quality, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var quality models.Quality
	err := q.QueryRowContext(ctx,
		`SELECT id, race_id, value, points_per_place FROM qualities WHERE race_id = ?`, raceID).
		Scan(&quality.ID, &quality.RaceID, &quality.Value, &quality.PointsPerPlace)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quality for race %d: %w", raceID, err)
	}
	return &quality, nil
}

// DeleteRanksForDiscipline wipes the derived ranks for the given event
// disciplines ahead of a from-scratch recalculation.
func (db *DB) DeleteRanksForDiscipline(ctx context.Context, q Querier, eventDisciplines []string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return nil
	}

	query := `
		DELETE FROM ranks WHERE result_id IN (
			SELECT res.id
			FROM results res
			JOIN races r ON r.id = res.race_id
			JOIN events e ON e.id = r.event_id
			WHERE e.discipline IN (` + placeholders(len(eventDisciplines)) + `))`

	return timedQuery("delete_discipline", "ranks", func() error {
		_, err := q.ExecContext(ctx, query, disciplineArgs(eventDisciplines)...)
		if err != nil {
			return fmt.Errorf("failed to delete ranks: %w", err)
		}
		return nil
	})
}

// DeleteQualitiesForDiscipline wipes the derived race qualities for the
// given event disciplines ahead of a from-scratch recalculation.
func (db *DB) DeleteQualitiesForDiscipline(ctx context.Context, q Querier, eventDisciplines []string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return nil
	}

	query := `
		DELETE FROM qualities WHERE race_id IN (
			SELECT r.id
			FROM races r
			JOIN events e ON e.id = r.event_id
			WHERE e.discipline IN (` + placeholders(len(eventDisciplines)) + `))`

	return timedQuery("delete_discipline", "qualities", func() error {
		_, err := q.ExecContext(ctx, query, disciplineArgs(eventDisciplines)...)
		if err != nil {
			return fmt.Errorf("failed to delete qualities: %w", err)
		}
		return nil
	})
}

// RankingRace is a categorized race with results, as walked by the
// ranker in chronological order.
type RankingRace struct {
	models.Race
	EventDiscipline string
}

// RankingRaces returns the discipline's categorized races that have
// results, oldest first. When unrankedOnly is set, races that already
// carry a quality row are skipped so an incremental pass only touches
// freshly scraped races.
func (db *DB) RankingRaces(ctx context.Context, q Querier, eventDisciplines []string, unrankedOnly bool) ([]RankingRace, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return nil, nil
	}

	query := `
		SELECT r.id, r.event_id, r.name, r.date, r.categories, r.starters, r.created, r.updated,
		       e.discipline
		FROM races r
		JOIN events e ON e.id = r.event_id
		WHERE e.discipline IN (` + placeholders(len(eventDisciplines)) + `)
		  AND r.categories != '[]'
		  AND EXISTS (SELECT 1 FROM results res WHERE res.race_id = r.id)`
	if unrankedOnly {
		query += `
		  AND NOT EXISTS (SELECT 1 FROM qualities qu WHERE qu.race_id = r.id)`
	}
	query += `
		ORDER BY r.date ASC, r.created ASC`

	races, err := queryAndScan(ctx, q, query, disciplineArgs(eventDisciplines),
		func(rows *sql.Rows) (RankingRace, error) {
			var r RankingRace
			err := rows.Scan(&r.ID, &r.EventID, &r.Name, &r.Date, &r.Categories,
				&r.Starters, &r.Created, &r.Updated, &r.EventDiscipline)
			return r, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list ranking races: %w", err)
	}
	return races, nil
}

// PlacedResult is a numerically placed result with its rider, as
// consumed by the ranker.
type PlacedResult struct {
	ResultID int64
	PersonID int64
	Place    int
}

// PlacedResults returns a race's numerically placed results with known
// riders, in finishing order.
func (db *DB) PlacedResults(ctx context.Context, q Querier, raceID int64) ([]PlacedResult, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	placed, err := queryAndScan(ctx, q, `
		SELECT res.id, res.person_id, CAST(res.place AS INTEGER)
		FROM results res
		WHERE res.race_id = ?
		  AND res.person_id IS NOT NULL
		  AND CAST(res.place AS INTEGER) > 0
		ORDER BY CAST(res.place AS INTEGER) ASC`,
		[]any{raceID},
		func(rows *sql.Rows) (PlacedResult, error) {
			var p PlacedResult
			err := rows.Scan(&p.ResultID, &p.PersonID, &p.Place)
			return p, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list placed results for race %d: %w", raceID, err)
	}
	return placed, nil
}

// CurrentRanks returns each rider's most recent rank value across the
// given event disciplines, keyed by person. When personIDs is non-empty
// the lookup is restricted to those riders.
func (db *DB) CurrentRanks(ctx context.Context, q Querier, eventDisciplines []string, personIDs []int64) (map[int64]float64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return map[int64]float64{}, nil
	}

	query := `
		SELECT person_id, value
		FROM (
			SELECT res.person_id AS person_id, rk.value AS value,
			       ROW_NUMBER() OVER (
			           PARTITION BY res.person_id
			           ORDER BY r.date DESC, r.created DESC
			       ) AS rn
			FROM ranks rk
			JOIN results res ON res.id = rk.result_id
			JOIN races r ON r.id = res.race_id
			JOIN events e ON e.id = r.event_id
			WHERE e.discipline IN (` + placeholders(len(eventDisciplines)) + `)
			  AND res.person_id IS NOT NULL`
	args := disciplineArgs(eventDisciplines)
	if len(personIDs) > 0 {
		query += `
			  AND res.person_id IN (` + placeholders(len(personIDs)) + `)`
		for _, id := range personIDs {
			args = append(args, id)
		}
	}
	query += `
		)
		WHERE rn = 1`

	ranks := make(map[int64]float64)
	err := timedQuery("current", "ranks", func() error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer closeQuietly(rows)

		for rows.Next() {
			var (
				personID int64
				value    float64
			)
			if err := rows.Scan(&personID, &value); err != nil {
				return err
			}
			ranks[personID] = value
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load current ranks: %w", err)
	}
	return ranks, nil
}
