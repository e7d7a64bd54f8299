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

// UpsertSeries inserts or updates a series by its upstream ID.
func (db *DB) UpsertSeries(ctx context.Context, q Querier, s *models.Series) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("upsert", "series", func() error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO series (id, name, year, dates)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				year = excluded.year,
				dates = excluded.dates`,
			s.ID, s.Name, s.Year, s.Dates)
		if err != nil {
			return fmt.Errorf("failed to upsert series %d: %w", s.ID, err)
		}
		return nil
	})
}

// UpsertEvent inserts or updates an event by its upstream ID.
func (db *DB) UpsertEvent(ctx context.Context, q Querier, e *models.Event) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("upsert", "events", func() error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO events (id, name, discipline, year, date, series_id, parent_id, ignore)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				discipline = excluded.discipline,
				year = excluded.year,
				date = excluded.date,
				series_id = excluded.series_id,
				parent_id = excluded.parent_id,
				ignore = excluded.ignore`,
			e.ID, e.Name, e.Discipline, e.Year, e.Date, e.SeriesID, e.ParentID, e.Ignore)
		if err != nil {
			return fmt.Errorf("failed to upsert event %d: %w", e.ID, err)
		}
		return nil
	})
}

// GetEvent returns the event with the given ID, or nil when none exists.
func (db *DB) GetEvent(ctx context.Context, q Querier, id int64) (*models.Event, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var e models.Event
	err := q.QueryRowContext(ctx, `
		SELECT id, name, discipline, year, COALESCE(date, ''), series_id, parent_id, ignore
		FROM events WHERE id = ?`, id).
		Scan(&e.ID, &e.Name, &e.Discipline, &e.Year, &e.Date, &e.SeriesID, &e.ParentID, &e.Ignore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return &e, nil
}

// GetSeriesRef returns the id/name projection of a series, or nil when
// none exists.
func (db *DB) GetSeriesRef(ctx context.Context, q Querier, id int64) (*models.SeriesRef, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var ref models.SeriesRef
	err := q.QueryRowContext(ctx, `SELECT id, name FROM series WHERE id = ?`, id).
		Scan(&ref.ID, &ref.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get series %d: %w", id, err)
	}
	return &ref, nil
}

// SetEventIgnore flips an event's ignore flag.
func (db *DB) SetEventIgnore(ctx context.Context, q Querier, id int64, ignore bool) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err := q.ExecContext(ctx, `UPDATE events SET ignore = ? WHERE id = ?`, ignore, id); err != nil {
		return fmt.Errorf("failed to set ignore on event %d: %w", id, err)
	}
	return nil
}

// IgnoreEmptyEvents marks events of the given year and disciplines as
// ignored when neither they nor their child events carry any results.
// Umbrella pages and cancelled events scrape as empty shells; hiding
// them keeps the listings useful. Returns the number of events flagged.
func (db *DB) IgnoreEmptyEvents(ctx context.Context, q Querier, year int, eventDisciplines []string) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return 0, nil
	}

	query := `
		UPDATE events SET ignore = 1
		WHERE year = ?
		  AND discipline IN (` + placeholders(len(eventDisciplines)) + `)
		  AND ignore = 0
		  AND NOT EXISTS (
			SELECT 1 FROM races r
			JOIN results res ON res.race_id = r.id
			WHERE r.event_id = events.id)
		  AND NOT EXISTS (
			SELECT 1 FROM events c
			JOIN races r ON r.event_id = c.id
			JOIN results res ON res.race_id = r.id
			WHERE c.parent_id = events.id)`

	args := append([]any{year}, disciplineArgs(eventDisciplines)...)
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to ignore empty events: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// EventYears returns every year with event data, newest first.
func (db *DB) EventYears(ctx context.Context, q Querier) ([]int, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	years, err := queryAndScan(ctx, q, `
		SELECT DISTINCT year FROM events ORDER BY year DESC`, nil,
		func(rows *sql.Rows) (int, error) {
			var year int
			err := rows.Scan(&year)
			return year, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list event years: %w", err)
	}
	if years == nil {
		years = []int{}
	}
	return years, nil
}

// RecentEvents returns the most recent non-ignored events that have
// published race results, ordered by their latest race date. The date
// on each row is that latest race date, not the event's own date text.
func (db *DB) RecentEvents(ctx context.Context, q Querier, limit int) ([]models.RecentEvent, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var events []models.RecentEvent
	err := timedQuery("list_recent", "events", func() error {
		var err error
		events, err = queryAndScan(ctx, q, `
			SELECT e.id, e.name, e.discipline, MAX(r.date) AS last_date, s.id, s.name
			FROM events e
			LEFT JOIN series s ON s.id = e.series_id
			JOIN races r ON r.event_id = e.id
			WHERE e.ignore = 0
			GROUP BY e.id
			ORDER BY last_date DESC, e.name ASC
			LIMIT ?`, []any{limit}, scanRecentEvent)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	if events == nil {
		events = []models.RecentEvent{}
	}
	return events, nil
}

func scanRecentEvent(rows *sql.Rows) (models.RecentEvent, error) {
	var (
		e          models.RecentEvent
		discipline string
		seriesID   sql.NullInt64
		seriesName sql.NullString
	)
	if err := rows.Scan(&e.ID, &e.Name, &discipline, &e.Date, &seriesID, &seriesName); err != nil {
		return e, err
	}
	e.Discipline = models.DisciplineInfo{
		Name:    discipline,
		Display: models.DisciplineDisplayName(discipline),
	}
	if seriesID.Valid {
		e.Series = &models.SeriesRef{ID: seriesID.Int64, Name: seriesName.String}
	}
	return e, nil
}

// EventsForYear returns the year's non-ignored events under the given
// event disciplines, newest race date first, then series and event name.
func (db *DB) EventsForYear(ctx context.Context, q Querier, year int, eventDisciplines []string) ([]models.YearEvent, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return []models.YearEvent{}, nil
	}

	query := `
		SELECT e.id, e.name, MAX(r.date) AS last_date, s.id, s.name
		FROM events e
		LEFT JOIN series s ON s.id = e.series_id
		JOIN races r ON r.event_id = e.id
		WHERE e.ignore = 0
		  AND e.year = ?
		  AND e.discipline IN (` + placeholders(len(eventDisciplines)) + `)
		GROUP BY e.id
		ORDER BY last_date DESC, s.name ASC, e.name ASC`

	args := append([]any{year}, disciplineArgs(eventDisciplines)...)
	events, err := queryAndScan(ctx, q, query, args, func(rows *sql.Rows) (models.YearEvent, error) {
		var (
			e          models.YearEvent
			seriesID   sql.NullInt64
			seriesName sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &seriesID, &seriesName); err != nil {
			return e, err
		}
		if seriesID.Valid {
			e.Series = &models.SeriesRef{ID: seriesID.Int64, Name: seriesName.String}
		}
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %d: %w", year, err)
	}
	if events == nil {
		events = []models.YearEvent{}
	}
	return events, nil
}
