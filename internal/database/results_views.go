// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/velorank/internal/models"
)

// ResultsForPerson returns a rider's results across the given event
// disciplines, newest race first, with derived points, rank, race
// quality, and any pending-upgrade confirmation date attached.
func (db *DB) ResultsForPerson(ctx context.Context, q Querier, personID int64, eventDisciplines []string) ([]models.ResultWithRace, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return []models.ResultWithRace{}, nil
	}

	query := `
		SELECT res.id, res.place, res.time, res.laps,
		       p.value, p.sum_value, p.sum_categories, p.notes, p.needs_upgrade,
		       rk.value, ms.date,
		       r.id, r.name, r.date, r.starters, r.categories, qu.value,
		       e.id, e.name, e.year,
		       s.id, s.name
		FROM results res
		JOIN races r ON r.id = res.race_id
		JOIN events e ON e.id = r.event_id
		LEFT JOIN series s ON s.id = e.series_id
		LEFT JOIN points p ON p.result_id = res.id
		LEFT JOIN ranks rk ON rk.result_id = res.id
		LEFT JOIN qualities qu ON qu.race_id = r.id
		LEFT JOIN pending_upgrades pu ON pu.result_id = res.id
		LEFT JOIN member_snapshots ms ON ms.id = pu.upgrade_confirmation_id
		WHERE res.person_id = ?
		  AND e.discipline IN (` + placeholders(len(eventDisciplines)) + `)
		ORDER BY r.date DESC, r.created DESC`

	args := append([]any{personID}, disciplineArgs(eventDisciplines)...)

	var results []models.ResultWithRace
	err := timedQuery("list_for_person", "results", func() error {
		var err error
		results, err = queryAndScan(ctx, q, query, args, scanPersonResult)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list results for person %d: %w", personID, err)
	}
	if results == nil {
		results = []models.ResultWithRace{}
	}
	return results, nil
}

func scanPersonResult(rows *sql.Rows) (models.ResultWithRace, error) {
	var (
		row         models.ResultWithRace
		timeVal     sql.NullInt64
		laps        sql.NullInt64
		value       sql.NullInt64
		sumValue    sql.NullInt64
		sumCats     models.IntList
		notes       sql.NullString
		needsUp     sql.NullBool
		rank        sql.NullFloat64
		pendingDate models.Date
		quality     sql.NullFloat64
		seriesID    sql.NullInt64
		seriesName  sql.NullString
	)
	err := rows.Scan(&row.ID, &row.Place, &timeVal, &laps,
		&value, &sumValue, &sumCats, &notes, &needsUp,
		&rank, &pendingDate,
		&row.Race.ID, &row.Race.Name, &row.Race.Date, &row.Race.Starters, &row.Race.Categories, &quality,
		&row.Race.Event.ID, &row.Race.Event.Name, &row.Race.Event.Year,
		&seriesID, &seriesName)
	if err != nil {
		return row, err
	}

	if timeVal.Valid {
		v := timeVal.Int64
		row.Time = &v
	}
	if laps.Valid {
		v := int(laps.Int64)
		row.Laps = &v
	}
	if value.Valid {
		v := int(value.Int64)
		sv := int(sumValue.Int64)
		n := notes.String
		nu := needsUp.Bool
		row.Value = &v
		row.SumValue = &sv
		row.SumCategories = sumCats
		row.Notes = &n
		row.NeedsUpgrade = &nu
	}
	if rank.Valid {
		v := int(rank.Float64)
		row.Rank = &v
	}
	if !pendingDate.IsZero() {
		d := pendingDate
		row.PendingDate = &d
	}
	if quality.Valid {
		v := int(quality.Float64)
		row.Race.Quality = &v
	}
	if seriesID.Valid {
		row.Race.Event.Series = &models.SeriesRef{ID: seriesID.Int64, Name: seriesName.String}
	}
	return row, nil
}

// ResultsForEvent returns an event's results grouped by race, races
// ordered by name and results in upstream publication order. Races
// without results are included with an empty result list; the pending
// confirmation date is only attached in the person view.
func (db *DB) ResultsForEvent(ctx context.Context, q Querier, eventID int64) ([]models.EventRaceResults, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `
		SELECT r.id, r.name, r.date, r.starters, r.categories, qu.value,
		       res.id, res.place, res.time, res.laps,
		       p.value, p.sum_value, p.sum_categories, p.notes, p.needs_upgrade,
		       rk.value,
		       per.id, per.first_name, per.last_name, per.team_name
		FROM races r
		LEFT JOIN qualities qu ON qu.race_id = r.id
		LEFT JOIN results res ON res.race_id = r.id
		LEFT JOIN points p ON p.result_id = res.id
		LEFT JOIN ranks rk ON rk.result_id = res.id
		LEFT JOIN people per ON per.id = res.person_id
		WHERE r.event_id = ?
		ORDER BY r.name ASC, r.id ASC, res.id ASC`

	var races []models.EventRaceResults
	err := timedQuery("list_for_event", "results", func() error {
		rows, err := q.QueryContext(ctx, query, eventID)
		if err != nil {
			return err
		}
		defer closeQuietly(rows)

		for rows.Next() {
			var (
				race        models.RaceInfo
				quality     sql.NullFloat64
				resID       sql.NullInt64
				place       sql.NullString
				timeVal     sql.NullInt64
				laps        sql.NullInt64
				value       sql.NullInt64
				sumValue    sql.NullInt64
				sumCats     models.IntList
				notes       sql.NullString
				needsUp     sql.NullBool
				rank        sql.NullFloat64
				personID    sql.NullInt64
				firstName   sql.NullString
				lastName    sql.NullString
				teamName    sql.NullString
			)
			err := rows.Scan(&race.ID, &race.Name, &race.Date, &race.Starters, &race.Categories, &quality,
				&resID, &place, &timeVal, &laps,
				&value, &sumValue, &sumCats, &notes, &needsUp,
				&rank,
				&personID, &firstName, &lastName, &teamName)
			if err != nil {
				return err
			}
			if quality.Valid {
				v := int(quality.Float64)
				race.Quality = &v
			}

			if len(races) == 0 || races[len(races)-1].ID != race.ID {
				races = append(races, models.EventRaceResults{
					RaceInfo: race,
					Results:  []models.ResultWithPerson{},
				})
			}
			if !resID.Valid {
				continue
			}

			result := models.ResultWithPerson{
				ResultRow: models.ResultRow{
					ID:    resID.Int64,
					Place: place.String,
				},
			}
			if timeVal.Valid {
				v := timeVal.Int64
				result.Time = &v
			}
			if laps.Valid {
				v := int(laps.Int64)
				result.Laps = &v
			}
			if value.Valid {
				v := int(value.Int64)
				sv := int(sumValue.Int64)
				n := notes.String
				nu := needsUp.Bool
				result.Value = &v
				result.SumValue = &sv
				result.SumCategories = sumCats
				result.Notes = &n
				result.NeedsUpgrade = &nu
			}
			if rank.Valid {
				v := int(rank.Float64)
				result.Rank = &v
			}
			if personID.Valid {
				result.Person = &models.PersonInfo{
					ID:        personID.Int64,
					FirstName: firstName.String,
					LastName:  lastName.String,
					TeamName:  teamName.String,
					Name:      models.TitleName(firstName.String + " " + lastName.String),
				}
			}

			last := &races[len(races)-1]
			last.Results = append(last.Results, result)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list results for event %d: %w", eventID, err)
	}
	return races, nil
}
