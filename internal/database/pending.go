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

// DeletePendingForDiscipline clears the pending-upgrade markers for an
// upgrade discipline ahead of a reconfirmation pass.
func (db *DB) DeletePendingForDiscipline(ctx context.Context, q Querier, discipline string) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("delete_discipline", "pending_upgrades", func() error {
		_, err := q.ExecContext(ctx,
			`DELETE FROM pending_upgrades WHERE discipline = ?`, discipline)
		if err != nil {
			return fmt.Errorf("failed to delete pending upgrades for %s: %w", discipline, err)
		}
		return nil
	})
}

// UpsertPendingUpgrade marks a result as a site-confirmed upgrade not
// yet raced at the new category.
func (db *DB) UpsertPendingUpgrade(ctx context.Context, q Querier, p *models.PendingUpgrade) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("upsert", "pending_upgrades", func() error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO pending_upgrades (result_id, upgrade_confirmation_id, discipline)
			VALUES (?, ?, ?)
			ON CONFLICT(result_id) DO UPDATE SET
				upgrade_confirmation_id = excluded.upgrade_confirmation_id,
				discipline = excluded.discipline`,
			p.ResultID, p.ConfirmationID, p.Discipline)
		if err != nil {
			return fmt.Errorf("failed to upsert pending upgrade for result %d: %w", p.ResultID, err)
		}
		return nil
	})
}

// PendingCandidate is a rider whose most recent categorized result
// still flags an upgrade, making them a candidate for the pending
// confirmation check against their federation profile.
type PendingCandidate struct {
	ResultID        int64
	PersonID        int64
	FirstName       string
	LastName        string
	RaceDate        models.Date
	EventDiscipline string
	SumValue        int
	SumCategories   models.IntList
}

// PendingCandidates returns each rider's single most recent result
// across the discipline's categorized races, kept only when its points
// row still needs an upgrade. Riders whose latest outing was a Junior
// race are excluded entirely.
func (db *DB) PendingCandidates(ctx context.Context, q Querier, eventDisciplines []string) ([]PendingCandidate, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if len(eventDisciplines) == 0 {
		return nil, nil
	}

	query := `
		SELECT res.id, per.id, per.first_name, per.last_name,
		       r.date, e.discipline, p.sum_value, p.sum_categories
		FROM results res
		JOIN races r ON r.id = res.race_id
		JOIN events e ON e.id = r.event_id
		JOIN people per ON per.id = res.person_id
		JOIN points p ON p.result_id = res.id
		WHERE res.id IN (
			SELECT DISTINCT FIRST_VALUE(res2.id) OVER (
				PARTITION BY res2.person_id
				ORDER BY r2.date DESC, r2.created DESC
			)
			FROM results res2
			JOIN races r2 ON r2.id = res2.race_id
			JOIN events e2 ON e2.id = r2.event_id
			JOIN people per2 ON per2.id = res2.person_id
			WHERE r2.categories != '[]'
			  AND e2.discipline IN (` + placeholders(len(eventDisciplines)) + `)
		)
		  AND p.needs_upgrade
		  AND r.name NOT LIKE '%Junior%'
		ORDER BY p.sum_categories ASC, p.sum_value DESC`

	var candidates []PendingCandidate
	err := timedQuery("candidates", "pending_upgrades", func() error {
		var err error
		candidates, err = queryAndScan(ctx, q, query, disciplineArgs(eventDisciplines),
			func(rows *sql.Rows) (PendingCandidate, error) {
				var c PendingCandidate
				err := rows.Scan(&c.ResultID, &c.PersonID, &c.FirstName, &c.LastName,
					&c.RaceDate, &c.EventDiscipline, &c.SumValue, &c.SumCategories)
				return c, err
			})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending candidates: %w", err)
	}
	return candidates, nil
}

// ListPending returns the current pending upgrades for an upgrade
// discipline, strongest first, with the confirming snapshot date.
func (db *DB) ListPending(ctx context.Context, q Querier, discipline string) ([]models.PendingUpgradeRow, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `
		SELECT per.id, per.first_name, per.last_name, per.team_name,
		       pu.discipline, r.date, p.sum_value, p.sum_categories, ms.date
		FROM pending_upgrades pu
		JOIN results res ON res.id = pu.result_id
		JOIN people per ON per.id = res.person_id
		JOIN races r ON r.id = res.race_id
		JOIN points p ON p.result_id = res.id
		JOIN member_snapshots ms ON ms.id = pu.upgrade_confirmation_id
		WHERE pu.discipline = ?
		ORDER BY p.sum_categories ASC, p.sum_value DESC,
		         per.last_name COLLATE NOCASE ASC, per.first_name COLLATE NOCASE ASC`

	var pending []models.PendingUpgradeRow
	err := timedQuery("list", "pending_upgrades", func() error {
		var err error
		pending, err = queryAndScan(ctx, q, query, []any{discipline},
			func(rows *sql.Rows) (models.PendingUpgradeRow, error) {
				var row models.PendingUpgradeRow
				err := rows.Scan(&row.Person.ID, &row.Person.FirstName, &row.Person.LastName, &row.Person.TeamName,
					&row.Discipline, &row.RaceDate, &row.SumValue, &row.SumCategories, &row.ConfirmedDate)
				if err != nil {
					return row, err
				}
				row.Person.Name = models.TitleName(row.Person.FirstName + " " + row.Person.LastName)
				row.Display = models.DisciplineDisplayName(row.Discipline)
				return row, nil
			})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending upgrades for %s: %w", discipline, err)
	}
	if pending == nil {
		pending = []models.PendingUpgradeRow{}
	}
	return pending, nil
}
