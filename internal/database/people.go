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

// UpsertPerson inserts or updates a person by their upstream ID.
func (db *DB) UpsertPerson(ctx context.Context, q Querier, p *models.Person) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("upsert", "people", func() error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO people (id, first_name, last_name, team_name)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				first_name = excluded.first_name,
				last_name = excluded.last_name,
				team_name = excluded.team_name`,
			p.ID, p.FirstName, p.LastName, p.TeamName)
		if err != nil {
			return fmt.Errorf("failed to upsert person %d: %w", p.ID, err)
		}
		return nil
	})
}

// GetPerson returns the person with the given ID, or nil when none
// exists.
func (db *DB) GetPerson(ctx context.Context, q Querier, id int64) (*models.Person, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var p models.Person
	err := q.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, team_name
		FROM people WHERE id = ?`, id).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.TeamName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person %d: %w", id, err)
	}
	return &p, nil
}

// SearchPeople returns riders whose "first last" name contains the
// search string, case-insensitively. Callers enforce the minimum
// search length.
func (db *DB) SearchPeople(ctx context.Context, q Querier, name string) ([]models.PersonSearchResult, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var people []models.PersonSearchResult
	err := timedQuery("search", "people", func() error {
		var err error
		people, err = queryAndScan(ctx, q, `
			SELECT id, first_name || ' ' || last_name AS name, first_name, last_name, team_name
			FROM people
			WHERE first_name || ' ' || last_name LIKE '%' || ? || '%'`,
			[]any{name},
			func(rows *sql.Rows) (models.PersonSearchResult, error) {
				var p models.PersonSearchResult
				err := rows.Scan(&p.ID, &p.Name, &p.FirstName, &p.LastName, &p.TeamName)
				return p, err
			})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search people: %w", err)
	}
	if people == nil {
		people = []models.PersonSearchResult{}
	}
	return people, nil
}
