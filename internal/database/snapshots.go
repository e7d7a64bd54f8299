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

const snapshotColumns = `id, date, person_id, license, mtb_category, dh_category, ccx_category, road_category, track_category`

// InsertSnapshot stores a freshly scraped member snapshot and fills in
// its generated ID. A same-day re-scrape for the same rider replaces
// the earlier values.
func (db *DB) InsertSnapshot(ctx context.Context, q Querier, s *models.MemberSnapshot) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return timedQuery("upsert", "member_snapshots", func() error {
		err := q.QueryRowContext(ctx, `
			INSERT INTO member_snapshots (date, person_id, license, mtb_category, dh_category, ccx_category, road_category, track_category)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(date, person_id) DO UPDATE SET
				license = excluded.license,
				mtb_category = excluded.mtb_category,
				dh_category = excluded.dh_category,
				ccx_category = excluded.ccx_category,
				road_category = excluded.road_category,
				track_category = excluded.track_category
			RETURNING id`,
			s.Date, s.PersonID, s.License, s.MTB, s.DH, s.CCX, s.Road, s.Track).
			Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot for person %d: %w", s.PersonID, err)
		}
		return nil
	})
}

// SnapshotOnOrBefore returns the rider's newest snapshot taken on or
// before the given date, or nil when none qualifies.
func (db *DB) SnapshotOnOrBefore(ctx context.Context, q Querier, personID int64, date models.Date) (*models.MemberSnapshot, error) {
	return db.getSnapshot(ctx, q, `
		SELECT `+snapshotColumns+`
		FROM member_snapshots
		WHERE person_id = ? AND date <= ?
		ORDER BY date DESC LIMIT 1`, personID, date)
}

// OldestSnapshot returns the rider's earliest snapshot, or nil when the
// rider has never been scraped.
func (db *DB) OldestSnapshot(ctx context.Context, q Querier, personID int64) (*models.MemberSnapshot, error) {
	return db.getSnapshot(ctx, q, `
		SELECT `+snapshotColumns+`
		FROM member_snapshots
		WHERE person_id = ?
		ORDER BY date ASC LIMIT 1`, personID)
}

// LatestSnapshot returns the rider's newest snapshot, or nil when the
// rider has never been scraped. The freshness check uses it to decide
// whether a profile re-scrape is due.
func (db *DB) LatestSnapshot(ctx context.Context, q Querier, personID int64) (*models.MemberSnapshot, error) {
	return db.getSnapshot(ctx, q, `
		SELECT `+snapshotColumns+`
		FROM member_snapshots
		WHERE person_id = ?
		ORDER BY date DESC LIMIT 1`, personID)
}

func (db *DB) getSnapshot(ctx context.Context, q Querier, query string, args ...any) (*models.MemberSnapshot, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var s models.MemberSnapshot
	err := q.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.Date, &s.PersonID, &s.License, &s.MTB, &s.DH, &s.CCX, &s.Road, &s.Track)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &s, nil
}
