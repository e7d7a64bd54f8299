// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package database

import (
	"context"
	"fmt"
)

// Checkpoint forces a WAL checkpoint, folding the log back into the
// main database file. Called on shutdown and after large scrape passes.
func (db *DB) Checkpoint() error {
	ctx, cancel := ensureContext(context.Background())
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}
	return nil
}

// countedTables lists every table reported by RecordCounts.
var countedTables = []string{
	"series",
	"events",
	"races",
	"people",
	"member_snapshots",
	"results",
	"points",
	"pending_upgrades",
	"ranks",
	"qualities",
}

// RecordCounts returns the row count of every table, for the health
// endpoint and startup logging.
func (db *DB) RecordCounts(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	counts := make(map[string]int64, len(countedTables))
	for _, table := range countedTables {
		var count int64
		// Table names come from the fixed list above, never from input.
		query := "SELECT COUNT(*) FROM " + table
		if err := db.conn.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = count
	}

	return counts, nil
}
