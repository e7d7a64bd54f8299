// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/metrics"
)

// WithTx runs fn inside a write transaction. The DSN carries
// _txlock=immediate, so the write lock is taken at BEGIN and a pipeline
// pass cannot hit a busy lock upgrade halfway through its stages.
//
// fn returning an error rolls the transaction back; otherwise it is
// committed. The commit/rollback outcome is recorded in metrics.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			logging.Error().
				Err(rbErr).
				AnErr("original_error", err).
				Msg("Transaction rollback failed")
		}
		metrics.RecordTransaction(false)
		return err
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordTransaction(false)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	metrics.RecordTransaction(true)
	return nil
}

// WithSavepoint runs fn inside a named savepoint on tx. On error the
// savepoint is rolled back and released, keeping earlier work in the
// enclosing transaction intact; the error is returned so the caller can
// stop running later stages.
//
// name must be a plain identifier (stage names are compile-time
// constants); it is interpolated into the SQL.
func WithSavepoint(ctx context.Context, tx *sql.Tx, name string, fn func() error) error {
	if !isIdentifier(name) {
		return fmt.Errorf("invalid savepoint name %q", name)
	}

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint %s: %w", name, err)
	}

	if err := fn(); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			logging.Error().
				Err(rbErr).
				AnErr("original_error", err).
				Str("savepoint", name).
				Msg("Savepoint rollback failed")
			return err
		}
		if _, relErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); relErr != nil {
			logging.Warn().
				Err(relErr).
				Str("savepoint", name).
				Msg("Savepoint release after rollback failed")
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint %s: %w", name, err)
	}
	return nil
}

// isIdentifier reports whether s is a bare SQL identifier: ASCII
// letters, digits, and underscores, not starting with a digit.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
