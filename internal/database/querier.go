// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tomtom215/velorank/internal/metrics"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Store methods take a Querier so the same code runs standalone or
// inside a pipeline transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// scanFunc scans a single row into a result type.
type scanFunc[T any] func(*sql.Rows) (T, error)

// queryAndScan executes a query and scans all rows using scan.
func queryAndScan[T any](ctx context.Context, q Querier, query string, args []any, scan scanFunc[T]) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var results []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// placeholders returns "?, ?, ..." with n slots for an IN clause.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// disciplineArgs expands the event disciplines of an upgrade-discipline
// into query args for an IN clause.
func disciplineArgs(eventDisciplines []string) []any {
	args := make([]any, len(eventDisciplines))
	for i, d := range eventDisciplines {
		args[i] = d
	}
	return args
}

// timedQuery wraps a store operation with duration metrics. The caller
// names the logical operation and primary table for the metric labels.
func timedQuery(operation, table string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
	return err
}
