// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/tomtom215/velorank/internal/config"
	"github.com/tomtom215/velorank/internal/logging"
)

// defaultQueryTimeout bounds store operations whose callers pass a
// context without a deadline.
const defaultQueryTimeout = 30 * time.Second

// DB wraps the SQLite connection pool and owns schema lifecycle,
// transaction helpers, and the prepared statement cache.
type DB struct {
	conn *sql.DB
	cfg  config.DatabaseConfig

	stmtCache   map[string]*sql.Stmt
	stmtCacheMu sync.RWMutex
}

// New opens (creating if necessary) the SQLite database at cfg.Path and
// initializes the schema. Connection-scoped pragmas ride on the DSN so
// every pooled connection gets them; journal_mode=WAL is persistent but
// harmless to re-apply.
func New(cfg config.DatabaseConfig) (*DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:      conn,
		cfg:       cfg,
		stmtCache: make(map[string]*sql.Stmt),
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Msg("Database initialized")

	return db, nil
}

// buildDSN assembles the connection string. _txlock=immediate makes
// every BeginTx take the write lock up front, which is what the
// per-discipline pipeline transactions need to avoid SQLITE_BUSY
// upgrades mid-transaction.
func buildDSN(cfg config.DatabaseConfig) string {
	busyMillis := int(cfg.BusyTimeout.Milliseconds())
	if busyMillis <= 0 {
		busyMillis = 10000
	}

	params := []string{
		"_txlock=immediate",
		"_pragma=foreign_keys(1)",
		fmt.Sprintf("_pragma=busy_timeout(%d)", busyMillis),
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
	}

	return "file:" + cfg.Path + "?" + strings.Join(params, "&")
}

// configureConnectionPool sets pool limits. SQLite serializes writers,
// so the pool mainly amortizes read concurrency under WAL.
func (db *DB) configureConnectionPool() {
	maxOpen := runtime.NumCPU()
	if maxOpen < 2 {
		maxOpen = 2
	}
	db.conn.SetMaxOpenConns(maxOpen)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// initialize creates tables and indexes. Schema creation is idempotent;
// any failure here is fatal to startup.
func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if err := db.createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Close releases the prepared statement cache, checkpoints the WAL, and
// closes the connection pool.
func (db *DB) Close() error {
	db.stmtCacheMu.Lock()
	for query, stmt := range db.stmtCache {
		closeWithLog(stmt, "prepared statement")
		delete(db.stmtCache, query)
	}
	db.stmtCacheMu.Unlock()

	if err := db.Checkpoint(); err != nil {
		logging.Warn().Err(err).Msg("WAL checkpoint on close failed")
	}

	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Conn exposes the underlying pool for callers that need raw access,
// primarily transactions and tests.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the configured database file path.
func (db *DB) Path() string {
	return db.cfg.Path
}

// prepareCached returns a cached prepared statement for query, preparing
// and caching it on first use. Statements live until Close.
func (db *DB) prepareCached(ctx context.Context, query string) (*sql.Stmt, error) {
	db.stmtCacheMu.RLock()
	stmt, ok := db.stmtCache[query]
	db.stmtCacheMu.RUnlock()
	if ok {
		return stmt, nil
	}

	db.stmtCacheMu.Lock()
	defer db.stmtCacheMu.Unlock()

	// Another goroutine may have prepared it while we waited.
	if stmt, ok := db.stmtCache[query]; ok {
		return stmt, nil
	}

	stmt, err := db.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	db.stmtCache[query] = stmt
	return stmt, nil
}

// ensureContext adds the default query timeout when ctx has no deadline.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}
