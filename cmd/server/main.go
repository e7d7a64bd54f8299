// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

/*
The velorank server scrapes OBRA race results, derives upgrade points,
category progressions and race rankings, and serves them as a read-only
JSON API.

# Application Architecture

The server implements a layered architecture with Suture v4 process
supervision:

	RootSupervisor ("velorank")
	├── DataSupervisor ("data-layer")
	│   └── engine manager (full + recent scrape/recalculate loops)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket hub (run_completed feed)
	└── APISupervisor ("api-layer")
	    └── HTTP server (chi router)

Initialization order:

 1. Configuration: Koanf v2 layering (defaults -> config.yaml -> environment)
 2. Logging: zerolog, JSON or console per LOG_FORMAT
 3. Database: single-file SQLite store at DATABASE_PATH (default $HOME/.obra.sqlite3)
 4. Scraper: OBRA profile client behind a circuit breaker and rate limiter
 5. Engine: points assigner, category state machine, race ranker, pending confirmer
 6. Cache: API response cache (memory, badger, or none per CACHE_TYPE)
 7. HTTP API: chi router with CORS, rate limiting, metrics, swagger

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest
priority wins): environment variables, config.yaml, built-in defaults.
The legacy NO_SCRAPE variable disables the scheduler regardless of the
other layers; derivation then only runs through the admin API.

Admin endpoints are mounted but reject every request until both are set:

	export ADMIN_ENABLED=true
	export JWT_SECRET=$(openssl rand -base64 32)

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops the scrape/recalculate loops, waiting for an in-flight pass
  - Stops accepting new connections and drains in-flight requests (10s timeout)
  - Closes websocket clients, the cache, and the database

# Example Usage

Development, console logs, no scraping:

	export NO_SCRAPE=1
	export LOG_FORMAT=console
	./velorank

Production:

	export DATABASE_PATH=/data/obra.sqlite3
	export CACHE_TYPE=badger
	export CACHE_PATH=/data/cache
	./velorank
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/velorank/docs" // Import generated swagger docs
	"github.com/tomtom215/velorank/internal/api"
	"github.com/tomtom215/velorank/internal/auth"
	"github.com/tomtom215/velorank/internal/cache"
	"github.com/tomtom215/velorank/internal/config"
	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/engine"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/rankings"
	"github.com/tomtom215/velorank/internal/reporter"
	"github.com/tomtom215/velorank/internal/scraper"
	"github.com/tomtom215/velorank/internal/supervisor"
	"github.com/tomtom215/velorank/internal/supervisor/services"
	"github.com/tomtom215/velorank/internal/upgrades"
	ws "github.com/tomtom215/velorank/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting VeloRank with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("obra_url", cfg.Scraper.BaseURL).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Bool("admin_enabled", cfg.Security.AdminEnabled).
		Msg("Configuration loaded")

	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Str("path", db.Path()).Msg("Database initialized successfully")

	// OBRA profile client. The circuit breaker keeps a struggling
	// upstream from stalling recalculation passes; member lookups then
	// degrade to the stored snapshots.
	profiles := scraper.NewClient(&cfg.Scraper, db)
	source := scraper.NewLocalSource(db, profiles)

	calculator := upgrades.NewCalculator(db, profiles, upgrades.DefaultRules, cfg.Scraper.SnapshotMaxAgeDays)
	ranker := rankings.NewCalculator(db, rankings.DefaultPolicy)
	rep := reporter.NewReporter(db)

	manager := engine.NewManager(db, source, calculator, ranker, cfg.Scheduler)
	manager.SetReports(rep, cfg.Reports)

	store, err := cache.New(cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize response cache")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}()
	logging.Info().Str("type", cfg.Cache.Type).Dur("ttl", cfg.Cache.TTL).Msg("Response cache initialized")

	// Admin bearer tokens. The endpoints stay mounted either way so the
	// route table is stable; without a manager they answer 403.
	var tokens *auth.Manager
	if cfg.Security.AdminEnabled {
		tokens, err = auth.NewManager(cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize admin auth")
		}
		logging.Info().Msg("Admin API enabled with JWT bearer auth")
	} else {
		logging.Info().Msg("Admin API disabled (ADMIN_ENABLED=false)")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	wsHub := ws.NewHub()

	handler := api.NewHandler(db, manager, rep, cfg, tokens, wsHub, store)

	// After every run that rewrote derived rows: drop the response cache
	// and tell websocket clients to refetch.
	manager.SetOnRunCompleted(handler.OnRunCompleted)

	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	tree.AddDataService(services.NewEngineManagerService(manager))
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("Engine, websocket hub and HTTP server added to supervisor tree")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
