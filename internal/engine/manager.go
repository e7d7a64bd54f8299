// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package engine

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tomtom215/velorank/internal/config"
	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/metrics"
	"github.com/tomtom215/velorank/internal/models"
	"github.com/tomtom215/velorank/internal/reporter"
	"github.com/tomtom215/velorank/internal/scraper"
)

// Pass trigger labels used on recalculation metrics.
const (
	triggerFull   = "full"
	triggerRecent = "recent"
	triggerManual = "manual"
)

// PointsCalculator derives upgrade points, running sums, category
// transitions and pending-upgrade confirmations. Satisfied by
// *upgrades.Calculator.
type PointsCalculator interface {
	AssignPoints(ctx context.Context, q database.Querier, discipline string, incremental bool) (int, error)
	CalculateSums(ctx context.Context, q database.Querier, discipline string) error
	ConfirmPendingUpgrades(ctx context.Context, q database.Querier, discipline string) error
}

// RankCalculator derives race quality and rider rank values. Satisfied
// by *rankings.Calculator.
type RankCalculator interface {
	CalculateRaceRanks(ctx context.Context, q database.Querier, discipline string, incremental bool) error
}

// Manager orchestrates scraping and derivation across all upgrade
// disciplines.
type Manager struct {
	store    *database.DB
	source   scraper.Source
	upgrades PointsCalculator
	ranker   RankCalculator
	cfg      config.SchedulerConfig

	reporter *reporter.Reporter
	reports  config.ReportsConfig

	mu       sync.Mutex // protects running state and callbacks
	runMu    sync.Mutex // serializes passes
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	// fullScrapeDone flips after the first fully successful full pass;
	// later full passes only rescan the current year. Guarded by runMu.
	fullScrapeDone bool

	// lastFullRun is the completion time of the most recent clean full
	// pass. Guarded by mu; zero until one pass succeeds.
	lastFullRun time.Time

	onRunCompleted func(discipline string, pointsCreated int, duration time.Duration)
}

// runSpec describes one discipline run.
type runSpec struct {
	trigger     string
	incremental bool
	scrape      bool
	years       []int // full-pass season scan, oldest first
	recentDays  int   // recent-pass window; 0 means scrape new events instead
	force       bool  // derive even when the scrape reports nothing new
}

// NewManager builds a Manager. The source provides the scrape steps;
// points and ranks provide the derivation stages.
func NewManager(store *database.DB, source scraper.Source, points PointsCalculator, ranks RankCalculator, cfg config.SchedulerConfig) *Manager {
	return &Manager{
		store:    store,
		source:   source,
		upgrades: points,
		ranker:   ranks,
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
}

// SetReports enables report files after runs that derived anything.
func (m *Manager) SetReports(rep *reporter.Reporter, cfg config.ReportsConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reporter = rep
	m.reports = cfg
}

// SetOnRunCompleted sets the callback invoked after each discipline run
// that executed the derivation stages. Callers use it to drop caches
// and notify websocket clients.
func (m *Manager) SetOnRunCompleted(callback func(discipline string, pointsCreated int, duration time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRunCompleted = callback
}

// Start launches the full and recent pass loops. With the scheduler
// disabled it starts nothing; runs then only happen through
// RunDiscipline.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("engine manager is already running")
	}

	if !m.cfg.Enabled {
		m.mu.Unlock()
		logging.Warn().Msg("Scraping disabled (NO_SCRAPE) - derivation runs only via the admin API")
		return nil
	}

	logging.Info().
		Dur("full_interval", m.cfg.FullInterval).
		Dur("recent_interval", m.cfg.RecentInterval).
		Int("recent_days", m.cfg.RecentDays).
		Int("years_back", m.cfg.YearsBack).
		Msg("Starting engine manager...")

	m.running = true
	m.stopChan = make(chan struct{})
	m.mu.Unlock()

	// Add before starting so Stop cannot Wait between the Adds.
	m.wg.Add(2)
	go m.fullLoop(ctx)
	go m.recentLoop(ctx)

	return nil
}

// Stop halts the pass loops and waits for an in-flight pass to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	logging.Info().Msg("Stopping engine manager...")
	close(m.stopChan)
	m.wg.Wait()
	logging.Info().Msg("Engine manager stopped")

	return nil
}

// fullLoop runs a full pass immediately, then on every tick. The first
// pass seeds an empty database, so it does not wait for the ticker.
func (m *Manager) fullLoop(ctx context.Context) {
	defer m.wg.Done()

	m.runFull(ctx)

	ticker := time.NewTicker(m.cfg.FullInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.runFull(ctx)
		}
	}
}

// recentLoop runs the recent pass on every tick. There is no immediate
// run: the full pass covers startup.
func (m *Manager) recentLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.RecentInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.runRecent(ctx)
		}
	}
}

// runFull rescans whole seasons and rebuilds each discipline from
// scratch when its scrape found new results. The first run also forces
// derivation so an already-scraped database still gets derived rows.
func (m *Manager) runFull(ctx context.Context) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	start := time.Now()
	years := m.yearSpan()
	firstRun := !m.fullScrapeDone

	logging.Info().Ints("years", years).Bool("first_run", firstRun).Msg("Full pass starting")

	var firstErr error
	for _, discipline := range models.UpgradeDisciplines {
		if ctx.Err() != nil {
			return
		}
		if _, err := m.runOne(ctx, discipline, runSpec{
			trigger:     triggerFull,
			incremental: false,
			scrape:      true,
			years:       years,
			force:       firstRun,
		}); err != nil {
			logging.Error().Err(err).Str("discipline", discipline).Msg("Full pass failed for discipline")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	// Keep the multi-year scan until one pass covers it cleanly.
	if firstErr == nil {
		m.fullScrapeDone = true
		m.mu.Lock()
		m.lastFullRun = time.Now()
		m.mu.Unlock()
	}
	metrics.RecordScrapePass("full", time.Since(start), firstErr)
	logging.Info().Dur("duration", time.Since(start)).Msg("Full pass completed")
}

// LastFullRun returns when the last clean full pass finished, or the
// zero time when none has.
func (m *Manager) LastFullRun() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFullRun
}

// runRecent rescans events raced in the last RecentDays days and tops
// derived rows up incrementally where the scrape found changes.
func (m *Manager) runRecent(ctx context.Context) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	start := time.Now()
	var firstErr error
	for _, discipline := range models.UpgradeDisciplines {
		if ctx.Err() != nil {
			return
		}
		if _, err := m.runOne(ctx, discipline, runSpec{
			trigger:     triggerRecent,
			incremental: true,
			scrape:      true,
			recentDays:  m.cfg.RecentDays,
		}); err != nil {
			logging.Error().Err(err).Str("discipline", discipline).Msg("Recent pass failed for discipline")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	metrics.RecordScrapePass("recent", time.Since(start), firstErr)
	logging.Debug().Dur("duration", time.Since(start)).Msg("Recent pass completed")
}

// yearSpan returns the seasons the next full pass scrapes.
func (m *Manager) yearSpan() []int {
	current := models.Today().Year()
	if m.fullScrapeDone {
		return []int{current}
	}
	years := make([]int, 0, m.cfg.YearsBack+1)
	for y := current - m.cfg.YearsBack; y <= current; y++ {
		years = append(years, y)
	}
	return years
}

// RunDiscipline runs one discipline on demand. With scrape set it
// checks for new events first; either way the derivation stages run,
// so operators can re-derive from already stored results. Returns the
// number of points rows the run created.
func (m *Manager) RunDiscipline(ctx context.Context, discipline string, incremental, scrape bool) (int, error) {
	if !models.IsUpgradeDiscipline(discipline) {
		return 0, fmt.Errorf("unknown upgrade discipline %q", discipline)
	}

	m.runMu.Lock()
	defer m.runMu.Unlock()

	return m.runOne(ctx, discipline, runSpec{
		trigger:     triggerManual,
		incremental: incremental,
		scrape:      scrape,
		force:       true,
	})
}

// runOne executes one discipline inside a single transaction: scrape
// steps first, then the derivation stages. Callers hold runMu.
//
// A scrape error rolls the whole discipline back. A derivation stage
// error rolls back that stage and skips the rest, but earlier stages
// still commit; the error is still reported so schedulers log it and
// the admin API surfaces it.
func (m *Manager) runOne(ctx context.Context, discipline string, spec runSpec) (int, error) {
	start := time.Now()
	created := 0
	derived := false
	var stageErr error

	err := m.store.WithTx(ctx, func(tx *sql.Tx) error {
		changed := false
		if spec.scrape {
			var err error
			changed, err = m.scrapeSteps(ctx, tx, discipline, spec)
			if err != nil {
				return err
			}
		}

		if !changed && !spec.force {
			logging.Debug().Str("discipline", discipline).Msg("No new results, skipping derivation")
			return nil
		}

		derived = true
		created, stageErr = m.derive(ctx, tx, discipline, spec)
		return nil
	})
	if err == nil {
		err = stageErr
	}

	duration := time.Since(start)
	metrics.RecordRecalculation(discipline, spec.trigger, duration, err)

	if derived && stageErr == nil {
		logging.Info().
			Str("discipline", discipline).
			Str("trigger", spec.trigger).
			Int("points_created", created).
			Dur("duration", duration).
			Msg("Discipline run completed")
	}
	if derived && (created > 0 || spec.force) {
		// Even a partial run may have rewritten derived rows, but a
		// zero-point unforced run stopped after the assign stage and
		// left nothing downstream to invalidate.
		m.notifyRunCompleted(discipline, created, duration)
		m.writeReport(ctx, discipline)
	}

	if err != nil {
		return 0, err
	}
	return created, nil
}

// scrapeSteps runs the discipline's scrape phase and reports whether
// anything new landed.
func (m *Manager) scrapeSteps(ctx context.Context, tx *sql.Tx, discipline string, spec runSpec) (bool, error) {
	for _, year := range spec.years {
		if err := m.source.ScrapeYear(ctx, tx, year, discipline); err != nil {
			return false, fmt.Errorf("scrape year %d: %w", year, err)
		}
		if err := m.source.ScrapeParents(ctx, tx, year, discipline); err != nil {
			return false, fmt.Errorf("scrape parents %d: %w", year, err)
		}
		if err := m.source.CleanEvents(ctx, tx, year, discipline); err != nil {
			return false, fmt.Errorf("clean events %d: %w", year, err)
		}
	}

	if spec.recentDays > 0 {
		changed, err := m.source.ScrapeRecent(ctx, tx, discipline, spec.recentDays)
		if err != nil {
			return false, fmt.Errorf("scrape recent: %w", err)
		}
		return changed, nil
	}

	changed, err := m.source.ScrapeNew(ctx, tx, discipline)
	if err != nil {
		return false, fmt.Errorf("scrape new events: %w", err)
	}
	return changed, nil
}

// derive runs the four derivation stages, each inside its own
// savepoint. The first failing stage stops the chain; its savepoint is
// rolled back while earlier stages stay, and the error comes back so
// the caller can report it after the commit. An unforced run that
// assigned no new points stops after the first stage, since the
// downstream tables only move when points do.
func (m *Manager) derive(ctx context.Context, tx *sql.Tx, discipline string, spec runSpec) (int, error) {
	created := 0

	err := database.WithSavepoint(ctx, tx, "assign_points", func() error {
		var err error
		created, err = m.upgrades.AssignPoints(ctx, tx, discipline, spec.incremental)
		return err
	})
	if err == nil && created == 0 && !spec.force {
		logging.Debug().Str("discipline", discipline).Msg("No points assigned, skipping downstream stages")
		return 0, nil
	}
	if err == nil {
		err = database.WithSavepoint(ctx, tx, "calculate_sums", func() error {
			return m.upgrades.CalculateSums(ctx, tx, discipline)
		})
	}
	if err == nil {
		err = database.WithSavepoint(ctx, tx, "race_ranks", func() error {
			return m.ranker.CalculateRaceRanks(ctx, tx, discipline, spec.incremental)
		})
	}
	if err == nil {
		err = database.WithSavepoint(ctx, tx, "confirm_pending", func() error {
			return m.upgrades.ConfirmPendingUpgrades(ctx, tx, discipline)
		})
	}
	if err != nil {
		logging.Error().Err(err).Str("discipline", discipline).Msg("Derivation stage failed, keeping completed stages")
		return created, err
	}
	return created, nil
}

func (m *Manager) notifyRunCompleted(discipline string, created int, duration time.Duration) {
	m.mu.Lock()
	callback := m.onRunCompleted
	m.mu.Unlock()

	if callback != nil {
		callback(discipline, created, duration)
	}
}

// writeReport regenerates the discipline's report file when reports are
// configured. Failures are logged, never fatal to the run.
func (m *Manager) writeReport(ctx context.Context, discipline string) {
	m.mu.Lock()
	rep := m.reporter
	cfg := m.reports
	m.mu.Unlock()

	if rep == nil || cfg.OutputDir == "" {
		return
	}
	if cfg.Format == "" || cfg.Format == reporter.FormatNull {
		return
	}

	start := time.Now()
	err := m.generateReportFile(ctx, rep, cfg, discipline)
	metrics.RecordReportGeneration(cfg.Format, time.Since(start), err)
	if err != nil {
		logging.Error().Err(err).Str("discipline", discipline).Msg("Report generation failed")
	}
}

func (m *Manager) generateReportFile(ctx context.Context, rep *reporter.Reporter, cfg config.ReportsConfig, discipline string) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	ext := "txt"
	if cfg.Format == reporter.FormatHTML {
		ext = "html"
	}
	path := filepath.Join(cfg.OutputDir, fmt.Sprintf("upgrades_%s.%s", discipline, ext))

	f, err := os.Create(path) //nolint:gosec // path is built from config and a known discipline tag
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	w, err := reporter.NewWriter(cfg.Format, f)
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := rep.Generate(ctx, m.store.Conn(), discipline, w); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
