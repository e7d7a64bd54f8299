// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package scraper pulls rider and result data from the federation site.
//
// Bulk results collection (events, races, results for whole seasons) is
// owned by a separate collector process that shares the SQLite file; the
// engine drives it through the Source interface so recalculation passes
// stay testable and the site-specific crawling can evolve independently.
// The one page this package fetches itself is the member profile, which
// feeds category snapshots to the upgrade confirmer.
package scraper

import (
	"context"

	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/models"
)

// PersonScraper fetches one rider's federation profile and stores it as a
// member snapshot. A nil snapshot with a nil error means the rider has no
// profile upstream.
type PersonScraper interface {
	ScrapePerson(ctx context.Context, q database.Querier, person *models.Person) (*models.MemberSnapshot, error)
}

// Source is the collector the engine drives at the top of every pass. All
// operations run inside the engine's per-discipline transaction, so a
// failing scrape rolls back with the rest of the discipline's work.
//
// The discipline argument is always an upgrade-discipline tag
// (models.UpgradeDisciplines); implementations fan out to the event
// disciplines it groups.
type Source interface {
	// ScrapeYear ingests every event, race, and result published for one
	// year of a discipline.
	ScrapeYear(ctx context.Context, q database.Querier, year int, discipline string) error

	// ScrapeParents links events to their series and parent events.
	ScrapeParents(ctx context.Context, q database.Querier, year int, discipline string) error

	// CleanEvents marks events with no usable results as ignored so the
	// API's event listings skip them.
	CleanEvents(ctx context.Context, q database.Querier, year int, discipline string) error

	// ScrapeNew ingests newly published results and reports whether any
	// rows were created or updated.
	ScrapeNew(ctx context.Context, q database.Querier, discipline string) (bool, error)

	// ScrapeRecent re-ingests results updated in the last few days and
	// reports whether any rows changed.
	ScrapeRecent(ctx context.Context, q database.Querier, discipline string, days int) (bool, error)

	PersonScraper
}

// LocalSource is the Source wired when no results collector is attached.
// The bulk operations report no new data, so timed passes recalculate
// against whatever a collector has previously loaded into the store;
// event cleanup and member-profile scraping still work.
type LocalSource struct {
	store    *database.DB
	profiles PersonScraper
}

// NewLocalSource returns a Source over the given store. profiles may be
// nil, in which case riders without snapshots stay non-members.
func NewLocalSource(store *database.DB, profiles PersonScraper) *LocalSource {
	return &LocalSource{store: store, profiles: profiles}
}

// ScrapeYear is a no-op: season crawling lives in the collector.
func (s *LocalSource) ScrapeYear(ctx context.Context, q database.Querier, year int, discipline string) error {
	logging.Debug().Int("year", year).Str("discipline", discipline).Msg("No collector attached, skipping year scrape")
	return nil
}

// ScrapeParents is a no-op: series linking lives in the collector.
func (s *LocalSource) ScrapeParents(ctx context.Context, q database.Querier, year int, discipline string) error {
	return nil
}

// CleanEvents hides events whose races produced no results anywhere in
// their tree. This is pure store maintenance, so it runs even without a
// collector.
func (s *LocalSource) CleanEvents(ctx context.Context, q database.Querier, year int, discipline string) error {
	n, err := s.store.IgnoreEmptyEvents(ctx, q, year, models.EventDisciplines(discipline))
	if err != nil {
		return err
	}
	if n > 0 {
		logging.Info().Int("year", year).Str("discipline", discipline).Int64("events", n).Msg("Ignored events without results")
	}
	return nil
}

// ScrapeNew reports no new results.
func (s *LocalSource) ScrapeNew(ctx context.Context, q database.Querier, discipline string) (bool, error) {
	return false, nil
}

// ScrapeRecent reports no changed results.
func (s *LocalSource) ScrapeRecent(ctx context.Context, q database.Querier, discipline string, days int) (bool, error) {
	return false, nil
}

// ScrapePerson delegates to the profile client when one is attached.
func (s *LocalSource) ScrapePerson(ctx context.Context, q database.Querier, person *models.Person) (*models.MemberSnapshot, error) {
	if s.profiles == nil {
		return nil, nil
	}
	return s.profiles.ScrapePerson(ctx, q, person)
}
