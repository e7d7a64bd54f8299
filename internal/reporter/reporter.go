// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/models"
)

// Reporter builds upgrade reports from the derived tables.
type Reporter struct {
	store *database.DB
}

// NewReporter returns a Reporter reading through store.
func NewReporter(store *database.DB) *Reporter {
	return &Reporter{store: store}
}

// Generate streams the discipline's upgrade report through w. The
// roster covers races since January 1 of last year; the history section
// covers every stored points row for the discipline.
func (rep *Reporter) Generate(ctx context.Context, q database.Querier, discipline string, w Writer) error {
	start := time.Now()
	eventDisciplines := models.EventDisciplines(discipline)
	if len(eventDisciplines) == 0 {
		return fmt.Errorf("unknown upgrade discipline %q", discipline)
	}

	since := models.NewDate(models.Today().Year()-1, time.January, 1)
	roster, err := rep.store.UpgradeRoster(ctx, q, since, eventDisciplines)
	if err != nil {
		return err
	}

	if err := w.BeginRoster(discipline); err != nil {
		return err
	}
	listed := 0
	for i := range roster {
		entry := &roster[i]
		due, err := rep.stillDue(ctx, q, entry)
		if err != nil {
			return err
		}
		if !due {
			continue
		}
		if err := w.UpgradeRow(*entry); err != nil {
			return err
		}
		listed++
	}
	if err := w.EndRoster(); err != nil {
		return err
	}

	history, err := rep.store.PointsHistory(ctx, q, eventDisciplines)
	if err != nil {
		return err
	}
	var open bool
	var person int64
	for i := range history {
		entry := &history[i]
		if !open || entry.PersonID != person {
			if open {
				if err := w.EndPerson(); err != nil {
					return err
				}
			}
			if err := w.BeginPerson(*entry); err != nil {
				return err
			}
			open = true
			person = entry.PersonID
		}
		if err := w.PointRow(*entry); err != nil {
			return err
		}
	}
	if open {
		if err := w.EndPerson(); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logging.Debug().
		Str("discipline", discipline).
		Int("upgrades_due", listed).
		Int("history_rows", len(history)).
		Dur("elapsed", time.Since(start)).
		Msg("Upgrade report generated")
	return nil
}

// stillDue filters riders the federation already upgraded: when the
// newest snapshot's category of record sits below the rider's inferred
// category, the upgrade happened upstream and the pending confirmer
// owns it from here.
func (rep *Reporter) stillDue(ctx context.Context, q database.Querier, entry *database.RosterEntry) (bool, error) {
	snap, err := rep.store.LatestSnapshot(ctx, q, entry.PersonID)
	if err != nil {
		return false, err
	}
	cat, ok := snap.CategoryFor(entry.EventDiscipline)
	if !ok {
		return true, nil
	}
	return cat >= entry.SumCategories.Min(), nil
}
