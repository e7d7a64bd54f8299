// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package upgrades

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/metrics"
	"github.com/tomtom215/velorank/internal/models"
)

// ConfirmPendingUpgrades rebuilds the discipline's pending-upgrade
// roster from scratch. A rider is pending when their latest categorized
// result still carries the needs-upgrade flag and the member profile
// already shows them at the higher category: the federation processed
// the upgrade but no result at the new category exists yet.
func (c *Calculator) ConfirmPendingUpgrades(ctx context.Context, q database.Querier, discipline string) error {
	start := time.Now()
	eventDisciplines := models.EventDisciplines(discipline)
	if len(eventDisciplines) == 0 {
		return fmt.Errorf("unknown upgrade discipline %q", discipline)
	}

	if err := c.store.DeletePendingForDiscipline(ctx, q, discipline); err != nil {
		return err
	}
	candidates, err := c.store.PendingCandidates(ctx, q, eventDisciplines)
	if err != nil {
		return err
	}

	confirmed := 0
	for i := range candidates {
		cand := &candidates[i]
		person := &models.Person{ID: cand.PersonID, FirstName: cand.FirstName, LastName: cand.LastName}
		snap, err := c.memberData(ctx, q, person, cand.RaceDate)
		if err != nil {
			return err
		}
		obraCat, known := snap.CategoryFor(cand.EventDiscipline)
		if !known {
			continue
		}

		// The flagged result's category set describes where the rider
		// raced; pending means the profile already shows one better.
		target := cand.SumCategories.Min() - 1
		if obraCat > target {
			continue
		}

		pending := &models.PendingUpgrade{
			ResultID:       cand.ResultID,
			ConfirmationID: snap.ID,
			Discipline:     discipline,
		}
		if err := c.store.UpsertPendingUpgrade(ctx, q, pending); err != nil {
			return err
		}
		confirmed++
		logging.Info().
			Str("rider", cand.FirstName+" "+cand.LastName).
			Int("category", target).
			Str("discipline", discipline).
			Msg("Pending upgrade confirmed")
	}

	metrics.SetPendingUpgrades(discipline, confirmed)
	metrics.RecordRecalcStage(discipline, "pending", time.Since(start))
	logging.Info().
		Str("discipline", discipline).
		Int("candidates", len(candidates)).
		Int("confirmed", confirmed).
		Msg("Pending upgrade pass complete")
	return nil
}
