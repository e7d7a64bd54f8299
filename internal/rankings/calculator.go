// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package rankings

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/metrics"
	"github.com/tomtom215/velorank/internal/models"
)

// Calculator walks a discipline's categorized races chronologically and
// stores the policy's quality and rank rows. Every method writes
// through the caller's Querier so the engine can wrap a whole
// discipline in one transaction.
type Calculator struct {
	store  *database.DB
	policy Policy
}

// NewCalculator builds a Calculator. A nil policy falls back to
// DefaultPolicy.
func NewCalculator(store *database.DB, policy Policy) *Calculator {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Calculator{store: store, policy: policy}
}

// CalculateRaceRanks recomputes quality and rank rows for the
// discipline. The walk is ordered by race date so each race sees the
// rank values its field carried into it.
//
// Non-incremental runs wipe the discipline's derived rows and replay
// every race from scratch. Incremental runs seed the running values
// from the stored ranks and only visit races without a quality row, so
// a pass with no new scrape input writes nothing.
func (c *Calculator) CalculateRaceRanks(ctx context.Context, q database.Querier, discipline string, incremental bool) error {
	start := time.Now()
	eventDisciplines := models.EventDisciplines(discipline)
	if len(eventDisciplines) == 0 {
		return fmt.Errorf("unknown upgrade discipline %q", discipline)
	}

	current := make(map[int64]float64)
	if incremental {
		var err error
		current, err = c.store.CurrentRanks(ctx, q, eventDisciplines, nil)
		if err != nil {
			return err
		}
	} else {
		if err := c.store.DeleteRanksForDiscipline(ctx, q, eventDisciplines); err != nil {
			return err
		}
		if err := c.store.DeleteQualitiesForDiscipline(ctx, q, eventDisciplines); err != nil {
			return err
		}
	}

	races, err := c.store.RankingRaces(ctx, q, eventDisciplines, incremental)
	if err != nil {
		return err
	}

	ranked := 0
	for i := range races {
		race := &races[i]
		placed, err := c.store.PlacedResults(ctx, q, race.ID)
		if err != nil {
			return err
		}
		if len(placed) == 0 {
			// Nothing numerically placed to a known rider; the field
			// cannot be scored.
			continue
		}

		info := RaceInfo{
			RaceID:     race.ID,
			Date:       race.Date,
			Categories: race.Categories,
			Starters:   race.Starters,
		}
		results := make([]ResultInfo, len(placed))
		for j, p := range placed {
			results[j] = ResultInfo{ResultID: p.ResultID, PersonID: p.PersonID, Place: p.Place}
		}

		quality, ranks := c.policy(info, results, current)
		if err := c.store.SaveQuality(ctx, q, &models.Quality{
			RaceID:         race.ID,
			Value:          quality.Value,
			PointsPerPlace: quality.PointsPerPlace,
		}); err != nil {
			return err
		}
		for _, rv := range ranks {
			if err := c.store.SaveRank(ctx, q, &models.Rank{ResultID: rv.ResultID, Value: rv.Value}); err != nil {
				return err
			}
			current[rv.PersonID] = rv.Value
		}
		ranked++
	}

	metrics.RecordRecalcStage(discipline, "ranks", time.Since(start))
	logging.Debug().
		Str("discipline", discipline).
		Bool("incremental", incremental).
		Int("races", ranked).
		Dur("elapsed", time.Since(start)).
		Msg("Race ranking pass complete")
	return nil
}
