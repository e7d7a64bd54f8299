// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package upgrades

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/metrics"
	"github.com/tomtom215/velorank/internal/models"
)

// nameRE accepts rider names as the results site renders real ones.
// Placeholder rows ("?", bib numbers, smashed columns) never earn
// points.
var nameRE = regexp.MustCompile(`(?i)^[a-z.'-]+`)

// AssignPoints awards schedule points to the top finishers of every
// categorized race that has results but no points rows yet, and returns
// how many rows it created. An incremental pass leaves existing awards
// alone; a full pass deletes the discipline's points first so every
// race is re-awarded from the current schedules.
func (c *Calculator) AssignPoints(ctx context.Context, q database.Querier, discipline string, incremental bool) (int, error) {
	start := time.Now()
	eventDisciplines := models.EventDisciplines(discipline)
	if len(eventDisciplines) == 0 {
		return 0, fmt.Errorf("unknown upgrade discipline %q", discipline)
	}

	if !incremental {
		if err := c.store.DeletePointsForDiscipline(ctx, q, eventDisciplines); err != nil {
			return 0, err
		}
	}

	races, err := c.store.AssignerRaces(ctx, q, eventDisciplines)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range races {
		race := &races[i]
		vector := PointsSchedule(race.EventDiscipline, &race.Race)
		if len(vector) == 0 {
			continue
		}

		finishers, err := c.store.TopFinishers(ctx, q, race.ID, len(vector))
		if err != nil {
			return created, err
		}
		for _, f := range finishers {
			if !nameRE.MatchString(f.FirstName) || !nameRE.MatchString(f.LastName) {
				logging.Debug().
					Str("first_name", f.FirstName).
					Str("last_name", f.LastName).
					Int64("race_id", race.ID).
					Msg("Skipping finisher with implausible name")
				continue
			}
			value := vector[f.Place-1]
			if err := c.store.InsertAssignedPoints(ctx, q, f.ResultID, value); err != nil {
				return created, err
			}
			created++
			logging.Debug().
				Str("rider", f.FirstName+" "+f.LastName).
				Int("place", f.Place).
				Int("value", value).
				Str("race", race.Name).
				Str("event", race.EventName).
				Msg("Assigned points")
		}
	}

	metrics.PointsCreated.WithLabelValues(discipline).Add(float64(created))
	metrics.RecordRecalcStage(discipline, "points", time.Since(start))
	logging.Info().
		Str("discipline", discipline).
		Int("races", len(races)).
		Int("created", created).
		Bool("incremental", incremental).
		Msg("Points assignment complete")
	return created, nil
}
