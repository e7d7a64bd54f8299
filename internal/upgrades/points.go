// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package upgrades

import "github.com/tomtom215/velorank/internal/models"

// catPoint is one result's contribution to the rider's tally at their
// current category. The place rides along for podium counting.
type catPoint struct {
	value int
	place string
	date  models.Date
}

// pointsSum totals the tally.
func pointsSum(tally []catPoint) int {
	sum := 0
	for _, p := range tally {
		sum += p.value
	}
	return sum
}

// pointsMaxAge is how long an awarded point stays in the tally, in days
// relative to the race being scored. Races in 2021 look back two years
// because the 2020 season was lost.
func pointsMaxAge(raceDate models.Date) int {
	if raceDate.Year() == 2021 {
		return 730
	}
	return 365
}

// expirePoints drops tally entries older than the aging window and
// returns the kept tally along with how many entries were removed.
func expirePoints(tally []catPoint, raceDate models.Date) ([]catPoint, int) {
	window := pointsMaxAge(raceDate)
	kept := tally[:0]
	for _, p := range tally {
		if raceDate.DaysSince(p.date) > window {
			continue
		}
		kept = append(kept, p)
	}
	return kept, len(tally) - len(kept)
}
