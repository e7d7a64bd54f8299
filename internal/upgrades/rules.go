// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package upgrades

import (
	"strconv"
	"strings"

	"github.com/tomtom215/velorank/internal/logging"
)

// Rule holds the thresholds for upgrading into one category. Reaching
// Max points mandates the move; reaching Min points permits it. Races,
// where set, is an alternative minimum: that many scoring finishes
// permit the move regardless of points. Podiums, where set, switches
// the category to podium counting instead of points.
type Rule struct {
	Min     int
	Max     int
	Races   int
	Podiums int
}

// Rules maps an upgrade discipline and target category to its rule.
type Rules map[string]map[int]Rule

// DefaultRules carries the published road and cyclocross thresholds.
// Mountain bike and track thresholds are unsettled upstream, so those
// disciplines carry no rules: their riders never hit a mandate and are
// always permitted to move.
var DefaultRules = Rules{
	"cyclocross": {
		4: {Min: 0, Max: 20},
		3: {Min: 0, Max: 20},
		2: {Min: 20, Max: 20},
		1: {Min: 20, Max: 35},
	},
	"road": {
		4: {Min: 15, Max: 25, Races: 10},
		3: {Min: 20, Max: 30, Races: 25},
		2: {Min: 25, Max: 40},
		1: {Min: 30, Max: 50},
	},
}

// NeedsUpgrade reports whether the rider's tally mandates a move into
// category. Disciplines and categories without a rule never mandate
// one.
func (r Rules) NeedsUpgrade(discipline string, sum, category int, tally []catPoint) bool {
	rule, ok := r[discipline][category]
	if !ok {
		logging.Debug().
			Str("discipline", discipline).
			Int("category", category).
			Msg("No upgrade rule for category")
		return false
	}
	if rule.Podiums > 0 {
		return podiumCount(tally) >= rule.Podiums
	}
	return sum >= rule.Max
}

// CanUpgrade reports whether the rider has earned the right to move
// into category. checkMinRaces also accepts the race-count minimum,
// which applies to voluntary moves but not to mandate checks. Unknown
// disciplines and categories default to allowed.
func (r Rules) CanUpgrade(discipline string, sum, category int, tally []catPoint, checkMinRaces bool) bool {
	rule, ok := r[discipline][category]
	if !ok {
		logging.Warn().
			Str("discipline", discipline).
			Int("category", category).
			Msg("No upgrade rule for category, allowing the move")
		return true
	}
	if rule.Podiums > 0 {
		return category > 0
	}
	if checkMinRaces && rule.Races > 0 && len(tally) >= rule.Races {
		return true
	}
	return sum >= rule.Min
}

// podiumCount counts top-three finishes in the tally.
func podiumCount(tally []catPoint) int {
	n := 0
	for _, p := range tally {
		if placeNumber(p.place) <= 3 {
			n++
		}
	}
	return n
}

// placeNumber parses a place string leniently, returning a large
// sentinel for non-numeric places so comparisons treat them as
// unplaced.
func placeNumber(place string) int {
	n, err := strconv.Atoi(strings.TrimSpace(place))
	if err != nil {
		return 999
	}
	return n
}
