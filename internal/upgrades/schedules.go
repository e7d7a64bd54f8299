// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package upgrades

import (
	"regexp"
	"time"

	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/models"
)

// scheduleBracket awards points to the top finishers of a race whose
// starter count falls inside [minStarters, maxStarters].
type scheduleBracket struct {
	minStarters int
	maxStarters int
	points      []int
}

// Field keys within a discipline's schedule.
const (
	fieldOpen  = "open"
	fieldWomen = "women"
)

// schedule2019Start is the first race date governed by the revised
// tables adopted for the 2019/2020 cyclocross season.
var schedule2019Start = models.NewDate(2019, time.August, 31)

// womenFieldRE routes races to a discipline's women's schedule. Junior
// races score on the women's brackets under every published table.
var womenFieldRE = regexp.MustCompile(`(?i)women|junior`)

// Brackets shared by both schedule editions. Circuit races and
// criteriums score identically, and the road and stage-race tables
// have not changed between editions.
var (
	circuitBrackets = map[string][]scheduleBracket{
		fieldOpen: {
			{5, 10, []int{3, 2, 1}},
			{11, 20, []int{4, 3, 2, 1}},
			{21, 49, []int{5, 4, 3, 2, 1}},
			{50, 999, []int{7, 5, 4, 3, 2, 1}},
		},
	}

	roadBrackets = map[string][]scheduleBracket{
		fieldOpen: {
			{5, 10, []int{3, 2, 1}},
			{11, 20, []int{7, 5, 4, 3, 2, 1}},
			{21, 49, []int{8, 6, 5, 4, 3, 2, 1}},
			{50, 999, []int{10, 8, 7, 6, 5, 4, 3, 2, 1}},
		},
	}

	tourBrackets = map[string][]scheduleBracket{
		fieldOpen: {
			{10, 19, []int{5, 3, 2, 1}},
			{20, 35, []int{7, 5, 3, 2, 1}},
			{36, 49, []int{10, 8, 6, 5, 4, 3, 2, 1}},
			{50, 999, []int{20, 18, 16, 14, 12, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}},
		},
	}
)

var schedule2018 = map[string]map[string][]scheduleBracket{
	"cyclocross": {
		fieldOpen: {
			{10, 15, []int{3, 2, 1}},
			{16, 25, []int{5, 4, 3, 2, 1}},
			{26, 60, []int{7, 6, 5, 4, 3, 2, 1}},
			{61, 999, []int{10, 8, 7, 5, 4, 3, 2, 1}},
		},
		fieldWomen: {
			{6, 10, []int{3, 2, 1}},
			{11, 20, []int{5, 4, 3, 2, 1}},
			{21, 50, []int{7, 6, 5, 4, 3, 2, 1}},
			{51, 999, []int{10, 8, 7, 5, 4, 3, 2, 1}},
		},
	},
	"circuit":   circuitBrackets,
	"criterium": circuitBrackets,
	"road":      roadBrackets,
	"tour":      tourBrackets,
}

// The 2019 revision widened the small cyclocross brackets; every other
// discipline carried over unchanged.
var schedule2019 = map[string]map[string][]scheduleBracket{
	"cyclocross": {
		fieldOpen: {
			{10, 25, []int{3, 2, 1}},
			{26, 40, []int{5, 4, 3, 2, 1}},
			{41, 75, []int{7, 6, 5, 4, 3, 2, 1}},
			{76, 999, []int{10, 8, 7, 5, 4, 3, 2, 1}},
		},
		fieldWomen: {
			{6, 15, []int{3, 2, 1}},
			{16, 25, []int{5, 4, 3, 2, 1}},
			{26, 60, []int{7, 6, 5, 4, 3, 2, 1}},
			{61, 999, []int{10, 8, 7, 5, 4, 3, 2, 1}},
		},
	},
	"circuit":   circuitBrackets,
	"criterium": circuitBrackets,
	"road":      roadBrackets,
	"tour":      tourBrackets,
}

// PointsSchedule returns the place-ordered points vector a race awards,
// index 0 being first place. The table edition follows the race date,
// the field follows the race name, and the bracket follows the starter
// count. Women's fields fall back to the open table where no women's
// brackets exist. A nil return means the race awards nothing: either
// the discipline has no schedule or no bracket covers the field size.
func PointsSchedule(eventDiscipline string, race *models.Race) []int {
	tables := schedule2018
	if !race.Date.Before(schedule2019Start.Time) {
		tables = schedule2019
	}

	fields, ok := tables[eventDiscipline]
	if !ok {
		logging.Warn().
			Str("discipline", eventDiscipline).
			Str("race", race.Name).
			Msg("No points schedule for discipline")
		return nil
	}

	field := fieldOpen
	if womenFieldRE.MatchString(race.Name) {
		field = fieldWomen
	}
	brackets, ok := fields[field]
	if !ok {
		brackets = fields[fieldOpen]
	}

	for _, b := range brackets {
		if race.Starters >= b.minStarters && race.Starters <= b.maxStarters {
			return b.points
		}
	}
	return nil
}
