// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package rankings

import (
	"math"

	"github.com/tomtom215/velorank/internal/models"
)

// DefaultPrior is the rank value assumed for riders who have never been
// ranked. Values shrink as a rider beats fields of known strength.
const DefaultPrior = 600.0

// RaceInfo describes the race being ranked, as seen by a Policy.
type RaceInfo struct {
	RaceID     int64
	Date       models.Date
	Categories models.IntList
	Starters   int
}

// ResultInfo is one numerically placed finisher with a known rider, in
// finishing order.
type ResultInfo struct {
	ResultID int64
	PersonID int64
	Place    int
}

// QualityValue is a policy's derived field quality for one race.
type QualityValue struct {
	Value          float64
	PointsPerPlace float64
}

// RankValue is a policy's derived rank value for one finisher.
type RankValue struct {
	ResultID int64
	PersonID int64
	Value    float64
}

// Policy derives a race's quality and per-finisher rank values from the
// field's prior rank values. Riders absent from prior carry
// DefaultPrior. Implementations must be pure: no clock, no randomness,
// and no mutation of prior - the calculator owns updating the map from
// the returned RankValues.
type Policy func(race RaceInfo, results []ResultInfo, prior map[int64]float64) (QualityValue, []RankValue)

// DefaultPolicy is the stock field-strength formula.
//
// Field strength is the mean prior of the placed finishers. Quality
// divides strength by the combined-category depth and spreads it over
// the field size; points-per-place is quality split across starters.
// A finisher's rank value interpolates linearly over strength from
// 0.75x for the winner to 1.25x for the last starting position, so
// winning a race always reads stronger than the field's average and
// finishing last always reads weaker.
func DefaultPolicy(race RaceInfo, results []ResultInfo, prior map[int64]float64) (QualityValue, []RankValue) {
	if len(results) == 0 {
		return QualityValue{}, nil
	}

	strength := 0.0
	for _, res := range results {
		value, ok := prior[res.PersonID]
		if !ok {
			value = DefaultPrior
		}
		strength += value
	}
	strength /= float64(len(results))

	// Scratched riders still shape the field: a 60-starter race that
	// shelled half the bunch was harder than a 30-rider one.
	starters := race.Starters
	if starters < len(results) {
		starters = len(results)
	}

	depth := float64(len(race.Categories))
	if depth == 0 {
		depth = 1
	}

	quality := QualityValue{
		Value: strength * math.Sqrt(float64(starters)) / depth,
	}
	quality.PointsPerPlace = quality.Value / float64(starters)

	span := float64(starters - 1)
	ranks := make([]RankValue, len(results))
	for i, res := range results {
		frac := 0.0
		if span > 0 {
			frac = float64(res.Place-1) / span
			if frac > 1 {
				frac = 1
			}
		}
		ranks[i] = RankValue{
			ResultID: res.ResultID,
			PersonID: res.PersonID,
			Value:    strength * (0.75 + 0.5*frac),
		}
	}
	return quality, ranks
}
