// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package rankings

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/velorank/internal/models"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func testRace(starters int, cats ...int) RaceInfo {
	return RaceInfo{
		RaceID:     1,
		Date:       models.NewDate(2023, time.June, 10),
		Categories: models.IntList(cats),
		Starters:   starters,
	}
}

func placedField(places ...int) []ResultInfo {
	results := make([]ResultInfo, len(places))
	for i, p := range places {
		results[i] = ResultInfo{ResultID: int64(100 + i), PersonID: int64(i + 1), Place: p}
	}
	return results
}

func TestDefaultPolicyEmptyField(t *testing.T) {
	quality, ranks := DefaultPolicy(testRace(10, 3), nil, map[int64]float64{})
	if quality.Value != 0 || quality.PointsPerPlace != 0 {
		t.Errorf("quality = %+v, want zero", quality)
	}
	if ranks != nil {
		t.Errorf("ranks = %v, want nil", ranks)
	}
}

func TestDefaultPolicyUnrankedField(t *testing.T) {
	quality, ranks := DefaultPolicy(testRace(4, 3), placedField(1, 2, 3, 4), map[int64]float64{})

	// Four unranked riders: strength 600, quality 600*sqrt(4)/1.
	approx(t, "quality.Value", quality.Value, 1200)
	approx(t, "quality.PointsPerPlace", quality.PointsPerPlace, 300)

	if len(ranks) != 4 {
		t.Fatalf("len(ranks) = %d, want 4", len(ranks))
	}
	approx(t, "winner", ranks[0].Value, 450)
	approx(t, "second", ranks[1].Value, 600*(0.75+0.5/3))
	approx(t, "third", ranks[2].Value, 600*(0.75+1.0/3))
	approx(t, "last", ranks[3].Value, 750)

	if ranks[0].ResultID != 100 || ranks[0].PersonID != 1 {
		t.Errorf("winner identity = %+v, want result 100 person 1", ranks[0])
	}
}

func TestDefaultPolicyCategoryDepth(t *testing.T) {
	single, _ := DefaultPolicy(testRace(9, 3), placedField(1, 2, 3), map[int64]float64{})
	combined, _ := DefaultPolicy(testRace(9, 3, 4, 5), placedField(1, 2, 3), map[int64]float64{})

	approx(t, "single-category quality", single.Value, 1800)
	approx(t, "combined quality", combined.Value, 600)
	if combined.Value >= single.Value {
		t.Errorf("combined field quality %v should read weaker than single-category %v",
			combined.Value, single.Value)
	}
}

func TestDefaultPolicyStrongFieldScoresLower(t *testing.T) {
	prior := map[int64]float64{1: 400, 2: 400, 3: 400}
	strong, strongRanks := DefaultPolicy(testRace(3, 1), placedField(1, 2, 3), prior)
	stock, stockRanks := DefaultPolicy(testRace(3, 1), placedField(1, 2, 3), map[int64]float64{})

	if strong.Value >= stock.Value {
		t.Errorf("strong field quality %v should be below default-field quality %v",
			strong.Value, stock.Value)
	}
	if strongRanks[0].Value >= stockRanks[0].Value {
		t.Errorf("winning a strong field (%v) should rank below winning a stock one (%v)",
			strongRanks[0].Value, stockRanks[0].Value)
	}
	approx(t, "strong winner", strongRanks[0].Value, 300)
}

func TestDefaultPolicySoloStarter(t *testing.T) {
	_, ranks := DefaultPolicy(testRace(1, 4), placedField(1), map[int64]float64{})
	if len(ranks) != 1 {
		t.Fatalf("len(ranks) = %d, want 1", len(ranks))
	}
	approx(t, "solo winner", ranks[0].Value, 450)
}

func TestDefaultPolicyPlaceBeyondStarters(t *testing.T) {
	// Registration undercounts happen; a place past the starter count
	// clamps at the last-place value instead of extrapolating.
	_, ranks := DefaultPolicy(testRace(3, 4), placedField(1, 2, 5), map[int64]float64{})
	approx(t, "clamped last", ranks[2].Value, 750)
}

func TestDefaultPolicyStartersBelowFinishers(t *testing.T) {
	// A zero or stale starter count falls back to the finisher count.
	quality, ranks := DefaultPolicy(testRace(0, 3), placedField(1, 2, 3, 4), map[int64]float64{})
	approx(t, "quality.Value", quality.Value, 1200)
	approx(t, "last", ranks[3].Value, 750)
}

func TestDefaultPolicyDeterministic(t *testing.T) {
	race := testRace(6, 3, 4)
	field := placedField(1, 2, 3, 4, 5, 6)
	prior := map[int64]float64{1: 450, 4: 700}

	q1, r1 := DefaultPolicy(race, field, prior)
	q2, r2 := DefaultPolicy(race, field, prior)

	if q1 != q2 {
		t.Errorf("quality differs across identical calls: %+v vs %+v", q1, q2)
	}
	for i := range r1 {
		if r1[i] != r2[i] {
			t.Errorf("rank %d differs across identical calls: %+v vs %+v", i, r1[i], r2[i])
		}
	}
	if len(prior) != 2 || prior[1] != 450 || prior[4] != 700 {
		t.Errorf("policy mutated prior map: %v", prior)
	}
}
