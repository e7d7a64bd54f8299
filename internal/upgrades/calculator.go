// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package upgrades

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/metrics"
	"github.com/tomtom215/velorank/internal/models"
	"github.com/tomtom215/velorank/internal/scraper"
)

// numericPlaceRE matches places that carry a rank number. Only those
// rows drive category transitions; DNF, DQ and mangled places still
// flow through sum bookkeeping but never move a rider.
var numericPlaceRE = regexp.MustCompile(`^[0-9]+`)

// epochDate backs the upgrade clock before a rider's first observed
// transition, so the downgrade window always reads as long expired.
var epochDate = models.NewDate(1970, time.January, 1)

// Calculator owns the per-discipline derivation passes: point
// assignment, the running-sum walk and pending-upgrade confirmation.
// Every method writes through the caller's Querier so the engine can
// wrap a whole discipline in one transaction.
type Calculator struct {
	store          *database.DB
	profiles       scraper.PersonScraper
	rules          Rules
	snapshotMaxAge int
}

// NewCalculator builds a Calculator. profiles may be nil, in which case
// riders without stored snapshots are treated as non-members. A nil
// rules falls back to DefaultRules. snapshotMaxAge is the freshness
// window in days for member lookups; zero disables refreshing.
func NewCalculator(store *database.DB, profiles scraper.PersonScraper, rules Rules, snapshotMaxAge int) *Calculator {
	if rules == nil {
		rules = DefaultRules
	}
	return &Calculator{
		store:          store,
		profiles:       profiles,
		rules:          rules,
		snapshotMaxAge: snapshotMaxAge,
	}
}

// riderState accumulates along one rider's chronological results.
type riderState struct {
	categories      categorySet
	catPoints       []catPoint
	notes           []string
	upgradeRaceID   int64
	upgradeRaceDate models.Date
	upgradeCategory int
	isWoman         bool
}

// reset rewinds the state for the next rider.
func (st *riderState) reset() {
	st.categories = newCategorySet(unknownCategory)
	st.catPoints = nil
	st.notes = nil
	st.upgradeRaceID = 0
	st.upgradeRaceDate = epochDate
	st.upgradeCategory = unknownCategory - 1
	st.isWoman = false
}

// markUpgradeRace stamps the race where the rider's category changed.
func (st *riderState) markUpgradeRace(row *database.WalkResult) {
	st.upgradeRaceID = row.RaceID
	st.upgradeRaceDate = row.RaceDate
}

// CalculateSums recalculates running point sums, inferred categories,
// upgrade notes and needs-upgrade flags for every rider in the
// discipline. The walk is ordered rider by rider and chronologically
// within each, so every result sees exactly the state the rider carried
// into that race. A rider's second result in the same race is ignored.
func (c *Calculator) CalculateSums(ctx context.Context, q database.Querier, discipline string) error {
	start := time.Now()
	eventDisciplines := models.EventDisciplines(discipline)
	if len(eventDisciplines) == 0 {
		return fmt.Errorf("unknown upgrade discipline %q", discipline)
	}

	walk, err := c.store.ResultsWalk(ctx, q, eventDisciplines)
	if err != nil {
		return err
	}

	var st riderState
	var prev *database.WalkResult
	riders := 0
	for i := range walk {
		row := &walk[i]
		if prev != nil && prev.PersonID == row.PersonID {
			if prev.RaceID == row.RaceID {
				logging.Warn().
					Int64("person_id", row.PersonID).
					Int64("race_id", row.RaceID).
					Str("place", row.Place).
					Msg("Ignoring duplicate result for rider in race")
				continue
			}
		} else {
			st.reset()
			riders++
		}
		if err := c.processResult(ctx, q, discipline, row, prev, &st); err != nil {
			return err
		}
		prev = row
	}

	metrics.ResultsProcessed.WithLabelValues(discipline).Add(float64(len(walk)))
	metrics.RecordRecalcStage(discipline, "sums", time.Since(start))
	logging.Info().
		Str("discipline", discipline).
		Int("results", len(walk)).
		Int("riders", riders).
		Msg("Point sum recalculation complete")
	return nil
}

// processResult ages the tally, runs the category transitions for one
// result and persists its points row.
func (c *Calculator) processResult(ctx context.Context, q database.Querier, discipline string, row, prev *database.WalkResult, st *riderState) error {
	var expired int
	st.catPoints, expired = expirePoints(st.catPoints, row.RaceDate)
	if expired > 0 {
		verb := "POINTS HAVE"
		if expired == 1 {
			verb = "POINT HAS"
		}
		st.notes = append(st.notes, fmt.Sprintf("%d %s EXPIRED", expired, verb))
	}

	switch {
	case numericPlaceRE.MatchString(row.Place) && len(row.RaceCategories) > 0:
		if err := c.applyTransitions(ctx, q, discipline, row, prev, st); err != nil {
			return err
		}
	case row.Points != nil:
		logging.Warn().
			Int64("result_id", row.ResultID).
			Str("place", row.Place).
			Str("race", row.RaceName).
			Msg("Points exist for a result outside the transition gate")
	}

	st.catPoints = append(st.catPoints, catPoint{
		value: resultValue(row),
		place: row.Place,
		date:  row.RaceDate,
	})

	return c.persist(ctx, q, discipline, row, prev, st)
}

// applyTransitions runs the category inference for one gated result,
// updating the rider state and queueing upgrade notes. The branches are
// mutually exclusive and ordered: top-category cleanup, a mandated
// upgrade landing, racing above the known set, racing below it, and a
// partial overlap narrowing the set.
func (c *Calculator) applyTransitions(ctx context.Context, q database.Querier, discipline string, row, prev *database.WalkResult, st *riderState) error {
	st.upgradeCategory = st.categories.max() - 1
	if strings.Contains(strings.ToLower(row.RaceName), "women") {
		st.isWoman = true
	}

	raceCats := row.RaceCategories
	inter := st.categories.intersection(raceCats)

	switch {
	case st.categories.isOnly(1) && raceCats.Contains(1):
		// There is nowhere to upgrade to from category 1.
		return c.erasePoints(ctx, q, row)

	case raceCats.Contains(st.upgradeCategory) && prevNeedsUpgrade(prev):
		snap, err := c.memberData(ctx, q, personOf(row), row.RaceDate)
		if err != nil {
			return err
		}
		obraCat, known := snap.CategoryFor(row.EventDiscipline)
		if !known || obraCat <= st.upgradeCategory {
			sum := pointsSum(st.catPoints)
			st.notes = append(st.notes, fmt.Sprintf("UPGRADED TO %d WITH %d POINTS", st.upgradeCategory, sum))
			st.catPoints = nil
			st.categories = newCategorySet(st.upgradeCategory)
			st.markUpgradeRace(row)
			metrics.RecordCategoryChange(discipline, "upgrade")
			logging.Info().
				Str("rider", riderName(row)).
				Int("category", st.upgradeCategory).
				Int("sum", sum).
				Str("race", row.RaceName).
				Msg("Rider upgraded into mandated category")
		}
		return nil

	case len(inter) == 0 && st.categories.min() > raceCats.Min():
		if st.categories.isOnly(unknownCategory) {
			return c.assignInitialCategory(ctx, q, row, st)
		}
		target := raceCats.Max()
		sum := pointsSum(st.catPoints)
		note := fmt.Sprintf("UPGRADED TO %d WITH %d POINTS", target, sum)
		kind := "upgrade"
		if !c.rules.CanUpgrade(discipline, sum, target, st.catPoints, true) {
			note = "PREMATURELY " + note
			kind = "premature_upgrade"
		}
		st.notes = append(st.notes, note)
		st.catPoints = nil
		st.categories = newCategorySet(target)
		st.markUpgradeRace(row)
		metrics.RecordCategoryChange(discipline, kind)
		logging.Info().
			Str("rider", riderName(row)).
			Int("category", target).
			Int("sum", sum).
			Str("race", row.RaceName).
			Str("kind", kind).
			Msg("Rider upgraded by race entry")
		return nil

	case len(inter) == 0 && st.categories.max() < raceCats.Max():
		window := pointsMaxAge(row.RaceDate)
		switch {
		case st.isWoman && !strings.Contains(strings.ToLower(row.RaceName), "women"):
			// Women racing down in open fields keep their category.
		case pointsSum(st.catPoints) == 0 && row.RaceDate.DaysSince(st.upgradeRaceDate) > window:
			st.catPoints = nil
			st.notes = append(st.notes, fmt.Sprintf("DOWNGRADED TO %d", raceCats.Min()))
			st.categories = newCategorySet(raceCats.Min())
			st.markUpgradeRace(row)
			metrics.RecordCategoryChange(discipline, "downgrade")
			logging.Info().
				Str("rider", riderName(row)).
				Int("category", raceCats.Min()).
				Str("race", row.RaceName).
				Msg("Rider downgraded after idle window")
		case row.Points != nil:
			st.notes = append(st.notes, "NO POINTS FOR RACING BELOW CATEGORY")
			row.Points.Value = 0
		}
		return nil

	case len(inter) > 0 && len(inter) < len(st.categories) && len(st.categories) > 1:
		st.categories = inter
		st.notes = append(st.notes, "")
	}
	return nil
}

// assignInitialCategory handles a rider's first categorized sighting.
// Elite fields and the wide novice field cannot pin a rider down on
// their own, so those consult the member profile; anything else brands
// the rider with the race's whole category set. The empty note forces
// a points row so the assignment is persisted.
func (c *Calculator) assignInitialCategory(ctx context.Context, q database.Querier, row *database.WalkResult, st *riderState) error {
	raceCats := row.RaceCategories
	if initialLookupField(raceCats) {
		snap, err := c.memberData(ctx, q, personOf(row), row.RaceDate)
		if err != nil {
			return err
		}
		obraCat, known := snap.CategoryFor(row.EventDiscipline)
		if known && raceCats.Contains(obraCat) {
			st.categories = newCategorySet(obraCat)
		} else {
			st.categories = newCategorySet(raceCats.Max())
		}
	} else {
		st.categories = newCategorySet(raceCats...)
	}

	if st.categories.isOnly(1) {
		if err := c.erasePoints(ctx, q, row); err != nil {
			return err
		}
	}
	st.notes = append(st.notes, "")
	logging.Debug().
		Str("rider", riderName(row)).
		Str("race", row.RaceName).
		Interface("categories", st.categories.sorted()).
		Msg("Assigned initial categories")
	return nil
}

// initialLookupFields are the race category sets where a first sighting
// consults the member profile: fields pros enter on one-day licenses
// and the novice field, where the entry list says little.
var initialLookupFields = []models.IntList{{1}, {1, 2}, {1, 2, 3}, {3, 4, 5}}

func initialLookupField(cats models.IntList) bool {
	for _, f := range initialLookupFields {
		if cats.Equal(f) {
			return true
		}
	}
	return false
}

// persist writes the walked result's points row: running sum, category
// set, notes and the needs-upgrade flag. Results without a points row
// get one created as soon as there is anything worth recording.
func (c *Calculator) persist(ctx context.Context, q database.Querier, discipline string, row, prev *database.WalkResult, st *riderState) error {
	upgradeHere := st.upgradeRaceID != 0 && st.upgradeRaceID == row.RaceID
	sum := pointsSum(st.catPoints)

	if row.Points == nil && (upgradeHere || len(st.notes) > 0 || sum > 0) {
		if err := c.store.InsertAssignedPoints(ctx, q, row.ResultID, 0); err != nil {
			return err
		}
		row.Points = &models.Points{ResultID: row.ResultID}
	}
	if row.Points == nil {
		return nil
	}

	// The flag is sticky: it is set when the tally mandates a move, or
	// when a mandate from the previous result is still actionable, and
	// it survives recalculations otherwise.
	if c.rules.NeedsUpgrade(discipline, sum, st.upgradeCategory, st.catPoints) ||
		(prevNeedsUpgrade(prev) && !upgradeHere &&
			c.rules.CanUpgrade(discipline, sum, st.upgradeCategory, st.catPoints, false)) {
		st.notes = append(st.notes, "NEEDS UPGRADE")
		row.Points.NeedsUpgrade = true
	}

	row.Points.SumValue = sum
	row.Points.SumCategories = st.categories.sorted()

	if upgradeHere {
		if err := c.confirmCategoryChange(ctx, q, row, st.notes); err != nil {
			return err
		}
	}
	if len(st.notes) > 0 {
		row.Points.Notes = joinNotes(st.notes)
		st.notes = nil
	}

	if err := c.store.SavePoints(ctx, q, row.Points); err != nil {
		return err
	}

	logging.Debug().
		Str("date", row.RaceDate.String()).
		Str("place", row.Place).
		Str("rider", riderName(row)).
		Str("race", row.RaceName).
		Int("sum", sum).
		Bool("needs_upgrade", row.Points.NeedsUpgrade).
		Msg("Saved point sums")
	return nil
}

// erasePoints removes a result's points row outright.
func (c *Calculator) erasePoints(ctx context.Context, q database.Querier, row *database.WalkResult) error {
	if row.Points == nil {
		return nil
	}
	logging.Debug().
		Int64("result_id", row.ResultID).
		Str("rider", riderName(row)).
		Msg("Erasing points for category 1 result")
	if err := c.store.DeletePoints(ctx, q, row.ResultID); err != nil {
		return err
	}
	row.Points = nil
	return nil
}

// resultValue is the points value a result contributes to the tally,
// read after any transition may have zeroed or erased it.
func resultValue(row *database.WalkResult) int {
	if row.Points == nil {
		return 0
	}
	return row.Points.Value
}

// prevNeedsUpgrade reads the needs-upgrade flag the previous result was
// saved with.
func prevNeedsUpgrade(prev *database.WalkResult) bool {
	return prev != nil && prev.Points != nil && prev.Points.NeedsUpgrade
}

func personOf(row *database.WalkResult) *models.Person {
	return &models.Person{ID: row.PersonID, FirstName: row.FirstName, LastName: row.LastName}
}

func riderName(row *database.WalkResult) string {
	return row.FirstName + " " + row.LastName
}
