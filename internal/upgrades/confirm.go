// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package upgrades

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/models"
)

// memberData answers what the member profile said about a rider on a
// given date. It prefers the newest snapshot on or before the date,
// then the oldest one after it, and scrapes the live profile when the
// store has nothing at all. A snapshot that is stale for a recent date
// is refreshed first. Returns nil for riders with no profile anywhere;
// scrape failures fall back to whatever the store had.
func (c *Calculator) memberData(ctx context.Context, q database.Querier, person *models.Person, date models.Date) (*models.MemberSnapshot, error) {
	snap, err := c.store.SnapshotOnOrBefore(ctx, q, person.ID, date)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		if snap, err = c.store.OldestSnapshot(ctx, q, person.ID); err != nil {
			return nil, err
		}
	}

	if snap == nil {
		if c.profiles == nil {
			return nil, nil
		}
		fresh, err := c.profiles.ScrapePerson(ctx, q, person)
		if err != nil {
			logging.Warn().
				Err(err).
				Int64("person_id", person.ID).
				Msg("Profile scrape failed, treating rider as non-member")
			return nil, nil
		}
		return fresh, nil
	}

	if c.refreshNeeded(snap, date) {
		fresh, err := c.profiles.ScrapePerson(ctx, q, person)
		switch {
		case err != nil:
			logging.Warn().
				Err(err).
				Int64("person_id", person.ID).
				Str("snapshot_date", snap.Date.String()).
				Msg("Profile refresh failed, using stale snapshot")
		case fresh != nil:
			return fresh, nil
		}
	}
	return snap, nil
}

// refreshNeeded reports whether a snapshot is too old to answer for
// date. Only recent dates warrant a refresh: historical recalculations
// should see history, not today's profile.
func (c *Calculator) refreshNeeded(snap *models.MemberSnapshot, date models.Date) bool {
	if c.profiles == nil || c.snapshotMaxAge <= 0 {
		return false
	}
	return date.DaysSince(snap.Date) > c.snapshotMaxAge &&
		models.Today().DaysSince(date) <= c.snapshotMaxAge
}

// confirmCategoryChange checks an upgrade or downgrade note against the
// member profile and, when the profile agrees, stamps the note with the
// snapshot date and records which snapshot confirmed it. Only the first
// transition note in the list is considered.
func (c *Calculator) confirmCategoryChange(ctx context.Context, q database.Querier, row *database.WalkResult, notes []string) error {
	snap, err := c.memberData(ctx, q, personOf(row), row.RaceDate)
	if err != nil {
		return err
	}
	obraCat, known := snap.CategoryFor(row.EventDiscipline)
	if !known {
		return nil
	}

	resultCategory := row.Points.SumCategories.Min()
	for i, note := range notes {
		switch {
		case containsFold(note, "UPGRADED"):
			if obraCat <= resultCategory {
				row.Points.ConfirmationID = &snap.ID
				notes[i] = note + fmt.Sprintf(" (CONFIRMED %s)", snap.Date)
			}
			return nil
		case containsFold(note, "DOWNGRADED"):
			if obraCat >= resultCategory {
				row.Points.ConfirmationID = &snap.ID
				notes[i] = note + fmt.Sprintf(" (CONFIRMED %s)", snap.Date)
			}
			return nil
		}
	}
	return nil
}

// joinNotes renders a row's note list for storage: distinct non-empty
// notes in sentence case, reverse-sorted so upgrade wording leads,
// joined with semicolons.
func joinNotes(notes []string) string {
	seen := make(map[string]struct{}, len(notes))
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		if n == "" {
			continue
		}
		cased := capitalize(n)
		if _, ok := seen[cased]; ok {
			continue
		}
		seen[cased] = struct{}{}
		out = append(out, cased)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return strings.Join(out, "; ")
}

// capitalize renders a note in sentence case.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}
