// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package models

import (
	"strings"
	"unicode"
)

// Series is a multi-event race series as published upstream.
type Series struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Year  int    `json:"year"`
	Dates string `json:"dates"`
}

// Event is a race day (or umbrella event with child events). Discipline
// carries the upstream event-discipline tag (road, criterium, cyclocross,
// ...), not the coarser upgrade-discipline grouping.
type Event struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Discipline string `json:"discipline"`
	Year       int    `json:"year"`
	Date       string `json:"date"`
	SeriesID   *int64 `json:"series_id,omitempty"`
	ParentID   *int64 `json:"parent_id,omitempty"`
	Ignore     bool   `json:"ignore"`
}

// Race is a single start within an Event.
//
// Categories is either empty (uncategorized fields, series standings)
// or a strictly ascending list of small positive integers such as [3,4].
// Created/Updated carry the upstream result-publication timestamps; the
// Created timestamp is the only intra-day ordering tiebreak available.
type Race struct {
	ID         int64    `json:"id"`
	EventID    int64    `json:"event_id"`
	Name       string   `json:"name"`
	Date       Date     `json:"date"`
	Categories IntList  `json:"categories"`
	Starters   int      `json:"starters"`
	Created    DateTime `json:"created"`
	Updated    DateTime `json:"updated"`
}

// Person is a rider as identified upstream. Duplicate persons are not
// reconciled; the ID is the upstream identifier.
type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	TeamName  string `json:"team_name,omitempty"`
}

// Name returns "First Last" for display and search.
func (p Person) Name() string {
	return p.FirstName + " " + p.LastName
}

// TitleName renders a rider name for display. Upstream names arrive in
// inconsistent casing, so the first letter after any non-letter is
// uppercased and the rest lowered: "van der BERG" becomes "Van Der
// Berg" and "o'brien" becomes "O'Brien".
func TitleName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

// MemberSnapshot is a point-in-time copy of a rider's federation profile,
// the only historical source of category-of-record. Unique on (Date,
// PersonID). Category defaults mirror the federation's new-member values.
type MemberSnapshot struct {
	ID       int64  `json:"id"`
	Date     Date   `json:"date"`
	PersonID int64  `json:"person_id"`
	License  *int64 `json:"license,omitempty"`
	MTB      int    `json:"mtb_category"`
	DH       int    `json:"dh_category"`
	CCX      int    `json:"ccx_category"`
	Road     int    `json:"road_category"`
	Track    int    `json:"track_category"`
}

// Snapshot category defaults for new members.
const (
	DefaultMTBCategory   = 3
	DefaultDHCategory    = 3
	DefaultCCXCategory   = 5
	DefaultRoadCategory  = 5
	DefaultTrackCategory = 5
)

// NewMemberSnapshot returns a snapshot with default categories for the
// given person and date. The scraper overwrites fields it finds upstream.
func NewMemberSnapshot(personID int64, date Date) *MemberSnapshot {
	return &MemberSnapshot{
		Date:     date,
		PersonID: personID,
		MTB:      DefaultMTBCategory,
		DH:       DefaultDHCategory,
		CCX:      DefaultCCXCategory,
		Road:     DefaultRoadCategory,
		Track:    DefaultTrackCategory,
	}
}

// CategoryFor returns the snapshot's category-of-record for an event
// discipline. The second return is false when the rider is not a member
// (no license) or the discipline is unknown, meaning no category applies.
func (s *MemberSnapshot) CategoryFor(eventDiscipline string) (int, bool) {
	if s == nil || s.License == nil {
		return 0, false
	}
	switch eventDiscipline {
	case "mountain_bike", "short_track":
		return s.MTB, true
	case "downhill", "super_d":
		return s.DH, true
	case "cyclocross":
		return s.CCX, true
	case "road", "circuit", "criterium", "time_trial", "gran_fondo", "gravel", "tour":
		return s.Road, true
	case "track":
		return s.Track, true
	default:
		return 0, false
	}
}

// Result is a single rider's finish line entry in a Race. PersonID is
// nullable for dns/unknown rows. Place is the raw upstream string: a
// numeric rank, "dnf", "dq", or free text.
type Result struct {
	ID       int64  `json:"id"`
	RaceID   int64  `json:"race_id"`
	PersonID *int64 `json:"person_id,omitempty"`
	Place    string `json:"place"`
	Time     *int64 `json:"time,omitempty"`
	Laps     *int   `json:"laps,omitempty"`
}
