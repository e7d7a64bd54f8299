// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package models

// Points is the 1:1 derived extension of a Result carrying the upgrade
// engine's output for that finish.
//
// Value is the points awarded for this result (possibly zeroed for
// racing below category). SumValue is the running non-expired total at
// this result, and SumCategories the inferred category set at this
// point in time (usually a singleton; multi-element for ambiguous
// multi-category fields). Notes is display text; the only consumers
// that reason about transitions match the in-memory note stream, never
// this stored field.
type Points struct {
	ResultID       int64   `json:"result_id"`
	Value          int     `json:"value"`
	Notes          string  `json:"notes"`
	NeedsUpgrade   bool    `json:"needs_upgrade"`
	ConfirmationID *int64  `json:"confirmation_id,omitempty"`
	SumValue       int     `json:"sum_value"`
	SumCategories  IntList `json:"sum_categories"`
}

// PendingUpgrade marks a person's most recent categorized Result in a
// discipline as upgraded on the federation site but not yet raced at
// the new category. At most one row exists per Result.
type PendingUpgrade struct {
	ResultID       int64  `json:"result_id"`
	ConfirmationID int64  `json:"confirmation_id"`
	Discipline     string `json:"discipline"`
}

// Rank is the 1:1 derived ranking value for a Result. Lower is better.
type Rank struct {
	ResultID int64   `json:"result_id"`
	Value    float64 `json:"value"`
}

// Quality is the derived per-Race field quality. Value scales with
// field strength, depth and size; PointsPerPlace is the quality share
// of a single starting position.
type Quality struct {
	ID             int64   `json:"id"`
	RaceID         int64   `json:"race_id"`
	Value          float64 `json:"value"`
	PointsPerPlace float64 `json:"points_per_place"`
}
