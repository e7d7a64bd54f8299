// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package rankings derives per-race field quality and per-result rank
// values from finishing order and the field's prior rank values.
//
// The scalar formula is a pluggable Policy: a pure function from
// (race, placed finishers, prior rank values) to one quality and a
// rank per finisher. Policies must be deterministic - two races with
// the same starters, categories and participant priors produce the
// same quality - so repeated recalculation passes are idempotent.
//
// Rank values read like golf scores: lower is stronger. Unranked
// riders enter at DefaultPrior and their value moves as they finish
// ahead of or behind fields of known strength.
package rankings
