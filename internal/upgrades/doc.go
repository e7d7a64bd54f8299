// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package upgrades derives upgrade points and category standings from
// raw race results.
//
// The derivation runs as three passes per upgrade discipline:
//
//  1. AssignPoints awards schedule points to the top finishers of
//     categorized races that have none yet.
//  2. CalculateSums walks every result chronologically per rider,
//     maintaining the rider's inferred category set and a rolling
//     points tally, and writes running sums, upgrade notes and
//     needs-upgrade flags back to the points rows.
//  3. ConfirmPendingUpgrades cross-checks riders flagged for an
//     upgrade against their member profile and records the ones whose
//     profile already shows the higher category.
//
// Every pass takes a database.Querier so the engine can run a whole
// discipline inside one transaction.
package upgrades
