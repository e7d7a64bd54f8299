// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package reporter renders per-discipline upgrade reports: a roster of
// riders whose recent results flag an upgrade, followed by every
// rider's points history.
//
// Output is streamed through the Writer interface so the same walk
// serves plain text (tabwriter), HTML and the null sink that discards
// everything. Reports read committed rows only; they never trigger
// recalculation.
package reporter
