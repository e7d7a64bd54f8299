// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package engine schedules and runs the scrape-and-derive pipeline.
//
// The Manager owns two tickers. The full pass rescans whole seasons
// (several years back on the first run, the current year afterwards)
// and rebuilds each discipline's derived rows from scratch. The recent
// pass rescans only events raced in the last few days and tops the
// derived rows up incrementally. Passes are serialized: a tick that
// fires while another pass is running waits its turn.
//
// Each discipline runs inside one immediate-mode transaction. Scrape
// steps come first; the derivation stages (points, sums, ranks,
// pending confirmations) follow, each inside its own savepoint. A
// failing stage is rolled back and the stages after it are skipped,
// but work from the stages before it still commits. A failure outside
// the savepoints rolls the whole discipline back; the pass then moves
// on to the next discipline.
//
// RunDiscipline exposes a single discipline run for the admin API, with
// or without the scrape steps, so operators can re-derive from already
// stored results.
package engine
