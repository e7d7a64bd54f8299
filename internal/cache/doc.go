// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package cache provides the namespaced API response cache.
//
// Three backends implement Store: an in-process TTL map (default), a
// persistent Badger store that survives restarts, and a null backend
// that never hits. Entries expire after the configured TTL; the engine
// additionally clears the "api" namespace whenever a recalculation
// pass changes derived rows, so responses never outlive the data they
// were built from.
package cache
