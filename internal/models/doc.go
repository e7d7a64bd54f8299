// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package models defines the domain entities shared across VeloRank.
//
// The package splits entities into two groups with different ownership:
//
//   - Raw tables (Series, Event, Race, Person, Result, MemberSnapshot)
//     are created by the scraper and never mutated by the engine, with
//     one narrow exception: Points.Value is zeroed when a rider races
//     below category.
//
//   - Derived tables (Points, PendingUpgrade, Rank, Quality) are owned
//     exclusively by the upgrade engine, which may delete and re-create
//     them wholesale on a full recalculation.
//
// Column types that SQLite cannot represent natively (calendar dates,
// JSON-encoded integer lists) get dedicated Go types with database/sql
// Scanner and Valuer implementations so the storage layer stays free of
// ad-hoc conversions.
//
// The package also carries the canonical upgrade-discipline map and the
// API response envelope, both of which are shared between the engine,
// the HTTP handlers, and the reporter.
package models
