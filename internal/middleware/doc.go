// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package middleware holds the handler-level HTTP middleware: request
// ID tagging, Prometheus instrumentation, and gzip compression.
//
// Everything here keeps the http.HandlerFunc shape so handlers can be
// wrapped individually; the api package bridges them onto the router
// with a small adapter. Router-level concerns (CORS, rate limiting,
// panic recovery) come from the chi ecosystem and are configured in
// the api package instead.
package middleware
