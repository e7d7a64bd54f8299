// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package api serves the read-only results JSON API and the admin
// recalculation endpoints over a chi router.
//
// Every JSON endpoint wraps its payload in the same envelope:
//
//	{"status": "success", "data": ..., "metadata": {...}}
//	{"status": "error", "error": {"code": ..., "message": ...}, "metadata": {...}}
//
// The read endpoints are unauthenticated and serve only committed
// database state; engine failures never surface here. Responses are
// cached for 15 minutes under the "api" namespace and the whole
// namespace is dropped whenever a recalculation run commits, so clients
// polling between runs mostly hit the cache.
//
// The admin endpoints mutate (they trigger recalculation and flush the
// cache) and require an HS256 bearer token from the auth package. They
// answer 403 ADMIN_DISABLED when no token manager is configured.
package api
