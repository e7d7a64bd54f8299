// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package main provides the VeloRank HTTP server
//
// VeloRank derives upgrade points, category progressions and race
// rankings from OBRA race results and serves them as a read-only
// JSON API.
//
// @title VeloRank API
// @version 1.0
// @description Upgrade points, category progressions and race rankings derived from OBRA race results.
// @description
// @description ## Endpoints
// @description
// @description - **Events**: recent events, seasons, and per-year listings grouped by upgrade discipline
// @description - **People**: rider search by name substring
// @description - **Results**: per-rider and per-event result views with points, running sums, notes, ranks and race quality
// @description - **Upgrades**: the discipline map, pending upgrade confirmations, and rendered upgrade reports
// @description
// @description ## Authentication
// @description
// @description The read API is public. Admin endpoints (manual recalculation, cache
// @description flush) require a bearer token signed with the configured JWT secret
// @description and are rejected when ADMIN_ENABLED is false.
// @description
// @description ## Caching
// @description
// @description Responses are cached server-side for 15 minutes and the whole cache is
// @description dropped whenever a recalculation pass changes derived rows. Cached
// @description responses carry an Expires header.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Rate limit headers are included in responses: `X-RateLimit-Limit`, `X-RateLimit-Remaining`, `X-RateLimit-Reset`.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2025-11-18T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/velorank/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.en.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin bearer token: "Bearer {token}", signed with JWT_SECRET.
//
// @tag.name Core
// @tag.description Health checks, the discipline map, and the websocket run feed
//
// @tag.name Events
// @tag.description Event listings by recency and season
//
// @tag.name People
// @tag.description Rider search
//
// @tag.name Results
// @tag.description Per-rider and per-event result views with derived points and ranks
//
// @tag.name Upgrades
// @tag.description Pending upgrade confirmations and upgrade reports
//
// @tag.name Admin
// @tag.description Authenticated recalculation and cache management
package main
