// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package auth issues and validates the bearer tokens guarding the
// admin endpoints.
//
// The public API is read-only and unauthenticated; only the mutating
// admin operations (manual recalculation) need a caller identity. That
// keeps the surface small: HS256-signed JWTs minted from JWT_SECRET,
// carrying a username and role, valid for TOKEN_TTL. Tokens are
// stateless, so revocation means rotating the secret.
package auth
