// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package database

import (
	"io"
	"strings"

	"github.com/tomtom215/velorank/internal/logging"
)

// closeWithLog closes a resource and logs any error with context about
// what was being closed.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().
			Err(err).
			Str("resource", resourceType).
			Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource ignoring any error. Use only where the
// error genuinely does not matter (cleanup after a failure already
// being reported).
func closeQuietly(closer io.Closer) {
	if closer == nil {
		return
	}
	_ = closer.Close()
}

// isBusyError reports whether err looks like a SQLite lock contention
// error. The busy_timeout pragma absorbs ordinary contention; seeing
// one of these means the timeout elapsed.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "busy")
}
