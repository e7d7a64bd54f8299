// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package websocket pushes engine events to connected browsers.
//
// A single Hub fans broadcast messages out to every connected Client.
// The engine announces completed recalculation runs here so result
// pages can refresh without polling. Delivery is best effort: a slow
// client is dropped rather than allowed to stall the hub, and a full
// broadcast queue drops the message.
package websocket
