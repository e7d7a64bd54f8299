// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/velorank/internal/auth"
	"github.com/tomtom215/velorank/internal/cache"
	"github.com/tomtom215/velorank/internal/config"
	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/reporter"
	ws "github.com/tomtom215/velorank/internal/websocket"
)

// Recalculator triggers a scrape-and-derive run for one discipline.
// Satisfied by *engine.Manager.
type Recalculator interface {
	RunDiscipline(ctx context.Context, discipline string, incremental, scrape bool) (int, error)
	LastFullRun() time.Time
}

// Handler carries the dependencies the endpoint methods share.
//
// Methods are split across files by resource:
//   - handlers_events.go: event listings
//   - handlers_people.go: people search
//   - handlers_results.go: person and event result views
//   - handlers_upgrades.go: disciplines, pending upgrades, reports
//   - handlers_admin.go: authenticated recalculation and cache flush
//   - handlers_health.go: liveness
type Handler struct {
	db        *database.DB
	engine    Recalculator
	reporter  *reporter.Reporter
	config    *config.Config
	tokens    *auth.Manager
	wsHub     *ws.Hub
	cache     cache.Store
	startTime time.Time
}

// NewHandler builds the API handler. tokens may be nil when the admin
// API is disabled; engine may be nil in read-only deployments.
func NewHandler(db *database.DB, eng Recalculator, rep *reporter.Reporter, cfg *config.Config, tokens *auth.Manager, wsHub *ws.Hub, store cache.Store) *Handler {
	return &Handler{
		db:        db,
		engine:    eng,
		reporter:  rep,
		config:    cfg,
		tokens:    tokens,
		wsHub:     wsHub,
		cache:     store,
		startTime: time.Now(),
	}
}

// ClearCache drops every cached API response. Called after each
// recalculation run so clients see the new derived state.
func (h *Handler) ClearCache() {
	if h.cache != nil {
		h.cache.ClearNamespace(cacheNamespace)
		logging.Info().Msg("API response cache cleared")
	}
}

// OnRunCompleted is the engine callback invoked after each discipline
// run that executed the derivation stages. It drops the response cache
// and tells websocket clients to refetch.
func (h *Handler) OnRunCompleted(discipline string, pointsCreated int, duration time.Duration) {
	h.ClearCache()
	if h.wsHub != nil {
		h.wsHub.BroadcastRunCompleted(discipline, pointsCreated, duration.Milliseconds())
	}
}

// requireMethod validates the HTTP method and reports whether the
// request may proceed. The router already constrains methods; this
// keeps handlers safe when mounted elsewhere.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return false
	}
	return true
}

// requireDB reports whether the store is available, answering 503 when
// it is not.
func (h *Handler) requireDB(w http.ResponseWriter) bool {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Database not available", nil)
		return false
	}
	return true
}

// WebSocket upgrades the connection and attaches it to the hub for
// run_completed notifications.
//
// @Summary Engine run feed
// @Description Upgrades to a websocket that receives run_completed messages whenever a recalculation commits.
// @Tags Core
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}

// getUpgrader builds a websocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates connection origins against the CORS
// allow list. Browser websockets always send Origin; an empty header
// means a non-browser client and is allowed (same policy curl gets on
// the plain endpoints).
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
