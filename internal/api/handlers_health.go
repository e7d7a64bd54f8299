// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/velorank/internal/cache"
	"github.com/tomtom215/velorank/internal/models"
)

// Health reports overall service health.
//
// @Summary Get system health status
// @Description Returns health status including database connectivity, whether scheduled scraping is on, the last full pass time, and uptime.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	scrapingEnabled := h.config != nil && h.config.Scheduler.Enabled

	var lastFullRun *time.Time
	if h.engine != nil {
		last := h.engine.LastFullRun()
		if !last.IsZero() {
			lastFullRun = &last
		}
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           "1.0.0",
		DatabaseConnected: dbConnected,
		ScrapingEnabled:   scrapingEnabled,
		LastFullRun:       lastFullRun,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive answers liveness probes: 200 whenever the process runs,
// regardless of dependencies.
//
// @Summary Liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady answers readiness probes: 200 only when the database is
// reachable, 503 otherwise.
//
// @Summary Readiness probe
// @Description Returns 200 OK only when the service can serve traffic (database reachable). Returns 503 if not ready.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	statusCode := http.StatusOK
	status := "ready"
	if !dbConnected {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"database_connected": dbConnected,
			"ready_to_serve":     dbConnected,
			"uptime":             time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// CacheStats exposes response-cache counters for diagnostics.
func (h *Handler) CacheStats() cache.Stats {
	if h.cache != nil {
		return h.cache.Stats()
	}
	return cache.Stats{}
}
