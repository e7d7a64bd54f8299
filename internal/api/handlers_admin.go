// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/models"
)

// RecalculateResult is the payload of a successful admin recalculation.
type RecalculateResult struct {
	Discipline    string `json:"discipline"`
	Incremental   bool   `json:"incremental"`
	PointsCreated int    `json:"points_created"`
	DurationMS    int64  `json:"duration_ms"`
}

// CacheFlushResult is the payload of a successful cache flush.
type CacheFlushResult struct {
	Flushed bool `json:"flushed"`
}

// requireAdmin authenticates an admin request. It writes the error
// response itself and reports whether the caller may proceed.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if h.tokens == nil {
		respondError(w, http.StatusForbidden, "ADMIN_DISABLED", "Admin endpoints are not enabled", nil)
		return false
	}
	claims, err := h.tokens.ValidateRequest(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing token", err)
		return false
	}
	logging.Debug().
		Str("username", sanitizeLogValue(claims.Username)).
		Str("path", sanitizeLogValue(r.URL.Path)).
		Msg("Admin request authorized")
	return true
}

// AdminRecalculate runs a synchronous derivation pass for one upgrade
// discipline. With incremental=true only events newer than the stored
// watermark are rescored; otherwise the discipline's derived rows are
// rebuilt from scratch. Scraping stays off: the pass reworks whatever
// results are already stored.
//
// @Summary Recalculate a discipline
// @Description Re-derives upgrade points, sums, categories and ranks for one discipline from the stored results. Requires an admin bearer token.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param discipline path string true "Upgrade discipline" Enums(cyclocross, road, mountain_bike, track)
// @Param incremental query boolean false "Only rescore events past the watermark" default(false)
// @Success 200 {object} models.APIResponse{data=api.RecalculateResult}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /admin/recalculate/{discipline} [post]
func (h *Handler) AdminRecalculate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) || !h.requireAdmin(w, r) {
		return
	}
	if h.engine == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Recalculation not available", nil)
		return
	}

	discipline := chi.URLParam(r, "discipline")
	if discipline == "" {
		discipline = r.URL.Query().Get("discipline")
	}
	if !models.IsUpgradeDiscipline(discipline) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown discipline", nil)
		return
	}
	incremental := getBoolParam(r, "incremental", false)

	start := time.Now()
	logging.Info().
		Str("discipline", discipline).
		Bool("incremental", incremental).
		Msg("Admin recalculation requested")

	created, err := h.engine.RunDiscipline(r.Context(), discipline, incremental, false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Recalculation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: RecalculateResult{
			Discipline:    discipline,
			Incremental:   incremental,
			PointsCreated: created,
			DurationMS:    time.Since(start).Milliseconds(),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// AdminCacheFlush drops every cached API response. Useful after manual
// database surgery; recalculations flush on their own.
//
// @Summary Flush the response cache
// @Description Drops all cached API responses so the next reads hit the database. Requires an admin bearer token.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=api.CacheFlushResult}
// @Failure 401 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Router /admin/cache/flush [post]
func (h *Handler) AdminCacheFlush(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) || !h.requireAdmin(w, r) {
		return
	}

	start := time.Now()
	h.ClearCache()

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   CacheFlushResult{Flushed: true},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
