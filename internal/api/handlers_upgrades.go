// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/tomtom215/velorank/internal/cache"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/models"
	"github.com/tomtom215/velorank/internal/reporter"
)

// DisciplineMapping is one row of the /disciplines payload: an upgrade
// discipline with its display form and member event disciplines.
type DisciplineMapping struct {
	Name             string   `json:"name"`
	Display          string   `json:"display"`
	EventDisciplines []string `json:"event_disciplines"`
}

// Disciplines returns the upgrade-discipline map.
//
// @Summary Discipline map
// @Description Returns the upgrade disciplines with their display names and the upstream event disciplines each one groups.
// @Tags Upgrades
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]api.DisciplineMapping}
// @Router /disciplines [get]
func (h *Handler) Disciplines(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	start := time.Now()
	disciplines := make([]DisciplineMapping, 0, len(models.UpgradeDisciplines))
	for _, discipline := range models.UpgradeDisciplines {
		disciplines = append(disciplines, DisciplineMapping{
			Name:             discipline,
			Display:          models.DisciplineDisplayName(discipline),
			EventDisciplines: models.EventDisciplines(discipline),
		})
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   disciplines,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// UpgradesPending returns the pending-upgrade roster for a discipline:
// riders the engine believes were upgraded on the federation side but
// who have not yet raced at the new category.
//
// @Summary Pending upgrades
// @Description Returns riders with a confirmed but not yet raced category change in the discipline, strongest first.
// @Tags Upgrades
// @Produce json
// @Param discipline query string true "Upgrade discipline" Enums(cyclocross, road, mountain_bike, track)
// @Success 200 {object} models.APIResponse{data=[]models.PendingUpgradeRow}
// @Failure 400 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /upgrades/pending [get]
func (h *Handler) UpgradesPending(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}

	discipline := r.URL.Query().Get("discipline")
	if !models.IsUpgradeDiscipline(discipline) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown discipline", nil)
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey("UpgradesPending", discipline)
	if data, ok := h.fromCache(cacheKey); ok {
		h.respondCached(w, data)
		return
	}

	pending, err := h.db.ListPending(r.Context(), h.db.Conn(), discipline)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list pending upgrades", err)
		return
	}

	h.respondFresh(w, cacheKey, pending, start)
}

// reportParams keys the report cache.
type reportParams struct {
	Discipline string
	Format     string
}

// UpgradesReport renders the upgrade report for a discipline. Unlike
// the JSON endpoints it writes the reporter's own text or HTML output.
//
// @Summary Upgrade report
// @Description Renders the discipline's upgrade report: riders due for an upgrade plus recent category changes, as text or HTML.
// @Tags Upgrades
// @Produce html
// @Param discipline query string true "Upgrade discipline" Enums(cyclocross, road, mountain_bike, track)
// @Param format query string false "Output format" Enums(text, html) default(text)
// @Success 200 {string} string
// @Failure 400 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /upgrades/report [get]
func (h *Handler) UpgradesReport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}
	if h.reporter == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Reporting not available", nil)
		return
	}

	discipline := r.URL.Query().Get("discipline")
	if !models.IsUpgradeDiscipline(discipline) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown discipline", nil)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = reporter.FormatText
	}
	var contentType string
	switch format {
	case reporter.FormatText:
		contentType = "text/plain; charset=utf-8"
	case reporter.FormatHTML:
		contentType = "text/html; charset=utf-8"
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Format must be text or html", nil)
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey("UpgradesReport", reportParams{Discipline: discipline, Format: format})
	if h.cache != nil {
		if body, ok := h.cache.Get(cacheNamespace, cacheKey); ok {
			h.writeReport(w, contentType, body)
			return
		}
	}

	// Render into memory first so a mid-report failure still produces a
	// clean error envelope instead of a truncated page.
	var buf bytes.Buffer
	out, err := reporter.NewWriter(format, &buf)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Format must be text or html", err)
		return
	}
	if err := h.reporter.Generate(r.Context(), h.db.Conn(), discipline, out); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to generate report", err)
		return
	}

	body := buf.Bytes()
	if h.cache != nil {
		h.cache.Set(cacheNamespace, cacheKey, body)
	}
	logging.Debug().
		Str("discipline", discipline).
		Str("format", format).
		Dur("duration", time.Since(start)).
		Msg("Upgrade report rendered")
	h.writeReport(w, contentType, body)
}

// writeReport sends a rendered report with cache headers.
func (h *Handler) writeReport(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=900")
	w.Header().Set("Expires", time.Now().Add(cacheMaxAge).UTC().Format(http.TimeFormat))
	w.Header().Set("ETag", generateETag(body))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write report response")
	}
}
