// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/velorank/internal/cache"
	"github.com/tomtom215/velorank/internal/models"
)

// EventsRecent returns the most recently raced events across every
// discipline.
//
// @Summary Recent events
// @Description Returns the most recent non-ignored events from any year and discipline, newest race date first.
// @Tags Events
// @Produce json
// @Param limit query int false "Number of events" default(6)
// @Success 200 {object} models.APIResponse{data=[]models.RecentEvent}
// @Failure 500 {object} models.APIResponse
// @Router /events/recent [get]
func (h *Handler) EventsRecent(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}

	limit := getIntParam(r, "limit", h.recentLimit())
	if limit < 1 {
		limit = h.recentLimit()
	}
	if maxSize := h.maxPageSize(); limit > maxSize {
		limit = maxSize
	}

	start := time.Now()
	cacheKey := cache.GenerateKey("EventsRecent", limit)
	if data, ok := h.fromCache(cacheKey); ok {
		h.respondCached(w, data)
		return
	}

	events, err := h.db.RecentEvents(r.Context(), h.db.Conn(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list recent events", err)
		return
	}

	h.respondFresh(w, cacheKey, events, start)
}

// EventYears returns every year with scraped events, newest first.
//
// @Summary Years with data
// @Description Returns the distinct event years, descending.
// @Tags Events
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]int}
// @Failure 500 {object} models.APIResponse
// @Router /events/years [get]
func (h *Handler) EventYears(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey("EventYears", nil)
	if data, ok := h.fromCache(cacheKey); ok {
		h.respondCached(w, data)
		return
	}

	years, err := h.db.EventYears(r.Context(), h.db.Conn())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list event years", err)
		return
	}

	h.respondFresh(w, cacheKey, years, start)
}

// YearEvents returns one year's events grouped by upgrade discipline.
//
// @Summary Events for a year
// @Description Returns the year's non-ignored events grouped by upgrade discipline, newest race date first within each group.
// @Tags Events
// @Produce json
// @Param year path int true "Event year"
// @Success 200 {object} models.APIResponse{data=[]models.DisciplineEvents}
// @Failure 400 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /events/years/{year} [get]
func (h *Handler) YearEvents(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Year must be an integer", nil)
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey("YearEvents", year)
	if data, ok := h.fromCache(cacheKey); ok {
		h.respondCached(w, data)
		return
	}

	groups := make([]models.DisciplineEvents, 0, len(models.UpgradeDisciplines))
	for _, discipline := range models.UpgradeDisciplines {
		events, err := h.db.EventsForYear(r.Context(), h.db.Conn(), year, models.EventDisciplines(discipline))
		if err != nil {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list events for year", err)
			return
		}
		groups = append(groups, models.DisciplineEvents{
			Name:    discipline,
			Display: models.DisciplineDisplayName(discipline),
			Events:  events,
		})
	}

	h.respondFresh(w, cacheKey, groups, start)
}

// recentLimit returns the configured default size of the recent-events
// listing.
func (h *Handler) recentLimit() int {
	if h.config != nil && h.config.API.RecentLimit > 0 {
		return h.config.API.RecentLimit
	}
	return 6
}

// maxPageSize returns the ceiling for client-requested list sizes.
func (h *Handler) maxPageSize() int {
	if h.config != nil && h.config.API.MaxPageSize > 0 {
		return h.config.API.MaxPageSize
	}
	return 100
}
