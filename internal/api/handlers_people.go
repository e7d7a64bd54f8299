// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/velorank/internal/cache"
)

// minSearchLength is the shortest accepted name search. Anything
// shorter would match most of the membership.
const minSearchLength = 3

// PeopleSearch returns riders whose "first last" name contains the
// search string.
//
// @Summary Search people
// @Description Case-insensitive substring search over rider names.
// @Tags People
// @Produce json
// @Param name query string true "Name search string" minLength(3)
// @Success 200 {object} models.APIResponse{data=[]models.PersonSearchResult}
// @Failure 400 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /people [get]
func (h *Handler) PeopleSearch(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}

	name := r.URL.Query().Get("name")
	if len(name) < minSearchLength {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Search string too short", nil)
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey("PeopleSearch", name)
	if data, ok := h.fromCache(cacheKey); ok {
		h.respondCached(w, data)
		return
	}

	people, err := h.db.SearchPeople(r.Context(), h.db.Conn(), name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to search people", err)
		return
	}

	h.respondFresh(w, cacheKey, people, start)
}
