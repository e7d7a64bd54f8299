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

// PersonResults returns one rider's full history grouped by upgrade
// discipline, newest race first.
//
// @Summary Results for a person
// @Description Returns every result for the rider grouped by upgrade discipline, with points, running sums, rank and pending-upgrade annotations. Results without a points row carry the sum of the nearest older scored result.
// @Tags Results
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {object} models.APIResponse{data=models.PersonResults}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /results/person/{id} [get]
func (h *Handler) PersonResults(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Person ID must be an integer", nil)
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey("PersonResults", id)
	if data, ok := h.fromCache(cacheKey); ok {
		h.respondCached(w, data)
		return
	}

	person, err := h.db.GetPerson(r.Context(), h.db.Conn(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load person", err)
		return
	}
	if person == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Person not found", nil)
		return
	}

	disciplines := make([]models.DisciplineResults, 0, len(models.UpgradeDisciplines))
	for _, discipline := range models.UpgradeDisciplines {
		eventDisciplines := models.EventDisciplines(discipline)

		results, err := h.db.ResultsForPerson(r.Context(), h.db.Conn(), id, eventDisciplines)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load results", err)
			return
		}

		ranks, err := h.db.CurrentRanks(r.Context(), h.db.Conn(), eventDisciplines, []int64{id})
		if err != nil {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load ranks", err)
			return
		}

		var rank *int
		if value, ok := ranks[id]; ok {
			rank = ptr(int(value))
		}

		backfillPoints(results)

		disciplines = append(disciplines, models.DisciplineResults{
			Name:    discipline,
			Display: models.DisciplineDisplayName(discipline),
			Rank:    rank,
			Results: results,
		})
	}

	payload := models.PersonResults{
		PersonInfo: models.PersonInfo{
			ID:        person.ID,
			FirstName: person.FirstName,
			LastName:  person.LastName,
			TeamName:  person.TeamName,
			Name:      models.TitleName(person.Name()),
		},
		Disciplines: disciplines,
	}

	h.respondFresh(w, cacheKey, payload, start)
}

// EventResults returns one event's results grouped by race.
//
// @Summary Results for an event
// @Description Returns each of the event's races with its person-annotated results.
// @Tags Results
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} models.APIResponse{data=models.EventResults}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /results/event/{id} [get]
func (h *Handler) EventResults(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Event ID must be an integer", nil)
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey("EventResults", id)
	if data, ok := h.fromCache(cacheKey); ok {
		h.respondCached(w, data)
		return
	}

	event, err := h.db.GetEvent(r.Context(), h.db.Conn(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load event", err)
		return
	}
	if event == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Event not found", nil)
		return
	}

	races, err := h.db.ResultsForEvent(r.Context(), h.db.Conn(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load event results", err)
		return
	}
	if len(races) == 0 {
		// An event without races scraped as an umbrella shell; there is
		// nothing to show.
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Event has no races", nil)
		return
	}

	var series *models.SeriesRef
	if event.SeriesID != nil {
		series, err = h.db.GetSeriesRef(r.Context(), h.db.Conn(), *event.SeriesID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load series", err)
			return
		}
	}

	payload := models.EventResults{
		EventRef: models.EventRef{
			ID:     event.ID,
			Name:   event.Name,
			Year:   event.Year,
			Series: series,
		},
		Races: races,
	}

	h.respondFresh(w, cacheKey, payload, start)
}

// backfillPoints gives point-less results the running sum carried from
// the rider's nearest older scored result, so the person view shows a
// continuous sum and category line. Filled rows show a zero value and
// empty notes. results is ordered newest first.
func backfillPoints(results []models.ResultWithRace) {
	if len(results) == 0 {
		return
	}

	// Seed from the oldest result. When even that one is unscored the
	// filler starts at a zero sum in the race's own categories.
	oldest := results[len(results)-1]
	var filler models.ResultRow
	if oldest.Value != nil {
		filler = fillerFrom(oldest.ResultRow)
	} else {
		filler = models.ResultRow{
			Value:         ptr(0),
			SumValue:      ptr(0),
			SumCategories: append(models.IntList(nil), oldest.Race.Categories...),
			Notes:         ptr(""),
			NeedsUpgrade:  ptr(false),
		}
	}

	for i := len(results) - 1; i >= 0; i-- {
		if results[i].Value != nil {
			filler = fillerFrom(results[i].ResultRow)
			continue
		}
		results[i].Value = clonePtr(filler.Value)
		results[i].SumValue = clonePtr(filler.SumValue)
		results[i].SumCategories = append(models.IntList(nil), filler.SumCategories...)
		results[i].Notes = clonePtr(filler.Notes)
		results[i].NeedsUpgrade = clonePtr(filler.NeedsUpgrade)
	}
}

// fillerFrom copies the carryable fields of a scored row: the running
// sum and upgrade flag persist, the per-result value and notes do not.
func fillerFrom(row models.ResultRow) models.ResultRow {
	return models.ResultRow{
		Value:         ptr(0),
		SumValue:      clonePtr(row.SumValue),
		SumCategories: append(models.IntList(nil), row.SumCategories...),
		Notes:         ptr(""),
		NeedsUpgrade:  clonePtr(row.NeedsUpgrade),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
