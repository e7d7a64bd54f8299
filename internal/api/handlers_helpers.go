// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/models"
)

// cacheNamespace groups every API response cache entry so a
// recalculation run can drop them all in one call.
const cacheNamespace = "api"

// cacheMaxAge is the client-facing response lifetime. It matches the
// original deployment's 900 second cache window; the server cache TTL
// is configured separately.
const cacheMaxAge = 900 * time.Second

// sanitizeLogValue removes control characters from strings before they
// reach the log, so request-supplied values cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends the envelope with cache headers and an ETag.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheMaxAge.Seconds())))
	w.Header().Set("Expires", time.Now().Add(cacheMaxAge).UTC().Format(http.TimeFormat))
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag derives a weak validator from the body via FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends the error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// getIntParam extracts an integer query parameter with a default.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getBoolParam extracts a boolean query parameter with a default.
func getBoolParam(r *http.Request, key string, defaultValue bool) bool {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// fromCache returns the cached payload for key, already marshaled.
func (h *Handler) fromCache(key string) (json.RawMessage, bool) {
	if h.cache == nil {
		return nil, false
	}
	data, ok := h.cache.Get(cacheNamespace, key)
	if !ok {
		return nil, false
	}
	return json.RawMessage(data), true
}

// respondCached sends a cache hit. Query time stays zero so clients can
// tell served-from-cache responses apart.
func (h *Handler) respondCached(w http.ResponseWriter, data json.RawMessage) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			Cached:    true,
		},
	})
}

// respondFresh marshals data, stores it under key, and sends the
// success envelope with the measured query time.
func (h *Handler) respondFresh(w http.ResponseWriter, key string, data any, start time.Time) {
	payload, err := json.Marshal(data)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to encode response", err)
		return
	}
	if h.cache != nil {
		h.cache.Set(cacheNamespace, key, payload)
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   json.RawMessage(payload),
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
