// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/velorank/internal/auth"
	"github.com/tomtom215/velorank/internal/config"
	"github.com/tomtom215/velorank/internal/reporter"
)

// stubEngine satisfies Recalculator for handler tests.
type stubEngine struct {
	points      int
	err         error
	lastRun     time.Time
	discipline  string
	incremental bool
	calls       int
}

func (s *stubEngine) RunDiscipline(_ context.Context, discipline string, incremental, _ bool) (int, error) {
	s.calls++
	s.discipline = discipline
	s.incremental = incremental
	return s.points, s.err
}

func (s *stubEngine) LastFullRun() time.Time {
	return s.lastRun
}

func newAuthManager(t *testing.T) *auth.Manager {
	t.Helper()
	mgr, err := auth.NewManager(config.SecurityConfig{JWTSecret: "test-secret-for-handler-tests"})
	if err != nil {
		t.Fatalf("auth.NewManager() error = %v", err)
	}
	return mgr
}

func bearerToken(t *testing.T, mgr *auth.Manager, role string) string {
	t.Helper()
	token, err := mgr.GenerateToken("tester", role)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return "Bearer " + token
}

// newAdminHandler wires a handler with auth plus a stub engine.
func newAdminHandler(t *testing.T, eng Recalculator) (*Handler, *auth.Manager) {
	t.Helper()
	db := setupTestDBForAPI(t)
	mgr := newAuthManager(t)
	h := NewHandler(db, eng, reporter.NewReporter(db), testConfig(), mgr, nil, newTestCache(t))
	return h, mgr
}

func recalcRequest(discipline, query string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/recalculate/"+discipline+query, nil)
	return withURLParam(req, "discipline", discipline)
}

func TestAdminRecalculateWithoutAuthManager(t *testing.T) {
	t.Parallel()

	// tokens == nil means the admin API was never configured.
	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, recalcRequest("road", ""))

	assertStatusCode(t, w.Code, http.StatusForbidden)
	assertErrorCode(t, w, "ADMIN_DISABLED")
}

func TestAdminRecalculateRejectsMissingToken(t *testing.T) {
	t.Parallel()

	h, _ := newAdminHandler(t, &stubEngine{})
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, recalcRequest("road", ""))

	assertStatusCode(t, w.Code, http.StatusUnauthorized)
	assertErrorCode(t, w, "UNAUTHORIZED")
}

func TestAdminRecalculateRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	h, _ := newAdminHandler(t, &stubEngine{})
	req := recalcRequest("road", "")
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, req)

	assertStatusCode(t, w.Code, http.StatusUnauthorized)
	assertErrorCode(t, w, "UNAUTHORIZED")
}

func TestAdminRecalculateRejectsNonAdminRole(t *testing.T) {
	t.Parallel()

	h, mgr := newAdminHandler(t, &stubEngine{})
	req := recalcRequest("road", "")
	req.Header.Set("Authorization", bearerToken(t, mgr, "viewer"))
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, req)

	assertStatusCode(t, w.Code, http.StatusUnauthorized)
	assertErrorCode(t, w, "UNAUTHORIZED")
}

func TestAdminRecalculateRejectsTokenFromOtherSecret(t *testing.T) {
	t.Parallel()

	h, _ := newAdminHandler(t, &stubEngine{})
	other, err := auth.NewManager(config.SecurityConfig{JWTSecret: "a-different-secret-entirely"})
	if err != nil {
		t.Fatalf("auth.NewManager() error = %v", err)
	}
	req := recalcRequest("road", "")
	req.Header.Set("Authorization", bearerToken(t, other, auth.RoleAdmin))
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, req)

	assertStatusCode(t, w.Code, http.StatusUnauthorized)
	assertErrorCode(t, w, "UNAUTHORIZED")
}

func TestAdminRecalculateRejectsUnknownDiscipline(t *testing.T) {
	t.Parallel()

	h, mgr := newAdminHandler(t, &stubEngine{})
	req := recalcRequest("curling", "")
	req.Header.Set("Authorization", bearerToken(t, mgr, auth.RoleAdmin))
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, req)

	assertStatusCode(t, w.Code, http.StatusBadRequest)
	assertErrorCode(t, w, "VALIDATION_ERROR")
}

func TestAdminRecalculateWithoutEngine(t *testing.T) {
	t.Parallel()

	db := setupTestDBForAPI(t)
	mgr := newAuthManager(t)
	h := NewHandler(db, nil, nil, testConfig(), mgr, nil, newTestCache(t))
	req := recalcRequest("road", "")
	req.Header.Set("Authorization", bearerToken(t, mgr, auth.RoleAdmin))
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, req)

	assertStatusCode(t, w.Code, http.StatusServiceUnavailable)
	assertErrorCode(t, w, "SERVICE_ERROR")
}

func TestAdminRecalculateRunsDiscipline(t *testing.T) {
	t.Parallel()

	eng := &stubEngine{points: 42}
	h, mgr := newAdminHandler(t, eng)
	req := recalcRequest("cyclocross", "?incremental=true")
	req.Header.Set("Authorization", bearerToken(t, mgr, auth.RoleAdmin))
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	if response.Status != "success" {
		t.Fatalf("status = %q, want success", response.Status)
	}
	data := response.Data.(map[string]interface{})
	if data["discipline"] != "cyclocross" {
		t.Errorf("discipline = %v, want cyclocross", data["discipline"])
	}
	if data["incremental"] != true {
		t.Errorf("incremental = %v, want true", data["incremental"])
	}
	if data["points_created"].(float64) != 42 {
		t.Errorf("points_created = %v, want 42", data["points_created"])
	}

	if eng.calls != 1 {
		t.Fatalf("engine calls = %d, want 1", eng.calls)
	}
	if eng.discipline != "cyclocross" {
		t.Errorf("engine discipline = %q, want cyclocross", eng.discipline)
	}
	if !eng.incremental {
		t.Error("engine incremental = false, want true")
	}
}

func TestAdminRecalculateDefaultsToFullPass(t *testing.T) {
	t.Parallel()

	eng := &stubEngine{points: 3}
	h, mgr := newAdminHandler(t, eng)
	req := recalcRequest("road", "")
	req.Header.Set("Authorization", bearerToken(t, mgr, auth.RoleAdmin))
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	if eng.incremental {
		t.Error("incremental should default to false")
	}
}

func TestAdminRecalculateReportsEngineFailure(t *testing.T) {
	t.Parallel()

	eng := &stubEngine{err: errors.New("stage blew up")}
	h, mgr := newAdminHandler(t, eng)
	req := recalcRequest("track", "")
	req.Header.Set("Authorization", bearerToken(t, mgr, auth.RoleAdmin))
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, req)

	assertStatusCode(t, w.Code, http.StatusInternalServerError)
	assertErrorCode(t, w, "DATABASE_ERROR")
}

func TestAdminRecalculateRejectsGet(t *testing.T) {
	t.Parallel()

	h, mgr := newAdminHandler(t, &stubEngine{})
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/admin/recalculate/road", nil), "discipline", "road")
	req.Header.Set("Authorization", bearerToken(t, mgr, auth.RoleAdmin))
	w := httptest.NewRecorder()
	h.AdminRecalculate(w, req)

	assertStatusCode(t, w.Code, http.StatusMethodNotAllowed)
	assertErrorCode(t, w, "METHOD_NOT_ALLOWED")
}

func TestAdminCacheFlush(t *testing.T) {
	t.Parallel()

	h, mgr := newAdminHandler(t, &stubEngine{})
	h.cache.Set(cacheNamespace, "stale-key", []byte(`{}`))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/flush", nil)
	req.Header.Set("Authorization", bearerToken(t, mgr, auth.RoleAdmin))
	w := httptest.NewRecorder()
	h.AdminCacheFlush(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	data := response.Data.(map[string]interface{})
	if data["flushed"] != true {
		t.Errorf("flushed = %v, want true", data["flushed"])
	}
	if _, found := h.cache.Get(cacheNamespace, "stale-key"); found {
		t.Error("cache entry should be gone after flush")
	}
}

func TestAdminCacheFlushRequiresAuth(t *testing.T) {
	t.Parallel()

	h, _ := newAdminHandler(t, &stubEngine{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/flush", nil)
	w := httptest.NewRecorder()
	h.AdminCacheFlush(w, req)

	assertStatusCode(t, w.Code, http.StatusUnauthorized)
	assertErrorCode(t, w, "UNAUTHORIZED")
}
