// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/velorank/internal/cache"
	"github.com/tomtom215/velorank/internal/config"
	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/models"
	"github.com/tomtom215/velorank/internal/reporter"
	ws "github.com/tomtom215/velorank/internal/websocket"
)

// Test helpers shared across the handler test files.

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			RecentLimit:     6,
			SwaggerEnabled:  true,
		},
		Security: config.SecurityConfig{
			CORSOrigins: []string{"*"},
		},
		Scheduler: config.SchedulerConfig{
			Enabled: false,
		},
		Metrics: config.MetricsConfig{
			Enabled: true,
		},
	}
}

func setupTestDBForAPI(t *testing.T) *database.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "velorank.db"),
		BusyTimeout: 5 * time.Second,
	}
	db, err := database.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func newTestCache(t *testing.T) cache.Store {
	t.Helper()
	store, err := cache.New(config.CacheConfig{Type: "memory", TTL: time.Minute})
	if err != nil {
		t.Fatalf("cache.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("cache Close() error = %v", err)
		}
	})
	return store
}

// newTestHandler builds a handler over a fresh database with a memory
// cache and no engine, reporter, or admin tokens.
func newTestHandler(t *testing.T) (*Handler, *database.DB) {
	t.Helper()
	db := setupTestDBForAPI(t)
	h := NewHandler(db, nil, reporter.NewReporter(db), testConfig(), nil, nil, newTestCache(t))
	return h, db
}

// seedEvent inserts an event with one optional series.
func seedEvent(t *testing.T, db *database.DB, id int64, name, discipline string, year int, seriesID *int64) {
	t.Helper()
	e := &models.Event{ID: id, Name: name, Discipline: discipline, Year: year, SeriesID: seriesID}
	if err := db.UpsertEvent(context.Background(), db.Conn(), e); err != nil {
		t.Fatalf("UpsertEvent(%d) error = %v", id, err)
	}
}

func seedSeries(t *testing.T, db *database.DB, id int64, name string, year int) {
	t.Helper()
	if err := db.UpsertSeries(context.Background(), db.Conn(), &models.Series{ID: id, Name: name, Year: year}); err != nil {
		t.Fatalf("UpsertSeries(%d) error = %v", id, err)
	}
}

// seedRace inserts a race on the given 2025 March day.
func seedRace(t *testing.T, db *database.DB, id, eventID int64, name string, day int, categories models.IntList, starters int) {
	t.Helper()
	created := models.NewDateTime(time.Date(2025, time.March, day, 10, 0, 0, 0, time.UTC))
	r := &models.Race{
		ID:         id,
		EventID:    eventID,
		Name:       name,
		Date:       models.NewDate(2025, time.March, day),
		Categories: categories,
		Starters:   starters,
		Created:    created,
		Updated:    created,
	}
	if err := db.UpsertRace(context.Background(), db.Conn(), r); err != nil {
		t.Fatalf("UpsertRace(%d) error = %v", id, err)
	}
}

func seedPerson(t *testing.T, db *database.DB, id int64, first, last string) {
	t.Helper()
	if err := db.UpsertPerson(context.Background(), db.Conn(), &models.Person{ID: id, FirstName: first, LastName: last}); err != nil {
		t.Fatalf("UpsertPerson(%d) error = %v", id, err)
	}
}

func seedResult(t *testing.T, db *database.DB, id, raceID, personID int64, place string) {
	t.Helper()
	r := &models.Result{ID: id, RaceID: raceID, Place: place}
	if personID != 0 {
		r.PersonID = &personID
	}
	if err := db.UpsertResult(context.Background(), db.Conn(), r); err != nil {
		t.Fatalf("UpsertResult(%d) error = %v", id, err)
	}
}

func seedPoints(t *testing.T, db *database.DB, p *models.Points) {
	t.Helper()
	if err := db.SavePoints(context.Background(), db.Conn(), p); err != nil {
		t.Fatalf("SavePoints(%d) error = %v", p.ResultID, err)
	}
}

// withURLParam attaches a chi route context carrying one URL parameter.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeAPIResponse(t *testing.T, w *httptest.ResponseRecorder) *models.APIResponse {
	t.Helper()
	var response models.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return &response
}

func assertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	response := decodeAPIResponse(t, w)
	if response.Status != "error" {
		t.Fatalf("status = %q, want %q", response.Status, "error")
	}
	if response.Error == nil {
		t.Fatal("error payload missing")
	}
	if response.Error.Code != code {
		t.Errorf("error code = %q, want %q", response.Error.Code, code)
	}
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	if h == nil {
		t.Fatal("NewHandler returned nil")
	}
	if h.startTime.IsZero() {
		t.Error("Expected start time to be set")
	}
	if h.cache == nil {
		t.Error("Expected cache to be set")
	}
}

func TestEventsRecent(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t)
	sid := int64(5)
	seedSeries(t, db, sid, "Cross Crusade", 2025)
	seedEvent(t, db, 1, "Cross Crusade #1", "cyclocross", 2025, &sid)
	seedEvent(t, db, 2, "Barton Park Circuit", "circuit", 2025, nil)
	seedRace(t, db, 10, 1, "Men 3/4", 8, models.IntList{3, 4}, 40)
	seedRace(t, db, 11, 2, "Senior Men", 9, models.IntList{4, 5}, 25)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/recent", nil)
	w := httptest.NewRecorder()
	h.EventsRecent(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	if response.Status != "success" {
		t.Fatalf("status = %q, want success", response.Status)
	}
	events, ok := response.Data.([]interface{})
	if !ok {
		t.Fatalf("data is %T, want array", response.Data)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	first, ok := events[0].(map[string]interface{})
	if !ok {
		t.Fatalf("event is %T, want object", events[0])
	}
	// Newest race date first.
	if first["name"] != "Barton Park Circuit" {
		t.Errorf("first event = %v, want Barton Park Circuit", first["name"])
	}
	if w.Header().Get("ETag") == "" {
		t.Error("ETag header missing")
	}
	if !strings.Contains(w.Header().Get("Cache-Control"), "max-age=900") {
		t.Errorf("Cache-Control = %q, want public max-age=900", w.Header().Get("Cache-Control"))
	}
}

func TestEventsRecentServesCachedCopy(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t)
	seedEvent(t, db, 1, "Alpenrose Velodrome", "track", 2025, nil)
	seedRace(t, db, 10, 1, "Scratch", 8, nil, 12)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/recent", nil)
	w := httptest.NewRecorder()
	h.EventsRecent(w, req)
	assertStatusCode(t, w.Code, http.StatusOK)
	if decodeAPIResponse(t, w).Metadata.Cached {
		t.Fatal("first response should be fresh")
	}

	w = httptest.NewRecorder()
	h.EventsRecent(w, httptest.NewRequest(http.MethodGet, "/api/v1/events/recent", nil))
	assertStatusCode(t, w.Code, http.StatusOK)
	second := decodeAPIResponse(t, w)
	if !second.Metadata.Cached {
		t.Error("second response should come from cache")
	}
}

func TestEventsRecentHonorsLimit(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t)
	for i := int64(1); i <= 8; i++ {
		seedEvent(t, db, i, "Event", "road", 2025, nil)
		seedRace(t, db, 100+i, i, "Race", int(i), nil, 10)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/recent?limit=3", nil)
	w := httptest.NewRecorder()
	h.EventsRecent(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	events := response.Data.([]interface{})
	if len(events) != 3 {
		t.Errorf("len(events) = %d, want 3", len(events))
	}
}

func TestEventYears(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t)
	seedEvent(t, db, 1, "A", "road", 2023, nil)
	seedEvent(t, db, 2, "B", "road", 2025, nil)
	seedEvent(t, db, 3, "C", "cyclocross", 2024, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/years", nil)
	w := httptest.NewRecorder()
	h.EventYears(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	years, ok := response.Data.([]interface{})
	if !ok {
		t.Fatalf("data is %T, want array", response.Data)
	}
	want := []float64{2025, 2024, 2023}
	if len(years) != len(want) {
		t.Fatalf("len(years) = %d, want %d", len(years), len(want))
	}
	for i, y := range want {
		if years[i].(float64) != y {
			t.Errorf("years[%d] = %v, want %v", i, years[i], y)
		}
	}
}

func TestYearEventsRejectsBadYear(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/events/years/nope", nil), "year", "nope")
	w := httptest.NewRecorder()
	h.YearEvents(w, req)

	assertStatusCode(t, w.Code, http.StatusBadRequest)
	assertErrorCode(t, w, "VALIDATION_ERROR")
}

func TestYearEventsGroupsByDiscipline(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t)
	seedEvent(t, db, 1, "Cross Race", "cyclocross", 2025, nil)
	seedEvent(t, db, 2, "Criterium", "criterium", 2025, nil)
	seedRace(t, db, 10, 1, "A", 8, nil, 10)
	seedRace(t, db, 11, 2, "B", 9, nil, 10)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/events/years/2025", nil), "year", "2025")
	w := httptest.NewRecorder()
	h.YearEvents(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	groups, ok := response.Data.([]interface{})
	if !ok {
		t.Fatalf("data is %T, want array", response.Data)
	}
	// One group per upgrade discipline even when empty.
	if len(groups) != len(models.UpgradeDisciplines) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(models.UpgradeDisciplines))
	}
	first := groups[0].(map[string]interface{})
	if first["name"] != "cyclocross" {
		t.Errorf("groups[0].name = %v, want cyclocross", first["name"])
	}
	if first["display"] != "Cyclocross" {
		t.Errorf("groups[0].display = %v, want Cyclocross", first["display"])
	}
	cxEvents := first["events"].([]interface{})
	if len(cxEvents) != 1 {
		t.Errorf("cyclocross group has %d events, want 1", len(cxEvents))
	}
	// criterium rolls up under road.
	road := groups[1].(map[string]interface{})
	roadEvents := road["events"].([]interface{})
	if len(roadEvents) != 1 {
		t.Errorf("road group has %d events, want 1", len(roadEvents))
	}
}

func TestPeopleSearchRejectsShortString(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	for _, raw := range []string{"", "ab"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/people?name="+raw, nil)
		w := httptest.NewRecorder()
		h.PeopleSearch(w, req)

		assertStatusCode(t, w.Code, http.StatusBadRequest)
		response := decodeAPIResponse(t, w)
		if response.Error == nil || response.Error.Message != "Search string too short" {
			t.Errorf("name=%q: error = %+v, want Search string too short", raw, response.Error)
		}
	}
}

func TestPeopleSearchFindsRiders(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t)
	seedPerson(t, db, 1, "anna", "svensson")
	seedPerson(t, db, 2, "bo", "svensson")
	seedPerson(t, db, 3, "carl", "jones")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/people?name=svensson", nil)
	w := httptest.NewRecorder()
	h.PeopleSearch(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	people, ok := response.Data.([]interface{})
	if !ok {
		t.Fatalf("data is %T, want array", response.Data)
	}
	if len(people) != 2 {
		t.Errorf("len(people) = %d, want 2", len(people))
	}
}

func TestDisciplines(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/disciplines", nil)
	w := httptest.NewRecorder()
	h.Disciplines(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	rows, ok := response.Data.([]interface{})
	if !ok {
		t.Fatalf("data is %T, want array", response.Data)
	}
	if len(rows) != len(models.UpgradeDisciplines) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(models.UpgradeDisciplines))
	}
	mtb := rows[2].(map[string]interface{})
	if mtb["name"] != "mountain_bike" {
		t.Errorf("rows[2].name = %v, want mountain_bike", mtb["name"])
	}
	// Display names keep only the first word of the tag.
	if mtb["display"] != "Mountain" {
		t.Errorf("rows[2].display = %v, want Mountain", mtb["display"])
	}
	members := mtb["event_disciplines"].([]interface{})
	if len(members) != 4 {
		t.Errorf("mountain_bike has %d event disciplines, want 4", len(members))
	}
}

func TestUpgradesPendingRejectsUnknownDiscipline(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	for _, d := range []string{"", "criterium", "curling"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/upgrades/pending?discipline="+d, nil)
		w := httptest.NewRecorder()
		h.UpgradesPending(w, req)

		assertStatusCode(t, w.Code, http.StatusBadRequest)
		assertErrorCode(t, w, "VALIDATION_ERROR")
	}
}

func TestUpgradesPendingEmptyListIsSuccess(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/upgrades/pending?discipline=cyclocross", nil)
	w := httptest.NewRecorder()
	h.UpgradesPending(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	rows, ok := response.Data.([]interface{})
	if !ok {
		t.Fatalf("data is %T, want array", response.Data)
	}
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}

func TestUpgradesPendingListsConfirmedRider(t *testing.T) {
	t.Parallel()

	h, db := newTestHandler(t)
	ctx := context.Background()
	seedEvent(t, db, 1, "Cross Crusade #1", "cyclocross", 2025, nil)
	seedRace(t, db, 10, 1, "Men 2/3", 8, models.IntList{2, 3}, 30)
	seedPerson(t, db, 7, "greta", "larsson")
	seedResult(t, db, 100, 10, 7, "1")
	seedPoints(t, db, &models.Points{
		ResultID:      100,
		Value:         7,
		NeedsUpgrade:  true,
		SumValue:      23,
		SumCategories: models.IntList{2},
	})
	snap := models.NewMemberSnapshot(7, models.NewDate(2025, time.March, 15))
	if err := db.InsertSnapshot(ctx, db.Conn(), snap); err != nil {
		t.Fatalf("InsertSnapshot() error = %v", err)
	}
	if err := db.UpsertPendingUpgrade(ctx, db.Conn(), &models.PendingUpgrade{
		ResultID:       100,
		ConfirmationID: snap.ID,
		Discipline:     "cyclocross",
	}); err != nil {
		t.Fatalf("UpsertPendingUpgrade() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/upgrades/pending?discipline=cyclocross", nil)
	w := httptest.NewRecorder()
	h.UpgradesPending(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	rows := response.Data.([]interface{})
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	row := rows[0].(map[string]interface{})
	person := row["person"].(map[string]interface{})
	if person["name"] != "Greta Larsson" {
		t.Errorf("person.name = %v, want Greta Larsson", person["name"])
	}
	if row["display"] != "Cyclocross" {
		t.Errorf("display = %v, want Cyclocross", row["display"])
	}
	if row["sum_value"].(float64) != 23 {
		t.Errorf("sum_value = %v, want 23", row["sum_value"])
	}
}

func TestUpgradesReportValidation(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/upgrades/report?discipline=curling", nil)
	w := httptest.NewRecorder()
	h.UpgradesReport(w, req)
	assertStatusCode(t, w.Code, http.StatusBadRequest)
	assertErrorCode(t, w, "VALIDATION_ERROR")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/upgrades/report?discipline=road&format=pdf", nil)
	w = httptest.NewRecorder()
	h.UpgradesReport(w, req)
	assertStatusCode(t, w.Code, http.StatusBadRequest)
	assertErrorCode(t, w, "VALIDATION_ERROR")
}

func TestUpgradesReportRendersText(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/upgrades/report?discipline=road", nil)
	w := httptest.NewRecorder()
	h.UpgradesReport(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if w.Header().Get("ETag") == "" {
		t.Error("ETag header missing")
	}
}

func TestUpgradesReportRendersHTML(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/upgrades/report?discipline=cyclocross&format=html", nil)
	w := httptest.NewRecorder()
	h.UpgradesReport(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(w.Body.String(), "<html") {
		t.Error("HTML report missing <html> tag")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	data := response.Data.(map[string]interface{})
	if data["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", data["status"])
	}
	if data["database_connected"] != true {
		t.Error("database_connected = false, want true")
	}
	if data["scraping_enabled"] != false {
		t.Error("scraping_enabled = true, want false")
	}
	if _, ok := data["last_full_run"]; ok {
		t.Error("last_full_run should be omitted before the first pass")
	}
}

func TestHealthDegradedWithoutDB(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil, nil, nil, testConfig(), nil, nil, newTestCache(t))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	assertStatusCode(t, w.Code, http.StatusOK)
	response := decodeAPIResponse(t, w)
	data := response.Data.(map[string]interface{})
	if data["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", data["status"])
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := httptest.NewRecorder()
	h.HealthReady(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assertStatusCode(t, w.Code, http.StatusOK)

	noDB := NewHandler(nil, nil, nil, testConfig(), nil, nil, newTestCache(t))
	w = httptest.NewRecorder()
	noDB.HealthReady(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assertStatusCode(t, w.Code, http.StatusServiceUnavailable)
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil, nil, nil, nil, nil, nil, nil)
	w := httptest.NewRecorder()
	h.HealthLive(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assertStatusCode(t, w.Code, http.StatusOK)
}

func TestRequireMethodRejectsWrongVerb(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/recent", nil)
	w := httptest.NewRecorder()
	h.EventsRecent(w, req)

	assertStatusCode(t, w.Code, http.StatusMethodNotAllowed)
	assertErrorCode(t, w, "METHOD_NOT_ALLOWED")
}

func TestRequireDBAnswers503(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil, nil, nil, testConfig(), nil, nil, newTestCache(t))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/recent", nil)
	w := httptest.NewRecorder()
	h.EventsRecent(w, req)

	assertStatusCode(t, w.Code, http.StatusServiceUnavailable)
	assertErrorCode(t, w, "SERVICE_ERROR")
}

func TestCheckWebSocketOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		corsOrigins   []string
		requestOrigin string
		want          bool
	}{
		{
			name:          "no origin header - non-browser client allowed",
			corsOrigins:   []string{"http://localhost:8080"},
			requestOrigin: "",
			want:          true,
		},
		{
			name:          "wildcard origin - allow any",
			corsOrigins:   []string{"*"},
			requestOrigin: "http://example.com",
			want:          true,
		},
		{
			name:          "exact match - allow",
			corsOrigins:   []string{"http://localhost:8080"},
			requestOrigin: "http://localhost:8080",
			want:          true,
		},
		{
			name:          "origin not in list - reject",
			corsOrigins:   []string{"http://localhost:8080"},
			requestOrigin: "http://evil.com",
			want:          false,
		},
		{
			name:          "different port - reject",
			corsOrigins:   []string{"http://localhost:8080"},
			requestOrigin: "http://localhost:9090",
			want:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &Handler{
				config: &config.Config{
					Security: config.SecurityConfig{CORSOrigins: tt.corsOrigins},
				},
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
			if tt.requestOrigin != "" {
				req.Header.Set("Origin", tt.requestOrigin)
			}

			if got := handler.checkWebSocketOrigin(req); got != tt.want {
				t.Errorf("checkWebSocketOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetUpgrader(t *testing.T) {
	t.Parallel()

	handler := &Handler{config: testConfig()}
	upgrader := handler.getUpgrader()

	if upgrader.ReadBufferSize != 1024 {
		t.Errorf("ReadBufferSize = %d, want 1024", upgrader.ReadBufferSize)
	}
	if upgrader.WriteBufferSize != 1024 {
		t.Errorf("WriteBufferSize = %d, want 1024", upgrader.WriteBufferSize)
	}
	if upgrader.CheckOrigin == nil {
		t.Error("CheckOrigin function should be set")
	}
}

func TestWebSocketWithoutHub(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil, nil, nil, testConfig(), nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
	w := httptest.NewRecorder()
	h.WebSocket(w, req)

	assertStatusCode(t, w.Code, http.StatusServiceUnavailable)
}

func TestOnRunCompletedClearsCacheAndBroadcasts(t *testing.T) {
	t.Parallel()

	store := newTestCache(t)
	store.Set(cacheNamespace, "stale", []byte(`{}`))

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = hub.RunWithContext(ctx)
	}()

	h := NewHandler(nil, nil, nil, testConfig(), nil, hub, store)
	h.OnRunCompleted("cyclocross", 42, 1500*time.Millisecond)

	if _, found := store.Get(cacheNamespace, "stale"); found {
		t.Error("cache should be cleared after a run completes")
	}
}

func TestClearCacheDropsOnlyAPINamespace(t *testing.T) {
	t.Parallel()

	store := newTestCache(t)
	store.Set(cacheNamespace, "a", []byte(`1`))
	store.Set("other", "b", []byte(`2`))

	h := &Handler{cache: store}
	h.ClearCache()

	if _, found := store.Get(cacheNamespace, "a"); found {
		t.Error("api namespace should be cleared")
	}
	if _, found := store.Get("other", "b"); !found {
		t.Error("other namespaces should survive")
	}
}

func TestGenerateETagStable(t *testing.T) {
	t.Parallel()

	a := generateETag([]byte("payload"))
	b := generateETag([]byte("payload"))
	c := generateETag([]byte("different"))
	if a != b {
		t.Errorf("same payload produced different tags: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different payloads produced the same tag")
	}
	if generateETag(nil) == "" {
		t.Error("empty payload should still produce a tag")
	}
}

func TestGetIntParam(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?limit=15&bad=x", nil)
	if got := getIntParam(req, "limit", 6); got != 15 {
		t.Errorf("getIntParam(limit) = %d, want 15", got)
	}
	if got := getIntParam(req, "bad", 6); got != 6 {
		t.Errorf("getIntParam(bad) = %d, want default 6", got)
	}
	if got := getIntParam(req, "missing", 6); got != 6 {
		t.Errorf("getIntParam(missing) = %d, want default 6", got)
	}
}

func TestGetBoolParam(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?a=true&b=0&c=x", nil)
	if !getBoolParam(req, "a", false) {
		t.Error("getBoolParam(a) = false, want true")
	}
	if getBoolParam(req, "b", true) {
		t.Error("getBoolParam(b) = true, want false")
	}
	if !getBoolParam(req, "c", true) {
		t.Error("getBoolParam(c) should fall back to default true")
	}
}
