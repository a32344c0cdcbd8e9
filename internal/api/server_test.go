package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupnotes/cupnotes-server/internal/domain"
	"github.com/cupnotes/cupnotes-server/internal/export"
	"github.com/cupnotes/cupnotes-server/internal/flavor"
	"github.com/cupnotes/cupnotes-server/internal/search"
	"github.com/cupnotes/cupnotes-server/internal/service"
	"github.com/cupnotes/cupnotes-server/internal/store/sqlite"
	"github.com/cupnotes/cupnotes-server/internal/validation"
)

// testEnvelope matches the success envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testErrorEnvelope matches the coded error envelope.
type testErrorEnvelope struct {
	V       int            `json:"v"`
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type testServer struct {
	*Server
	api       humatest.TestAPI
	exportDir string
}

func newTestServices(t *testing.T) (*Services, string) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	st, err := sqlite.Open(context.Background(), filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	catalog := flavor.Default()
	searchSvc := service.NewSearchService(index, st, logger)
	exportDir := filepath.Join(dir, "exports")

	return &Services{
		Sessions:  service.NewSessionService(st, searchSvc, catalog, validation.New(), logger),
		Analytics: service.NewAnalyticsService(st, catalog, logger),
		Search:    searchSvc,
		Export:    service.NewExportService(st, exportDir, logger),
		Catalog:   catalog,
		DB:        st,
		Index:     index,
	}, exportDir
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	services, exportDir := newTestServices(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(services, Options{Version: "test"}, logger)
	t.Cleanup(server.Close)

	return &testServer{
		Server:    server,
		api:       humatest.Wrap(t, server.API()),
		exportDir: exportDir,
	}
}

func decodeData[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	assert.Equal(t, EnvelopeVersion, env.V)
	assert.True(t, env.Success)
	return env.Data
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) testErrorEnvelope {
	t.Helper()
	var env testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	assert.Equal(t, EnvelopeVersion, env.V)
	assert.False(t, env.Success)
	return env
}

func (ts *testServer) createSession(t *testing.T, sessionType string) domain.Session {
	t.Helper()
	resp := ts.api.Post("/api/v1/sessions", map[string]any{"sessionType": sessionType})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeData[domain.Session](t, resp)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decodeData[HealthResponse](t, resp)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "healthy", health.Components["search"].Status)
}

func TestHealthCheck_NoSearchIndex(t *testing.T) {
	services, _ := newTestServices(t)
	services.Index = nil
	server := NewServer(services, Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(server.Close)
	api := humatest.Wrap(t, server.API())

	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decodeData[HealthResponse](t, resp)
	assert.Equal(t, "degraded", health.Status)
}

func TestSessionLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	created := ts.createSession(t, "table-cupping")
	require.Len(t, created.Coffees, 1)
	assert.Len(t, created.Coffees[0].Cups, 5)
	assert.Equal(t, domain.SessionTypeTableCupping, created.SessionType)

	resp := ts.api.Get("/api/v1/sessions/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	got := decodeData[domain.Session](t, resp)
	assert.Equal(t, created.ID, got.ID)

	coffeeID := created.Coffees[0].ID
	cupID := created.Coffees[0].Cups[0].ID
	resp = ts.api.Patch("/api/v1/sessions/"+created.ID, map[string]any{
		"mode":  "pro",
		"notes": "Morning calibration",
		"tags":  []string{"Kenya", " kenya ", "Washed Process"},
		"coffees": []map[string]any{{
			"id":         coffeeID,
			"name":       "Karogoto AA",
			"roastLevel": "light",
			"roastDate":  "2026-09-30",
			"cups":       []map[string]any{{"id": cupID, "notes": "juicy"}},
		}},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decodeData[domain.Session](t, resp)
	assert.Equal(t, "Morning calibration", updated.Notes)
	assert.Equal(t, []string{"kenya", "washed-process"}, updated.Tags)
	assert.Equal(t, "Karogoto AA", updated.Coffees[0].Name)
	require.NotNil(t, updated.Coffees[0].RoastLevel)
	assert.Equal(t, domain.RoastLevel("light"), *updated.Coffees[0].RoastLevel)
	assert.Equal(t, "juicy", updated.Coffees[0].Cups[0].Notes)

	resp = ts.api.Get("/api/v1/sessions/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, domain.SessionModePro, decodeData[domain.Session](t, resp).Mode)

	resp = ts.api.Post("/api/v1/sessions/" + created.ID + "/duplicate")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	dup := decodeData[domain.Session](t, resp)
	assert.NotEqual(t, created.ID, dup.ID)
	assert.Equal(t, "Karogoto AA", dup.Coffees[0].Name)

	resp = ts.api.Get("/api/v1/sessions?limit=1")
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeData[service.SessionPage](t, resp)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Sessions, 1)

	resp = ts.api.Delete("/api/v1/sessions/" + created.ID)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/sessions/" + created.ID)
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

func TestCreateSession_InvalidType(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/sessions", map[string]any{"sessionType": "espresso-flight"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestUpdateSession_UnknownCoffee(t *testing.T) {
	ts := setupTestServer(t)
	session := ts.createSession(t, "single-coffee")

	resp := ts.api.Patch("/api/v1/sessions/"+session.ID, map[string]any{
		"coffees": []map[string]any{{"id": "missing", "name": "Ghost"}},
	})
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

func TestUpdateSession_BadRoastDate(t *testing.T) {
	ts := setupTestServer(t)
	session := ts.createSession(t, "single-coffee")

	resp := ts.api.Patch("/api/v1/sessions/"+session.ID, map[string]any{
		"coffees": []map[string]any{{"id": session.Coffees[0].ID, "roastDate": "last tuesday"}},
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details, "roastDate")
}

func TestAddAndRemoveCoffee(t *testing.T) {
	ts := setupTestServer(t)
	session := ts.createSession(t, "multi-coffee")

	resp := ts.api.Post("/api/v1/sessions/"+session.ID+"/coffees", map[string]any{
		"name":   "Deborah Washed",
		"origin": "Ethiopia",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	coffee := decodeData[domain.CoffeeEntry](t, resp)
	assert.Equal(t, "Deborah Washed", coffee.Name)
	assert.NotEmpty(t, coffee.Cups)

	resp = ts.api.Delete("/api/v1/sessions/" + session.ID + "/coffees/" + coffee.ID)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Delete("/api/v1/sessions/" + session.ID + "/coffees/cof_missing")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)

	// The remaining coffee is the last one and must stay.
	resp = ts.api.Delete("/api/v1/sessions/" + session.ID + "/coffees/" + session.Coffees[0].ID)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestCupScores(t *testing.T) {
	ts := setupTestServer(t)
	session := ts.createSession(t, "single-coffee")
	cupID := session.Coffees[0].Cups[0].ID

	resp := ts.api.Patch("/api/v1/cups/"+cupID+"/scores", map[string]any{"acidity": 5, "sweetness": 4})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	cup := decodeData[domain.Cup](t, resp)
	require.NotNil(t, cup.Acidity)
	assert.Equal(t, 5, *cup.Acidity)
	require.NotNil(t, cup.Body)
	assert.Equal(t, 3, *cup.Body)
	assert.Nil(t, cup.Enjoyment)

	resp = ts.api.Patch("/api/v1/cups/"+cupID+"/scores", map[string]any{"finish": 7})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)

	resp = ts.api.Get("/api/v1/cups/" + cupID)
	require.Equal(t, http.StatusOK, resp.Code)
	cup = decodeData[domain.Cup](t, resp)
	require.NotNil(t, cup.Finish)
	assert.Equal(t, 3, *cup.Finish)

	resp = ts.api.Get("/api/v1/cups/missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCupFlavors(t *testing.T) {
	ts := setupTestServer(t)
	session := ts.createSession(t, "single-coffee")
	cupID := session.Coffees[0].Cups[0].ID

	resp := ts.api.Put("/api/v1/cups/"+cupID+"/flavors", map[string]any{
		"flavors": []map[string]any{{"flavorId": 999, "intensity": 3}},
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details, "flavors[0].flavorId")

	resp = ts.api.Put("/api/v1/cups/"+cupID+"/flavors", map[string]any{
		"flavors": []map[string]any{
			{"flavorId": 21, "intensity": 4, "dominant": true},
			{"flavorId": 29, "intensity": 2},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	cup := decodeData[domain.Cup](t, resp)
	assert.Equal(t, []int{21, 29}, cup.FlavorIDs())

	resp = ts.api.Get("/api/v1/analytics/flavors/top?limit=5")
	require.Equal(t, http.StatusOK, resp.Code)
	top := decodeData[[]domain.FlavorCount](t, resp)
	require.Len(t, top, 2)
	assert.Equal(t, 1, top[0].Count)

	resp = ts.api.Put("/api/v1/cups/"+cupID+"/flavors", map[string]any{"flavors": []map[string]any{}})
	require.Equal(t, http.StatusOK, resp.Code)
	cup = decodeData[domain.Cup](t, resp)
	assert.Empty(t, cup.Flavors)
}

func TestSearchEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	session := ts.createSession(t, "single-coffee")
	ts.createSession(t, "table-cupping")

	resp := ts.api.Patch("/api/v1/sessions/"+session.ID, map[string]any{
		"coffees": []map[string]any{{"id": session.Coffees[0].ID, "name": "Karogoto AA"}},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/search?q=karogoto")
	require.Equal(t, http.StatusOK, resp.Code)
	result := decodeData[search.SearchResult](t, resp)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, session.ID, result.Hits[0].SessionID)

	resp = ts.api.Get("/api/v1/search?type=table-cupping")
	require.Equal(t, http.StatusOK, resp.Code)
	result = decodeData[search.SearchResult](t, resp)
	assert.Equal(t, uint64(1), result.Total)

	resp = ts.api.Get("/api/v1/search?sort=alphabetical")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	session := ts.createSession(t, "multi-coffee")

	resp := ts.api.Post("/api/v1/sessions/"+session.ID+"/coffees", map[string]any{"name": "Second"})
	require.Equal(t, http.StatusCreated, resp.Code)
	second := decodeData[domain.CoffeeEntry](t, resp)

	for _, cup := range session.Coffees[0].Cups {
		resp = ts.api.Patch("/api/v1/cups/"+cup.ID+"/scores", map[string]any{
			"acidity": 5, "sweetness": 5, "body": 5, "clarity": 5, "finish": 5, "enjoyment": 5,
		})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp = ts.api.Get("/api/v1/sessions/" + session.ID + "/compare?coffee1=" + session.Coffees[0].ID + "&coffee2=" + second.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	cmp := decodeData[map[string]any](t, resp)
	delta, ok := cmp["scoreDelta"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 12.0, delta["total"], 0.001)

	resp = ts.api.Get("/api/v1/sessions/" + session.ID + "/uniformity")
	require.Equal(t, http.StatusOK, resp.Code)
	uniformity := decodeData[[]map[string]any](t, resp)
	assert.Len(t, uniformity, 2)

	resp = ts.api.Get("/api/v1/sessions/" + session.ID + "/stats")
	require.Equal(t, http.StatusOK, resp.Code)
	stats := decodeData[map[string]any](t, resp)
	assert.InDelta(t, 2.0, stats["coffeeCount"], 0.001)

	resp = ts.api.Get("/api/v1/sessions/" + session.ID + "/averages")
	require.Equal(t, http.StatusOK, resp.Code)
	averages := decodeData[[]domain.CoffeeAverages](t, resp)
	assert.Len(t, averages, 2)

	resp = ts.api.Get("/api/v1/sessions/" + session.ID + "/compare?coffee1=" + second.ID + "&coffee2=nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/sessions/missing/stats")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/analytics/flavors/frequency?session_id=missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestFlavorEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/flavors")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, CacheOneDay, resp.Header().Get("Cache-Control"))
	all := decodeData[[]flavor.Flavor](t, resp)
	assert.Len(t, all, 132)

	resp = ts.api.Get("/api/v1/flavors?category=FRUITY")
	require.Equal(t, http.StatusOK, resp.Code)
	fruity := decodeData[[]flavor.Flavor](t, resp)
	assert.Len(t, fruity, 20)

	resp = ts.api.Get("/api/v1/flavors?category=UMAMI")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)

	resp = ts.api.Get("/api/v1/flavors/categories")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeData[[]flavor.CategorySummary](t, resp), 10)

	resp = ts.api.Get("/api/v1/flavors/21")
	require.Equal(t, http.StatusOK, resp.Code)
	f := decodeData[flavor.Flavor](t, resp)
	assert.Equal(t, "Grapefruit", f.Name)
	assert.Equal(t, flavor.CategoryCitrus, f.Category)

	resp = ts.api.Get("/api/v1/flavors/999")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/flavors/999/related")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/flavors/search?q=JAMMY")
	require.Equal(t, http.StatusOK, resp.Code)
	hits := decodeData[[]flavor.Flavor](t, resp)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Blackberry", hits[0].Name)

	resp = ts.api.Get("/api/v1/flavors/layout")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeData[[]flavor.Position](t, resp), 132)

	resp = ts.api.Get("/api/v1/flavors/layout?count=12")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeData[[]flavor.Position](t, resp), 12)
}

func TestExportEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	ts.createSession(t, "single-coffee")
	ts.createSession(t, "table-cupping")

	resp := ts.api.Get("/api/v1/export")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, CacheNoStore, resp.Header().Get("Cache-Control"))

	var doc export.Document
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &doc))
	assert.Equal(t, export.FormatVersion, doc.Version)
	assert.Equal(t, 2, doc.TotalSessions)

	resp = ts.api.Post("/api/v1/export")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	res := decodeData[export.Result](t, resp)
	assert.Equal(t, ts.exportDir, filepath.Dir(res.Path))
	assert.Equal(t, 2, res.Sessions)
	assert.Len(t, res.Checksum, 64)
}

func TestRateLimit(t *testing.T) {
	services, _ := newTestServices(t)
	server := NewServer(services, Options{RateLimitRPS: 0.001, RateLimitBurst: 2},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(server.Close)

	statuses := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		statuses = append(statuses, w.Code)

		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
			env := decodeError(t, w)
			assert.Equal(t, "RATE_LIMITED", env.Code)
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestCORS(t *testing.T) {
	services, _ := newTestServices(t)
	server := NewServer(services, Options{CORSOrigins: []string{"http://localhost:5173"}},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(server.Close)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
