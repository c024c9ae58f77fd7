package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aristath/hermes/internal/events"
	"github.com/aristath/hermes/internal/modules/marketdata"
	"github.com/aristath/hermes/internal/modules/missions"
	"github.com/aristath/hermes/internal/modules/simulation"
	"github.com/aristath/hermes/internal/scheduler"
	testingpkg "github.com/aristath/hermes/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
	err  error
	runs int
}

func (j *stubJob) Run() error {
	j.runs++
	return j.err
}

func (j *stubJob) Name() string { return j.name }

type testServer struct {
	server  *Server
	manager *events.Manager
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zerolog.Nop()

	db, cleanup := testingpkg.NewTestDB(t, "cache")
	t.Cleanup(cleanup)

	bus := events.NewBus(logger)
	manager := events.NewManager(bus, logger)
	registry := simulation.NewRegistry(missions.DefaultCatalog(), testingpkg.NewMockScenarioLoader(), manager,
		simulation.SessionConfig{InitialCash: 10000, PlaybackInterval: time.Hour, ChartWindow: 100}, logger)
	t.Cleanup(registry.CloseAll)

	av := testingpkg.NewMockAlphaVantageClient()
	market := marketdata.NewService(av, testingpkg.NewMockNewsClient(), nil, marketdata.Config{MockFallback: true}, logger)

	s := New(Config{
		Log:           logger,
		Port:          0,
		DevMode:       true,
		Registry:      registry,
		EventBus:      bus,
		MarketData:    market,
		CacheDB:       db,
		RequestBudget: av,
	})
	s.systemHandlers.systemStats = func() (float64, float64) { return 12.5, 40 }

	return &testServer{server: s, manager: manager}
}

func (ts *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		w := ts.get(t, path)
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "hermes", body["service"])
	}
}

func TestSystemStatus(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.get(t, "/api/system/status")
	require.Equal(t, http.StatusOK, w.Code)

	var status SystemStatusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 12.5, status.CPUPercent)
	assert.Equal(t, 40.0, status.MemoryPercent)
	assert.Equal(t, 0, status.Sessions)
	assert.Greater(t, status.Goroutines, 0)
	require.NotNil(t, status.CacheDB)
	assert.Greater(t, status.CacheDB.PageCount, int64(0))
	require.NotNil(t, status.RequestsRemaining)
	assert.Equal(t, 25, *status.RequestsRemaining)
}

func TestJobs(t *testing.T) {
	ts := setupTestServer(t)
	ok := &stubJob{name: "session_eviction"}
	failing := &stubJob{name: "market_cache_cleanup", err: errors.New("disk full")}
	ts.server.SystemHandlers().RegisterJobs(ok, failing)

	w := ts.get(t, "/api/jobs")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Jobs []string `json:"jobs"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Equal(t, []string{"market_cache_cleanup", "session_eviction"}, list.Jobs)

	post := func(path string) int {
		req := httptest.NewRequest("POST", path, nil)
		rec := httptest.NewRecorder()
		ts.server.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post("/api/jobs/session_eviction"))
	assert.Equal(t, 1, ok.runs)
	assert.Equal(t, http.StatusInternalServerError, post("/api/jobs/market_cache_cleanup"))
	assert.Equal(t, http.StatusNotFound, post("/api/jobs/nope"))

	ts.server.SystemHandlers().UseScheduler(scheduler.New(zerolog.Nop()))
	assert.Equal(t, http.StatusOK, post("/api/jobs/session_eviction"))
	assert.Equal(t, 2, ok.runs)
	assert.Equal(t, http.StatusInternalServerError, post("/api/jobs/market_cache_cleanup"))
	assert.Equal(t, 2, failing.runs)
}

func TestRoutesMounted(t *testing.T) {
	ts := setupTestServer(t)

	assert.Equal(t, http.StatusOK, ts.get(t, "/api/missions").Code)
	assert.Equal(t, http.StatusOK, ts.get(t, "/api/market/SPY/quote").Code)
	assert.Equal(t, http.StatusNotFound, ts.get(t, "/api/sessions/unknown").Code)
	assert.Equal(t, http.StatusNotFound, ts.get(t, "/api/ledger/unknown/trades").Code)
}

func TestEventsStream_FiltersBySession(t *testing.T) {
	ts := setupTestServer(t)

	srv := httptest.NewServer(ts.server.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/api/events/stream?session=s1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readData := func() map[string]interface{} {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				var msg map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &msg))
				return msg
			}
		}
	}

	assert.Equal(t, "connected", readData()["type"])

	ts.manager.Emit(events.DayAdvanced, "simulation", map[string]interface{}{"session_id": "other"})
	ts.manager.Emit(events.DayAdvanced, "simulation", map[string]interface{}{"session_id": "s1", "date": "2020-01-02"})

	msg := readData()
	assert.Equal(t, string(events.DayAdvanced), msg["type"])
	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "s1", data["session_id"])
}

func TestUnlessStreaming(t *testing.T) {
	applied := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			applied = true
			next.ServeHTTP(w, r)
		})
	}
	h := unlessStreaming(mw)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/sessions/x/stream", nil))
	assert.False(t, applied)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/missions", nil))
	assert.True(t, applied)
}
