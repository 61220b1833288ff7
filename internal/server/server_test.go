package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-labs/gridstats/internal/metrics"
	"github.com/gridiron-labs/gridstats/internal/state"
	"github.com/gridiron-labs/gridstats/internal/stats"
	"github.com/gridiron-labs/gridstats/internal/warehouse"
)

const fixturePlays = "season,week,season_type,play_type,posteam,defteam,passer," +
	"receiver_player_name,receiver_player_id,rusher_player_name,rusher_player_id," +
	"complete_pass,pass_touchdown,rush_touchdown,interception,success," +
	"passing_yards,receiving_yards,rushing_yards,epa\n" +
	"2023,1,REG,pass,CIN,CLE,J.Burrow,J.Chase,00-0036900,NA,NA,1,1,0,0,1,25,25,0,2.0\n" +
	"2023,1,REG,pass,CIN,CLE,J.Burrow,J.Chase,00-0036900,NA,NA,1,0,0,0,1,10,10,0,0.5\n" +
	"2023,1,REG,pass,KC,LV,P.Mahomes,T.Kelce,00-0030506,NA,NA,1,0,0,0,1,5,5,0,0.2\n" +
	"2023,1,REG,run,CIN,CLE,NA,NA,NA,J.Mixon,00-0033897,0,0,0,0,1,0,0,4,0.1\n"

const fixtureRoster = "season,full_name,gsis_id,position\n" +
	"2023,J.Chase,00-0036900,WR\n" +
	"2023,T.Kelce,00-0030506,TE\n" +
	"2023,J.Mixon,00-0033897,RB\n"

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()

	wh := warehouse.New(warehouse.Config{
		Type: "duckdb",
		Path: filepath.Join(dir, "server_test.duckdb"),
	}, slog.New(slog.DiscardHandler))
	t.Cleanup(func() { _ = wh.Close() })

	playsPath := filepath.Join(dir, "pbp.csv")
	require.NoError(t, os.WriteFile(playsPath, []byte(fixturePlays), 0o644))
	rosterPath := filepath.Join(dir, "roster.csv")
	require.NoError(t, os.WriteFile(rosterPath, []byte(fixtureRoster), 0o644))

	ctx := t.Context()
	_, err := wh.IngestPlays(ctx, 2023, playsPath)
	require.NoError(t, err)
	_, err = wh.IngestRosters(ctx, 2023, rosterPath)
	require.NoError(t, err)

	store := state.NewSQLiteStore(nil)
	require.NoError(t, store.Open(filepath.Join(dir, "state.db")))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	load, err := store.StartLoad("plays", 2023, playsPath)
	require.NoError(t, err)
	require.NoError(t, store.CompleteLoad(load.ID, 4))

	m := metrics.New()
	srv := NewServer(Config{
		Stats:     stats.New(wh, m, nil),
		Warehouse: wh,
		Store:     store,
		Metrics:   m,
		Version:   "test",
	})
	return srv.Handler()
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/system/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "duckdb", body["warehouse"])
	assert.Equal(t, true, body["ready"])
	assert.Equal(t, "test", body["version"])
}

func TestReadyEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/system/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "ready", body["status"])
}

func TestQBSeasonsEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/qb/seasons?seasons=2023&min_attempts=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	decode(t, rec, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "J.Burrow", rows[0]["qb_name"])
	assert.EqualValues(t, 2, rows[0]["attempts"])
}

func TestQBSeasonsRejectsOutOfRangeSeason(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/qb/seasons?seasons=1998&min_attempts=1")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Contains(t, body["error"], "out of range")
}

func TestQBSeasonsRequiresSeasons(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/qb/seasons")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, handler, "/api/qb/seasons?seasons=banana")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQBCompareEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/qb/compare?season=2023&min_attempts=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	decode(t, rec, &rows)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 1, rows[0]["epa_rank"])

	rec = get(t, handler, "/api/qb/compare")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSkillSeasonsEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/skill/seasons?seasons=2023&positions=WR&min_touches=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	decode(t, rec, &rows)
	require.Len(t, rows, 2, "WR selection pulls in TEs too")
	assert.Equal(t, "J.Chase", rows[0]["player_name"])
}

func TestSkillSeasonsRejectsBadPosition(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/skill/seasons?seasons=2023&positions=K")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/catalog/teams")
	require.Equal(t, http.StatusOK, rec.Code)
	var teams map[string][]string
	decode(t, rec, &teams)
	assert.Equal(t, []string{"CIN", "CLE", "KC", "LV"}, teams["teams"])

	rec = get(t, handler, "/api/catalog/seasons")
	require.Equal(t, http.StatusOK, rec.Code)
	var seasons map[string][]int
	decode(t, rec, &seasons)
	assert.Equal(t, []int{2023}, seasons["seasons"])

	rec = get(t, handler, "/api/catalog/qbs?min_attempts=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var qbs map[string][]string
	decode(t, rec, &qbs)
	assert.Equal(t, []string{"J.Burrow", "P.Mahomes"}, qbs["qbs"])
}

func TestLoadsEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/system/loads")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Loads []map[string]any `json:"loads"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Loads, 1)
	assert.Equal(t, "plays", body.Loads[0]["dataset"])
	assert.Equal(t, "completed", body.Loads[0]["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	// Hit an API route first so the request counter has something to show.
	get(t, handler, "/api/system/health")

	rec := get(t, handler, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gridstats_http_requests_total")
}

func TestMetricsRecordQueryDuration(t *testing.T) {
	handler := newTestHandler(t)

	get(t, handler, "/api/qb/seasons?seasons=2023&min_attempts=1")

	rec := get(t, handler, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `gridstats_query_duration_seconds_count{query="qb_seasons"} 1`)
}

func TestMetricsUseRoutePattern(t *testing.T) {
	handler := newTestHandler(t)

	get(t, handler, "/api/qb/trends?name=J.Burrow&seasons=2023")
	get(t, handler, "/api/nope/12345")

	rec := get(t, handler, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `path="/api/qb/trends"`)
	assert.Contains(t, body, `path="unmatched"`)
	assert.NotContains(t, body, "12345")
}

func TestSeasonRangeParsing(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(t, handler, "/api/qb/seasons?seasons=2020-2023&min_attempts=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	decode(t, rec, &rows)
	assert.Len(t, rows, 2)
}
