package loader

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-labs/gridstats/internal/metrics"
	"github.com/gridiron-labs/gridstats/internal/nflverse"
	"github.com/gridiron-labs/gridstats/internal/state"
	"github.com/gridiron-labs/gridstats/internal/testutil"
	"github.com/gridiron-labs/gridstats/internal/warehouse"
)

const playsCSV = "season,week,season_type,play_type,posteam,defteam,passer," +
	"receiver_player_name,receiver_player_id,rusher_player_name,rusher_player_id," +
	"complete_pass,pass_touchdown,rush_touchdown,interception,success," +
	"passing_yards,receiving_yards,rushing_yards,epa\n" +
	"2023,1,REG,pass,KC,DET,P.Mahomes,T.Kelce,00-0030506,NA,NA,1,0,0,0,1,12,12,0,0.8\n" +
	"2023,1,REG,run,KC,DET,NA,NA,NA,I.Pacheco,00-0037197,0,0,0,0,0,0,0,3,-0.2\n"

func newTestLoader(t *testing.T, handler http.Handler) (*Loader, state.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	client := nflverse.NewClient(nflverse.Config{
		BaseURL:     srv.URL,
		CacheDir:    filepath.Join(dir, "cache"),
		MaxAttempts: 1,
	})
	wh := warehouse.New(warehouse.Config{
		Type: "duckdb",
		Path: filepath.Join(dir, "loader_test.duckdb"),
	}, testutil.NewTestLogger(t))
	t.Cleanup(func() { _ = wh.Close() })

	store := state.NewSQLiteStore(nil)
	require.NoError(t, store.Open(filepath.Join(dir, "state.db")))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	return New(client, wh, store, metrics.New(), nil), store
}

func gzipped(t *testing.T, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestLoadSeason(t *testing.T) {
	l, store := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(gzipped(t, playsCSV))
	}))

	res, err := l.LoadSeason(context.Background(), nflverse.DatasetPlays, 2023, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Rows)

	latest, err := store.LatestLoad("plays", 2023)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, state.LoadStatusCompleted, latest.Status)
	assert.Equal(t, int64(2), latest.RowCount)
	assert.Contains(t, latest.SourcePath, "/pbp/play_by_play_2023.csv.gz")
}

func TestLoadSeasonRecordsFailure(t *testing.T) {
	l, store := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := l.LoadSeason(context.Background(), nflverse.DatasetPlays, 2023, false)
	require.Error(t, err)

	latest, err := store.LatestLoad("plays", 2023)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, state.LoadStatusFailed, latest.Status)
	assert.Contains(t, latest.Error, "unexpected status 404")
}

func TestLoadSeasons(t *testing.T) {
	l, store := newTestLoader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(gzipped(t, playsCSV))
	}))

	// The fixture reports season 2023 in every file; each ingest filters
	// on its own season, so only 2023 keeps rows.
	results, err := l.LoadSeasons(context.Background(), nflverse.DatasetPlays, []int{2022, 2023}, false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(0), results[0].Rows)
	assert.Equal(t, int64(2), results[1].Rows)

	seasons, err := store.CompletedSeasons("plays")
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023}, seasons)
}
