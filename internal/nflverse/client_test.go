package nflverse

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeason(t *testing.T) {
	tests := []struct {
		name    string
		season  int
		wantErr bool
	}{
		{name: "first published season", season: 1999},
		{name: "latest season", season: 2025},
		{name: "mid range", season: 2012},
		{name: "before coverage", season: 1998, wantErr: true},
		{name: "future season", season: 2026, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeason(tt.season)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatasetPaths(t *testing.T) {
	asset, err := DatasetPlays.assetPath(2023)
	require.NoError(t, err)
	assert.Equal(t, "pbp/play_by_play_2023.csv.gz", asset)

	asset, err = DatasetRosters.assetPath(2023)
	require.NoError(t, err)
	assert.Equal(t, "rosters/roster_2023.csv", asset)

	_, err = Dataset("injuries").assetPath(2023)
	assert.Error(t, err)
}

func gzipBytes(t *testing.T, content string) []byte {
	t.Helper()
	var buf []byte
	w := &appendWriter{buf: &buf}
	gz := gzip.NewWriter(w)
	_, err := gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf
}

type appendWriter struct{ buf *[]byte }

func (w *appendWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}

func TestFetchDecompressesPlays(t *testing.T) {
	const csv = "season,play_type\n2023,pass\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pbp/play_by_play_2023.csv.gz", r.URL.Path)
		_, _ = w.Write(gzipBytes(t, csv))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, CacheDir: t.TempDir()})

	path, err := client.Fetch(context.Background(), DatasetPlays, 2023, false)
	require.NoError(t, err)
	assert.Equal(t, "play_by_play_2023.csv", filepath.Base(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, csv, string(got))
}

func TestFetchUsesCacheUnlessRefresh(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("season,full_name\n2023,Travis Kelce\n"))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, CacheDir: t.TempDir()})
	ctx := context.Background()

	_, err := client.Fetch(ctx, DatasetRosters, 2023, false)
	require.NoError(t, err)
	_, err = client.Fetch(ctx, DatasetRosters, 2023, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load(), "second fetch served from cache")

	_, err = client.Fetch(ctx, DatasetRosters, 2023, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load(), "refresh bypasses the cache")
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("season,full_name\n2020,Derrick Henry\n"))
	}))
	defer srv.Close()

	client := NewClient(Config{
		BaseURL:     srv.URL,
		CacheDir:    t.TempDir(),
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
	})

	_, err := client.Fetch(context.Background(), DatasetRosters, 2020, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), hits.Load())
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(Config{
		BaseURL:     srv.URL,
		CacheDir:    t.TempDir(),
		MaxAttempts: 2,
		Backoff:     time.Millisecond,
	})

	_, err := client.Fetch(context.Background(), DatasetRosters, 2020, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestFetchRejectsSeasonOutOfRange(t *testing.T) {
	client := NewClient(Config{CacheDir: t.TempDir()})
	_, err := client.Fetch(context.Background(), DatasetPlays, 1950, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestFetchSeasons(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("season,full_name\n"))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, CacheDir: t.TempDir()})

	paths, err := client.FetchSeasons(context.Background(), DatasetRosters, []int{2021, 2022, 2023}, false)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, "roster_2022.csv", filepath.Base(paths[2022]))
}
