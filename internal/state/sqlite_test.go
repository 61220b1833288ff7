package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "state.db")))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Migrate())

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, int64(1))
}

func TestLoadLifecycle(t *testing.T) {
	store := newTestStore(t)

	load, err := store.StartLoad("plays", 2023, "/tmp/play_by_play_2023.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, load.ID)
	assert.Equal(t, LoadStatusRunning, load.Status)

	require.NoError(t, store.CompleteLoad(load.ID, 48210))

	got, err := store.GetLoad(load.ID)
	require.NoError(t, err)
	assert.Equal(t, LoadStatusCompleted, got.Status)
	assert.Equal(t, int64(48210), got.RowCount)
	require.NotNil(t, got.CompletedAt)
	assert.Empty(t, got.Error)
}

func TestFailLoad(t *testing.T) {
	store := newTestStore(t)

	load, err := store.StartLoad("plays", 2023, "")
	require.NoError(t, err)
	require.NoError(t, store.FailLoad(load.ID, "download timed out"))

	got, err := store.GetLoad(load.ID)
	require.NoError(t, err)
	assert.Equal(t, LoadStatusFailed, got.Status)
	assert.Equal(t, "download timed out", got.Error)
}

func TestGetLoadNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetLoad("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load not found")

	err = store.CompleteLoad("nope", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load not found")
}

func TestLatestLoad(t *testing.T) {
	store := newTestStore(t)

	got, err := store.LatestLoad("plays", 2023)
	require.NoError(t, err)
	assert.Nil(t, got, "no loads yet")

	first, err := store.StartLoad("plays", 2023, "")
	require.NoError(t, err)
	require.NoError(t, store.FailLoad(first.ID, "boom"))

	second, err := store.StartLoad("plays", 2023, "")
	require.NoError(t, err)
	require.NoError(t, store.CompleteLoad(second.ID, 10))

	got, err = store.LatestLoad("plays", 2023)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)
}

func TestListLoads(t *testing.T) {
	store := newTestStore(t)

	for season := 2020; season <= 2023; season++ {
		load, err := store.StartLoad("plays", season, "")
		require.NoError(t, err)
		require.NoError(t, store.CompleteLoad(load.ID, int64(season)))
	}

	loads, err := store.ListLoads(2)
	require.NoError(t, err)
	assert.Len(t, loads, 2)
}

func TestCompletedSeasons(t *testing.T) {
	store := newTestStore(t)

	ok2020, err := store.StartLoad("plays", 2020, "")
	require.NoError(t, err)
	require.NoError(t, store.CompleteLoad(ok2020.ID, 100))

	ok2021, err := store.StartLoad("plays", 2021, "")
	require.NoError(t, err)
	require.NoError(t, store.CompleteLoad(ok2021.ID, 100))

	// 2021's newest load failed, so it drops out.
	bad2021, err := store.StartLoad("plays", 2021, "")
	require.NoError(t, err)
	require.NoError(t, store.FailLoad(bad2021.ID, "boom"))

	// Different dataset does not leak in.
	roster, err := store.StartLoad("rosters", 2019, "")
	require.NoError(t, err)
	require.NoError(t, store.CompleteLoad(roster.ID, 100))

	seasons, err := store.CompletedSeasons("plays")
	require.NoError(t, err)
	assert.Equal(t, []int{2020}, seasons)
}
