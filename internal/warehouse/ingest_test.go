package warehouse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pbpHeader = "season,week,season_type,play_type,posteam,defteam,passer," +
	"receiver_player_name,receiver_player_id,rusher_player_name,rusher_player_id," +
	"complete_pass,pass_touchdown,rush_touchdown,interception,success," +
	"passing_yards,receiving_yards,rushing_yards,epa\n"

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestPlays(t *testing.T) {
	ctx := context.Background()
	w := newMemoryWarehouse(t)

	csv := pbpHeader +
		"2023,1.0,REG,pass,KC,DET,P.Mahomes,T.Kelce,00-0030506,NA,NA,1.0,0.0,0.0,0.0,1.0,12.0,12.0,0.0,0.84\n" +
		"2023,1.0,REG,run,KC,DET,NA,NA,NA,I.Pacheco,00-0037197,0.0,0.0,0.0,0.0,0.0,0.0,0.0,3.0,-0.21\n" +
		"2023,1.0,REG,no_play,KC,DET,NA,NA,NA,NA,NA,0.0,0.0,0.0,0.0,0.0,0.0,0.0,0.0,NA\n" +
		"2023,NA,POST,pass,KC,SF,P.Mahomes,NA,NA,NA,NA,0.0,0.0,0.0,1.0,0.0,0.0,0.0,0.0,NA\n"

	n, err := w.IngestPlays(ctx, 2023, writeFixture(t, "pbp.csv", csv))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n, "no_play rows are dropped")
	assert.True(t, w.HasPlays(ctx))

	adapter, err := w.Adapter(ctx)
	require.NoError(t, err)

	// NA markers become typed nulls and empty strings.
	var passer string
	var success bool
	var epa *float64
	row := adapter.QueryRow(ctx,
		"SELECT passer, success, epa FROM pbp WHERE play_type = 'pass' AND interception")
	require.NoError(t, row.Scan(&passer, &success, &epa))
	assert.Equal(t, "P.Mahomes", passer)
	assert.False(t, success)
	assert.Nil(t, epa, "missing epa stays null")

	var week *int
	require.NoError(t, adapter.QueryRow(ctx,
		"SELECT week FROM pbp WHERE season_type = 'POST'").Scan(&week))
	assert.Nil(t, week, "missing week stays null")

	// Staging table is cleaned up after ingest.
	var stagingCount int
	err = adapter.QueryRow(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'pbp_staging'").Scan(&stagingCount)
	require.NoError(t, err)
	assert.Equal(t, 0, stagingCount)
}

func TestIngestPlaysIdempotent(t *testing.T) {
	ctx := context.Background()
	w := newMemoryWarehouse(t)

	csv := pbpHeader +
		"2022,1.0,REG,pass,BUF,LA,J.Allen,S.Diggs,00-0033553,NA,NA,1.0,1.0,0.0,0.0,1.0,26.0,26.0,0.0,2.1\n"
	path := writeFixture(t, "pbp.csv", csv)

	n, err := w.IngestPlays(ctx, 2022, path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// A second run replaces the season instead of appending to it.
	n, err = w.IngestPlays(ctx, 2022, path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIngestPlaysReplacesOnlyOwnSeason(t *testing.T) {
	ctx := context.Background()
	w := newMemoryWarehouse(t)

	csv2021 := pbpHeader +
		"2021,3.0,REG,run,TEN,IND,NA,NA,NA,D.Henry,00-0032764,0.0,0.0,1.0,0.0,1.0,0.0,0.0,12.0,1.3\n"
	csv2022 := pbpHeader +
		"2022,1.0,REG,pass,BUF,LA,J.Allen,S.Diggs,00-0033553,1.0,NA,1.0,0.0,0.0,0.0,1.0,8.0,8.0,0.0,0.4\n"

	_, err := w.IngestPlays(ctx, 2021, writeFixture(t, "pbp_2021.csv", csv2021))
	require.NoError(t, err)
	_, err = w.IngestPlays(ctx, 2022, writeFixture(t, "pbp_2022.csv", csv2022))
	require.NoError(t, err)

	adapter, err := w.Adapter(ctx)
	require.NoError(t, err)
	var total int
	require.NoError(t, adapter.QueryRow(ctx, "SELECT COUNT(*) FROM pbp").Scan(&total))
	assert.Equal(t, 2, total)
}

func TestIngestRosters(t *testing.T) {
	ctx := context.Background()
	w := newMemoryWarehouse(t)

	csv := "season,full_name,gsis_id,position\n" +
		"2023,Travis Kelce,00-0030506,TE\n" +
		"2023,Isiah Pacheco,00-0037197,RB\n" +
		"2023,Mystery Player,00-0099999,NA\n"

	n, err := w.IngestRosters(ctx, 2023, writeFixture(t, "roster.csv", csv))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	adapter, err := w.Adapter(ctx)
	require.NoError(t, err)
	var position string
	err = adapter.QueryRow(ctx,
		"SELECT position FROM rosters WHERE player_id = '00-0099999'").Scan(&position)
	require.NoError(t, err)
	assert.Equal(t, "UNK", position, "missing position defaults to UNK")
}
