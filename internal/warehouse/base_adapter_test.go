package warehouse

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests for the shared database/sql behavior that both adapters inherit,
// driven through a mocked connection so no real database is needed.

func newMockAdapter(t *testing.T) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &BaseSQLAdapter{DB: db}, mock
}

func TestBaseAdapterRequiresConnection(t *testing.T) {
	b := &BaseSQLAdapter{}
	ctx := context.Background()

	err := b.Exec(ctx, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not established")

	_, err = b.Query(ctx, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not established")

	assert.False(t, b.IsConnected())
}

func TestBaseAdapterExecWrapsError(t *testing.T) {
	b, mock := newMockAdapter(t)
	mock.ExpectExec("DELETE FROM pbp").WillReturnError(assert.AnError)

	err := b.Exec(context.Background(), "DELETE FROM pbp WHERE season = 1999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute SQL")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseAdapterQueryRowsThrough(t *testing.T) {
	b, mock := newMockAdapter(t)
	mock.ExpectQuery("SELECT season").WillReturnRows(
		sqlmock.NewRows([]string{"season"}).AddRow(2023).AddRow(2024),
	)

	rows, err := b.Query(context.Background(), "SELECT season FROM pbp")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var seasons []int
	for rows.Next() {
		var s int
		require.NoError(t, rows.Scan(&s))
		seasons = append(seasons, s)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int{2023, 2024}, seasons)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableMetadataNotFound(t *testing.T) {
	b, mock := newMockAdapter(t)
	mock.ExpectQuery("information_schema.columns").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}))

	_, err := b.tableMetadataCommon(context.Background(), "nope", func(int) string { return "?" })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableMetadataColumns(t *testing.T) {
	b, mock := newMockAdapter(t)
	mock.ExpectQuery("information_schema.columns").
		WithArgs("pbp").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
			AddRow("season", "INTEGER", "NO", 1).
			AddRow("epa", "DOUBLE", "YES", 2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "pbp"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(49665))

	meta, err := b.tableMetadataCommon(context.Background(), "pbp", func(int) string { return "?" })
	require.NoError(t, err)

	assert.Equal(t, "pbp", meta.Name)
	assert.Equal(t, int64(49665), meta.RowCount)
	require.Len(t, meta.Columns, 2)
	assert.Equal(t, "season", meta.Columns[0].Name)
	assert.False(t, meta.Columns[0].Nullable)
	assert.True(t, meta.Columns[1].Nullable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
