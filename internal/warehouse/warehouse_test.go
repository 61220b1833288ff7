package warehouse

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdapterUnknownType(t *testing.T) {
	_, err := NewAdapter(Config{Type: "oracle"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown adapter type "oracle"`)
	assert.Contains(t, err.Error(), "Available adapters:")
}

func TestListAdapters(t *testing.T) {
	names := ListAdapters()
	assert.Contains(t, names, "duckdb")
	assert.Contains(t, names, "postgres")
}

func TestPlaceholders(t *testing.T) {
	duck := &DuckDBAdapter{}
	pg := &PostgresAdapter{}

	assert.Equal(t, "?", duck.Placeholder(1))
	assert.Equal(t, "?", duck.Placeholder(3))
	assert.Equal(t, "$1", pg.Placeholder(1))
	assert.Equal(t, "$3", pg.Placeholder(3))
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"pbp"`, quoteIdentifier("pbp"))
	assert.Equal(t, `"we""ird"`, quoteIdentifier(`we"ird`))
}

func TestWarehouseDefaultsToDuckDB(t *testing.T) {
	w := New(Config{}, nil)
	assert.Equal(t, "duckdb", w.cfg.Type)
}

func TestWarehouseLazyConnect(t *testing.T) {
	ctx := context.Background()
	w := newMemoryWarehouse(t)

	require.NoError(t, w.EnsureConnected(ctx))
	require.NoError(t, w.EnsureConnected(ctx)) // idempotent

	adapter, err := w.Adapter(ctx)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", adapter.DialectName())

	var n int
	require.NoError(t, adapter.QueryRow(ctx, "SELECT 41 + 1").Scan(&n))
	assert.Equal(t, 42, n)
}

func TestHasPlaysBeforeIngest(t *testing.T) {
	w := newMemoryWarehouse(t)
	assert.False(t, w.HasPlays(context.Background()))
}

func newMemoryWarehouse(t *testing.T) *Warehouse {
	t.Helper()
	w := New(Config{
		Type: "duckdb",
		Path: filepath.Join(t.TempDir(), "test.duckdb"),
	}, slog.New(slog.DiscardHandler))
	t.Cleanup(func() { _ = w.Close() })
	return w
}
