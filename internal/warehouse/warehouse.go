package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Warehouse owns the analytical database connection. The adapter is
// connected lazily so commands that never touch the database don't pay
// for (or fail on) a connection.
type Warehouse struct {
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	adapter   Adapter
	connected bool
}

// New creates a Warehouse with lazy connection.
// If logger is nil, a discard logger is used.
func New(cfg Config, logger *slog.Logger) *Warehouse {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Type == "" {
		cfg.Type = "duckdb"
	}
	return &Warehouse{
		cfg:    cfg,
		logger: logger,
	}
}

// EnsureConnected lazily connects the underlying adapter.
func (w *Warehouse) EnsureConnected(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.connected {
		return nil
	}

	w.logger.Debug("connecting warehouse", "adapter_type", w.cfg.Type)

	adapter, err := NewAdapter(w.cfg, w.logger)
	if err != nil {
		return fmt.Errorf("failed to create warehouse adapter: %w", err)
	}
	if err := adapter.Connect(ctx, w.cfg); err != nil {
		return fmt.Errorf("failed to connect warehouse: %w", err)
	}

	w.adapter = adapter
	w.connected = true
	return nil
}

// Adapter returns the underlying adapter, connecting it if necessary.
func (w *Warehouse) Adapter(ctx context.Context) (Adapter, error) {
	if err := w.EnsureConnected(ctx); err != nil {
		return nil, err
	}
	return w.adapter, nil
}

// DialectName returns the configured dialect without forcing a connection.
func (w *Warehouse) DialectName() string {
	return w.cfg.Type
}

// Query runs a statement against the warehouse.
func (w *Warehouse) Query(ctx context.Context, sqlStr string, args ...any) (*Rows, error) {
	adapter, err := w.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	return adapter.Query(ctx, sqlStr, args...)
}

// Exec runs a statement that returns no rows.
func (w *Warehouse) Exec(ctx context.Context, sqlStr string, args ...any) error {
	adapter, err := w.Adapter(ctx)
	if err != nil {
		return err
	}
	return adapter.Exec(ctx, sqlStr, args...)
}

// HasPlays reports whether the pbp table exists and holds at least one row.
// Used by the readiness endpoint.
func (w *Warehouse) HasPlays(ctx context.Context) bool {
	adapter, err := w.Adapter(ctx)
	if err != nil {
		return false
	}
	var n int64
	if err := adapter.QueryRow(ctx, "SELECT COUNT(*) FROM pbp").Scan(&n); err != nil {
		return false
	}
	return n > 0
}

// Close releases the adapter connection.
func (w *Warehouse) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.adapter != nil {
		err := w.adapter.Close()
		w.adapter = nil
		w.connected = false
		return err
	}
	return nil
}
