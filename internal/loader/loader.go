// Package loader orchestrates a dataset load: download from nflverse,
// ingest into the warehouse, and record the outcome in the state store.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridiron-labs/gridstats/internal/metrics"
	"github.com/gridiron-labs/gridstats/internal/nflverse"
	"github.com/gridiron-labs/gridstats/internal/state"
	"github.com/gridiron-labs/gridstats/internal/warehouse"
)

// Loader runs dataset loads end to end.
type Loader struct {
	client  *nflverse.Client
	wh      *warehouse.Warehouse
	store   state.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Result summarizes one completed season load.
type Result struct {
	Dataset  nflverse.Dataset `json:"dataset"`
	Season   int              `json:"season"`
	Rows     int64            `json:"rows"`
	Path     string           `json:"path"`
	Duration time.Duration    `json:"duration"`
}

// New constructs a loader. The metrics recorder may be nil; if logger is
// nil, a discard logger is used.
func New(client *nflverse.Client, wh *warehouse.Warehouse, store state.Store, m *metrics.Metrics, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{client: client, wh: wh, store: store, metrics: m, logger: logger}
}

// LoadSeason downloads and ingests one season of a dataset. The state
// store gets a running record up front and the final status afterwards,
// so a crash mid-load still leaves a trace.
func (l *Loader) LoadSeason(ctx context.Context, dataset nflverse.Dataset, season int, refresh bool) (*Result, error) {
	start := time.Now()

	source, err := l.client.SourceURL(dataset, season)
	if err != nil {
		return nil, err
	}
	rec, err := l.store.StartLoad(string(dataset), season, source)
	if err != nil {
		return nil, fmt.Errorf("failed to record load start: %w", err)
	}

	path, err := l.client.Fetch(ctx, dataset, season, refresh)
	l.metrics.RecordDownload(string(dataset), err)
	if err != nil {
		l.fail(rec.ID, err)
		return nil, err
	}

	var rows int64
	switch dataset {
	case nflverse.DatasetPlays:
		rows, err = l.wh.IngestPlays(ctx, season, path)
	case nflverse.DatasetRosters:
		rows, err = l.wh.IngestRosters(ctx, season, path)
	default:
		err = fmt.Errorf("unknown dataset %q", dataset)
	}
	if err != nil {
		l.fail(rec.ID, err)
		return nil, err
	}

	if err := l.store.CompleteLoad(rec.ID, rows); err != nil {
		return nil, fmt.Errorf("failed to record load completion: %w", err)
	}

	elapsed := time.Since(start)
	l.metrics.RecordLoad(string(dataset), season, rows, elapsed)
	l.logger.Info("season loaded",
		"dataset", dataset, "season", season, "rows", rows, "duration", elapsed)

	return &Result{Dataset: dataset, Season: season, Rows: rows, Path: path, Duration: elapsed}, nil
}

// LoadSeasons loads several seasons of a dataset. Downloads run
// concurrently up front; ingest is sequential because the warehouse
// serializes writes anyway. The first failure stops the run.
func (l *Loader) LoadSeasons(ctx context.Context, dataset nflverse.Dataset, seasons []int, refresh bool) ([]Result, error) {
	if _, err := l.client.FetchSeasons(ctx, dataset, seasons, refresh); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(seasons))
	for _, season := range seasons {
		// Downloads above warmed the cache, so this is ingest-only.
		res, err := l.LoadSeason(ctx, dataset, season, false)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

func (l *Loader) fail(id string, cause error) {
	if err := l.store.FailLoad(id, cause.Error()); err != nil {
		l.logger.Warn("failed to record load failure", "id", id, "error", err)
	}
}
