// Package server provides the HTTP API for the analytics warehouse.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/gridiron-labs/gridstats/internal/metrics"
	"github.com/gridiron-labs/gridstats/internal/server/router"
	"github.com/gridiron-labs/gridstats/internal/state"
	"github.com/gridiron-labs/gridstats/internal/stats"
	"github.com/gridiron-labs/gridstats/internal/warehouse"
)

// Server is the API server.
type Server struct {
	stats    *stats.Service
	wh       *warehouse.Warehouse
	store    state.Store
	metrics  *metrics.Metrics
	port     int
	watch    bool
	watchDir string
	version  string
	logger   *slog.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Stats     *stats.Service
	Warehouse *warehouse.Warehouse
	Store     state.Store
	Metrics   *metrics.Metrics
	Port      int
	Watch     bool
	WatchDir  string
	Version   string
	Logger    *slog.Logger
}

// NewServer creates a new API server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		stats:    cfg.Stats,
		wh:       cfg.Warehouse,
		store:    cfg.Store,
		metrics:  cfg.Metrics,
		port:     cfg.Port,
		watch:    cfg.Watch,
		watchDir: cfg.WatchDir,
		version:  cfg.Version,
		logger:   logger,
	}
}

// Handler builds the full HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
		s.metrics.Middleware,
	)

	router.SetupRoutes(r, router.Deps{
		Stats:     s.stats,
		Warehouse: s.wh,
		Store:     s.store,
		Metrics:   s.metrics,
		Version:   s.version,
	})
	return r
}

// Serve starts the API server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting API server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.watchDir != "" {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

var (
	playsFileRe  = regexp.MustCompile(`^play_by_play_(\d{4})\.csv$`)
	rosterFileRe = regexp.MustCompile(`^roster_(\d{4})\.csv$`)
)

// watchFiles watches the data directory and re-ingests dataset CSVs that
// are dropped or rewritten while the server runs.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.watchDir); err != nil {
		s.logger.Error("failed to watch data directory", "dir", s.watchDir, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}
	s.logger.Info("watching data directory", "dir", s.watchDir)

	// Debounce per path: downloads arrive as bursts of writes.
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !playsFileRe.MatchString(name) && !rosterFileRe.MatchString(name) {
				continue
			}

			if timer, ok := timers[event.Name]; ok {
				timer.Stop()
			}
			path := event.Name
			timers[path] = time.AfterFunc(500*time.Millisecond, func() {
				s.ingestFile(ctx, path)
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// ingestFile loads one recognized CSV into the warehouse and records the
// load in the state store.
func (s *Server) ingestFile(ctx context.Context, path string) {
	name := filepath.Base(path)

	var (
		dataset string
		season  int
		ingest  func(context.Context, int, string) (int64, error)
	)
	switch {
	case playsFileRe.MatchString(name):
		dataset = "plays"
		season, _ = strconv.Atoi(playsFileRe.FindStringSubmatch(name)[1])
		ingest = s.wh.IngestPlays
	case rosterFileRe.MatchString(name):
		dataset = "rosters"
		season, _ = strconv.Atoi(rosterFileRe.FindStringSubmatch(name)[1])
		ingest = s.wh.IngestRosters
	default:
		return
	}

	s.logger.Info("data file changed, re-ingesting", "file", name, "season", season)

	rec, err := s.store.StartLoad(dataset, season, path)
	if err != nil {
		s.logger.Error("failed to record load", "error", err)
		return
	}

	start := time.Now()
	rows, err := ingest(ctx, season, path)
	if err != nil {
		s.logger.Error("re-ingest failed", "file", name, "error", err)
		if failErr := s.store.FailLoad(rec.ID, err.Error()); failErr != nil {
			s.logger.Warn("failed to record load failure", "error", failErr)
		}
		return
	}

	if err := s.store.CompleteLoad(rec.ID, rows); err != nil {
		s.logger.Warn("failed to record load completion", "error", err)
	}
	s.metrics.RecordLoad(dataset, season, rows, time.Since(start))
	s.logger.Info("re-ingest complete", "file", name, "rows", rows)
}
