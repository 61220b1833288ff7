// Package commands implements the gridstats subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gridiron-labs/gridstats/internal/cli/config"
	"github.com/gridiron-labs/gridstats/internal/cli/output"
	"github.com/gridiron-labs/gridstats/internal/loader"
	"github.com/gridiron-labs/gridstats/internal/metrics"
	"github.com/gridiron-labs/gridstats/internal/nflverse"
	"github.com/gridiron-labs/gridstats/internal/state"
	"github.com/gridiron-labs/gridstats/internal/stats"
	"github.com/gridiron-labs/gridstats/internal/warehouse"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Renderer  *output.Renderer
	Warehouse *warehouse.Warehouse
	Store     state.Store
	Stats     *stats.Service
	Metrics   *metrics.Metrics
}

// NewCommandContext creates a CommandContext with the warehouse and state
// store opened. Returns the context and a cleanup function that must be
// called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutStores(cmd)

	if err := ensureStateDir(cmdCtx.Cfg.StatePath); err != nil {
		return nil, nil, err
	}

	store := state.NewSQLiteStore(cmdCtx.Logger)
	if err := store.Open(cmdCtx.Cfg.StatePath); err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	wh := warehouse.New(cmdCtx.Cfg.GetWarehouseConfig(), cmdCtx.Logger)

	cleanup := func() {
		_ = wh.Close()
		_ = store.Close()
	}

	cmdCtx.Store = store
	cmdCtx.Warehouse = wh
	cmdCtx.Metrics = metrics.New()
	cmdCtx.Stats = stats.New(wh, cmdCtx.Metrics, cmdCtx.Logger)

	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutStores creates a CommandContext with only config,
// logger and renderer. Useful for commands that don't touch a database.
func NewCommandContextWithoutStores(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewLoader builds a loader wired to the command's warehouse, state store
// and metrics.
func (c *CommandContext) NewLoader() *loader.Loader {
	nv := c.Cfg.GetNFLVerseConfig()
	client := nflverse.NewClient(nflverse.Config{
		BaseURL:     nv.BaseURL,
		CacheDir:    c.Cfg.DataDir,
		MaxAttempts: nv.MaxAttempts,
		Backoff:     nv.BackoffDuration(),
		Concurrency: nv.Concurrency,
		Logger:      c.Logger,
	})
	return loader.New(client, c.Warehouse, c.Store, c.Metrics, c.Logger)
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		DataDir:      getEnvOrDefault("GRIDSTATS_DATA_DIR", config.DefaultDataDir),
		StatePath:    getEnvOrDefault("GRIDSTATS_STATE_PATH", config.DefaultStateFile),
		Verbose:      os.Getenv("GRIDSTATS_VERBOSE") == "true",
		OutputFormat: getEnvOrDefault("GRIDSTATS_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func ensureStateDir(statePath string) error {
	stateDir := filepath.Dir(statePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	return nil
}
