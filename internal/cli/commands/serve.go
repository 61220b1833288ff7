package commands

import (
	"os/signal"
	"syscall"

	"github.com/gridiron-labs/gridstats/internal/server"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(version string) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve quarterback and skill-position statistics over HTTP.

With --watch, the data directory is watched for new play-by-play or
roster CSVs and each one is ingested automatically, so dropping a file
into the cache updates the warehouse without a restart.`,
		Example: `  gridstats serve
  gridstats serve --port 8080 --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			srvCfg := cmdCtx.Cfg.GetServerConfig()
			port := srvCfg.Port
			if cmd.Flags().Changed("port") {
				port = opts.Port
			}
			watch := srvCfg.Watch
			if cmd.Flags().Changed("watch") {
				watch = opts.Watch
			}

			srv := server.NewServer(server.Config{
				Stats:     cmdCtx.Stats,
				Warehouse: cmdCtx.Warehouse,
				Store:     cmdCtx.Store,
				Metrics:   cmdCtx.Metrics,
				Port:      port,
				Watch:     watch,
				WatchDir:  cmdCtx.Cfg.DataDir,
				Version:   version,
				Logger:    cmdCtx.Logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cmdCtx.Logger.Info("starting API server", "port", port, "watch", watch)
			if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Port to listen on")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Watch the data directory and auto-ingest new CSVs")

	return cmd
}
