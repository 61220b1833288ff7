package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gridiron-labs/gridstats/internal/cli/config"
	"github.com/gridiron-labs/gridstats/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initConfig is the YAML shape written by gridstats init. It mirrors the
// koanf keys in config.Config.
type initConfig struct {
	DataDir   string `yaml:"data_dir"`
	StatePath string `yaml:"state_path"`
	Output    string `yaml:"output"`
	Warehouse struct {
		Type string `yaml:"type"`
		Path string `yaml:"path"`
	} `yaml:"warehouse"`
	Server struct {
		Port  int  `yaml:"port"`
		Watch bool `yaml:"watch"`
	} `yaml:"server"`
	NFLVerse struct {
		MaxAttempts int    `yaml:"max_attempts"`
		Backoff     string `yaml:"backoff"`
	} `yaml:"nflverse"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new gridstats project",
		Long: `Initialize a gridstats project with a default configuration.

This creates:
  - gridstats.yaml configuration file
  - data/ directory for cached nflverse CSVs
  - .gridstats/ directory for the warehouse and load ledger`,
		Example: `  # Initialize in current directory
  gridstats init

  # Initialize in a new directory
  gridstats init nfl-analytics

  # Force overwrite existing config
  gridstats init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// Create renderer
			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "gridstats.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("gridstats.yaml already exists. Use --force to overwrite")
	}

	var ic initConfig
	ic.DataDir = config.DefaultDataDir
	ic.StatePath = config.DefaultStateFile
	ic.Output = config.DefaultOutput
	ic.Warehouse.Type = config.DefaultWarehouseType
	ic.Warehouse.Path = config.DefaultWarehousePath
	ic.Server.Port = config.DefaultServerPort
	ic.NFLVerse.MaxAttempts = config.DefaultMaxAttempts
	ic.NFLVerse.Backoff = config.DefaultBackoff.String()

	data, err := yaml.Marshal(&ic)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	r.StatusLine("gridstats.yaml", "success", "")

	for _, sub := range []string{config.DefaultDataDir, ".gridstats"} {
		path := filepath.Join(dir, sub)
		if err := os.MkdirAll(path, 0750); err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		r.StatusLine(sub+"/", "success", "")
	}

	r.Println("")
	r.Success("gridstats project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  gridstats load --season 2023    Download and ingest a season")
	r.Println("  gridstats stats qb --season 2023   Quarterback statistics")
	r.Println("  gridstats serve                 Start the HTTP API")

	return nil
}
