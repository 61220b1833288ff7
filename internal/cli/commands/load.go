package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gridiron-labs/gridstats/internal/nflverse"
	"github.com/spf13/cobra"
)

// timeRounding trims load durations for display.
const timeRounding = 10 * time.Millisecond

// LoadOptions holds options for the load command.
type LoadOptions struct {
	Seasons     []string
	Refresh     bool
	SkipRosters bool
}

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	opts := &LoadOptions{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Download and ingest nflverse data",
		Long: `Download play-by-play and roster CSVs from nflverse releases and
ingest them into the warehouse.

Each season is replaced atomically, so re-loading a season is safe.
Downloads are cached under the data directory and skipped when the
file already exists; use --refresh to force a re-download.`,
		Example: `  # Load a single season
  gridstats load --season 2023

  # Load several seasons
  gridstats load --season 2022 --season 2023

  # Load a range
  gridstats load --season 1999-2025

  # Re-download even if cached
  gridstats load --season 2023 --refresh

  # Plays only
  gridstats load --season 2023 --skip-rosters`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Seasons, "season", "s", nil, "Season year or range (e.g. 2023 or 1999-2025); repeatable")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "Force re-download of cached files")
	cmd.Flags().BoolVar(&opts.SkipRosters, "skip-rosters", false, "Load play-by-play only")

	return cmd
}

func runLoad(cmd *cobra.Command, opts *LoadOptions) error {
	if len(opts.Seasons) == 0 {
		return fmt.Errorf("at least one --season is required")
	}

	seasons, err := parseSeasonArgs(opts.Seasons)
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ldr := cmdCtx.NewLoader()
	r := cmdCtx.Renderer

	datasets := []nflverse.Dataset{nflverse.DatasetPlays}
	if !opts.SkipRosters {
		datasets = append(datasets, nflverse.DatasetRosters)
	}

	var failed int
	for _, dataset := range datasets {
		r.Header(2, fmt.Sprintf("loading %s", dataset))
		results, err := ldr.LoadSeasons(cmd.Context(), dataset, seasons, opts.Refresh)
		for _, res := range results {
			detail := fmt.Sprintf("%d rows in %s", res.Rows, res.Duration.Round(timeRounding))
			r.StatusLine(fmt.Sprintf("%s %d", dataset, res.Season), "success", detail)
		}
		if err != nil {
			failed++
			r.StatusLine(string(dataset), "failed", err.Error())
		}
	}

	r.Println("")
	if failed > 0 {
		return fmt.Errorf("%d of %d datasets failed to load", failed, len(datasets))
	}
	r.Success(fmt.Sprintf("loaded %d season(s)", len(seasons)))
	return nil
}

// parseSeasonArgs expands year and range arguments ("2023", "1999-2025",
// "2018,2019") into a sorted, deduplicated season list.
func parseSeasonArgs(args []string) ([]int, error) {
	seen := make(map[int]bool)
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			if lo, hi, ok := strings.Cut(part, "-"); ok {
				start, err := parseSeasonYear(lo)
				if err != nil {
					return nil, err
				}
				end, err := parseSeasonYear(hi)
				if err != nil {
					return nil, err
				}
				if end < start {
					return nil, fmt.Errorf("invalid season range %q", part)
				}
				for y := start; y <= end; y++ {
					seen[y] = true
				}
				continue
			}

			year, err := parseSeasonYear(part)
			if err != nil {
				return nil, err
			}
			seen[year] = true
		}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("no seasons given")
	}

	seasons := make([]int, 0, len(seen))
	for y := range seen {
		seasons = append(seasons, y)
	}
	sort.Ints(seasons)
	return seasons, nil
}

func parseSeasonYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid season %q", s)
	}
	if err := nflverse.ValidateSeason(year); err != nil {
		return 0, err
	}
	return year, nil
}
