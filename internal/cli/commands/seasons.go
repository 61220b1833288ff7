package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gridiron-labs/gridstats/internal/nflverse"
	"github.com/spf13/cobra"
)

// NewSeasonsCommand creates the seasons command.
func NewSeasonsCommand() *cobra.Command {
	var showLoads bool
	var limit int

	cmd := &cobra.Command{
		Use:   "seasons",
		Short: "Show which seasons are loaded",
		Long: `Show the seasons present in the load ledger per dataset, and
optionally the recent load history.`,
		Example: `  gridstats seasons
  gridstats seasons --loads --limit 20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			r := cmdCtx.Renderer

			rows := make([][]string, 0, 2)
			for _, dataset := range []nflverse.Dataset{nflverse.DatasetPlays, nflverse.DatasetRosters} {
				seasons, err := cmdCtx.Store.CompletedSeasons(string(dataset))
				if err != nil {
					return err
				}
				rows = append(rows, []string{string(dataset), strconv.Itoa(len(seasons)), formatSeasonList(seasons)})
			}
			if err := r.Table([]string{"Dataset", "Count", "Seasons"}, rows); err != nil {
				return err
			}

			if !showLoads {
				return nil
			}

			loads, err := cmdCtx.Store.ListLoads(limit)
			if err != nil {
				return err
			}
			r.Println("")
			r.Header(2, "recent loads")
			loadRows := make([][]string, 0, len(loads))
			for _, l := range loads {
				loadRows = append(loadRows, []string{
					l.Dataset,
					strconv.Itoa(l.Season),
					string(l.Status),
					strconv.FormatInt(l.RowCount, 10),
					l.StartedAt.Format(time.RFC3339),
					l.Error,
				})
			}
			return r.Table([]string{"Dataset", "Season", "Status", "Rows", "Started", "Error"}, loadRows)
		},
	}

	cmd.Flags().BoolVar(&showLoads, "loads", false, "Include recent load history")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum load records to show")

	return cmd
}

// formatSeasonList compresses consecutive years into ranges
// (1999,2000,2001,2005 -> "1999-2001, 2005").
func formatSeasonList(seasons []int) string {
	if len(seasons) == 0 {
		return "-"
	}

	var parts []string
	start, prev := seasons[0], seasons[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, y := range seasons[1:] {
		if y == prev+1 {
			prev = y
			continue
		}
		flush()
		start, prev = y, y
	}
	flush()

	return strings.Join(parts, ", ")
}
