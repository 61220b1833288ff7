package commands

import (
	"fmt"
	"strconv"

	"github.com/gridiron-labs/gridstats/internal/cli/output"
	"github.com/gridiron-labs/gridstats/internal/stats"
	"github.com/spf13/cobra"
)

// StatsOptions holds the shared flags of the stats subcommands.
type StatsOptions struct {
	Seasons    []string
	SeasonType string
	Teams      []string
	Positions  []string
	Player     string
	MinPlays   int
}

// NewStatsCommand creates the stats command and its subcommands.
func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute EPA and efficiency statistics",
		Long: `Compute quarterback and skill-position statistics from loaded
play-by-play data.

All subcommands render through the configured output format, so
--output json turns any table into machine-readable output.`,
	}

	cmd.AddCommand(newStatsQBCommand())
	cmd.AddCommand(newStatsSkillCommand())
	cmd.AddCommand(newStatsTrendsCommand())
	cmd.AddCommand(newStatsCompareCommand())
	cmd.AddCommand(newStatsTeamsCommand())
	cmd.AddCommand(newStatsQBsCommand())
	cmd.AddCommand(newStatsPlayersCommand())

	return cmd
}

func newStatsQBCommand() *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "qb",
		Short: "Quarterback season statistics",
		Example: `  gridstats stats qb --season 2023
  gridstats stats qb --season 2022-2024 --team KC --min-plays 300
  gridstats stats qb --season 2023 --season-type POST -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seasons, err := parseSeasonArgs(opts.Seasons)
			if err != nil {
				return err
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			filter := stats.QBFilter{
				Seasons:     seasons,
				SeasonType:  opts.SeasonType,
				Teams:       opts.Teams,
				MinAttempts: opts.MinPlays,
			}
			rows, err := cmdCtx.Stats.QBSeasons(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return renderQBSeasons(cmdCtx.Renderer, rows)
		},
	}

	addSeasonFlags(cmd, opts)
	cmd.Flags().StringArrayVar(&opts.Teams, "team", nil, "Filter by team abbreviation; repeatable")
	cmd.Flags().IntVar(&opts.MinPlays, "min-plays", 0, "Minimum pass attempts (default 100)")

	return cmd
}

func newStatsSkillCommand() *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Skill-position season statistics",
		Example: `  gridstats stats skill --season 2023 --position WR
  gridstats stats skill --season 2023 --position RB --min-plays 100`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seasons, err := parseSeasonArgs(opts.Seasons)
			if err != nil {
				return err
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			filter := stats.SkillFilter{
				Seasons:    seasons,
				SeasonType: opts.SeasonType,
				Positions:  opts.Positions,
				MinTouches: opts.MinPlays,
			}
			rows, err := cmdCtx.Stats.SkillSeasons(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return renderSkillSeasons(cmdCtx.Renderer, rows)
		},
	}

	addSeasonFlags(cmd, opts)
	cmd.Flags().StringArrayVar(&opts.Positions, "position", []string{"WR", "TE", "RB"}, "Position group (WR, TE, RB); repeatable")
	cmd.Flags().IntVar(&opts.MinPlays, "min-plays", 0, "Minimum touches (default 50)")

	return cmd
}

func newStatsTrendsCommand() *cobra.Command {
	opts := &StatsOptions{}
	var skill bool

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Season-over-season trends for one player",
		Example: `  gridstats stats trends --player P.Mahomes
  gridstats stats trends --player C.McCaffrey --skill --season 2019-2024`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Player == "" {
				return fmt.Errorf("--player is required")
			}

			// Trends across all loaded seasons when none given
			var seasons []int
			var err error
			if len(opts.Seasons) > 0 {
				seasons, err = parseSeasonArgs(opts.Seasons)
				if err != nil {
					return err
				}
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if skill {
				rows, err := cmdCtx.Stats.SkillTrends(cmd.Context(), opts.Player, seasons, opts.SeasonType)
				if err != nil {
					return err
				}
				return renderSkillTrends(cmdCtx.Renderer, rows)
			}

			rows, err := cmdCtx.Stats.QBTrends(cmd.Context(), opts.Player, seasons, opts.SeasonType)
			if err != nil {
				return err
			}
			return renderQBTrends(cmdCtx.Renderer, rows)
		},
	}

	addSeasonFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.Player, "player", "", "Player name as it appears in play-by-play (e.g. P.Mahomes)")
	cmd.Flags().BoolVar(&skill, "skill", false, "Treat the player as a skill-position player")

	return cmd
}

func newStatsCompareCommand() *cobra.Command {
	opts := &StatsOptions{}
	var skill bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank players within a single season",
		Example: `  gridstats stats compare --season 2023
  gridstats stats compare --season 2023 --skill --position RB`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(opts.Seasons) != 1 {
				return fmt.Errorf("exactly one --season is required")
			}
			seasons, err := parseSeasonArgs(opts.Seasons)
			if err != nil {
				return err
			}
			if len(seasons) != 1 {
				return fmt.Errorf("compare takes a single season, not a range")
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if skill {
				rows, err := cmdCtx.Stats.SkillComparisons(cmd.Context(), seasons[0], opts.Positions, opts.MinPlays, opts.SeasonType)
				if err != nil {
					return err
				}
				return renderSkillComparisons(cmdCtx.Renderer, rows)
			}

			rows, err := cmdCtx.Stats.QBComparisons(cmd.Context(), seasons[0], opts.MinPlays, opts.SeasonType)
			if err != nil {
				return err
			}
			return renderQBComparisons(cmdCtx.Renderer, rows)
		},
	}

	addSeasonFlags(cmd, opts)
	cmd.Flags().BoolVar(&skill, "skill", false, "Compare skill-position players instead of QBs")
	cmd.Flags().StringArrayVar(&opts.Positions, "position", []string{"WR", "TE", "RB"}, "Position group filter for --skill; repeatable")
	cmd.Flags().IntVar(&opts.MinPlays, "min-plays", 0, "Minimum attempts/touches (defaults 200/75)")

	return cmd
}

func newStatsTeamsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List teams present in loaded data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			teams, err := cmdCtx.Stats.Teams(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(teams))
			for _, team := range teams {
				rows = append(rows, []string{team})
			}
			return cmdCtx.Renderer.Table([]string{"Team"}, rows)
		},
	}
}

func newStatsQBsCommand() *cobra.Command {
	var minAttempts int

	cmd := &cobra.Command{
		Use:   "qbs",
		Short: "List quarterbacks with a minimum number of attempts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			qbs, err := cmdCtx.Stats.QBs(cmd.Context(), minAttempts)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(qbs))
			for _, qb := range qbs {
				rows = append(rows, []string{qb})
			}
			return cmdCtx.Renderer.Table([]string{"Quarterback"}, rows)
		},
	}

	cmd.Flags().IntVar(&minAttempts, "min-plays", 0, "Minimum pass attempts (default 50)")
	return cmd
}

func newStatsPlayersCommand() *cobra.Command {
	var minTouches int

	cmd := &cobra.Command{
		Use:   "players",
		Short: "List skill-position players with a minimum number of touches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			players, err := cmdCtx.Stats.SkillPlayers(cmd.Context(), minTouches)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(players))
			for _, p := range players {
				rows = append(rows, []string{p.Name, p.PrimaryPosition, strconv.Itoa(p.TotalTouches)})
			}
			return cmdCtx.Renderer.Table([]string{"Player", "Position", "Touches"}, rows)
		},
	}

	cmd.Flags().IntVar(&minTouches, "min-plays", 0, "Minimum touches (default 25)")
	return cmd
}

func addSeasonFlags(cmd *cobra.Command, opts *StatsOptions) {
	cmd.Flags().StringArrayVarP(&opts.Seasons, "season", "s", nil, "Season year or range; repeatable")
	cmd.Flags().StringVar(&opts.SeasonType, "season-type", "", "Season type: REG, POST or both (default REG)")
}

// Render helpers keep column layout in one place for the stats tables.

func renderQBSeasons(r *output.Renderer, rows []stats.QBSeason) error {
	headers := []string{"Season", "QB", "Team", "Att", "Comp%", "Yards", "Y/A", "TD", "INT", "EPA/play", "Succ%", "Rating"}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			strconv.Itoa(row.Season),
			row.Name,
			row.Team,
			strconv.Itoa(row.Attempts),
			formatFloat(row.CompletionPct, 1),
			formatFloat(row.PassingYards, 0),
			formatFloat(row.YardsPerAtt, 1),
			strconv.Itoa(row.PassingTDs),
			strconv.Itoa(row.Interceptions),
			formatNullableFloat(row.AvgEPA, 3),
			formatFloat(row.SuccessRatePct, 1),
			formatFloat(row.PasserRating, 1),
		})
	}
	return r.Table(headers, out)
}

func renderQBTrends(r *output.Renderer, rows []stats.QBTrend) error {
	headers := []string{"Season", "Team", "Att", "Yards", "TD", "INT", "EPA/play", "Succ%"}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			strconv.Itoa(row.Season),
			row.Team,
			strconv.Itoa(row.Attempts),
			formatFloat(row.PassingYards, 0),
			strconv.Itoa(row.PassingTDs),
			strconv.Itoa(row.Interceptions),
			formatNullableFloat(row.AvgEPA, 3),
			formatFloat(row.SuccessRatePct, 1),
		})
	}
	return r.Table(headers, out)
}

func renderQBComparisons(r *output.Renderer, rows []stats.QBComparison) error {
	headers := []string{"EPA Rank", "QB", "Team", "Att", "Yards", "TD", "INT", "EPA/play", "Succ%", "Succ Rank"}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			strconv.Itoa(row.EPARank),
			row.Name,
			row.Team,
			strconv.Itoa(row.Attempts),
			formatFloat(row.PassingYards, 0),
			strconv.Itoa(row.PassingTDs),
			strconv.Itoa(row.Interceptions),
			formatNullableFloat(row.AvgEPA, 3),
			formatFloat(row.SuccessRatePct, 1),
			strconv.Itoa(row.SuccessRank),
		})
	}
	return r.Table(headers, out)
}

func renderSkillSeasons(r *output.Renderer, rows []stats.SkillSeason) error {
	headers := []string{"Season", "Player", "Pos", "Team", "Tgt", "Rec", "RecYds", "RushYds", "TD", "Touches", "EPA/play", "Succ%"}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			strconv.Itoa(row.Season),
			row.Name,
			row.Position,
			row.Team,
			strconv.Itoa(row.Targets),
			strconv.Itoa(row.Receptions),
			formatFloat(row.ReceivingYards, 0),
			formatFloat(row.RushingYards, 0),
			strconv.Itoa(row.TotalTDs),
			strconv.Itoa(row.TotalTouches),
			formatNullableFloat(row.AvgEPA, 3),
			formatNullableFloat(row.SuccessRatePct, 1),
		})
	}
	return r.Table(headers, out)
}

func renderSkillComparisons(r *output.Renderer, rows []stats.SkillComparison) error {
	headers := []string{"EPA Rank", "Player", "Pos", "Team", "Touches", "Yards", "TD", "EPA/play", "Succ%", "Yds Rank"}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			strconv.Itoa(row.EPARank),
			row.Name,
			row.Position,
			row.Team,
			strconv.Itoa(row.TotalTouches),
			formatFloat(row.TotalYards, 0),
			strconv.Itoa(row.TotalTDs),
			formatNullableFloat(row.AvgEPA, 3),
			formatNullableFloat(row.SuccessRatePct, 1),
			strconv.Itoa(row.YardsRank),
		})
	}
	return r.Table(headers, out)
}

func renderSkillTrends(r *output.Renderer, rows []stats.SkillTrend) error {
	headers := []string{"Season", "Team", "Tgt", "RecYds", "Rushes", "RushYds", "TD", "Touches", "EPA/play"}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, []string{
			strconv.Itoa(row.Season),
			row.Team,
			strconv.Itoa(row.Targets),
			formatFloat(row.ReceivingYards, 0),
			strconv.Itoa(row.Rushes),
			formatFloat(row.RushingYards, 0),
			strconv.Itoa(row.TotalTDs),
			strconv.Itoa(row.TotalTouches),
			formatNullableFloat(row.AvgEPA, 3),
		})
	}
	return r.Table(headers, out)
}

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func formatNullableFloat(v *float64, decimals int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}
