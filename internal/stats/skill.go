package stats

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"
)

// Receiving plays without a roster match default to WR, rushing plays to
// RB, matching how nflverse groups unrostered names.
const (
	receiverFallback = "WR"
	rusherFallback   = "RB"
)

func skillBaseConds(b *queryBuilder, seasons []int, seasonType string, teams []string) []string {
	var conds []string
	if len(seasons) > 0 {
		conds = append(conds, fmt.Sprintf("p.season IN (%s)", b.bindInts(seasons)))
	}
	if seasonType != SeasonTypeBoth {
		conds = append(conds, fmt.Sprintf("p.season_type = %s", b.bind(seasonType)))
	}
	if len(teams) > 0 {
		conds = append(conds, fmt.Sprintf("p.posteam IN (%s)", b.bindStrings(teams)))
	}
	return conds
}

func positionCond(b *queryBuilder, positions []string, allowUnrostered bool) string {
	in := fmt.Sprintf("r.position IN (%s)", b.bindStrings(positions))
	if allowUnrostered {
		return "(" + in + " OR r.position IS NULL)"
	}
	return in
}

// skillPlayerStatsCTE renders the two-leg receiving/rushing union that
// every skill-position query starts from. When withSeason is set, the
// legs keep the season column for per-season grouping.
func skillPlayerStatsCTE(b *queryBuilder, filter SkillFilter, withSeason bool) string {
	seasonCol, seasonGroup := "", ""
	if withSeason {
		seasonCol = "p.season,\n\t\t\t"
		seasonGroup = "p.season, "
	}

	recvConds := skillBaseConds(b, filter.Seasons, filter.SeasonType, filter.Teams)
	recvConds = append(recvConds,
		"p.play_type = 'pass'",
		"p.receiver_player_name <> ''",
		positionCond(b, filter.Positions,
			slices.Contains(filter.Positions, "WR") || slices.Contains(filter.Positions, "TE")))

	rushConds := skillBaseConds(b, filter.Seasons, filter.SeasonType, filter.Teams)
	rushConds = append(rushConds,
		"p.play_type = 'run'",
		"p.rusher_player_name <> ''",
		positionCond(b, filter.Positions, slices.Contains(filter.Positions, "RB")))

	return fmt.Sprintf(`player_stats AS (
		SELECT
			%sp.receiver_player_name AS player_name,
			p.receiver_player_id AS player_id,
			p.posteam AS team,
			COALESCE(r.position, '%s') AS position_group,
			COUNT(*) AS targets,
			SUM(CASE WHEN p.complete_pass THEN 1 ELSE 0 END) AS receptions,
			SUM(p.receiving_yards) AS receiving_yards,
			SUM(CASE WHEN p.pass_touchdown THEN 1 ELSE 0 END) AS receiving_tds,
			0 AS rushes,
			CAST(0 AS DOUBLE PRECISION) AS rushing_yards,
			0 AS rushing_tds,
			AVG(p.epa) AS avg_epa,
			CAST(SUM(CASE WHEN p.success THEN 1 ELSE 0 END) AS DOUBLE PRECISION) / COUNT(*) AS success_rate
		FROM pbp p
		LEFT JOIN rosters r ON p.receiver_player_name = r.player_name AND p.season = r.season
		WHERE %s
		GROUP BY %sp.receiver_player_name, p.receiver_player_id, p.posteam, r.position

		UNION ALL

		SELECT
			%sp.rusher_player_name AS player_name,
			p.rusher_player_id AS player_id,
			p.posteam AS team,
			COALESCE(r.position, '%s') AS position_group,
			0 AS targets,
			0 AS receptions,
			CAST(0 AS DOUBLE PRECISION) AS receiving_yards,
			0 AS receiving_tds,
			COUNT(*) AS rushes,
			SUM(p.rushing_yards) AS rushing_yards,
			SUM(CASE WHEN p.rush_touchdown THEN 1 ELSE 0 END) AS rushing_tds,
			AVG(p.epa) AS avg_epa,
			CAST(SUM(CASE WHEN p.success THEN 1 ELSE 0 END) AS DOUBLE PRECISION) / COUNT(*) AS success_rate
		FROM pbp p
		LEFT JOIN rosters r ON p.rusher_player_name = r.player_name AND p.season = r.season
		WHERE %s
		GROUP BY %sp.rusher_player_name, p.rusher_player_id, p.posteam, r.position
	)`,
		seasonCol, receiverFallback, joinConds(recvConds), seasonGroup,
		seasonCol, rusherFallback, joinConds(rushConds), seasonGroup)
}

// SkillSeasons returns per-season combined receiving and rushing lines for
// every skill player clearing the filter's touch threshold. A player's
// receiving and rushing legs are merged with a touch-weighted EPA and
// success rate.
func (s *Service) SkillSeasons(ctx context.Context, filter SkillFilter) ([]SkillSeason, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if len(filter.Positions) == 0 {
		return nil, nil
	}
	defer s.observe("skill_seasons", time.Now())

	adapter, err := s.wh.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	b := newQueryBuilder(adapter.Placeholder)

	query := fmt.Sprintf(`
		WITH %s,
		combined_stats AS (
			SELECT
				season,
				player_name,
				player_id,
				team,
				position_group,
				SUM(targets) AS targets,
				SUM(receptions) AS receptions,
				SUM(receiving_yards) AS receiving_yards,
				SUM(receiving_tds) AS receiving_tds,
				SUM(rushes) AS rushes,
				SUM(rushing_yards) AS rushing_yards,
				SUM(rushing_tds) AS rushing_tds,
				SUM(avg_epa * (targets + rushes)) / NULLIF(SUM(targets + rushes), 0) AS avg_epa,
				SUM(success_rate * (targets + rushes)) / NULLIF(SUM(targets + rushes), 0) AS success_rate
			FROM player_stats
			GROUP BY season, player_name, player_id, team, position_group
		)
		SELECT
			season, player_name, team, position_group,
			CAST(targets AS BIGINT), CAST(receptions AS BIGINT),
			receiving_yards, CAST(receiving_tds AS BIGINT),
			CAST(rushes AS BIGINT), rushing_yards, CAST(rushing_tds AS BIGINT),
			avg_epa, success_rate
		FROM combined_stats
		WHERE (targets + rushes) >= %s
		  AND position_group IN (%s)
		ORDER BY season DESC, avg_epa DESC`,
		skillPlayerStatsCTE(b, filter, true),
		b.bind(filter.MinTouches), b.bindStrings(filter.Positions))

	rows, err := adapter.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill seasons: %w", err)
	}
	defer rows.Close()

	var out []SkillSeason
	for rows.Next() {
		var (
			r           SkillSeason
			avgEPA      sql.NullFloat64
			successRate sql.NullFloat64
		)
		if err := rows.Scan(&r.Season, &r.Name, &r.Team, &r.Position,
			&r.Targets, &r.Receptions, &r.ReceivingYards, &r.ReceivingTDs,
			&r.Rushes, &r.RushingYards, &r.RushingTDs,
			&avgEPA, &successRate); err != nil {
			return nil, fmt.Errorf("failed to scan skill season row: %w", err)
		}
		r.fillDerived(avgEPA, successRate)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (r *SkillSeason) fillDerived(avgEPA, successRate sql.NullFloat64) {
	r.CatchRatePct = pct(float64(r.Receptions), float64(r.Targets))
	r.YardsPerCatch = per(r.ReceivingYards, float64(r.Receptions))
	r.YardsPerTarget = per(r.ReceivingYards, float64(r.Targets))
	r.YardsPerCarry = per(r.RushingYards, float64(r.Rushes))
	r.TotalTouches = r.Targets + r.Rushes
	r.TotalYards = r.ReceivingYards + r.RushingYards
	r.TotalTDs = r.ReceivingTDs + r.RushingTDs
	r.AvgEPA = nullableRound3(avgEPA)
	r.SuccessRatePct = nullablePct(successRate)
}

// SkillComparisons ranks the qualifying skill players of one season on
// EPA, success rate and total yardage.
func (s *Service) SkillComparisons(ctx context.Context, season int, positions []string, minTouches int, seasonType string) ([]SkillComparison, error) {
	if minTouches <= 0 {
		minTouches = DefaultSkillCompareTouches
	}
	filter := SkillFilter{
		Seasons:    []int{season},
		Positions:  positions,
		MinTouches: minTouches,
		SeasonType: seasonType,
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if len(filter.Positions) == 0 {
		return nil, nil
	}
	defer s.observe("skill_compare", time.Now())

	adapter, err := s.wh.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	b := newQueryBuilder(adapter.Placeholder)

	query := fmt.Sprintf(`
		WITH %s,
		combined_stats AS (
			SELECT
				player_name,
				player_id,
				team,
				position_group,
				SUM(targets) AS targets,
				SUM(receptions) AS receptions,
				SUM(receiving_yards) AS receiving_yards,
				SUM(receiving_tds) AS receiving_tds,
				SUM(rushes) AS rushes,
				SUM(rushing_yards) AS rushing_yards,
				SUM(rushing_tds) AS rushing_tds,
				SUM(avg_epa * (targets + rushes)) / NULLIF(SUM(targets + rushes), 0) AS avg_epa,
				SUM(success_rate * (targets + rushes)) / NULLIF(SUM(targets + rushes), 0) AS success_rate
			FROM player_stats
			GROUP BY player_name, player_id, team, position_group
		)
		SELECT
			player_name, team, position_group,
			CAST(targets AS BIGINT), CAST(receptions AS BIGINT),
			receiving_yards, CAST(receiving_tds AS BIGINT),
			CAST(rushes AS BIGINT), rushing_yards, CAST(rushing_tds AS BIGINT),
			avg_epa, success_rate,
			RANK() OVER (ORDER BY avg_epa DESC) AS epa_rank,
			RANK() OVER (ORDER BY success_rate DESC) AS success_rank,
			RANK() OVER (ORDER BY (receiving_yards + rushing_yards) DESC) AS yards_rank
		FROM combined_stats
		WHERE (targets + rushes) >= %s
		  AND position_group IN (%s)
		ORDER BY avg_epa DESC`,
		skillPlayerStatsCTE(b, filter, false),
		b.bind(filter.MinTouches), b.bindStrings(filter.Positions))

	rows, err := adapter.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill comparisons: %w", err)
	}
	defer rows.Close()

	var out []SkillComparison
	for rows.Next() {
		var (
			r           SkillComparison
			avgEPA      sql.NullFloat64
			successRate sql.NullFloat64
		)
		if err := rows.Scan(&r.Name, &r.Team, &r.Position,
			&r.Targets, &r.Receptions, &r.ReceivingYards, &r.ReceivingTDs,
			&r.Rushes, &r.RushingYards, &r.RushingTDs,
			&avgEPA, &successRate, &r.EPARank, &r.SuccessRank, &r.YardsRank); err != nil {
			return nil, fmt.Errorf("failed to scan skill comparison row: %w", err)
		}
		r.TotalTouches = r.Targets + r.Rushes
		r.TotalYards = r.ReceivingYards + r.RushingYards
		r.TotalTDs = r.ReceivingTDs + r.RushingTDs
		r.AvgEPA = nullableRound3(avgEPA)
		r.SuccessRatePct = nullablePct(successRate)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SkillTrends returns one skill player's season-by-season combined line,
// oldest first. No roster join here: the player is already named.
func (s *Service) SkillTrends(ctx context.Context, name string, seasons []int, seasonType string) ([]SkillTrend, error) {
	if name == "" {
		return nil, fmt.Errorf("a player name is required")
	}
	if err := normalizeSeasonType(&seasonType); err != nil {
		return nil, err
	}
	defer s.observe("skill_trends", time.Now())

	adapter, err := s.wh.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	b := newQueryBuilder(adapter.Placeholder)

	recvConds := skillBaseConds(b, seasons, seasonType, nil)
	recvConds = append(recvConds, "p.play_type = 'pass'",
		fmt.Sprintf("p.receiver_player_name = %s", b.bind(name)))

	rushConds := skillBaseConds(b, seasons, seasonType, nil)
	rushConds = append(rushConds, "p.play_type = 'run'",
		fmt.Sprintf("p.rusher_player_name = %s", b.bind(name)))

	query := fmt.Sprintf(`
		WITH player_stats AS (
			SELECT
				p.season,
				p.posteam AS team,
				'receiving' AS side,
				COUNT(*) AS plays,
				SUM(p.receiving_yards) AS yards,
				SUM(CASE WHEN p.pass_touchdown THEN 1 ELSE 0 END) AS touchdowns,
				AVG(p.epa) AS avg_epa,
				CAST(SUM(CASE WHEN p.success THEN 1 ELSE 0 END) AS DOUBLE PRECISION) / COUNT(*) AS success_rate
			FROM pbp p
			WHERE %s
			GROUP BY p.season, p.posteam

			UNION ALL

			SELECT
				p.season,
				p.posteam AS team,
				'rushing' AS side,
				COUNT(*) AS plays,
				SUM(p.rushing_yards) AS yards,
				SUM(CASE WHEN p.rush_touchdown THEN 1 ELSE 0 END) AS touchdowns,
				AVG(p.epa) AS avg_epa,
				CAST(SUM(CASE WHEN p.success THEN 1 ELSE 0 END) AS DOUBLE PRECISION) / COUNT(*) AS success_rate
			FROM pbp p
			WHERE %s
			GROUP BY p.season, p.posteam
		)
		SELECT
			season,
			team,
			CAST(SUM(CASE WHEN side = 'receiving' THEN plays ELSE 0 END) AS BIGINT) AS targets,
			SUM(CASE WHEN side = 'receiving' THEN yards ELSE 0 END) AS receiving_yards,
			CAST(SUM(CASE WHEN side = 'receiving' THEN touchdowns ELSE 0 END) AS BIGINT) AS receiving_tds,
			CAST(SUM(CASE WHEN side = 'rushing' THEN plays ELSE 0 END) AS BIGINT) AS rushes,
			SUM(CASE WHEN side = 'rushing' THEN yards ELSE 0 END) AS rushing_yards,
			CAST(SUM(CASE WHEN side = 'rushing' THEN touchdowns ELSE 0 END) AS BIGINT) AS rushing_tds,
			SUM(avg_epa * plays) / NULLIF(SUM(plays), 0) AS avg_epa,
			SUM(success_rate * plays) / NULLIF(SUM(plays), 0) AS success_rate
		FROM player_stats
		GROUP BY season, team
		ORDER BY season`,
		joinConds(recvConds), joinConds(rushConds))

	rows, err := adapter.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill trends: %w", err)
	}
	defer rows.Close()

	var out []SkillTrend
	for rows.Next() {
		var (
			r           SkillTrend
			avgEPA      sql.NullFloat64
			successRate sql.NullFloat64
		)
		if err := rows.Scan(&r.Season, &r.Team,
			&r.Targets, &r.ReceivingYards, &r.ReceivingTDs,
			&r.Rushes, &r.RushingYards, &r.RushingTDs,
			&avgEPA, &successRate); err != nil {
			return nil, fmt.Errorf("failed to scan skill trend row: %w", err)
		}
		r.TotalTouches = r.Targets + r.Rushes
		r.TotalYards = r.ReceivingYards + r.RushingYards
		r.TotalTDs = r.ReceivingTDs + r.RushingTDs
		r.AvgEPA = nullableRound3(avgEPA)
		r.SuccessRatePct = nullablePct(successRate)
		out = append(out, r)
	}
	return out, rows.Err()
}
