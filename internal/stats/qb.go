package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// QBSeasons returns per-season passing lines for every quarterback that
// clears the filter's attempt threshold, best EPA first.
func (s *Service) QBSeasons(ctx context.Context, filter QBFilter) ([]QBSeason, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	defer s.observe("qb_seasons", time.Now())

	adapter, err := s.wh.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	b := newQueryBuilder(adapter.Placeholder)

	conds := []string{"play_type = 'pass'", "passer <> ''"}
	conds = append(conds, fmt.Sprintf("season IN (%s)", b.bindInts(filter.Seasons)))
	if filter.SeasonType != SeasonTypeBoth {
		conds = append(conds, fmt.Sprintf("season_type = %s", b.bind(filter.SeasonType)))
	}
	if len(filter.Teams) > 0 {
		conds = append(conds, fmt.Sprintf("posteam IN (%s)", b.bindStrings(filter.Teams)))
	}

	query := fmt.Sprintf(`
		SELECT
			season,
			passer,
			posteam,
			COUNT(*) AS attempts,
			CAST(SUM(CASE WHEN complete_pass THEN 1 ELSE 0 END) AS BIGINT) AS completions,
			SUM(passing_yards) AS passing_yards,
			CAST(SUM(CASE WHEN pass_touchdown THEN 1 ELSE 0 END) AS BIGINT) AS passing_tds,
			CAST(SUM(CASE WHEN interception THEN 1 ELSE 0 END) AS BIGINT) AS interceptions,
			AVG(epa) AS avg_epa,
			CAST(SUM(CASE WHEN success THEN 1 ELSE 0 END) AS BIGINT) AS successes
		FROM pbp
		WHERE %s
		GROUP BY season, passer, posteam
		HAVING COUNT(*) >= %s
		ORDER BY season DESC, AVG(epa) DESC`,
		joinConds(conds), b.bind(filter.MinAttempts))

	rows, err := adapter.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query QB seasons: %w", err)
	}
	defer rows.Close()

	var out []QBSeason
	for rows.Next() {
		var (
			r         QBSeason
			avgEPA    sql.NullFloat64
			successes int
		)
		if err := rows.Scan(&r.Season, &r.Name, &r.Team, &r.Attempts, &r.Completions,
			&r.PassingYards, &r.PassingTDs, &r.Interceptions, &avgEPA, &successes); err != nil {
			return nil, fmt.Errorf("failed to scan QB season row: %w", err)
		}
		att := float64(r.Attempts)
		r.CompletionPct = pct(float64(r.Completions), att)
		r.YardsPerAtt = per(r.PassingYards, att)
		r.AvgEPA = nullableRound3(avgEPA)
		r.SuccessRatePct = pct(float64(successes), att)
		r.PasserRating = passerRating(r.Attempts, r.Completions, r.PassingYards, r.PassingTDs, r.Interceptions)
		out = append(out, r)
	}
	return out, rows.Err()
}

// QBTrends returns one quarterback's season-by-season line, oldest first.
// An empty seasons slice covers everything loaded.
func (s *Service) QBTrends(ctx context.Context, name string, seasons []int, seasonType string) ([]QBTrend, error) {
	if name == "" {
		return nil, fmt.Errorf("a quarterback name is required")
	}
	if err := normalizeSeasonType(&seasonType); err != nil {
		return nil, err
	}
	defer s.observe("qb_trends", time.Now())

	adapter, err := s.wh.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	b := newQueryBuilder(adapter.Placeholder)

	conds := []string{"play_type = 'pass'"}
	conds = append(conds, fmt.Sprintf("passer = %s", b.bind(name)))
	if len(seasons) > 0 {
		conds = append(conds, fmt.Sprintf("season IN (%s)", b.bindInts(seasons)))
	}
	if seasonType != SeasonTypeBoth {
		conds = append(conds, fmt.Sprintf("season_type = %s", b.bind(seasonType)))
	}

	query := fmt.Sprintf(`
		SELECT
			season,
			posteam,
			COUNT(*) AS attempts,
			AVG(epa) AS avg_epa,
			CAST(SUM(CASE WHEN success THEN 1 ELSE 0 END) AS BIGINT) AS successes,
			SUM(passing_yards) AS passing_yards,
			CAST(SUM(CASE WHEN pass_touchdown THEN 1 ELSE 0 END) AS BIGINT) AS passing_tds,
			CAST(SUM(CASE WHEN interception THEN 1 ELSE 0 END) AS BIGINT) AS interceptions
		FROM pbp
		WHERE %s
		GROUP BY season, posteam
		ORDER BY season`,
		joinConds(conds))

	rows, err := adapter.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query QB trends: %w", err)
	}
	defer rows.Close()

	var out []QBTrend
	for rows.Next() {
		var (
			r         QBTrend
			avgEPA    sql.NullFloat64
			successes int
		)
		if err := rows.Scan(&r.Season, &r.Team, &r.Attempts, &avgEPA, &successes,
			&r.PassingYards, &r.PassingTDs, &r.Interceptions); err != nil {
			return nil, fmt.Errorf("failed to scan QB trend row: %w", err)
		}
		r.AvgEPA = nullableRound3(avgEPA)
		r.SuccessRatePct = pct(float64(successes), float64(r.Attempts))
		out = append(out, r)
	}
	return out, rows.Err()
}

// QBComparisons ranks the qualifying quarterbacks of a single season
// against each other on EPA and success rate.
func (s *Service) QBComparisons(ctx context.Context, season, minAttempts int, seasonType string) ([]QBComparison, error) {
	if minAttempts <= 0 {
		minAttempts = DefaultQBCompareMinAttempts
	}
	if err := normalizeSeasonType(&seasonType); err != nil {
		return nil, err
	}
	defer s.observe("qb_compare", time.Now())

	adapter, err := s.wh.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	b := newQueryBuilder(adapter.Placeholder)

	conds := []string{"play_type = 'pass'", "passer <> ''"}
	conds = append(conds, fmt.Sprintf("season = %s", b.bind(season)))
	if seasonType != SeasonTypeBoth {
		conds = append(conds, fmt.Sprintf("season_type = %s", b.bind(seasonType)))
	}

	query := fmt.Sprintf(`
		WITH qb_stats AS (
			SELECT
				passer AS qb_name,
				posteam AS team,
				COUNT(*) AS attempts,
				AVG(epa) AS avg_epa,
				CAST(SUM(CASE WHEN success THEN 1 ELSE 0 END) AS DOUBLE PRECISION) / COUNT(*) AS success_rate,
				SUM(passing_yards) AS passing_yards,
				CAST(SUM(CASE WHEN pass_touchdown THEN 1 ELSE 0 END) AS BIGINT) AS passing_tds,
				CAST(SUM(CASE WHEN interception THEN 1 ELSE 0 END) AS BIGINT) AS interceptions
			FROM pbp
			WHERE %s
			GROUP BY passer, posteam
			HAVING COUNT(*) >= %s
		)
		SELECT
			qb_name,
			team,
			attempts,
			passing_yards,
			passing_tds,
			interceptions,
			avg_epa,
			success_rate,
			RANK() OVER (ORDER BY avg_epa DESC) AS epa_rank,
			RANK() OVER (ORDER BY success_rate DESC) AS success_rank
		FROM qb_stats
		ORDER BY avg_epa DESC`,
		joinConds(conds), b.bind(minAttempts))

	rows, err := adapter.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query QB comparisons: %w", err)
	}
	defer rows.Close()

	var out []QBComparison
	for rows.Next() {
		var (
			r           QBComparison
			avgEPA      sql.NullFloat64
			successRate sql.NullFloat64
		)
		if err := rows.Scan(&r.Name, &r.Team, &r.Attempts, &r.PassingYards, &r.PassingTDs,
			&r.Interceptions, &avgEPA, &successRate, &r.EPARank, &r.SuccessRank); err != nil {
			return nil, fmt.Errorf("failed to scan QB comparison row: %w", err)
		}
		r.AvgEPA = nullableRound3(avgEPA)
		if successRate.Valid {
			r.SuccessRatePct = round1(successRate.Float64 * 100)
		}
		r.YardsPerAtt = per(r.PassingYards, float64(r.Attempts))
		out = append(out, r)
	}
	return out, rows.Err()
}

func joinConds(conds []string) string {
	out := conds[0]
	for _, c := range conds[1:] {
		out += "\n\t\t  AND " + c
	}
	return out
}
