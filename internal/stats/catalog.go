package stats

import (
	"context"
	"fmt"
	"time"
)

// Seasons lists the seasons currently loaded in the warehouse, oldest first.
func (s *Service) Seasons(ctx context.Context) ([]int, error) {
	defer s.observe("catalog_seasons", time.Now())

	adapter, err := s.wh.Adapter(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := adapter.Query(ctx, "SELECT DISTINCT season FROM pbp ORDER BY season")
	if err != nil {
		return nil, fmt.Errorf("failed to query loaded seasons: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var season int
		if err := rows.Scan(&season); err != nil {
			return nil, err
		}
		out = append(out, season)
	}
	return out, rows.Err()
}

// Teams lists every team that appears on offense or defense, sorted.
func (s *Service) Teams(ctx context.Context) ([]string, error) {
	defer s.observe("catalog_teams", time.Now())

	adapter, err := s.wh.Adapter(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := adapter.Query(ctx, `
		SELECT DISTINCT team FROM (
			SELECT posteam AS team FROM pbp
			UNION
			SELECT defteam AS team FROM pbp
		) teams
		WHERE team <> ''
		ORDER BY team`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var team string
		if err := rows.Scan(&team); err != nil {
			return nil, err
		}
		out = append(out, team)
	}
	return out, rows.Err()
}

// QBs lists quarterbacks with at least minAttempts pass attempts across
// the loaded data, sorted by name.
func (s *Service) QBs(ctx context.Context, minAttempts int) ([]string, error) {
	if minAttempts <= 0 {
		minAttempts = DefaultQBListMinAttempts
	}
	defer s.observe("catalog_qbs", time.Now())

	adapter, err := s.wh.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	b := newQueryBuilder(adapter.Placeholder)

	query := fmt.Sprintf(`
		SELECT passer
		FROM pbp
		WHERE play_type = 'pass' AND passer <> ''
		GROUP BY passer
		HAVING COUNT(*) >= %s
		ORDER BY passer`, b.bind(minAttempts))

	rows, err := adapter.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quarterbacks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// SkillPlayers lists skill players with at least minTouches combined
// targets and rushes, busiest first. The primary position is the side
// most of their touches come from.
func (s *Service) SkillPlayers(ctx context.Context, minTouches int) ([]SkillPlayer, error) {
	if minTouches <= 0 {
		minTouches = DefaultSkillListMinTouches
	}
	defer s.observe("catalog_players", time.Now())

	adapter, err := s.wh.Adapter(ctx)
	if err != nil {
		return nil, err
	}
	b := newQueryBuilder(adapter.Placeholder)

	query := fmt.Sprintf(`
		WITH all_players AS (
			SELECT
				receiver_player_name AS player_name,
				COUNT(*) AS receiving_touches,
				0 AS rushing_touches
			FROM pbp
			WHERE play_type = 'pass' AND receiver_player_name <> ''
			GROUP BY receiver_player_name

			UNION ALL

			SELECT
				rusher_player_name AS player_name,
				0 AS receiving_touches,
				COUNT(*) AS rushing_touches
			FROM pbp
			WHERE play_type = 'run' AND rusher_player_name <> ''
			GROUP BY rusher_player_name
		)
		SELECT
			player_name,
			CAST(SUM(receiving_touches) AS BIGINT) AS total_receiving,
			CAST(SUM(rushing_touches) AS BIGINT) AS total_rushing,
			CAST(SUM(receiving_touches + rushing_touches) AS BIGINT) AS total_touches,
			CASE
				WHEN SUM(receiving_touches) > SUM(rushing_touches) THEN '%s'
				ELSE '%s'
			END AS primary_position
		FROM all_players
		GROUP BY player_name
		HAVING SUM(receiving_touches + rushing_touches) >= %s
		ORDER BY total_touches DESC`,
		receiverFallback, rusherFallback, b.bind(minTouches))

	rows, err := adapter.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill players: %w", err)
	}
	defer rows.Close()

	var out []SkillPlayer
	for rows.Next() {
		var r SkillPlayer
		if err := rows.Scan(&r.Name, &r.ReceivingTouches, &r.RushingTouches,
			&r.TotalTouches, &r.PrimaryPosition); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
