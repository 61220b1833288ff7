package warehouse

// ingest.go - staging-table ingest and normalization of upstream CSVs

import (
	"context"
	"fmt"
)

const (
	playsTable         = "pbp"
	playsStagingTable  = "pbp_staging"
	rosterTable        = "rosters"
	rosterStagingTable = "rosters_staging"
)

const createPlaysTableSQL = `
CREATE TABLE IF NOT EXISTS pbp (
	season INTEGER NOT NULL,
	week INTEGER,
	season_type TEXT NOT NULL,
	play_type TEXT NOT NULL,
	posteam TEXT NOT NULL,
	defteam TEXT NOT NULL,
	passer TEXT NOT NULL,
	receiver_player_name TEXT NOT NULL,
	receiver_player_id TEXT NOT NULL,
	rusher_player_name TEXT NOT NULL,
	rusher_player_id TEXT NOT NULL,
	complete_pass BOOLEAN NOT NULL,
	pass_touchdown BOOLEAN NOT NULL,
	rush_touchdown BOOLEAN NOT NULL,
	interception BOOLEAN NOT NULL,
	success BOOLEAN NOT NULL,
	passing_yards DOUBLE PRECISION NOT NULL,
	receiving_yards DOUBLE PRECISION NOT NULL,
	rushing_yards DOUBLE PRECISION NOT NULL,
	epa DOUBLE PRECISION
)`

const createRosterTableSQL = `
CREATE TABLE IF NOT EXISTS rosters (
	player_name TEXT NOT NULL,
	player_id TEXT NOT NULL,
	position TEXT NOT NULL,
	season INTEGER NOT NULL
)`

// Staging columns are untyped text on every backend, so normalization is a
// cast pipeline shared across dialects. Upstream CSVs mark missing values
// as "" or "NA".

// numExpr parses a staging column as a nullable double.
func numExpr(col string) string {
	return fmt.Sprintf("CAST(NULLIF(NULLIF(%s, ''), 'NA') AS DOUBLE PRECISION)", col)
}

// intExpr parses a staging column as a nullable integer (via double, since
// upstream writes integers as "14.0").
func intExpr(col string) string {
	return fmt.Sprintf("CAST(%s AS INTEGER)", numExpr(col))
}

// boolExpr parses a staging flag column, treating missing as false.
func boolExpr(col string) string {
	return fmt.Sprintf("COALESCE(%s, 0) <> 0", numExpr(col))
}

// textExpr parses a staging text column, treating missing as empty string.
func textExpr(col string) string {
	return fmt.Sprintf("COALESCE(NULLIF(%s, 'NA'), '')", col)
}

// zeroNumExpr parses a staging column as a double, treating missing as zero.
func zeroNumExpr(col string) string {
	return fmt.Sprintf("COALESCE(%s, 0)", numExpr(col))
}

// IngestPlays loads one season of play-by-play CSV into the pbp table.
// Only pass and run plays are kept; the season's previous rows are
// replaced, so re-ingesting is idempotent. Returns the number of rows the
// season holds after ingest.
func (w *Warehouse) IngestPlays(ctx context.Context, season int, csvPath string) (int64, error) {
	adapter, err := w.Adapter(ctx)
	if err != nil {
		return 0, err
	}

	w.logger.Debug("ingesting play-by-play", "season", season, "path", csvPath)

	if err := adapter.LoadCSV(ctx, playsStagingTable, csvPath); err != nil {
		return 0, fmt.Errorf("failed to stage play-by-play CSV: %w", err)
	}
	defer w.dropStaging(ctx, adapter, playsStagingTable)

	if err := adapter.Exec(ctx, createPlaysTableSQL); err != nil {
		return 0, fmt.Errorf("failed to create pbp table: %w", err)
	}

	ph := adapter.Placeholder
	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE season = %s", playsTable, ph(1))
	if err := adapter.Exec(ctx, deleteSQL, season); err != nil {
		return 0, fmt.Errorf("failed to clear season %d: %w", season, err)
	}

	insertSQL := fmt.Sprintf(`
		INSERT INTO %s
		SELECT
			%s, %s, %s,
			play_type,
			%s, %s,
			%s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s,
			%s, %s, %s,
			%s
		FROM %s
		WHERE play_type IN ('pass', 'run')
		  AND %s = %s`,
		playsTable,
		intExpr("season"), intExpr("week"), textExpr("season_type"),
		textExpr("posteam"), textExpr("defteam"),
		textExpr("passer"), textExpr("receiver_player_name"), textExpr("receiver_player_id"),
		textExpr("rusher_player_name"), textExpr("rusher_player_id"),
		boolExpr("complete_pass"), boolExpr("pass_touchdown"), boolExpr("rush_touchdown"),
		boolExpr("interception"), boolExpr("success"),
		zeroNumExpr("passing_yards"), zeroNumExpr("receiving_yards"), zeroNumExpr("rushing_yards"),
		numExpr("epa"),
		playsStagingTable,
		intExpr("season"), ph(1),
	)
	if err := adapter.Exec(ctx, insertSQL, season); err != nil {
		return 0, fmt.Errorf("failed to normalize play-by-play: %w", err)
	}

	return w.seasonRowCount(ctx, adapter, playsTable, season)
}

// IngestRosters loads one season of roster CSV into the rosters table.
// Returns the number of roster rows the season holds after ingest.
func (w *Warehouse) IngestRosters(ctx context.Context, season int, csvPath string) (int64, error) {
	adapter, err := w.Adapter(ctx)
	if err != nil {
		return 0, err
	}

	w.logger.Debug("ingesting rosters", "season", season, "path", csvPath)

	if err := adapter.LoadCSV(ctx, rosterStagingTable, csvPath); err != nil {
		return 0, fmt.Errorf("failed to stage roster CSV: %w", err)
	}
	defer w.dropStaging(ctx, adapter, rosterStagingTable)

	if err := adapter.Exec(ctx, createRosterTableSQL); err != nil {
		return 0, fmt.Errorf("failed to create rosters table: %w", err)
	}

	ph := adapter.Placeholder
	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE season = %s", rosterTable, ph(1))
	if err := adapter.Exec(ctx, deleteSQL, season); err != nil {
		return 0, fmt.Errorf("failed to clear roster season %d: %w", season, err)
	}

	insertSQL := fmt.Sprintf(`
		INSERT INTO %s
		SELECT
			%s,
			%s,
			COALESCE(NULLIF(NULLIF(position, ''), 'NA'), 'UNK'),
			%s
		FROM %s
		WHERE %s = %s`,
		rosterTable,
		textExpr("full_name"),
		textExpr("gsis_id"),
		intExpr("season"),
		rosterStagingTable,
		intExpr("season"), ph(1),
	)
	if err := adapter.Exec(ctx, insertSQL, season); err != nil {
		return 0, fmt.Errorf("failed to normalize rosters: %w", err)
	}

	return w.seasonRowCount(ctx, adapter, rosterTable, season)
}

func (w *Warehouse) seasonRowCount(ctx context.Context, adapter Adapter, table string, season int) (int64, error) {
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE season = %s", table, adapter.Placeholder(1))
	var n int64
	if err := adapter.QueryRow(ctx, countSQL, season).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", table, err)
	}
	return n, nil
}

func (w *Warehouse) dropStaging(ctx context.Context, adapter Adapter, table string) {
	if err := adapter.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		w.logger.Warn("failed to drop staging table", "table", table, "error", err)
	}
}
