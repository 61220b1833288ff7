package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite state store instance. If logger is
// nil, a discard logger is used.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// StartLoad records the beginning of a dataset load.
func (s *SQLiteStore) StartLoad(dataset string, season int, sourcePath string) (*Load, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	load := &Load{
		ID:         generateID(),
		Dataset:    dataset,
		Season:     season,
		Status:     LoadStatusRunning,
		SourcePath: sourcePath,
		StartedAt:  time.Now().UTC(),
	}

	s.logger.Debug("recording load start",
		slog.String("id", load.ID), slog.String("dataset", dataset), slog.Int("season", season))

	_, err := s.db.Exec(
		`INSERT INTO loads (id, dataset, season, status, source_path, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		load.ID, load.Dataset, load.Season, load.Status, load.SourcePath, load.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record load: %w", err)
	}
	return load, nil
}

// CompleteLoad marks a load as completed with its final row count.
func (s *SQLiteStore) CompleteLoad(id string, rowCount int64) error {
	return s.finishLoad(id, LoadStatusCompleted, rowCount, "")
}

// FailLoad marks a load as failed.
func (s *SQLiteStore) FailLoad(id string, errMsg string) error {
	return s.finishLoad(id, LoadStatusFailed, 0, errMsg)
}

func (s *SQLiteStore) finishLoad(id string, status LoadStatus, rowCount int64, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	res, err := s.db.Exec(
		`UPDATE loads SET status = ?, row_count = ?, completed_at = ?, error = ? WHERE id = ?`,
		status, rowCount, time.Now().UTC(), errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update load: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("load not found: %s", id)
	}
	return nil
}

// GetLoad retrieves a load by ID.
func (s *SQLiteStore) GetLoad(id string) (*Load, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	load, err := scanLoad(s.db.QueryRow(
		`SELECT id, dataset, season, status, source_path, row_count, started_at, completed_at, error
		 FROM loads WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load not found: %s", id)
	}
	return load, err
}

// LatestLoad retrieves the most recent load for a dataset season.
// Returns nil without error when no load exists.
func (s *SQLiteStore) LatestLoad(dataset string, season int) (*Load, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	load, err := scanLoad(s.db.QueryRow(
		`SELECT id, dataset, season, status, source_path, row_count, started_at, completed_at, error
		 FROM loads WHERE dataset = ? AND season = ?
		 ORDER BY started_at DESC LIMIT 1`, dataset, season))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return load, err
}

// ListLoads retrieves the most recent loads up to the given limit.
func (s *SQLiteStore) ListLoads(limit int) ([]*Load, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, dataset, season, status, source_path, row_count, started_at, completed_at, error
		 FROM loads ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}
	defer rows.Close()

	var loads []*Load
	for rows.Next() {
		load, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, load)
	}
	return loads, rows.Err()
}

// CompletedSeasons lists the seasons whose most recent load of a dataset
// completed, oldest first.
func (s *SQLiteStore) CompletedSeasons(dataset string) ([]int, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT season FROM loads l
		 WHERE dataset = ?
		   AND started_at = (SELECT MAX(started_at) FROM loads WHERE dataset = l.dataset AND season = l.season)
		   AND status = ?
		 ORDER BY season`, dataset, LoadStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed seasons: %w", err)
	}
	defer rows.Close()

	var seasons []int
	for rows.Next() {
		var season int
		if err := rows.Scan(&season); err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoad(row rowScanner) (*Load, error) {
	load := &Load{}
	var completedAt sql.NullTime
	var errMsg sql.NullString

	err := row.Scan(&load.ID, &load.Dataset, &load.Season, &load.Status, &load.SourcePath,
		&load.RowCount, &load.StartedAt, &completedAt, &errMsg)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		load.CompletedAt = &completedAt.Time
	}
	load.Error = errMsg.String
	return load, nil
}
