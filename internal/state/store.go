// Package state tracks dataset loads in a local SQLite database so the
// CLI and server can tell which seasons are ingested, when, and whether
// the last attempt worked.
package state

import "time"

// LoadStatus describes where a dataset load currently stands.
type LoadStatus string

const (
	LoadStatusRunning   LoadStatus = "running"
	LoadStatusCompleted LoadStatus = "completed"
	LoadStatusFailed    LoadStatus = "failed"
)

// Load is one attempt at ingesting a dataset season into the warehouse.
type Load struct {
	ID          string     `json:"id"`
	Dataset     string     `json:"dataset"`
	Season      int        `json:"season"`
	Status      LoadStatus `json:"status"`
	SourcePath  string     `json:"source_path"`
	RowCount    int64      `json:"row_count"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Store persists load history.
type Store interface {
	Open(path string) error
	Migrate() error
	Close() error

	StartLoad(dataset string, season int, sourcePath string) (*Load, error)
	CompleteLoad(id string, rowCount int64) error
	FailLoad(id string, errMsg string) error

	GetLoad(id string) (*Load, error)
	LatestLoad(dataset string, season int) (*Load, error)
	ListLoads(limit int) ([]*Load, error)
	CompletedSeasons(dataset string) ([]int, error)
}
