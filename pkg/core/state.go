package core

import "time"

// Store defines the interface for run history operations.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	// Run operations
	CreateRun(checksFile string) (*Run, error)
	GetRun(id string) (*Run, error)
	CompleteRun(id string, status RunStatus, errMsg string) error
	GetLatestRun() (*Run, error)
	ListRuns(limit int) ([]*Run, error)

	// Check result operations
	RecordResults(runID string, results []StoredResult) error
	GetResultsForRun(runID string) ([]StoredResult, error)
	GetCheckHistory(name string, limit int) ([]StoredResult, error)
	DeleteOldRuns(keepRuns int) error
}

// RunStatus represents the status of a batch run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run represents one batch execution of a check-set.
type Run struct {
	ID          string
	ChecksFile  string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// StoredResult is one check outcome recorded in run history.
type StoredResult struct {
	RunID      string
	Name       string
	Count      float64
	Time       float64
	Status     Status
	RecordedAt time.Time
}
