package display

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapcheck/internal/checks"
	"github.com/leapstack-labs/leapcheck/internal/results"
)

// Source reads definitions and persisted results from disk. Both files are
// re-read on every call, so presentation always reflects the latest run.
type Source struct {
	ChecksPath  string
	ResultsPath string
	Logger      *slog.Logger
}

// Records loads, merges and orders the current records.
func (s Source) Records() ([]Record, error) {
	defs, err := checks.LoadFile(s.ChecksPath)
	if err != nil {
		return nil, err
	}

	persisted, err := results.Load(s.ResultsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	records := Merge(defs, persisted, s.Logger)
	Order(records)
	return records, nil
}

// Record loads the record named name. The boolean is false when no
// definition has that name.
func (s Source) Record(name string) (Record, bool, error) {
	records, err := s.Records()
	if err != nil {
		return Record{}, false, err
	}
	r, ok := Find(records, name)
	return r, ok, nil
}
