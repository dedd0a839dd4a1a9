package output

import "github.com/leapstack-labs/leapcheck/internal/display"

// StatusOutput is the JSON shape of `leapcheck status`.
type StatusOutput struct {
	Checks  []display.Record `json:"checks"`
	Summary StatusSummary    `json:"summary"`
}

// StatusSummary counts records per status.
type StatusSummary struct {
	Total   int    `json:"total"`
	Error   int    `json:"error"`
	Warning int    `json:"warning"`
	OK      int    `json:"ok"`
	Pending int    `json:"pending"`
	Worst   string `json:"worst"`
}

// RunOutput is the JSON shape of `leapcheck run`.
type RunOutput struct {
	BatchID   string           `json:"batch_id"`
	Timestamp string           `json:"timestamp"`
	Results   string           `json:"results_file"`
	Checks    []display.Record `json:"checks"`
	ElapsedS  float64          `json:"elapsed_s"`
}

// RunInfo describes one recorded batch run.
type RunInfo struct {
	ID          string  `json:"id"`
	ChecksFile  string  `json:"checks_file"`
	Status      string  `json:"status"`
	StartedAt   string  `json:"started_at"`
	CompletedAt *string `json:"completed_at"`
	Error       *string `json:"error"`
}

// HistoryEntry is one recorded count of a check.
type HistoryEntry struct {
	RunID      string  `json:"run_id"`
	Count      float64 `json:"count"`
	Time       float64 `json:"time"`
	Status     string  `json:"status"`
	RecordedAt string  `json:"recorded_at"`
}

// ValidateOutput is the JSON shape of `leapcheck validate`.
type ValidateOutput struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Checks []string `json:"checks"`
	Error  *string  `json:"error,omitempty"`
}
