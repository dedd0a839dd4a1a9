// Package display merges check definitions with persisted results into
// records ready for presentation.
package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Record is a definition joined with its latest persisted result.
// Records are built fresh for every presentation and never persisted.
type Record struct {
	Name         string          `json:"name"`
	QueryCheck   string          `json:"query_check"`
	QueryExample string          `json:"query_example,omitempty"`
	Thresholds   core.Thresholds `json:"thresholds"`

	HasResult bool           `json:"has_result"`
	Count     *float64       `json:"count"`
	Time      *float64       `json:"time"`
	Example   map[string]any `json:"example"`
	Status    core.Status    `json:"status"`

	TimeS    string `json:"-"`
	WarnS    string `json:"warn"`
	AlertS   string `json:"alert"`
	ExampleS string `json:"-"`
}

// Merge overlays results on defs. Every definition yields one record, in
// definition order; results naming no definition are dropped. When a name
// appears more than once in results, the last entry wins.
func Merge(defs []core.CheckDefinition, results []core.PersistedResult, logger *slog.Logger) []Record {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	byName := make(map[string]int, len(defs))
	records := make([]Record, len(defs))
	for i, def := range defs {
		byName[def.Name] = i
		records[i] = newRecord(def)
	}

	for _, res := range results {
		i, ok := byName[res.Name]
		if !ok {
			logger.Debug("ignoring result without definition", slog.String("name", res.Name))
			continue
		}
		records[i].apply(res, defs[i].Thresholds)
	}

	return records
}

func newRecord(def core.CheckDefinition) Record {
	return Record{
		Name:         def.Name,
		QueryCheck:   def.QueryCheck,
		QueryExample: def.QueryExample,
		Thresholds:   def.Thresholds,
		Status:       core.StatusPending,
		WarnS:        def.Thresholds.WarnLabel(),
		AlertS:       def.Thresholds.AlertLabel(),
	}
}

func (r *Record) apply(res core.PersistedResult, t core.Thresholds) {
	count, elapsed := res.Count, res.Time

	r.HasResult = true
	r.Count = &count
	r.Time = &elapsed
	r.Example = res.Example
	r.Status = core.Classify(count, t)
	r.TimeS = fmt.Sprintf("%.0f", elapsed)
	r.ExampleS = formatExample(res.Example)
}

// formatExample renders an example row as indented JSON with sorted keys.
func formatExample(example map[string]any) string {
	if example == nil {
		return "null"
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(example); err != nil {
		return fmt.Sprintf("%v", example)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Order sorts records by severity, then by name. Errors come first and
// pending records last.
func Order(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if ri, rj := records[i].Status.Rank(), records[j].Status.Rank(); ri != rj {
			return ri < rj
		}
		return records[i].Name < records[j].Name
	})
}

// Find returns the record named name.
func Find(records []Record, name string) (Record, bool) {
	for _, r := range records {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}

// Counts tallies records per status.
func Counts(records []Record) map[core.Status]int {
	counts := make(map[core.Status]int, 4)
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}

// Worst returns the most severe status among records, or pending when
// there are none.
func Worst(records []Record) core.Status {
	worst := core.StatusPending
	for _, r := range records {
		if r.Status.Rank() < worst.Rank() {
			worst = r.Status
		}
	}
	return worst
}
