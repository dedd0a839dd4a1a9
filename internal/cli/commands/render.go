package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

var recordHeaders = []string{"status", "name", "count", "warn", "alert", "time (s)"}

// recordRows flattens records into table cells.
func recordRows(records []display.Record, styles *output.Styles) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		status := rec.Status.String()
		if styles != nil {
			status = styles.Status(rec.Status).Render(output.StatusSymbol(rec.Status) + " " + status)
		}
		count := "-"
		if rec.Count != nil {
			count = core.FormatNumber(*rec.Count)
		}
		timeS := "-"
		if rec.TimeS != "" {
			timeS = rec.TimeS
		}
		rows = append(rows, []string{status, rec.Name, count, rec.WarnS, rec.AlertS, timeS})
	}
	return rows
}

// renderRecords writes records as a table in text and markdown modes.
func renderRecords(r *output.Renderer, records []display.Record) {
	var styles *output.Styles
	if r.EffectiveMode() == output.ModeText {
		styles = r.Styles()
	}
	r.Table(recordHeaders, recordRows(records, styles))
}

// summarize counts records per status.
func summarize(records []display.Record) output.StatusSummary {
	counts := display.Counts(records)
	return output.StatusSummary{
		Total:   len(records),
		Error:   counts[core.StatusError],
		Warning: counts[core.StatusWarning],
		OK:      counts[core.StatusOK],
		Pending: counts[core.StatusPending],
		Worst:   display.Worst(records).String(),
	}
}

// summaryLine renders a summary as "2 error, 1 warning, 5 ok, 0 pending".
func summaryLine(s output.StatusSummary) string {
	return fmt.Sprintf("%d error, %d warning, %d ok, %d pending", s.Error, s.Warning, s.OK, s.Pending)
}
