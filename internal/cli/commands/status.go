package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// StatusOptions holds options for the status command.
type StatusOptions struct {
	FailOn string
}

// ErrThresholdCrossed is returned by status when --fail-on matches.
type ErrThresholdCrossed struct {
	Worst  core.Status
	Counts output.StatusSummary
}

func (e *ErrThresholdCrossed) Error() string {
	return fmt.Sprintf("checks at %s: %s", e.Worst, summaryLine(e.Counts))
}

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	opts := &StatusOptions{}

	cmd := &cobra.Command{
		Use:   "status [name]",
		Short: "Show the latest result of every check",
		Long: `Merge the checks file with the results file and print every check with its
status, ordered by severity (error, warning, ok, pending) and then by name.

With a name, print that check in detail.

Output adapts to environment:
  - Terminal: Styled, colored table
  - Piped/Scripted: Markdown format
  
Use --output to override: auto, text, markdown, json`,
		Example: `  # Show all checks
  leapcheck status

  # Fail a CI job when any check is at warning or worse
  leapcheck status --fail-on warning

  # Show one check as JSON
  leapcheck status orphan_orders -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runStatusOne(cmd, args[0])
			}
			return runStatus(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "", "Exit non-zero when any check is at this status or worse (warning|error)")
	_ = cmd.RegisterFlagCompletionFunc("fail-on", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"warning", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// failThreshold parses --fail-on. The empty string disables the check.
func failThreshold(s string) (core.Status, bool, error) {
	if s == "" {
		return core.StatusPending, false, nil
	}
	status, ok := core.ParseStatus(s)
	if !ok || (status != core.StatusWarning && status != core.StatusError) {
		return core.StatusPending, false, fmt.Errorf("invalid --fail-on %q (expected warning or error)", s)
	}
	return status, true, nil
}

func runStatus(cmd *cobra.Command, opts *StatusOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	threshold, failOn, err := failThreshold(opts.FailOn)
	if err != nil {
		return err
	}

	records, err := cmdCtx.Source().Records()
	if err != nil {
		return err
	}
	summary := summarize(records)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(output.StatusOutput{Checks: records, Summary: summary}); err != nil {
			return err
		}
	case output.ModeMarkdown:
		r.Header(1, fmt.Sprintf("Checks (%d total)", summary.Total))
		r.Println(output.FormatKeyValue("Summary", summaryLine(summary)))
		r.Println("")
		renderRecords(r, records)
	default:
		r.Header(1, fmt.Sprintf("Checks (%d total)", summary.Total))
		renderRecords(r, records)
		r.Muted(summaryLine(summary))
	}

	worst := display.Worst(records)
	if failOn && worst.Rank() <= threshold.Rank() {
		return &ErrThresholdCrossed{Worst: worst, Counts: summary}
	}
	return nil
}

func runStatusOne(cmd *cobra.Command, name string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	rec, ok, err := cmdCtx.Source().Record(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("check not found: %s", name)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(rec)
	}

	count := "-"
	if rec.Count != nil {
		count = core.FormatNumber(*rec.Count)
	}
	timeS := "-"
	if rec.TimeS != "" {
		timeS = rec.TimeS + "s"
	}

	r.Header(1, rec.Name)
	r.Println(output.FormatKeyValue("Status", rec.Status.String()))
	r.Println(output.FormatKeyValue("Count", count))
	r.Println(output.FormatKeyValue("Warn", rec.WarnS))
	r.Println(output.FormatKeyValue("Alert", rec.AlertS))
	r.Println(output.FormatKeyValue("Time", timeS))
	r.Println("")
	r.Header(2, "Count query")
	r.Println(output.FormatCodeBlock("sql", rec.QueryCheck))
	if rec.QueryExample != "" {
		r.Println("")
		r.Header(2, "Example query")
		r.Println(output.FormatCodeBlock("sql", rec.QueryExample))
	}
	if rec.HasResult && rec.ExampleS != "null" && rec.ExampleS != "" {
		r.Println("")
		r.Header(2, "Example")
		r.Println(output.FormatCodeBlock("json", rec.ExampleS))
	}
	return nil
}
