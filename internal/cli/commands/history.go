package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history [name]",
		Short: "Show recent runs or the recent counts of one check",
		Long: `Read the run history database.

Without arguments, list the most recent batch runs. With a check name, list
that check's most recent counts and statuses.`,
		Example: `  # Recent runs
  leapcheck history

  # The last 50 counts of one check
  leapcheck history orphan_orders --limit 50`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runCheckHistory(cmd, args[0], opts)
			}
			return runRunHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of entries")

	return cmd
}

func openHistory(cmdCtx *CommandContext) (core.Store, func(), error) {
	store, err := cmdCtx.OpenStore()
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, fmt.Errorf("run history is disabled (state_path is empty)")
	}
	return store, func() { _ = store.Close() }, nil
}

func runRunHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, cleanup, err := openHistory(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	infos := make([]output.RunInfo, 0, len(runs))
	for _, run := range runs {
		infos = append(infos, runInfo(run))
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	r.Header(1, fmt.Sprintf("Runs (%d)", len(infos)))
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		completed := "-"
		if info.CompletedAt != nil {
			completed = *info.CompletedAt
		}
		errMsg := ""
		if info.Error != nil {
			errMsg = *info.Error
		}
		rows = append(rows, []string{info.ID, info.Status, info.StartedAt, completed, errMsg})
	}
	r.Table([]string{"id", "status", "started", "completed", "error"}, rows)
	return nil
}

func runCheckHistory(cmd *cobra.Command, name string, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, cleanup, err := openHistory(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := store.GetCheckHistory(name, opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to read history of %s: %w", name, err)
	}

	entries := make([]output.HistoryEntry, 0, len(results))
	for _, res := range results {
		entries = append(entries, output.HistoryEntry{
			RunID:      res.RunID,
			Count:      res.Count,
			Time:       res.Time,
			Status:     res.Status.String(),
			RecordedAt: res.RecordedAt.Format(time.RFC3339),
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(entries)
	}

	r.Header(1, fmt.Sprintf("%s (%d runs)", name, len(entries)))
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.RecordedAt, e.Status, core.FormatNumber(e.Count), fmt.Sprintf("%.3f", e.Time), e.RunID})
	}
	r.Table([]string{"recorded", "status", "count", "time (s)", "run"}, rows)
	return nil
}

func runInfo(run *core.Run) output.RunInfo {
	info := output.RunInfo{
		ID:         run.ID,
		ChecksFile: run.ChecksFile,
		Status:     string(run.Status),
		StartedAt:  run.StartedAt.Format(time.RFC3339),
	}
	if run.CompletedAt != nil {
		s := run.CompletedAt.Format(time.RFC3339)
		info.CompletedAt = &s
	}
	if run.Error != "" {
		e := run.Error
		info.Error = &e
	}
	return info
}
