package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcheck/internal/checks"
	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/internal/metrics"
	"github.com/leapstack-labs/leapcheck/internal/results"
	"github.com/leapstack-labs/leapcheck/internal/runner"
	"github.com/leapstack-labs/leapcheck/pkg/adapter"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Last bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all checks and write the results file",
		Long: `Execute every check against the configured target, in file order, and
replace the results file with the new batch.

A failing query aborts the batch and leaves the previous results file in place.
When run history is enabled the batch is also recorded in the state database.`,
		Example: `  # Run all checks
  leapcheck run

  # Run only the last check in the file while developing it
  leapcheck run --last

  # Run against the prod environment and print JSON
  leapcheck run -t prod -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Last, "last", false, "Only run the last check in the file")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger
	r := cmdCtx.Renderer

	if err := cfg.ValidateChecksFile(); err != nil {
		return err
	}
	defs, err := checks.LoadFile(cfg.Checks)
	if err != nil {
		return err
	}
	if opts.Last {
		defs = checks.Last(defs)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := adapter.NewAdapter(cfg.Target.AdapterConfig(), logger)
	if err != nil {
		return err
	}
	if err := db.Connect(ctx, cfg.Target.AdapterConfig()); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.Target.Type, err)
	}
	defer func() { _ = db.Close() }()

	store, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	var history core.Store
	if store != nil {
		defer func() { _ = store.Close() }()
		history = store
	}

	start := time.Now()
	job := &batchJob{
		Session:     db,
		Store:       history,
		ChecksFile:  cfg.Checks,
		ResultsFile: cfg.Results,
		HistoryKeep: cfg.HistoryKeep,
		Logger:      logger,
	}
	batch, err := job.Run(ctx, defs)
	if err != nil {
		return err
	}

	records := display.Merge(defs, batch.Results, logger)

	if m := cfg.GetMetricsConfig(); m.PushURL != "" {
		if err := metrics.Push(ctx, m.PushURL, m.Job, records); err != nil {
			logger.Warn("failed to push metrics", slog.String("url", m.PushURL), slog.String("error", err.Error()))
		}
	}

	display.Order(records)
	elapsed := time.Since(start)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.RunOutput{
			BatchID:   batch.ID,
			Timestamp: batch.Timestamp.Format(time.RFC3339),
			Results:   cfg.Results,
			Checks:    records,
			ElapsedS:  elapsed.Seconds(),
		})
	case output.ModeMarkdown:
		r.Header(1, fmt.Sprintf("Run %s", batch.ID))
		r.Println(output.FormatKeyValue("Checks", fmt.Sprintf("%d", len(records))))
		r.Println(output.FormatKeyValue("Results", cfg.Results))
		r.Println(output.FormatKeyValue("Summary", summaryLine(summarize(records))))
		r.Println("")
		renderRecords(r, records)
	default:
		for _, rec := range records {
			detail := ""
			if rec.Count != nil {
				detail = fmt.Sprintf("count %s in %ss", core.FormatNumber(*rec.Count), rec.TimeS)
			}
			r.StatusLine(rec.Name, rec.Status, detail)
		}
		r.Success(fmt.Sprintf("Ran %d checks in %s (%s)", len(records), elapsed.Round(time.Millisecond), summaryLine(summarize(records))))
		r.Muted(fmt.Sprintf("Results written to %s", cfg.Results))
	}
	return nil
}

// batchJob runs one batch and persists its outcome.
type batchJob struct {
	Session     core.Session
	Store       core.Store // nil disables run history
	ChecksFile  string
	ResultsFile string
	HistoryKeep int
	Logger      *slog.Logger
	Clock       func() time.Time
}

// Run executes defs in order. On success the results file is replaced and
// the results are recorded in run history. On failure the results file is
// left untouched and the run is recorded as failed.
func (j *batchJob) Run(ctx context.Context, defs []core.CheckDefinition) (*runner.Batch, error) {
	logger := j.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var opts []runner.Option
	if j.Clock != nil {
		opts = append(opts, runner.WithClock(j.Clock))
	}
	rn := runner.New(j.Session, logger, opts...)
	batch := rn.NewBatch()

	var run *core.Run
	if j.Store != nil {
		var err error
		run, err = j.Store.CreateRun(j.ChecksFile)
		if err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
	}

	fail := func(err error) (*runner.Batch, error) {
		if run != nil {
			if cerr := j.Store.CompleteRun(run.ID, core.RunStatusFailed, err.Error()); cerr != nil {
				logger.Warn("failed to record run failure", slog.String("run_id", run.ID), slog.String("error", cerr.Error()))
			}
		}
		return nil, err
	}

	entries, err := rn.RunBatch(ctx, batch, defs)
	if err != nil {
		var checkErr *runner.CheckError
		if errors.As(err, &checkErr) {
			logger.Info("batch aborted, keeping previous results", slog.String("results", j.ResultsFile))
		}
		return fail(err)
	}

	if err := results.Save(j.ResultsFile, entries); err != nil {
		return fail(fmt.Errorf("failed to write results: %w", err))
	}

	if run != nil {
		if err := j.Store.RecordResults(run.ID, storedResults(defs, entries, batch.Timestamp)); err != nil {
			return fail(fmt.Errorf("failed to record results: %w", err))
		}
		if err := j.Store.CompleteRun(run.ID, core.RunStatusCompleted, ""); err != nil {
			return nil, fmt.Errorf("failed to complete run: %w", err)
		}
		if j.HistoryKeep > 0 {
			if err := j.Store.DeleteOldRuns(j.HistoryKeep); err != nil {
				logger.Warn("failed to prune run history", slog.String("error", err.Error()))
			}
		}
	}

	return batch, nil
}

// storedResults pairs each result with its definition to classify it.
// RunBatch returns one result per definition, in definition order.
func storedResults(defs []core.CheckDefinition, entries []core.PersistedResult, at time.Time) []core.StoredResult {
	stored := make([]core.StoredResult, 0, len(entries))
	for i, e := range entries {
		status := core.StatusPending
		if i < len(defs) {
			status = core.Classify(e.Count, defs[i].Thresholds)
		}
		stored = append(stored, core.StoredResult{
			Name:       e.Name,
			Count:      e.Count,
			Time:       e.Time,
			Status:     status,
			RecordedAt: at,
		})
	}
	return stored
}
