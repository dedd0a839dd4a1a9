// Package runner executes checks against a database session.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapcheck/internal/sanitize"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Runner executes checks sequentially on a single session.
type Runner struct {
	session core.Session
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces the wall clock used for timing and batch timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a runner bound to session.
// If logger is nil, a discard logger is used.
func New(session core.Session, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{
		session: session,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunCheck executes one check. Elapsed time covers the count query and the
// example query together.
func (r *Runner) RunCheck(ctx context.Context, def core.CheckDefinition) (core.CheckResult, error) {
	start := r.now()

	raw, err := r.session.QueryScalar(ctx, def.QueryCheck)
	if err != nil {
		return core.CheckResult{}, fmt.Errorf("count query failed: %w", err)
	}
	count, err := toCount(raw)
	if err != nil {
		return core.CheckResult{}, err
	}

	var example map[string]any
	if def.HasExample() {
		example, err = r.session.QueryFirstRow(ctx, def.QueryExample)
		if err != nil {
			return core.CheckResult{}, fmt.Errorf("example query failed: %w", err)
		}
	}

	elapsed := r.now().Sub(start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	return core.CheckResult{
		Count:   count,
		Example: example,
		Time:    elapsed,
	}, nil
}

// Batch describes one execution of a check-set.
type Batch struct {
	ID        string
	Timestamp time.Time
	Results   []core.PersistedResult
}

// CheckError reports the check that aborted a batch.
type CheckError struct {
	Name string
	Err  error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check %q failed: %v", e.Name, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// NewBatch starts a batch with a fresh id.
func (r *Runner) NewBatch() *Batch {
	return &Batch{
		ID:        uuid.NewString(),
		Timestamp: r.now(),
	}
}

// RunBatch executes every definition in order and assembles the results.
// The first failing check aborts the batch; no partial results are returned.
func (r *Runner) RunBatch(ctx context.Context, batch *Batch, defs []core.CheckDefinition) ([]core.PersistedResult, error) {
	logger := r.logger.With(
		slog.String("batch_id", batch.ID),
		slog.String("batch_timestamp", batch.Timestamp.Format(time.RFC3339Nano)),
	)

	results := make([]core.PersistedResult, 0, len(defs))
	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Info("run-check", slog.String("name", def.Name))

		res, err := r.RunCheck(ctx, def)
		if err != nil {
			logger.Error("check-failed", slog.String("name", def.Name), slog.String("error", err.Error()))
			return nil, &CheckError{Name: def.Name, Err: err}
		}

		logger.Debug("check-finished",
			slog.String("name", def.Name),
			slog.Float64("count", res.Count),
			slog.Float64("time", res.Time),
			slog.String("status", core.Classify(res.Count, def.Thresholds).String()),
		)

		results = append(results, Assemble(def, res))
	}

	batch.Results = results
	return results, nil
}

// Assemble builds the persisted record of a check result.
func Assemble(def core.CheckDefinition, res core.CheckResult) core.PersistedResult {
	return core.PersistedResult{
		Name:    def.Name,
		Count:   res.Count,
		Time:    res.Time,
		Example: sanitize.Row(res.Example),
	}
}
