// Package features provides shared test utilities for UI feature tests.
package features

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/internal/results"
	"github.com/leapstack-labs/leapcheck/internal/state"
	"github.com/leapstack-labs/leapcheck/internal/testutil"
	"github.com/leapstack-labs/leapcheck/internal/ui/notifier"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Source   display.Source
	Store    *state.SQLiteStore
	Notifier *notifier.Notifier
	Dir      string
}

// SetupTestFixture writes checks to a temp directory and opens an
// in-memory history store.
func SetupTestFixture(t *testing.T, checks string) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	dir := t.TempDir()

	checksPath := filepath.Join(dir, "checks.yaml")
	require.NoError(t, os.WriteFile(checksPath, []byte(checks), 0o600))

	store := state.NewSQLiteStore(logger)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.InitSchema())
	t.Cleanup(func() { _ = store.Close() })

	return &TestFixture{
		Source: display.Source{
			ChecksPath:  checksPath,
			ResultsPath: filepath.Join(dir, "results.json"),
			Logger:      logger,
		},
		Store:    store,
		Notifier: notifier.New(),
		Dir:      dir,
	}
}

// WriteResults replaces the fixture's results file.
func (f *TestFixture) WriteResults(t *testing.T, entries ...core.PersistedResult) {
	t.Helper()
	require.NoError(t, results.Save(f.Source.ResultsPath, entries))
}

// RecordRun stores a completed run with the given results in history.
func (f *TestFixture) RecordRun(t *testing.T, entries ...core.StoredResult) string {
	t.Helper()
	run, err := f.Store.CreateRun(f.Source.ChecksPath)
	require.NoError(t, err)
	require.NoError(t, f.Store.RecordResults(run.ID, entries))
	require.NoError(t, f.Store.CompleteRun(run.ID, core.RunStatusCompleted, ""))
	return run.ID
}
