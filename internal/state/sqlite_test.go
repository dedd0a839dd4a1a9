package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/internal/testutil"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.InitSchema())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)

	_, err := store.CreateRun("checks.yaml")
	assert.EqualError(t, err, "database not opened")
	assert.EqualError(t, store.InitSchema(), "database not opened")
	assert.EqualError(t, store.RecordResults("x", nil), "database not opened")
	_, err = store.GetCheckHistory("x", 1)
	assert.EqualError(t, err, "database not opened")
}

func TestSQLiteStore_InitSchema(t *testing.T) {
	store := setupTestStore(t)

	for _, table := range []string{"runs", "check_results"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		require.NoError(t, err, "table %s", table)
		_ = rows.Close()
	}

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Re-running is a no-op.
	require.NoError(t, store.InitSchema())
}

func TestSQLiteStore_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	require.NoError(t, store.InitSchema())
	run, err := store.CreateRun("checks.yaml")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore(nil)
	require.NoError(t, reopened.Open(path))
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.InitSchema())

	got, err := reopened.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "checks.yaml", got.ChecksFile)
	assert.Equal(t, path, reopened.Path())
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	tests := []struct {
		name       string
		status     RunStatus
		errMsg     string
		wantStatus RunStatus
		wantError  string
	}{
		{name: "completed", status: RunStatusCompleted, wantStatus: RunStatusCompleted},
		{name: "failed", status: RunStatusFailed, errMsg: "check \"x\" failed", wantStatus: RunStatusFailed, wantError: "check \"x\" failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)

			run, err := store.CreateRun("checks.yaml")
			require.NoError(t, err)
			assert.NotEmpty(t, run.ID)
			assert.Equal(t, RunStatusRunning, run.Status)

			require.NoError(t, store.CompleteRun(run.ID, tt.status, tt.errMsg))

			got, err := store.GetRun(run.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantError, got.Error)
			require.NotNil(t, got.CompletedAt)
			assert.False(t, got.CompletedAt.Before(got.StartedAt))
		})
	}
}

func TestSQLiteStore_RunNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetRun("missing")
	assert.EqualError(t, err, "run not found: missing")
	assert.EqualError(t, store.CompleteRun("missing", RunStatusCompleted, ""), "run not found: missing")

	latest, err := store.GetLatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := setupTestStore(t)

	var ids []string
	for range 3 {
		run, err := store.CreateRun("checks.yaml")
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	all, err := store.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	latest, err := store.GetLatestRun()
	require.NoError(t, err)
	assert.Equal(t, ids[2], latest.ID)
}

func TestSQLiteStore_Results(t *testing.T) {
	store := setupTestStore(t)

	first, err := store.CreateRun("checks.yaml")
	require.NoError(t, err)
	second, err := store.CreateRun("checks.yaml")
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordResults(first.ID, []StoredResult{
		{Name: "orphans", Count: 12, Time: 0.5, Status: core.StatusWarning, RecordedAt: base},
		{Name: "signups", Count: 0, Time: 0.1, Status: core.StatusError, RecordedAt: base},
	}))
	require.NoError(t, store.RecordResults(second.ID, []StoredResult{
		{Name: "orphans", Count: 150, Time: 0.7, Status: core.StatusError, RecordedAt: base.Add(time.Hour)},
	}))
	require.NoError(t, store.RecordResults(second.ID, nil))

	t.Run("results for run", func(t *testing.T) {
		got, err := store.GetResultsForRun(first.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "orphans", got[0].Name)
		assert.Equal(t, core.StatusWarning, got[0].Status)
		assert.Equal(t, "signups", got[1].Name)
		assert.Equal(t, first.ID, got[1].RunID)
		assert.True(t, base.Equal(got[1].RecordedAt))
	})

	t.Run("history newest first", func(t *testing.T) {
		got, err := store.GetCheckHistory("orphans", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, float64(150), got[0].Count)
		assert.Equal(t, second.ID, got[0].RunID)
		assert.Equal(t, float64(12), got[1].Count)
	})

	t.Run("history limit", func(t *testing.T) {
		got, err := store.GetCheckHistory("orphans", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("unknown check", func(t *testing.T) {
		got, err := store.GetCheckHistory("nope", 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSQLiteStore_DeleteOldRuns(t *testing.T) {
	store := setupTestStore(t)

	var ids []string
	for i := range 4 {
		run, err := store.CreateRun("checks.yaml")
		require.NoError(t, err)
		require.NoError(t, store.RecordResults(run.ID, []StoredResult{
			{Name: "c", Count: float64(i), Status: core.StatusOK},
		}))
		ids = append(ids, run.ID)
	}

	require.NoError(t, store.DeleteOldRuns(0))
	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 4)

	require.NoError(t, store.DeleteOldRuns(2))

	runs, err = store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[3], runs[0].ID)
	assert.Equal(t, ids[2], runs[1].ID)

	history, err := store.GetCheckHistory("c", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)

	old, err := store.GetResultsForRun(ids[0])
	require.NoError(t, err)
	assert.Empty(t, old)
}
