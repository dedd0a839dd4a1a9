package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/internal/testutil"
	"github.com/leapstack-labs/leapcheck/internal/ui/features"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

func setupTestRouter(t *testing.T, withStore bool) (http.Handler, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t, testutil.SampleChecks)

	var store core.Store
	if withStore {
		store = fixture.Store
	}

	r := chi.NewRouter()
	SetupRoutes(r, NewHandlers(fixture.Source, store, 10))
	return r, fixture
}

func getJSON(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	return rec.Code
}

func TestListChecks(t *testing.T) {
	router, fixture := setupTestRouter(t, false)
	fixture.WriteResults(t,
		core.PersistedResult{Name: "orphan_orders", Count: 20, Time: 1},
		core.PersistedResult{Name: "duplicate_emails", Count: 0, Time: 1},
	)

	var got []map[string]any
	code := getJSON(t, router, "/api/checks", &got)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, got, 3)

	assert.Equal(t, "orphan_orders", got[0]["name"])
	assert.Equal(t, "warning", got[0]["status"])
	assert.Equal(t, ">10", got[0]["warn"])
	assert.Equal(t, "duplicate_emails", got[1]["name"])
	assert.Equal(t, "ok", got[1]["status"])
	assert.Equal(t, "daily_signups", got[2]["name"])
	assert.Equal(t, "pending", got[2]["status"])
	assert.Nil(t, got[2]["count"])
}

func TestGetCheck(t *testing.T) {
	router, fixture := setupTestRouter(t, true)
	fixture.WriteResults(t, core.PersistedResult{Name: "daily_signups", Count: 0, Time: 0.5})
	runID := fixture.RecordRun(t, core.StoredResult{Name: "daily_signups", Count: 0, Time: 0.5, Status: core.StatusError})

	var got map[string]any
	code := getJSON(t, router, "/api/checks/daily_signups", &got)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "daily_signups", got["name"])
	assert.Equal(t, "error", got["status"])
	assert.Equal(t, "<1", got["alert"])

	history, ok := got["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 1)
	assert.Equal(t, runID, history[0].(map[string]any)["run_id"])
}

func TestGetCheck_NotFound(t *testing.T) {
	router, _ := setupTestRouter(t, true)

	var got map[string]string
	code := getJSON(t, router, "/api/checks/nope", &got)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "check not found: nope", got["error"])
}

func TestListRuns(t *testing.T) {
	t.Run("history enabled", func(t *testing.T) {
		router, fixture := setupTestRouter(t, true)
		runID := fixture.RecordRun(t)

		var got []map[string]any
		code := getJSON(t, router, "/api/runs", &got)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, got, 1)
		assert.Equal(t, runID, got[0]["id"])
		assert.Equal(t, "completed", got[0]["status"])
		assert.NotNil(t, got[0]["completed_at"])
	})

	t.Run("history disabled", func(t *testing.T) {
		router, _ := setupTestRouter(t, false)

		var got []map[string]any
		code := getJSON(t, router, "/api/runs", &got)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, got)
	})
}
