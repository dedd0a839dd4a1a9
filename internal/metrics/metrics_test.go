package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

func sampleRecords() []display.Record {
	defs := []core.CheckDefinition{
		{Name: "orphans", QueryCheck: "q", Thresholds: core.Thresholds{AlertAbove: core.Float(100)}},
		{Name: "idle", QueryCheck: "q"},
	}
	return display.Merge(defs, []core.PersistedResult{{Name: "orphans", Count: 150, Time: 0.5}}, nil)
}

func TestCollector(t *testing.T) {
	c := Static(sampleRecords())

	expected := `
# HELP leapcheck_check_count Count returned by the latest run of a check.
# TYPE leapcheck_check_count gauge
leapcheck_check_count{check="orphans"} 150
# HELP leapcheck_check_duration_seconds Duration of the latest run of a check in seconds.
# TYPE leapcheck_check_duration_seconds gauge
leapcheck_check_duration_seconds{check="orphans"} 0.5
# HELP leapcheck_checks Number of checks per status.
# TYPE leapcheck_checks gauge
leapcheck_checks{status="error"} 1
leapcheck_checks{status="ok"} 0
leapcheck_checks{status="pending"} 1
leapcheck_checks{status="warning"} 0
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"leapcheck_check_count", "leapcheck_check_duration_seconds", "leapcheck_checks")
	require.NoError(t, err)

	status := `
# HELP leapcheck_check_status Current status of a check. The active status has value 1, others 0.
# TYPE leapcheck_check_status gauge
leapcheck_check_status{check="idle",status="error"} 0
leapcheck_check_status{check="idle",status="ok"} 0
leapcheck_check_status{check="idle",status="pending"} 1
leapcheck_check_status{check="idle",status="warning"} 0
leapcheck_check_status{check="orphans",status="error"} 1
leapcheck_check_status{check="orphans",status="ok"} 0
leapcheck_check_status{check="orphans",status="pending"} 0
leapcheck_check_status{check="orphans",status="warning"} 0
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(status), "leapcheck_check_status"))
}

func TestCollector_SourceError(t *testing.T) {
	c := NewCollector(func() ([]display.Record, error) { return nil, errors.New("boom") })

	registry := NewRegistry(c)
	_, err := registry.Gather()
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.errors))
}

func TestHandler(t *testing.T) {
	srv := httptest.NewServer(Handler(NewRegistry(Static(sampleRecords()))))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `leapcheck_check_count{check="orphans"} 150`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestPush(t *testing.T) {
	var gotPath, gotBody string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	require.NoError(t, Push(context.Background(), gateway.URL, "nightly", sampleRecords()))
	assert.Equal(t, "/metrics/job/nightly", gotPath)
	assert.Contains(t, gotBody, "leapcheck_check_count")
}

func TestPush_GatewayError(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gateway.Close()

	err := Push(context.Background(), gateway.URL, "", sampleRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to push metrics")
}
