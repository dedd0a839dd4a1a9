package display

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/internal/testutil"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestMerge(t *testing.T) {
	defs := []core.CheckDefinition{
		{Name: "orphans", QueryCheck: "q1", Thresholds: core.Thresholds{WarnAbove: core.Float(10), AlertAbove: core.Float(100)}},
		{Name: "signups", QueryCheck: "q2", Thresholds: core.Thresholds{WarnBelow: core.Float(5), AlertBelow: core.Float(1)}},
		{Name: "plain", QueryCheck: "q3"},
		{Name: "never_run", QueryCheck: "q4", Thresholds: core.Thresholds{WarnAbove: core.Float(1)}},
	}
	results := []core.PersistedResult{
		{Name: "orphans", Count: 150, Time: 2.6, Example: map[string]any{"id": float64(7), "b": "x"}},
		{Name: "signups", Count: 3, Time: 0.4},
		{Name: "plain", Count: 0, Time: 1.2},
		{Name: "ghost", Count: 9, Time: 1},
	}

	records := Merge(defs, results, testutil.NewTestLogger(t))
	require.Len(t, records, 4)
	assert.Equal(t, []string{"orphans", "signups", "plain", "never_run"}, names(records))

	t.Run("alert above", func(t *testing.T) {
		r := records[0]
		assert.True(t, r.HasResult)
		assert.Equal(t, core.StatusError, r.Status)
		assert.Equal(t, ">10", r.WarnS)
		assert.Equal(t, ">100", r.AlertS)
		assert.Equal(t, "3", r.TimeS)
		assert.Equal(t, "{\n  \"b\": \"x\",\n  \"id\": 7\n}", r.ExampleS)
	})

	t.Run("warn below", func(t *testing.T) {
		r := records[1]
		assert.Equal(t, core.StatusWarning, r.Status)
		assert.Equal(t, "<5", r.WarnS)
		assert.Equal(t, "<1", r.AlertS)
		assert.Equal(t, "null", r.ExampleS)
		assert.Equal(t, "0", r.TimeS)
	})

	t.Run("no thresholds", func(t *testing.T) {
		r := records[2]
		assert.Equal(t, core.StatusOK, r.Status)
		require.NotNil(t, r.Count)
		assert.Zero(t, *r.Count)
		assert.Equal(t, "-", r.WarnS)
		assert.Equal(t, "-", r.AlertS)
	})

	t.Run("pending", func(t *testing.T) {
		r := records[3]
		assert.False(t, r.HasResult)
		assert.Equal(t, core.StatusPending, r.Status)
		assert.Nil(t, r.Count)
		assert.Nil(t, r.Time)
		assert.Nil(t, r.Example)
		assert.Empty(t, r.TimeS)
		assert.Empty(t, r.ExampleS)
		assert.Equal(t, ">1", r.WarnS)
	})

	_, found := Find(records, "ghost")
	assert.False(t, found)
}

func TestMerge_LastDuplicateWins(t *testing.T) {
	defs := []core.CheckDefinition{{Name: "a", QueryCheck: "q", Thresholds: core.Thresholds{WarnAbove: core.Float(1)}}}
	results := []core.PersistedResult{
		{Name: "a", Count: 5},
		{Name: "a", Count: 0},
	}

	records := Merge(defs, results, nil)
	require.Len(t, records, 1)
	assert.Equal(t, float64(0), *records[0].Count)
	assert.Equal(t, core.StatusOK, records[0].Status)
}

func TestMerge_DoesNotAliasInputs(t *testing.T) {
	defs := []core.CheckDefinition{{Name: "a", QueryCheck: "q"}}
	results := []core.PersistedResult{{Name: "a", Count: 5, Time: 1}}

	records := Merge(defs, results, nil)
	*records[0].Count = 99

	assert.Equal(t, float64(5), results[0].Count)
}

func TestOrder(t *testing.T) {
	defs := []core.CheckDefinition{
		{Name: "a", QueryCheck: "q"},
		{Name: "c", QueryCheck: "q", Thresholds: core.Thresholds{AlertAbove: core.Float(0)}},
		{Name: "b", QueryCheck: "q", Thresholds: core.Thresholds{WarnAbove: core.Float(0)}},
		{Name: "e", QueryCheck: "q"},
		{Name: "d", QueryCheck: "q", Thresholds: core.Thresholds{AlertAbove: core.Float(0)}},
	}
	results := []core.PersistedResult{
		{Name: "a", Count: 1},
		{Name: "c", Count: 1},
		{Name: "b", Count: 1},
		{Name: "d", Count: 1},
	}

	want := []string{"c", "d", "b", "a", "e"}

	records := Merge(defs, results, nil)
	Order(records)
	assert.Equal(t, want, names(records))

	// Independent of input order.
	reversed := make([]core.CheckDefinition, len(defs))
	for i, d := range defs {
		reversed[len(defs)-1-i] = d
	}
	records = Merge(reversed, results, nil)
	Order(records)
	assert.Equal(t, want, names(records))
}

func TestFind(t *testing.T) {
	records := Merge([]core.CheckDefinition{{Name: "x", QueryCheck: "q"}, {Name: "y", QueryCheck: "q"}}, nil, nil)

	r, ok := Find(records, "y")
	require.True(t, ok)
	assert.Equal(t, "y", r.Name)

	missing, ok := Find(records, "z")
	assert.False(t, ok)
	assert.Equal(t, core.StatusPending, missing.Status, "a miss never reads as error")
}

func TestCountsAndWorst(t *testing.T) {
	defs := []core.CheckDefinition{
		{Name: "a", QueryCheck: "q", Thresholds: core.Thresholds{WarnAbove: core.Float(0)}},
		{Name: "b", QueryCheck: "q"},
		{Name: "c", QueryCheck: "q"},
	}
	records := Merge(defs, []core.PersistedResult{{Name: "a", Count: 1}, {Name: "b", Count: 1}}, nil)

	assert.Equal(t, map[core.Status]int{core.StatusWarning: 1, core.StatusOK: 1, core.StatusPending: 1}, Counts(records))
	assert.Equal(t, core.StatusWarning, Worst(records))
	assert.Equal(t, core.StatusPending, Worst(nil))
}

func TestRecord_JSON(t *testing.T) {
	defs := []core.CheckDefinition{{Name: "a", QueryCheck: "SELECT 1", Thresholds: core.Thresholds{WarnAbove: core.Float(3)}}}
	records := Merge(defs, []core.PersistedResult{{Name: "a", Count: 4, Time: 0.5}}, nil)

	raw, err := json.Marshal(records[0])
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "warning", got["status"])
	assert.Equal(t, float64(4), got["count"])
	assert.Equal(t, ">3", got["warn"])
	assert.Equal(t, map[string]any{"warn_above": float64(3)}, got["thresholds"])
	assert.NotContains(t, got, "ExampleS")
}
