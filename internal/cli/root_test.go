package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/internal/cli/commands"
	"github.com/leapstack-labs/leapcheck/internal/cli/config"
	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/internal/cli/testutil"
	"github.com/leapstack-labs/leapcheck/internal/results"

	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/sqlite"
)

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	root := NewRootCmd()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"run", "serve", "status", "validate", "history", "version", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "target", "checks", "results", "state", "verbose", "output", "log-level", "log-format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRunThenStatus(t *testing.T) {
	p := testutil.SetupTestProject(t)

	out, _, err := execute(t, "--config", p.ConfigPath, "-o", "markdown", "run")
	require.NoError(t, err)
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "1 error, 1 warning, 1 ok, 0 pending")

	saved, err := results.Load(p.Results)
	require.NoError(t, err)
	require.Len(t, saved, 3)
	// Execution order follows the checks file.
	assert.Equal(t, "orphan_orders", saved[0].Name)
	assert.Equal(t, float64(2), saved[0].Count)
	assert.Equal(t, map[string]any{"id": float64(11), "total": float64(20)}, saved[0].Example)
	assert.Equal(t, "daily_signups", saved[1].Name)
	assert.Equal(t, float64(0), saved[1].Count)
	assert.Equal(t, "duplicate_emails", saved[2].Name)
	assert.Equal(t, float64(1), saved[2].Count)
	assert.FileExists(t, p.StatePath)

	out, _, err = execute(t, "--config", p.ConfigPath, "-o", "json", "status")
	require.NoError(t, err)

	var status output.StatusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	require.Len(t, status.Checks, 3)
	// Severity first, then name.
	assert.Equal(t, "daily_signups", status.Checks[0].Name)
	assert.Equal(t, "orphan_orders", status.Checks[1].Name)
	assert.Equal(t, "duplicate_emails", status.Checks[2].Name)
	assert.Equal(t, "error", status.Summary.Worst)
}

func TestRun_Last(t *testing.T) {
	p := testutil.SetupTestProject(t)

	_, _, err := execute(t, "--config", p.ConfigPath, "-o", "json", "run", "--last")
	require.NoError(t, err)

	saved, err := results.Load(p.Results)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "duplicate_emails", saved[0].Name)
}

func TestRun_FailingQueryKeepsResults(t *testing.T) {
	p := testutil.SetupTestProject(t)

	_, _, err := execute(t, "--config", p.ConfigPath, "-o", "json", "run")
	require.NoError(t, err)
	before, err := os.ReadFile(p.Results)
	require.NoError(t, err)

	p.WriteChecks(t, testutil.ProjectChecks+`---
name: broken
query_check: SELECT COUNT(*) FROM no_such_table
`)
	_, _, err = execute(t, "--config", p.ConfigPath, "-o", "json", "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `check "broken" failed`)

	after, err := os.ReadFile(p.Results)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	out, _, err := execute(t, "--config", p.ConfigPath, "-o", "json", "history")
	require.NoError(t, err)

	var runs []output.RunInfo
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, "failed", runs[0].Status)
	require.NotNil(t, runs[0].Error)
	assert.Contains(t, *runs[0].Error, "no_such_table")
	assert.Equal(t, "completed", runs[1].Status)
}

func TestStatus_PendingWithoutResults(t *testing.T) {
	p := testutil.SetupTestProject(t)

	out, _, err := execute(t, "--config", p.ConfigPath, "-o", "markdown", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "# Checks (3 total)")
	assert.Contains(t, out, "| pending | daily_signups |")
	assert.Contains(t, out, "0 error, 0 warning, 0 ok, 3 pending")
}

func TestStatus_FailOn(t *testing.T) {
	p := testutil.SetupTestProject(t)

	_, _, err := execute(t, "--config", p.ConfigPath, "-o", "json", "run")
	require.NoError(t, err)

	_, _, err = execute(t, "--config", p.ConfigPath, "-o", "json", "status", "--fail-on", "error")
	var crossed *commands.ErrThresholdCrossed
	require.ErrorAs(t, err, &crossed)
	assert.Equal(t, "error", crossed.Worst.String())

	p.WriteChecks(t, `name: duplicate_emails
query_check: SELECT COUNT(*) - COUNT(DISTINCT email) FROM customers
warn_above: 5
`)
	_, _, err = execute(t, "--config", p.ConfigPath, "-o", "json", "status", "--fail-on", "warning")
	assert.NoError(t, err)
}

func TestStatus_OneCheck(t *testing.T) {
	p := testutil.SetupTestProject(t)

	_, _, err := execute(t, "--config", p.ConfigPath, "-o", "json", "run")
	require.NoError(t, err)

	out, _, err := execute(t, "--config", p.ConfigPath, "-o", "markdown", "status", "orphan_orders")
	require.NoError(t, err)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# orphan_orders")
	assert.Contains(t, out, "- **Status**: warning")
	assert.Contains(t, out, "- **Count**: 2")
	assert.Contains(t, out, `"total": 20`)

	_, _, err = execute(t, "--config", p.ConfigPath, "status", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check not found: nope")
}

func TestValidate(t *testing.T) {
	p := testutil.SetupTestProject(t)

	out, _, err := execute(t, "--config", p.ConfigPath, "-o", "markdown", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "3 valid checks")
	assert.Contains(t, out, "duplicate_emails")

	p.WriteChecks(t, "name: bad\nquery_check: SELECT 1\nwarn_above: lots\n")
	_, _, err = execute(t, "--config", p.ConfigPath, "validate")
	require.Error(t, err)
}

func TestHistory_Disabled(t *testing.T) {
	p := testutil.SetupTestProject(t)

	_, _, err := execute(t, "--config", p.ConfigPath, "--state", "", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run history is disabled")
}

func TestHistory_Check(t *testing.T) {
	p := testutil.SetupTestProject(t)

	for range 2 {
		_, _, err := execute(t, "--config", p.ConfigPath, "-o", "json", "run")
		require.NoError(t, err)
	}

	out, _, err := execute(t, "--config", p.ConfigPath, "-o", "json", "history", "orphan_orders")
	require.NoError(t, err)

	var entries []output.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, float64(2), entries[0].Count)
	assert.Equal(t, "warning", entries[0].Status)
}

func TestConfigError(t *testing.T) {
	_, _, err := execute(t, "--config", "does-not-exist.yaml", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestCompletion(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "leapcheck")
}
