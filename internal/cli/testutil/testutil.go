// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapcheck/internal/cli/output"

	_ "modernc.org/sqlite" // sqlite driver
)

// TestProject is a temporary leapcheck project backed by a SQLite database.
type TestProject struct {
	Dir        string
	ConfigPath string
	Checks     string
	Results    string
	StatePath  string
	Database   string
}

// ProjectChecks is the check-set of SetupTestProject. Against the seeded
// database orphan_orders counts 2 (warning), daily_signups counts 0 (error)
// and duplicate_emails counts 1 (ok).
const ProjectChecks = `name: orphan_orders
query_check: SELECT COUNT(*) FROM orders o LEFT JOIN customers c ON c.id = o.customer_id WHERE c.id IS NULL
query_example: SELECT o.id, o.total FROM orders o LEFT JOIN customers c ON c.id = o.customer_id WHERE c.id IS NULL ORDER BY o.id
warn_above: 1
alert_above: 10
---
name: daily_signups
query_check: SELECT COUNT(*) FROM customers WHERE created_on = '2099-01-01'
alert_below: 1
---
name: duplicate_emails
query_check: SELECT COUNT(*) - COUNT(DISTINCT email) FROM customers
warn_above: 5
`

const seedSQL = `
CREATE TABLE customers (id INTEGER PRIMARY KEY, email TEXT, created_on TEXT);
CREATE TABLE orders (id INTEGER PRIMARY KEY, customer_id INTEGER, total REAL);
INSERT INTO customers VALUES (1, 'a@example.com', '2024-01-01'), (2, 'b@example.com', '2024-01-02'), (3, 'a@example.com', '2024-01-03');
INSERT INTO orders VALUES (10, 1, 9.5), (11, 42, 20.0), (12, 43, 7.25);
`

// SetupTestProject creates a temporary project with a config file, a
// check-set and a seeded SQLite database.
func SetupTestProject(t *testing.T) *TestProject {
	t.Helper()

	dir := t.TempDir()
	p := &TestProject{
		Dir:        dir,
		ConfigPath: filepath.Join(dir, "leapcheck.yaml"),
		Checks:     filepath.Join(dir, "checks.yaml"),
		Results:    filepath.Join(dir, "results.json"),
		StatePath:  filepath.Join(dir, ".leapcheck", "state.db"),
		Database:   filepath.Join(dir, "shop.db"),
	}

	seedDatabase(t, p.Database)

	cfg := `checks: checks.yaml
results: results.json
log_level: warn
target:
  type: sqlite
  database: shop.db
`
	writeFile(t, p.ConfigPath, cfg)
	writeFile(t, p.Checks, ProjectChecks)

	return p
}

// WriteChecks replaces the project's check-set.
func (p *TestProject) WriteChecks(t *testing.T, content string) {
	t.Helper()
	writeFile(t, p.Checks, content)
}

func seedDatabase(t *testing.T, path string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer func() { _ = db.Close() }()

	for _, stmt := range strings.Split(seedSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed database: %v", err)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the captured standard output.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
