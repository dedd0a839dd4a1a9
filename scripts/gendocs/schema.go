package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	intconfig "github.com/leapstack-labs/leapcheck/internal/config"
	"github.com/leapstack-labs/leapcheck/pkg/adapter"

	// Register adapters so the supported target types are listed.
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/sqlite"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Env         string
	Description string
	Category    string // "project", "ui", "metrics", "target"
}

// configFields returns the configuration keys of leapcheck.yaml.
// This is based on internal/cli/config/types.go and internal/config/defaults.go.
func configFields() []ConfigField {
	return []ConfigField{
		{Name: "checks", Type: "string", Default: intconfig.DefaultChecksFile, Env: "LEAPCHECK_CHECKS", Description: "Path to the checks file", Category: "project"},
		{Name: "results", Type: "string", Default: intconfig.DefaultResultsFile, Env: "LEAPCHECK_RESULTS", Description: "Path to the results file", Category: "project"},
		{Name: "state_path", Type: "string", Default: intconfig.DefaultStateFile, Env: "LEAPCHECK_STATE_PATH", Description: "Run history database; empty disables history", Category: "project"},
		{Name: "history_keep", Type: "int", Default: strconv.Itoa(intconfig.DefaultHistoryKeep), Env: "LEAPCHECK_HISTORY_KEEP", Description: "Number of runs kept in history; 0 keeps all", Category: "project"},
		{Name: "environment", Type: "string", Default: "dev", Env: "LEAPCHECK_ENVIRONMENT", Description: "Environment selected from `environments`", Category: "project"},
		{Name: "log_level", Type: "string", Default: "info", Env: "LEAPCHECK_LOG_LEVEL", Description: "debug, info, warn or error", Category: "project"},
		{Name: "log_format", Type: "string", Default: "text", Env: "LEAPCHECK_LOG_FORMAT", Description: "text or json", Category: "project"},
		{Name: "output", Type: "string", Default: "auto", Env: "LEAPCHECK_OUTPUT", Description: "auto, text, markdown or json", Category: "project"},

		{Name: "ui.host", Type: "string", Env: "LEAPCHECK_UI__HOST", Description: "Interface the dashboard listens on", Category: "ui"},
		{Name: "ui.port", Type: "int", Default: strconv.Itoa(intconfig.DefaultUIPort), Env: "LEAPCHECK_UI__PORT", Description: "Dashboard port", Category: "ui"},
		{Name: "ui.watch", Type: "bool", Default: "true", Env: "LEAPCHECK_UI__WATCH", Description: "Refresh open pages when files change", Category: "ui"},
		{Name: "ui.history_limit", Type: "int", Default: strconv.Itoa(intconfig.DefaultHistoryLimit), Env: "LEAPCHECK_UI__HISTORY_LIMIT", Description: "Recent runs shown on a check page", Category: "ui"},

		{Name: "metrics.push_url", Type: "string", Env: "LEAPCHECK_METRICS__PUSH_URL", Description: "Pushgateway URL; pushes after every successful run", Category: "metrics"},
		{Name: "metrics.job", Type: "string", Default: intconfig.DefaultMetricsJob, Env: "LEAPCHECK_METRICS__JOB", Description: "Pushgateway job name", Category: "metrics"},

		{Name: "type", Type: "string", Default: intconfig.DefaultTargetType, Description: "Database type", Category: "target"},
		{Name: "database", Type: "string", Description: "File path (DuckDB, SQLite) or database name", Category: "target"},
		{Name: "host", Type: "string", Description: "Database host", Category: "target"},
		{Name: "port", Type: "int", Description: "Database port (5432 for postgres, 3306 for mysql)", Category: "target"},
		{Name: "user", Type: "string", Description: "Database username; `${VAR}` is expanded", Category: "target"},
		{Name: "password", Type: "string", Description: "Database password; `${VAR}` is expanded", Category: "target"},
		{Name: "schema", Type: "string", Description: "Default schema", Category: "target"},
		{Name: "options", Type: "map[string]string", Description: "Additional driver-specific options", Category: "target"},
		{Name: "params", Type: "map[string]any", Description: "Adapter-specific configuration (DuckDB extensions, settings)", Category: "target"},
	}
}

func fieldRows(category string) [][]string {
	var rows [][]string
	for _, f := range configFields() {
		if f.Category != category {
			continue
		}
		defVal := "-"
		if f.Default != "" {
			defVal = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
	}
	return rows
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "leapcheck configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("leapcheck reads `leapcheck.yaml` from the working directory or the nearest parent. Relative paths resolve against the directory of the config file.")

	headers := []string{"Field", "Type", "Default", "Description"}

	w.Header(2, "Project Settings")
	w.Table(headers, fieldRows("project"))

	w.Header(2, "Dashboard")
	w.Table(headers, fieldRows("ui"))

	w.Header(2, "Metrics")
	w.Table(headers, fieldRows("metrics"))

	w.Header(2, "Target")
	w.Paragraph(fmt.Sprintf("Supported types: %s.", joinCode(adapter.ListAdapters())))
	w.Table(headers, fieldRows("target"))

	w.Header(2, "Environments")
	w.Paragraph("`environments` overrides `checks`, `results` and fields of `target` per environment. Select one with `environment` or `--target`.")
	w.CodeBlock("yaml", `checks: checks.yaml
environment: dev
target:
  type: duckdb
  database: ./data/dev.duckdb
environments:
  prod:
    results: prod-results.json
    target:
      type: postgres
      host: db.internal
      database: warehouse
      user: checker
      password: ${PG_PASSWORD}`)

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}

func joinCode(items []string) string {
	s := ""
	for i, item := range items {
		if i > 0 {
			s += ", "
		}
		s += InlineCode(item)
	}
	return s
}
