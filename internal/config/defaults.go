// Package config holds defaults and target validation shared by the CLI
// and the UI server.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapcheck/pkg/adapter"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Default configuration values.
const (
	DefaultChecksFile   = "checks.yaml"
	DefaultResultsFile  = "results.json"
	DefaultStateFile    = ".leapcheck/state.db"
	DefaultTargetType   = "duckdb"
	DefaultUIPort       = 8765
	DefaultHistoryLimit = 20
	DefaultHistoryKeep  = 500
	DefaultMetricsJob   = "leapcheck"
)

// DefaultSchemaForType returns the default schema for a database type.
func DefaultSchemaForType(dbType string) string {
	switch strings.ToLower(dbType) {
	case "postgres", "postgresql":
		return "public"
	case "mysql", "mariadb", "sqlite":
		return ""
	default:
		return "main"
	}
}

// DefaultPortForType returns the default port for a network database type.
func DefaultPortForType(dbType string) int {
	switch strings.ToLower(dbType) {
	case "postgres", "postgresql":
		return 5432
	case "mysql", "mariadb":
		return 3306
	default:
		return 0
	}
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *core.TargetConfig) {
	if t == nil {
		return
	}
	if t.Type == "" {
		return
	}
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Port == 0 {
		t.Port = DefaultPortForType(t.Type)
	}
}

// ValidateTarget checks that the target names a registered adapter and
// carries the fields that adapter needs.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil {
		return fmt.Errorf("target is required")
	}
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	typ := strings.ToLower(t.Type)
	if !adapter.IsRegistered(typ) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	switch typ {
	case "postgres", "postgresql", "mysql", "mariadb":
		if t.Host == "" {
			return fmt.Errorf("target host is required for %s", typ)
		}
		if t.Database == "" {
			return fmt.Errorf("target database is required for %s", typ)
		}
	case "sqlite":
		if t.Database == "" {
			return fmt.Errorf("target database is required for sqlite")
		}
	}
	return nil
}
