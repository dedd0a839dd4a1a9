package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/pkg/adapter"
	"github.com/leapstack-labs/leapcheck/pkg/core"

	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapcheck/pkg/adapters/sqlite"
)

func TestApplyTargetDefaults(t *testing.T) {
	tests := []struct {
		name       string
		target     core.TargetConfig
		wantSchema string
		wantPort   int
	}{
		{name: "duckdb", target: core.TargetConfig{Type: "duckdb"}, wantSchema: "main"},
		{name: "postgres", target: core.TargetConfig{Type: "postgres"}, wantSchema: "public", wantPort: 5432},
		{name: "mysql", target: core.TargetConfig{Type: "MySQL"}, wantPort: 3306},
		{name: "sqlite", target: core.TargetConfig{Type: "sqlite"}},
		{name: "explicit values kept", target: core.TargetConfig{Type: "postgres", Schema: "audit", Port: 6543}, wantSchema: "audit", wantPort: 6543},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.target
			ApplyTargetDefaults(&target)
			assert.Equal(t, tt.wantSchema, target.Schema)
			assert.Equal(t, tt.wantPort, target.Port)
		})
	}

	assert.NotPanics(t, func() { ApplyTargetDefaults(nil) })
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name      string
		target    *core.TargetConfig
		errSubstr string
	}{
		{name: "nil", target: nil, errSubstr: "target is required"},
		{name: "empty type", target: &core.TargetConfig{}, errSubstr: "target type is required"},
		{name: "duckdb in memory", target: &core.TargetConfig{Type: "duckdb"}},
		{name: "duckdb uppercase", target: &core.TargetConfig{Type: "DuckDB"}},
		{name: "postgres", target: &core.TargetConfig{Type: "postgres", Host: "db", Database: "shop"}},
		{name: "postgres without host", target: &core.TargetConfig{Type: "postgres", Database: "shop"}, errSubstr: "host is required"},
		{name: "mysql without database", target: &core.TargetConfig{Type: "mysql", Host: "db"}, errSubstr: "database is required"},
		{name: "sqlite without file", target: &core.TargetConfig{Type: "sqlite"}, errSubstr: "database is required"},
		{name: "unknown", target: &core.TargetConfig{Type: "oracle"}, errSubstr: "unknown adapter type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidateTarget_ListsAvailable(t *testing.T) {
	err := ValidateTarget(&core.TargetConfig{Type: "snowflake"})

	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Available, "duckdb")
	assert.Contains(t, unknown.Available, "postgres")
	assert.Contains(t, err.Error(), "leapcheck.yaml")
}
