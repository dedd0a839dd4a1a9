package duckdb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds DuckDB-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Extensions to install and load (e.g., "httpfs", "postgres_scanner")
	Extensions []string `mapstructure:"extensions"`

	// Secrets for reading remote files from checks
	Secrets []SecretConfig `mapstructure:"secrets"`

	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string `mapstructure:"settings"`
}

// SecretConfig defines a DuckDB secret for cloud storage.
type SecretConfig struct {
	// Type: "s3", "gcs", "azure", "r2"
	Type string `mapstructure:"type"`

	// Provider: "config", "credential_chain"
	Provider string `mapstructure:"provider"`

	Region   string `mapstructure:"region,omitempty"`
	Scope    string `mapstructure:"scope,omitempty"`
	KeyID    string `mapstructure:"key_id,omitempty"`
	Secret   string `mapstructure:"secret,omitempty"`
	Endpoint string `mapstructure:"endpoint,omitempty"`
}

// ParseParams decodes adapter params into Params.
func ParseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid duckdb params: %w", err)
	}
	return p, nil
}

// Statements returns the session setup statements for the params in the
// order they must run: extensions, settings (sorted by name), then secrets.
func (p *Params) Statements() []string {
	var stmts []string
	for _, ext := range p.Extensions {
		stmts = append(stmts, fmt.Sprintf("INSTALL %s", ext), fmt.Sprintf("LOAD %s", ext))
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmts = append(stmts, fmt.Sprintf("SET %s = '%s'", k, escapeLiteral(p.Settings[k])))
	}

	for i, s := range p.Secrets {
		stmts = append(stmts, s.createStatement(i))
	}
	return stmts
}

func (s SecretConfig) createStatement(idx int) string {
	opts := []string{"TYPE " + s.Type}
	add := func(key, val string) {
		if val != "" {
			opts = append(opts, fmt.Sprintf("%s '%s'", key, escapeLiteral(val)))
		}
	}
	if s.Provider != "" {
		opts = append(opts, "PROVIDER "+s.Provider)
	}
	add("REGION", s.Region)
	add("SCOPE", s.Scope)
	add("KEY_ID", s.KeyID)
	add("SECRET", s.Secret)
	add("ENDPOINT", s.Endpoint)
	return fmt.Sprintf("CREATE OR REPLACE SECRET leapcheck_%s_%d (%s)", s.Type, idx, strings.Join(opts, ", "))
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
