// Package config provides configuration management for the leapcheck CLI.
//
// Configuration is layered: defaults, then leapcheck.yaml, then LEAPCHECK_*
// environment variables, then explicitly set flags.
package config

import (
	sharedcfg "github.com/leapstack-labs/leapcheck/internal/config"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = core.TargetConfig

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	Watch        bool   `koanf:"watch"`
	HistoryLimit int    `koanf:"history_limit"`
}

// MetricsConfig holds Prometheus Pushgateway settings.
type MetricsConfig struct {
	PushURL string `koanf:"push_url"`
	Job     string `koanf:"job"`
}

// Config holds all CLI configuration options.
type Config struct {
	Checks       string               `koanf:"checks"`
	Results      string               `koanf:"results"`
	StatePath    string               `koanf:"state_path"`
	HistoryKeep  int                  `koanf:"history_keep"`
	Environment  string               `koanf:"environment"`
	Verbose      bool                 `koanf:"verbose"`
	LogLevel     string               `koanf:"log_level"`
	LogFormat    string               `koanf:"log_format"`
	OutputFormat string               `koanf:"output"`
	Target       *TargetConfig        `koanf:"target"`
	UI           *UIConfig            `koanf:"ui"`
	Metrics      *MetricsConfig       `koanf:"metrics"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative paths resolve against.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Checks  string        `koanf:"checks"`
	Results string        `koanf:"results"`
	Target  *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultChecksFile  = sharedcfg.DefaultChecksFile
	DefaultResultsFile = sharedcfg.DefaultResultsFile
	DefaultStateFile   = sharedcfg.DefaultStateFile
	DefaultEnv         = "dev"
	DefaultOutput      = "auto" // TTY=text, non-TTY=markdown
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:         sharedcfg.DefaultUIPort,
		Watch:        true,
		HistoryLimit: sharedcfg.DefaultHistoryLimit,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := *c.UI
	if ui.Port == 0 {
		ui.Port = sharedcfg.DefaultUIPort
	}
	if ui.HistoryLimit == 0 {
		ui.HistoryLimit = sharedcfg.DefaultHistoryLimit
	}
	return &ui
}

// GetMetricsConfig returns the metrics config, never nil.
func (c *Config) GetMetricsConfig() *MetricsConfig {
	if c.Metrics == nil {
		return &MetricsConfig{Job: sharedcfg.DefaultMetricsJob}
	}
	m := *c.Metrics
	if m.Job == "" {
		m.Job = sharedcfg.DefaultMetricsJob
	}
	return &m
}

// HistoryEnabled reports whether run history is recorded.
func (c *Config) HistoryEnabled() bool {
	return c.StatePath != ""
}
