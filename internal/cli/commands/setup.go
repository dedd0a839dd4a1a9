package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcheck/internal/cli/config"
	"github.com/leapstack-labs/leapcheck/internal/cli/output"
	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Source returns the display source for the configured files.
func (c *CommandContext) Source() display.Source {
	return display.Source{
		ChecksPath:  c.Cfg.Checks,
		ResultsPath: c.Cfg.Results,
		Logger:      c.Logger,
	}
}

// OpenStore opens the run history store. It returns nil and no error when
// history is disabled.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	if !c.Cfg.HistoryEnabled() {
		return nil, nil
	}
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize state store: %w", err)
	}
	return store, nil
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		Checks:       getEnvOrDefault("LEAPCHECK_CHECKS", config.DefaultChecksFile),
		Results:      getEnvOrDefault("LEAPCHECK_RESULTS", config.DefaultResultsFile),
		StatePath:    getEnvOrDefault("LEAPCHECK_STATE_PATH", config.DefaultStateFile),
		Environment:  getEnvOrDefault("LEAPCHECK_ENVIRONMENT", config.DefaultEnv),
		Verbose:      os.Getenv("LEAPCHECK_VERBOSE") == "true",
		OutputFormat: os.Getenv("LEAPCHECK_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
