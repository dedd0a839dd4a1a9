package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Checks == "" {
		return fmt.Errorf("checks is required")
	}
	if c.Results == "" {
		return fmt.Errorf("results is required")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (expected text or json)", c.LogFormat)
	}
	if c.HistoryKeep < 0 {
		return fmt.Errorf("history_keep must not be negative")
	}
	return nil
}

// ValidateChecksFile checks that the checks file exists.
func (c *Config) ValidateChecksFile() error {
	if _, err := os.Stat(c.Checks); os.IsNotExist(err) {
		return fmt.Errorf("checks file does not exist: %s\nHint: Create the file or use --checks to specify a different path", c.Checks)
	}
	return nil
}

// ParseLogLevel converts a log_level value into a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q (expected debug, info, warn or error)", s)
	}
}
