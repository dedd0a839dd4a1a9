package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcheck/internal/checks"
	"github.com/leapstack-labs/leapcheck/internal/cli/output"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the checks file against the check schema",
		Long: `Load the checks file and validate every document against the check schema
without connecting to the database. Any invalid document fails validation.`,
		Example: `  # Validate the configured checks file
  leapcheck validate

  # Validate another file
  leapcheck validate --checks sanity/new_checks.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd)
		},
	}
}

func runValidate(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if err := cfg.ValidateChecksFile(); err != nil {
		return err
	}

	defs, loadErr := checks.LoadFile(cfg.Checks)

	if r.EffectiveMode() == output.ModeJSON {
		out := output.ValidateOutput{
			File:   cfg.Checks,
			Valid:  loadErr == nil,
			Checks: checks.Names(defs),
		}
		if loadErr != nil {
			msg := loadErr.Error()
			out.Error = &msg
		}
		if err := r.JSON(out); err != nil {
			return err
		}
		return loadErr
	}

	if loadErr != nil {
		return loadErr
	}

	r.Success(fmt.Sprintf("%s: %d valid checks", cfg.Checks, len(defs)))
	for _, name := range checks.Names(defs) {
		r.Println("  " + name)
	}
	return nil
}
