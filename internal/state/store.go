// Package state records run history for leapcheck in SQLite.
// It tracks every batch and the per-check counts it produced.
package state

import (
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Type aliases for the history types defined in pkg/core.
type (
	// Store is an alias for core.Store.
	Store = core.Store

	// RunStatus is an alias for core.RunStatus.
	RunStatus = core.RunStatus

	// Run is an alias for core.Run.
	Run = core.Run

	// StoredResult is an alias for core.StoredResult.
	StoredResult = core.StoredResult
)

// Run status constants.
const (
	RunStatusRunning   = core.RunStatusRunning
	RunStatusCompleted = core.RunStatusCompleted
	RunStatusFailed    = core.RunStatusFailed
)
