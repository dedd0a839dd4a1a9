// Package adapter provides the database adapter contract and registry
// for leapcheck's check runner.
//
// Concrete adapter implementations live in pkg/adapters/ subdirectories and
// register themselves from init(). Core types are defined in pkg/core and
// re-exported here via type aliases.
package adapter

import "github.com/leapstack-labs/leapcheck/pkg/core"

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows

	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter
)
