// Package core defines the shared language of the leapcheck system.
//
// This package contains:
//   - Domain entities (CheckDefinition, CheckResult, PersistedResult, Run)
//   - Status classification (Status, Thresholds, Classify)
//   - Service interfaces (Adapter, Session, Store)
//   - Configuration types (TargetConfig, AdapterConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
