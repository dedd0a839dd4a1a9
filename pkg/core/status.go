package core

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Status
// =============================================================================

// Status is the classification of a check's count.
// The zero value is StatusPending: a record without a result has no status.
// Severity order comes from Rank, not from the numeric value.
type Status int

// Status values.
const (
	// StatusPending means the check has no result yet.
	StatusPending Status = iota
	// StatusError means an alert threshold was crossed.
	StatusError
	// StatusWarning means a warn threshold was crossed.
	StatusWarning
	// StatusOK means no threshold was crossed.
	StatusOK
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusWarning:
		return "warning"
	case StatusOK:
		return "ok"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Rank returns the sort rank of the status. Lower ranks sort first.
// Unknown values rank after pending.
func (s Status) Rank() int {
	switch s {
	case StatusError:
		return 0
	case StatusWarning:
		return 1
	case StatusOK:
		return 2
	case StatusPending:
		return 3
	default:
		return 4
	}
}

// ParseStatus converts a string to a Status value.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(s) {
	case "error":
		return StatusError, true
	case "warning":
		return StatusWarning, true
	case "ok":
		return StatusOK, true
	case "pending":
		return StatusPending, true
	default:
		return StatusPending, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, ok := ParseStatus(string(text))
	if !ok {
		return fmt.Errorf("unknown status %q", string(text))
	}
	*s = parsed
	return nil
}

// =============================================================================
// Thresholds
// =============================================================================

// Thresholds holds the optional classification bounds of a check.
// A nil bound is absent. All comparisons are strict.
type Thresholds struct {
	WarnAbove  *float64 `json:"warn_above,omitempty" yaml:"warn_above,omitempty"`
	WarnBelow  *float64 `json:"warn_below,omitempty" yaml:"warn_below,omitempty"`
	AlertAbove *float64 `json:"alert_above,omitempty" yaml:"alert_above,omitempty"`
	AlertBelow *float64 `json:"alert_below,omitempty" yaml:"alert_below,omitempty"`
}

// IsZero reports whether no bound is set.
func (t Thresholds) IsZero() bool {
	return t.WarnAbove == nil && t.WarnBelow == nil && t.AlertAbove == nil && t.AlertBelow == nil
}

// Classify maps a count to a status. Alert bounds are checked before warn
// bounds, and above before below.
func Classify(count float64, t Thresholds) Status {
	switch {
	case t.AlertAbove != nil && count > *t.AlertAbove:
		return StatusError
	case t.AlertBelow != nil && count < *t.AlertBelow:
		return StatusError
	case t.WarnAbove != nil && count > *t.WarnAbove:
		return StatusWarning
	case t.WarnBelow != nil && count < *t.WarnBelow:
		return StatusWarning
	default:
		return StatusOK
	}
}

// NoBoundLabel is rendered when a level has no bounds.
const NoBoundLabel = "-"

// WarnLabel renders the warn bounds, e.g. ">10", "<5", ">10 <5" or "-".
func (t Thresholds) WarnLabel() string {
	return boundLabel(t.WarnAbove, t.WarnBelow)
}

// AlertLabel renders the alert bounds in the same form as WarnLabel.
func (t Thresholds) AlertLabel() string {
	return boundLabel(t.AlertAbove, t.AlertBelow)
}

func boundLabel(above, below *float64) string {
	parts := make([]string, 0, 2)
	if above != nil {
		parts = append(parts, ">"+FormatNumber(*above))
	}
	if below != nil {
		parts = append(parts, "<"+FormatNumber(*below))
	}
	if len(parts) == 0 {
		return NoBoundLabel
	}
	return strings.Join(parts, " ")
}

// FormatNumber renders a number in its shortest form: 100, 2.5, 0.001.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Float returns a pointer to v. Convenient for building Thresholds literals.
func Float(v float64) *float64 {
	return &v
}
