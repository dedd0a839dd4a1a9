package core

// CheckDefinition is one declaratively defined diagnostic.
//
// QueryCheck must return exactly one row with exactly one numeric column.
// QueryExample, when set, is run after QueryCheck and its first row is kept
// as a representative sample.
type CheckDefinition struct {
	Name         string `json:"name" yaml:"name"`
	QueryCheck   string `json:"query_check" yaml:"query_check"`
	QueryExample string `json:"query_example,omitempty" yaml:"query_example,omitempty"`
	Thresholds   `yaml:",inline"`
}

// HasExample reports whether the check captures an example row.
func (d CheckDefinition) HasExample() bool {
	return d.QueryExample != ""
}

// CheckResult is the in-memory outcome of running one check.
type CheckResult struct {
	Count float64
	// Example is nil when the check has no example query or it returned no rows.
	Example map[string]any
	// Time is wall-clock seconds spanning both queries.
	Time float64
}

// PersistedResult is the serialized record of one executed check.
// Example holds only JSON-representable values and encodes as null when absent.
type PersistedResult struct {
	Name    string         `json:"name"`
	Count   float64        `json:"count"`
	Time    float64        `json:"time"`
	Example map[string]any `json:"example"`
}
