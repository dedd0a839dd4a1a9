package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to name inside a fresh temp directory and
// returns the full path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// SampleChecks is a small multi-document check-set used across packages.
const SampleChecks = `name: orphan_orders
query_check: SELECT COUNT(*) FROM orders o LEFT JOIN customers c ON c.id = o.customer_id WHERE c.id IS NULL
query_example: SELECT o.* FROM orders o LEFT JOIN customers c ON c.id = o.customer_id WHERE c.id IS NULL
warn_above: 10
alert_above: 100
---
name: daily_signups
query_check: SELECT COUNT(*) FROM customers WHERE created_on = CURRENT_DATE
warn_below: 5
alert_below: 1
---
name: duplicate_emails
query_check: SELECT COUNT(*) - COUNT(DISTINCT email) FROM customers
`
