package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/leapstack-labs/leapcheck/internal/checks"
)

// schemaDoc is the subset of the check JSON schema rendered in the docs.
type schemaDoc struct {
	Title      string                    `json:"title"`
	Required   []string                  `json:"required"`
	Properties map[string]schemaProperty `json:"properties"`
}

type schemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// propertyOrder lists the schema properties in reading order.
var propertyOrder = []string{"name", "query_check", "query_example", "warn_above", "warn_below", "alert_above", "alert_below"}

// generateChecksDoc generates the check file reference from the embedded schema.
func generateChecksDoc(outDir string) error {
	var doc schemaDoc
	if err := json.Unmarshal(checks.Schema(), &doc); err != nil {
		return fmt.Errorf("failed to parse check schema: %w", err)
	}

	w := NewMarkdownWriter()

	w.Frontmatter("Checks", "Check file reference")
	w.GeneratedMarker()

	w.Header(1, "Checks")
	w.Paragraph("A checks file is a YAML stream with one check per document, separated by `---`. Every document is validated before any query runs; one invalid document rejects the whole file.")

	w.Header(2, "Fields")
	var rows [][]string
	for _, name := range propertyOrder {
		p, ok := doc.Properties[name]
		if !ok {
			continue
		}
		required := "No"
		if slices.Contains(doc.Required, name) {
			required = "Yes"
		}
		rows = append(rows, []string{InlineCode(name), p.Type, required, p.Description})
	}
	w.Table([]string{"Field", "Type", "Required", "Description"}, rows)

	w.Header(2, "Status")
	w.Paragraph("The count is compared with the thresholds in this order; the first match wins:")
	w.BulletList([]string{
		"`alert_above`, then `alert_below`: **error**",
		"`warn_above`, then `warn_below`: **warning**",
		"otherwise **ok**",
	})
	w.Paragraph("A check without a result yet is **pending**. The dashboard lists checks by status (error, warning, ok, pending) and then by name.")

	w.Header(2, "Example")
	w.CodeBlock("yaml", `name: orphan_orders
query_check: SELECT COUNT(*) FROM orders o LEFT JOIN customers c ON c.id = o.customer_id WHERE c.id IS NULL
query_example: SELECT o.* FROM orders o LEFT JOIN customers c ON c.id = o.customer_id WHERE c.id IS NULL
warn_above: 0
alert_above: 100
---
name: daily_signups
query_check: SELECT COUNT(*) FROM customers WHERE created_on = CURRENT_DATE
alert_below: 1`)

	w.Header(2, "Schema")
	w.CodeBlock("json", string(checks.Schema()))

	filename := filepath.Join(outDir, "checks.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated checks.md")
	return nil
}
