package common

import (
	"net/url"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// CheckPath returns the page URL of a check.
func CheckPath(name string) string {
	return "/" + url.PathEscape(name) + "/"
}

// Number formats an optional count for display.
func Number(v *float64) string {
	if v == nil {
		return ""
	}
	return core.FormatNumber(*v)
}

// StatusClass returns the CSS class of a status badge.
func StatusClass(s core.Status) string {
	return "status status-" + s.String()
}
