// Package common holds layout and rendering helpers shared by UI features.
package common

import (
	"io"

	"github.com/a-h/templ"
)

// Writer writes HTML fragments and remembers the first error.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup.
func (hw *Writer) Raw(parts ...string) {
	for _, p := range parts {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, p)
	}
}

// Text writes s with HTML escaping.
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Attr writes name="value" with the value escaped, preceded by a space.
func (hw *Writer) Attr(name, value string) {
	hw.Raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// Err returns the first write error.
func (hw *Writer) Err() error {
	return hw.err
}
