package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Bold      lipgloss.Style
	Header    lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	CheckName lipgloss.Style
}

// NewStyles builds the style set for a lipgloss renderer. Without a TTY the
// renderer uses the ASCII profile so no escape codes are emitted.
func NewStyles(r *lipgloss.Renderer, isTTY bool) *Styles {
	if !isTTY {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Styles{
		Bold:      r.NewStyle().Bold(true),
		Header:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:   r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:   r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Info:      r.NewStyle().Foreground(lipgloss.Color("14")),
		CheckName: r.NewStyle().Bold(true),
	}
}

// Status returns the style for a check status.
func (s *Styles) Status(status core.Status) lipgloss.Style {
	switch status {
	case core.StatusError:
		return s.Error
	case core.StatusWarning:
		return s.Warning
	case core.StatusOK:
		return s.Success
	default:
		return s.Muted
	}
}

// StatusSymbol returns the one-character marker for a check status.
func StatusSymbol(status core.Status) string {
	switch status {
	case core.StatusError:
		return "✗"
	case core.StatusWarning:
		return "!"
	case core.StatusOK:
		return "✓"
	default:
		return "○"
	}
}
