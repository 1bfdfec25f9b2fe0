// Package styles provides shared lipgloss styles for UI components.
//
// This package centralizes color definitions so that the text report,
// the candidate table, the confirmation prompt and the scan spinner
// render verdicts the same way.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/raphi011/repo-check/internal/verdict"
)

// Primary colors used throughout the UI
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Success marks SAFE repositories (green)
	Success color.Color = lipgloss.Color("82")

	// Error marks UNSAFE repositories and failures (red)
	Error color.Color = lipgloss.Color("196")

	// Warning marks UNKNOWN repositories (orange)
	Warning color.Color = lipgloss.Color("214")

	// Muted is used for reasons and auxiliary counts (gray)
	Muted color.Color = lipgloss.Color("240")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
)

// StatusError is the label used for repositories whose signals could not
// be collected.
const StatusError = "ERROR"

// Status renders a verdict status word in its color.
func Status(s verdict.Status) string {
	return StatusStyle(string(s)).Render(string(s))
}

// StatusStyle returns the style for a status label. Unrecognized labels,
// including StatusError, use ErrorStyle.
func StatusStyle(label string) lipgloss.Style {
	switch verdict.Status(label) {
	case verdict.Safe:
		return SuccessStyle
	case verdict.Unsafe:
		return ErrorStyle
	case verdict.Unknown:
		return WarningStyle
	default:
		return ErrorStyle
	}
}
