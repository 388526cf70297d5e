package ui

import "charm.land/lipgloss/v2"

// Color palette shared by all gantry terminal output.
var (
	accent  = lipgloss.Color("212") // pink, selected items
	success = lipgloss.Color("82")  // green
	failure = lipgloss.Color("196") // red
	warning = lipgloss.Color("214") // orange
	muted   = lipgloss.Color("240") // gray, help text
	normal  = lipgloss.Color("252") // light gray
)

var (
	// AccentStyle marks the active selection.
	AccentStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)

	// SuccessStyle is used for passed checks and positive outcomes.
	SuccessStyle = lipgloss.NewStyle().Foreground(success)

	// ErrorStyle is used for failed checks and error lines.
	ErrorStyle = lipgloss.NewStyle().Foreground(failure)

	// WarningStyle is used for non-blocking warnings.
	WarningStyle = lipgloss.NewStyle().Foreground(warning)

	// MutedStyle is used for help lines and secondary detail.
	MutedStyle = lipgloss.NewStyle().Foreground(muted)

	// NormalStyle is the standard list item style.
	NormalStyle = lipgloss.NewStyle().Foreground(normal)

	// HighlightStyle marks filter-matched characters in picker items.
	HighlightStyle = lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true)
)

// Status glyphs used by doctor and auth output.
const (
	GlyphOK   = "✓"
	GlyphWarn = "⚠"
	GlyphFail = "✗"
)

// StatusOK renders a green check followed by text.
func StatusOK(text string) string {
	return SuccessStyle.Render(GlyphOK) + " " + text
}

// StatusWarn renders an orange warning sign followed by text.
func StatusWarn(text string) string {
	return WarningStyle.Render(GlyphWarn) + " " + text
}

// StatusFail renders a red cross followed by text.
func StatusFail(text string) string {
	return ErrorStyle.Render(GlyphFail) + " " + text
}
