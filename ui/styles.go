package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	// Status bar style
	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	// Field label
	LabelStyle = lipgloss.NewStyle().
			Bold(true)

	// Validation and loading errors
	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	InputStyle = lipgloss.NewStyle().
			Underline(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor)

	// Nodes fading out
	FadedStyle = lipgloss.NewStyle().
			Faint(true)
)

// FormatFooter formats a footer string with alternating keys and descriptions.
// Keys remain default color, descriptions are rendered in accent blue+bold.
// Usage: FormatFooter("Tab", "Next", "Enter", "Activate", "Esc", "Dismiss")
// Result: "Tab Next  Enter Activate  Esc Dismiss"
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
