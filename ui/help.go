package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a *AppView) renderHelpModal(width, height int) string {
	kb := a.kb

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("draftui - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	editing := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Editing"),
		fmt.Sprintf("• %-13s Next field or button", kb.DisplayActionKey("focus_next")),
		fmt.Sprintf("• %-13s Previous field or button", kb.DisplayActionKey("focus_previous")),
		fmt.Sprintf("• %-13s Press button / edit field", kb.DisplayActionKey("tap")),
		fmt.Sprintf("• %-13s Save the draft", kb.DisplayActionKey("save_draft")),
		fmt.Sprintf("• %-13s Dismiss notifications", kb.DisplayActionKey("dismiss")),
		fmt.Sprintf("• %-13s Toggle this help", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
	)

	relations := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Relations"),
		fmt.Sprintf("• %-13s Add related contents", kb.DisplayActionKey("discover")),
		fmt.Sprintf("• %-13s Remove focused content", kb.DisplayActionKey("remove")),
		fmt.Sprintf("• %-13s Copy focused content id", kb.DisplayActionKey("yank_content")),
	)

	picker := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Content Picker"),
		fmt.Sprintf("• %-13s Move down", kb.DisplayActionKey("discovery_down")),
		fmt.Sprintf("• %-13s Move up", kb.DisplayActionKey("discovery_up")),
		fmt.Sprintf("• %-13s Select", "Space"),
		fmt.Sprintf("• %-13s Filter", kb.DisplayActionKey("discovery_filter")),
		fmt.Sprintf("• %-13s Confirm", kb.DisplayActionKey("discovery_confirm")),
		fmt.Sprintf("• %-13s Cancel", kb.DisplayActionKey("discovery_cancel")),
	)

	column1 := lipgloss.JoinVertical(
		lipgloss.Left,
		editing,
	)

	column2 := lipgloss.JoinVertical(
		lipgloss.Left,
		relations,
		"",
		picker,
	)

	columnStyle := lipgloss.NewStyle().Width(42)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		"    ",
		columnStyle.Render(column2),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Press %s or Esc to close this help", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2).
		Width(min(96, max(40, width-4)))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
