package components

import (
	"strings"

	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// an optional flash message in the middle, and the record count on the right.
func RenderStatusBar(width int, flash, right string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)
	flashStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface)
	fill := lipgloss.NewStyle().Background(t.Surface)

	left := " [?]help  [i]json  [u]csv  [e]xport  [q]uit"
	if flash != "" {
		left += "  " + flashStyle.Render(flash)
	}
	if right != "" {
		right += " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		return style.Render(left)
	}

	return style.Render(left + fill.Render(strings.Repeat(" ", padding)) + right)
}
