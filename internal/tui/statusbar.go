package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/pulse/internal/health"
)

func renderStatusBar(span health.TimeSpan, width int, refreshing bool) string {
	left := " " + span.Label()
	if refreshing {
		left += " (refreshing...)"
	}

	right := " d/w/m span  r refresh  p permissions  o dashboard  q quit "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
