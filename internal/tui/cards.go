package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/pulse/internal/health"
)

func renderCard(cat health.Category, c *card, width int) string {
	title := cardTitleStyle.Render(cat.Label())

	var body string
	switch {
	case c == nil || c.state == cardPending:
		body = cardMetaStyle.Render("loading...")
	case c.state == cardSkipped:
		body = cardSkippedStyle.Render("Not shared. Enable this category in your exporter, then press p.")
	default:
		body = cardBodyStyle.Render(c.sum.Text)
		meta := cardMetaStyle.Render("generated " + relativeAge(c.sum.GeneratedAt))
		if c.sum.Fresh(time.Now()) {
			meta += " " + cardFreshStyle.Render("fresh")
		}
		body = lipgloss.JoinVertical(lipgloss.Left, body, meta)
	}

	inner := lipgloss.JoinVertical(lipgloss.Left, title, body)
	return cardStyle.Width(width).Render(inner)
}

func relativeAge(t time.Time) string {
	age := time.Since(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}
