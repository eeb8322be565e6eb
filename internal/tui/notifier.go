package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/matheuskafuri/pulse/internal/health"
)

// sender is the slice of *tea.Program the notifier needs.
type sender interface {
	Send(msg tea.Msg)
}

// teaNotifier bridges worker completions into the bubbletea event loop.
// Program.Send is safe from any goroutine, which gives the UI a single
// delivery context no matter how many workers finish at once.
type teaNotifier struct {
	p sender
}

func (n *teaNotifier) CategoryUpdated(cat health.Category, sum *health.TimespanSummary) {
	n.p.Send(categoryUpdatedMsg{cat: cat, sum: sum})
}

func (n *teaNotifier) CategorySkipped(cat health.Category) {
	n.p.Send(categorySkippedMsg{cat: cat})
}
