package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/pulse/internal/authz"
	"github.com/matheuskafuri/pulse/internal/browser"
	"github.com/matheuskafuri/pulse/internal/fetch"
	"github.com/matheuskafuri/pulse/internal/health"
	"github.com/matheuskafuri/pulse/internal/refresh"
	"go.uber.org/zap"
)

type cardState int

const (
	cardPending cardState = iota
	cardLoaded
	cardSkipped
)

type card struct {
	state cardState
	sum   *health.TimespanSummary
}

type App struct {
	coordinator  *refresh.Coordinator
	gate         authz.Gate
	span         health.TimeSpan
	dashboardURL string

	cards map[health.Category]*card

	width  int
	height int

	spinner    spinner.Model
	refreshing bool
	err        error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Gate         authz.Gate
	Fetcher      fetch.Fetcher
	Generator    refresh.Generator
	Store        refresh.Store
	Span         health.TimeSpan
	DashboardURL string
	Log          *zap.SugaredLogger
}

func newApp(opts RunOpts) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	cards := make(map[health.Category]*card, len(health.AllCategories()))
	for _, cat := range health.AllCategories() {
		cards[cat] = &card{state: cardPending}
	}

	return &App{
		gate:         opts.Gate,
		span:         opts.Span,
		dashboardURL: opts.DashboardURL,
		cards:        cards,
		spinner:      sp,
	}
}

func (a *App) Init() tea.Cmd {
	a.refreshing = true
	return tea.Batch(a.loadPermissionsCmd(false), a.spinner.Tick)
}

// loadPermissionsCmd re-queries the gate snapshot. With detectGrants
// it records which categories flipped to Authorized so they can get a
// guard-bypassing single-category refresh.
func (a *App) loadPermissionsCmd(detectGrants bool) tea.Cmd {
	gate := a.gate
	var before map[health.Category]authz.Status
	if detectGrants {
		before = make(map[health.Category]authz.Status)
		for _, cat := range health.AllCategories() {
			before[cat] = gate.Status(cat)
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := gate.RefreshPermissionStates(ctx); err != nil {
			return permissionsLoadedMsg{err: err}
		}
		var granted []health.Category
		if detectGrants {
			for _, cat := range health.AllCategories() {
				if before[cat] != authz.Authorized && gate.Status(cat) == authz.Authorized {
					granted = append(granted, cat)
				}
			}
		}
		return permissionsLoadedMsg{newlyAuthorized: granted}
	}
}

func (a *App) refreshCmd() tea.Cmd {
	coord := a.coordinator
	span := a.span
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		coord.Refresh(ctx, span)
		return refreshDoneMsg{}
	}
}

// refreshCategoryCmd bypasses the single-flight guard for a category
// that was just authorized.
func (a *App) refreshCategoryCmd(cat health.Category) tea.Cmd {
	coord := a.coordinator
	span := a.span
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		coord.RefreshCategory(ctx, cat, span)
		return nil
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case permissionsLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			// Cached permission snapshot still applies; refresh anyway.
		}
		cmds := []tea.Cmd{a.refreshCmd()}
		for _, cat := range msg.newlyAuthorized {
			a.cards[cat] = &card{state: cardPending}
			cmds = append(cmds, a.refreshCategoryCmd(cat))
		}
		return a, tea.Batch(cmds...)

	case categoryUpdatedMsg:
		a.cards[msg.cat] = &card{state: cardLoaded, sum: msg.sum}
		return a, nil

	case categorySkippedMsg:
		a.cards[msg.cat] = &card{state: cardSkipped}
		return a, nil

	case refreshDoneMsg:
		a.refreshing = false
		return a, nil

	case errMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, tea.Batch(a.refreshCmd(), a.spinner.Tick)
		}
		return a, nil
	case "p":
		return a, a.loadPermissionsCmd(true)
	case "d", "w", "m":
		span := spanForKey(msg.String())
		if span == a.span {
			return a, nil
		}
		a.span = span
		for _, cat := range health.AllCategories() {
			a.cards[cat] = &card{state: cardPending}
		}
		a.refreshing = true
		return a, tea.Batch(a.refreshCmd(), a.spinner.Tick)
	case "o":
		return a, openBrowserCmd(a.dashboardURL)
	}
	return a, nil
}

func spanForKey(key string) health.TimeSpan {
	switch key {
	case "w":
		return health.Weekly
	case "m":
		return health.Monthly
	default:
		return health.Daily
	}
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  pulse")
	}

	headerLeft := headerStyle.Render("pulse")
	headerRight := headerSpanStyle.Render(a.span.Label() + " · " + time.Now().Format("Jan 2"))
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	var cards []string
	for _, cat := range health.AllCategories() {
		cards = append(cards, renderCard(cat, a.cards[cat], a.width-2))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, cards...)

	status := renderStatusBar(a.span, a.width, a.refreshing)
	if a.refreshing {
		status = a.spinner.View() + " " + status
	}
	if a.err != nil {
		status = errStyle.Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, status)
}

// Run starts the TUI. The coordinator is assembled here so worker
// notifications can be funneled through the running program.
func Run(opts RunOpts) error {
	app := newApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())

	worker := refresh.NewWorker(opts.Gate, opts.Fetcher, opts.Generator, opts.Store, &teaNotifier{p: p}, opts.Log)
	app.coordinator = refresh.NewCoordinator(worker, opts.Generator, opts.Log)

	_, err := p.Run()
	return err
}
