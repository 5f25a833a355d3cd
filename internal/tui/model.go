package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/board"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/tui/components"
)

// Tab indexes.
const (
	tabBoard = iota
	tabDetails
)

// Options configures the TUI appearance.
type Options struct {
	AccentColor string
	LimitWidth  int // incident column width; 0 = row width
}

// Model is the bubbletea model hosting a board controller. The bubbletea
// update loop is the controller's single owner.
type Model struct {
	ctrl   *board.Controller
	events <-chan transit.Event
	plan   board.StartupPlan

	// Display
	body       components.BoardView
	tabs       components.Tabs
	spinner    spinner.Model
	theme      Theme
	limitWidth int
	width      int
	height     int

	// Board state
	current  board.RenderModel
	rendered bool
	closed   bool
	updated  time.Time
	now      time.Time
}

// New creates a TUI Model. plan is the result of ctrl.Start(); events may
// be nil when there is no collaborator to listen to.
func New(ctrl *board.Controller, events <-chan transit.Event, plan board.StartupPlan, opts Options) Model {
	th := NewTheme(opts.AccentColor)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = sp.Style.Foreground(th.Accent())

	return Model{
		ctrl:       ctrl,
		events:     events,
		plan:       plan,
		body:       components.NewBoardView(80, 22),
		tabs:       components.NewTabs(th.Accent(), "Board", "Details"),
		spinner:    sp,
		theme:      th,
		limitWidth: opts.LimitWidth,
		width:      80,
		height:     24,
		now:        time.Now(),
	}
}

// Init starts listening for events, arms the startup release and starts
// the clock and spinner.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{releaseCmd(m.plan), tickCmd(), m.spinner.Tick}
	if m.events != nil {
		cmds = append(cmds, waitForEvent(m.events))
	}
	return tea.Batch(cmds...)
}

// Current returns the last render model shown, and whether one has been.
func (m Model) Current() (board.RenderModel, bool) {
	return m.current, m.rendered
}

// releaseCmd fires releaseMsg after the plan's delay, or immediately when
// the delay is not armed.
func releaseCmd(plan board.StartupPlan) tea.Cmd {
	if !plan.ArmDelay {
		return func() tea.Msg { return releaseMsg{} }
	}
	return tea.Tick(plan.Delay, func(time.Time) tea.Msg {
		return releaseMsg{}
	})
}

// tickCmd schedules the next one-second clock tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the event channel and returns the next message.
func waitForEvent(ch <-chan transit.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return sourceClosedMsg{}
		}
		return eventMsg(ev)
	}
}
