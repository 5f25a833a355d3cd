package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/board"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body = m.body.SetSize(msg.Width, m.bodyHeight())
		m = m.refresh()
		return m, nil

	case eventMsg:
		if m.ctrl.Handle(transit.Event(msg)) {
			m = m.show(m.ctrl.Last())
		}
		return m, waitForEvent(m.events)

	case releaseMsg:
		m = m.show(m.ctrl.Release())
		return m, nil

	case sourceClosedMsg:
		m.closed = true
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()

	case spinner.TickMsg:
		if m.rendered {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "d":
		m.tabs = m.tabs.Next()
		m = m.refresh()
		m.body = m.body.Top()
		return m, nil
	case "shift+tab":
		m.tabs = m.tabs.Prev()
		m = m.refresh()
		m.body = m.body.Top()
		return m, nil
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

// show makes rm the displayed board.
func (m Model) show(rm board.RenderModel) Model {
	m.current = rm
	m.rendered = true
	m.updated = m.now
	return m.refresh()
}

// refresh re-renders the active tab into the body.
func (m Model) refresh() Model {
	if !m.rendered {
		return m
	}
	var lines []string
	switch m.tabs.Active() {
	case tabDetails:
		lines = m.theme.RenderDetails(m.current, m.width)
	default:
		lines = m.theme.RenderBoard(m.current, m.limitWidth)
	}
	m.body = m.body.SetContent(lines)
	return m
}

// bodyHeight is the terminal height minus the header and footer bars.
func (m Model) bodyHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}
