package tui

import (
	"strings"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/tui/panels"
)

// View renders the TUI: header bar, scrollable board, footer bar.
func (m Model) View() string {
	header := panels.RenderHeader(panels.HeaderProps{
		Title:       m.current.Title,
		Identifier:  m.ctrl.Identifier(),
		PhaseSymbol: phaseSymbol(m.ctrl.Phase()),
		PhaseLabel:  m.ctrl.Phase().String(),
		Updated:     m.updated,
		Clock:       m.now,
	}, m.width, m.theme.AccentHeaderStyle())

	tab := "board"
	if m.tabs.Active() == tabDetails {
		tab = "details"
	}
	footer := panels.RenderFooter(panels.FooterProps{
		Tabs:          m.tabs.View(),
		Tab:           tab,
		SourceClosed:  m.closed,
		Scrollable:    m.rendered && m.body.Scrollable(),
		ScrollPercent: m.body.ScrollPercent(),
	}, m.width)

	return header + "\n" + m.renderBody() + "\n" + footer
}

// renderBody shows a spinner until the startup window has elapsed.
func (m Model) renderBody() string {
	if m.rendered {
		return m.body.View()
	}
	height := m.bodyHeight()
	return m.spinner.View() + " Starting…" + strings.Repeat("\n", height-1)
}
