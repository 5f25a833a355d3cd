package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// tabInactiveStyle renders inactive tabs in a dimmed style.
var tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// Tabs is a stateless tab strip. The active tab is bold in the accent color.
type Tabs struct {
	labels      []string
	active      int
	activeStyle lipgloss.Style
}

// NewTabs creates a tab strip with the first tab active.
func NewTabs(accent lipgloss.Color, labels ...string) Tabs {
	return Tabs{
		labels:      labels,
		activeStyle: lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
}

// Active returns the index of the active tab.
func (t Tabs) Active() int {
	return t.active
}

// Next returns the strip with the next tab active, wrapping around.
func (t Tabs) Next() Tabs {
	if len(t.labels) == 0 {
		return t
	}
	t.active = (t.active + 1) % len(t.labels)
	return t
}

// Prev returns the strip with the previous tab active, wrapping around.
func (t Tabs) Prev() Tabs {
	if len(t.labels) == 0 {
		return t
	}
	t.active = (t.active + len(t.labels) - 1) % len(t.labels)
	return t
}

// View renders the strip on one line, tabs separated by " │ ".
func (t Tabs) View() string {
	parts := make([]string, 0, len(t.labels))
	for i, label := range t.labels {
		if i == t.active {
			parts = append(parts, t.activeStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	return strings.Join(parts, " │ ")
}
