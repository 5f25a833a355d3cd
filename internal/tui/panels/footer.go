package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Tabs          string // pre-rendered tab strip
	Tab           string // "board" or "details"
	SourceClosed  bool
	Scrollable    bool
	ScrollPercent float64
}

// RenderFooter renders the footer bar. Left side: tab strip and source
// status. Right side: keybinding hints for the active tab.
func RenderFooter(props FooterProps, width int) string {
	left := props.Tabs
	if props.SourceClosed {
		left += "  ⏹ source closed"
	}

	right := tabHints(props.Tab)
	if props.Scrollable {
		right = fmt.Sprintf("%3.f%%  ", props.ScrollPercent*100) + right
	}
	right += "  q:quit"

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// tabHints returns the keybinding hints for a given tab.
func tabHints(tab string) string {
	switch tab {
	case "details":
		return "j/k:scroll  tab/d:board"
	default:
		return "j/k:scroll  tab/d:details"
	}
}
