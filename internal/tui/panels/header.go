// Package panels renders the fixed bars around the board body.
package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DefaultTitle is shown when the board header is hidden or not rendered yet.
const DefaultTitle = "metrotimes"

// HeaderProps holds all data needed to render the header bar.
// String fields for phase avoid importing the board package.
type HeaderProps struct {
	Title       string
	Identifier  string
	PhaseSymbol string // e.g. "●", "✗", "…"
	PhaseLabel  string // e.g. "ready", "config-error"
	Updated     time.Time
	Clock       time.Time
}

// ShortID trims a correlation identifier for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatAge renders a duration as a compact string: "5s", "2m30s", "1h15m".
func FormatAge(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// RenderHeader renders the title bar. accentStyle is applied to the full
// bar width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	title := props.Title
	if title == "" {
		title = DefaultTitle
	}

	parts := []string{"🚇 " + title}
	if props.Identifier != "" {
		parts = append(parts, "id: "+ShortID(props.Identifier))
	}

	phase := props.PhaseLabel
	if props.PhaseSymbol != "" && phase != "" {
		phase = props.PhaseSymbol + " " + phase
	}
	if phase != "" {
		parts = append(parts, phase)
	}

	switch {
	case props.Updated.IsZero():
		parts = append(parts, "updated: —")
	case !props.Clock.IsZero():
		parts = append(parts, "updated: "+FormatAge(props.Clock.Sub(props.Updated))+" ago")
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04"))
	}

	return accentStyle.Width(width).Render(strings.Join(parts, "  │  "))
}
