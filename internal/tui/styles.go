// Package tui provides a bubbletea + lipgloss terminal board for metrotimes.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/board"
)

// Color palette.
var (
	colorWhite = lipgloss.Color("#FAFAFA")
	colorGray  = lipgloss.Color("#888888")
	colorRed   = lipgloss.Color("#FF6B6B")
)

var (
	messageStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// cssColors maps the CSS color keywords used by line colors and themes to
// hex values a terminal can show.
var cssColors = map[string]string{
	"black":       "#000000",
	"blue":        "#0000FF",
	"brown":       "#A52A2A",
	"cyan":        "#00FFFF",
	"darkgray":    "#A9A9A9",
	"darkgrey":    "#A9A9A9",
	"deepskyblue": "#00BFFF",
	"gold":        "#FFD700",
	"gray":        "#808080",
	"green":       "#008000",
	"grey":        "#808080",
	"lightgray":   "#D3D3D3",
	"lightgrey":   "#D3D3D3",
	"lime":        "#00FF00",
	"magenta":     "#FF00FF",
	"maroon":      "#800000",
	"navy":        "#000080",
	"olive":       "#808000",
	"orange":      "#FFA500",
	"pink":        "#FFC0CB",
	"purple":      "#800080",
	"red":         "#FF0000",
	"silver":      "#C0C0C0",
	"snow":        "#FFFAFA",
	"teal":        "#008080",
	"white":       "#FFFFFF",
	"yellow":      "#FFFF00",
}

// colorOf resolves a hex string or CSS color keyword. Empty and unknown
// names leave the terminal default.
func colorOf(name string) lipgloss.TerminalColor {
	switch {
	case name == "":
		return lipgloss.NoColor{}
	case strings.HasPrefix(name, "#"):
		return lipgloss.Color(name)
	}
	if hex, ok := cssColors[strings.ToLower(name)]; ok {
		return lipgloss.Color(hex)
	}
	return lipgloss.NoColor{}
}

// position maps a board alignment to a lipgloss position.
func position(a board.Align) lipgloss.Position {
	switch a {
	case board.AlignRight:
		return lipgloss.Right
	case board.AlignCenter:
		return lipgloss.Center
	default:
		return lipgloss.Left
	}
}

// cellStyle styles one board cell laid out in width columns. Dimmed cells
// are rendered faint.
func cellStyle(c board.Cell, width int) lipgloss.Style {
	s := lipgloss.NewStyle().
		Foreground(colorOf(c.Color)).
		Align(position(c.Align))
	if width > 0 {
		s = s.Width(width)
	}
	if c.Dimmed {
		s = s.Faint(true)
	}
	return s
}

// phaseSymbol returns the header glyph for a lifecycle phase.
func phaseSymbol(p board.Phase) string {
	switch p {
	case board.PhaseReady:
		return "●"
	case board.PhaseConfigError:
		return "✗"
	default:
		return "…"
	}
}
