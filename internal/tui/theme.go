package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/board"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/config"
)

// Theme holds accent-color-derived styles.
type Theme struct {
	accent      lipgloss.Color
	accentStyle lipgloss.Style // header bar background
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := config.DefaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accent: c,
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
	}
}

// Accent returns the accent color.
func (t Theme) Accent() lipgloss.Color {
	return t.accent
}

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style {
	return t.accentStyle
}

// RenderBoard renders a render model into styled lines. limitWidth bounds
// the incident text column; 0 lets it span the row width.
func (t Theme) RenderBoard(rm board.RenderModel, limitWidth int) []string {
	widths := board.ColumnWidths(rm)
	total := board.RowWidth(widths)

	var lines []string
	for _, b := range rm.Blocks {
		switch b.Kind {
		case board.BlockMessage:
			style := messageStyle
			if b.Cell.Text == rm.ErrorText() {
				style = errorStyle
			}
			lines = append(lines, style.Render(b.Cell.Text))

		case board.BlockHeader:
			style := cellStyle(b.Cell, total).Inherit(sectionStyle)
			lines = append(lines, style.Render(b.Cell.Text))

		case board.BlockIncident:
			lines = append(lines, renderIncident(b, total, limitWidth)...)

		case board.BlockRow:
			cells := make([]string, len(b.Row))
			for i, c := range b.Row {
				cells[i] = cellStyle(c, widths[i]).Render(c.Text)
			}
			lines = append(lines, strings.Join(cells, board.ColumnGap))
		}
	}
	return lines
}

// RenderDetails renders incident descriptions for the details tab.
func (t Theme) RenderDetails(rm board.RenderModel, width int) []string {
	if len(rm.Descriptions) == 0 {
		return []string{detailStyle.Render("No incident details.")}
	}
	style := lipgloss.NewStyle()
	if width > 2 {
		style = style.Width(width - 2)
	}
	var lines []string
	for i, d := range rm.Descriptions {
		if i > 0 {
			lines = append(lines, "")
		}
		wrapped := style.Render(d)
		for j, l := range strings.Split(wrapped, "\n") {
			prefix := "  "
			if j == 0 {
				prefix = "• "
			}
			lines = append(lines, prefix+l)
		}
	}
	return lines
}

// renderIncident styles the incident segments and wraps them to the
// incident column width.
func renderIncident(b board.Block, rowWidth, limitWidth int) []string {
	var sb strings.Builder
	for _, seg := range b.Incident {
		sb.WriteString(lipgloss.NewStyle().Foreground(colorOf(seg.Color)).Render(seg.Text))
	}

	width := rowWidth
	if limitWidth > 0 {
		width = limitWidth
	}
	style := lipgloss.NewStyle().Align(position(b.Align))
	if width > 0 {
		style = style.Width(width)
	}
	return strings.Split(style.Render(sb.String()), "\n")
}
