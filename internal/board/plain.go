package board

import (
	"strings"
	"unicode/utf8"
)

// ColumnGap separates row columns.
const ColumnGap = "  "

// ColumnWidths returns the widest text of each row column. All rows of a
// board share these widths.
func ColumnWidths(rm RenderModel) [3]int {
	var widths [3]int
	for _, b := range rm.Blocks {
		if b.Kind != BlockRow {
			continue
		}
		for i, c := range b.Row {
			if w := utf8.RuneCountInString(c.Text); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// RowWidth is the total width of a row laid out with widths.
func RowWidth(widths [3]int) int {
	return widths[0] + widths[1] + widths[2] + 2*len(ColumnGap)
}

// Plain renders a render model as uncolored fixed-width text, one block per
// line. Rows share column widths; right-aligned headers and centered
// incident text are laid out against the total row width.
func Plain(rm RenderModel) string {
	widths := ColumnWidths(rm)
	total := RowWidth(widths)

	var lines []string
	if rm.Title != "" {
		lines = append(lines, rm.Title)
	}
	for _, b := range rm.Blocks {
		switch b.Kind {
		case BlockMessage:
			lines = append(lines, b.Cell.Text)
		case BlockHeader:
			lines = append(lines, pad(b.Cell.Text, total, b.Cell.Align))
		case BlockIncident:
			lines = append(lines, pad(b.Incident.String(), total, b.Align))
		case BlockRow:
			line := pad(b.Row[0].Text, widths[0], b.Row[0].Align) + ColumnGap +
				pad(b.Row[1].Text, widths[1], b.Row[1].Align) + ColumnGap +
				pad(b.Row[2].Text, widths[2], b.Row[2].Align)
			lines = append(lines, strings.TrimRight(line, " "))
		}
	}
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}

// pad aligns s within width. Text wider than width is returned unchanged.
func pad(s string, width int, align Align) string {
	gap := width - utf8.RuneCountInString(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
