package board

import (
	"strconv"
	"strings"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/config"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// Highlight colors for sentinel minutes values.
const (
	BoardingColor = "#49742a"
	ArrivingColor = "#cadb2e"
)

// DimmedOpacity is applied to minutes cells beyond the dimming threshold.
const DimmedOpacity = 0.5

// Align is the horizontal alignment of a cell.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Cell is one styled text cell.
type Cell struct {
	Text   string
	Color  string // empty = default color
	Align  Align
	Dimmed bool
}

// Opacity returns the cell opacity: 1 normally, DimmedOpacity when dimmed.
func (c Cell) Opacity() float64 {
	if c.Dimmed {
		return DimmedOpacity
	}
	return 1
}

// Row is a three-column arrival row: line or route, destination or
// direction, minutes.
type Row [3]Cell

// TrainRow styles one train arrival.
func TrainRow(a transit.TrainArrival, cfg *config.Config) Row {
	line := Cell{Text: a.Line, Align: AlignLeft}
	if cfg.Display.ColorizeLines {
		line.Color = transit.LineColor(a.Line)
	}
	return Row{
		line,
		{Text: a.Destination, Align: AlignLeft},
		minutesCell(a.Min, cfg),
	}
}

// BusRow styles one bus arrival.
func BusRow(a transit.BusArrival, cfg *config.Config) Row {
	route := Cell{Text: a.RouteID, Align: AlignLeft}
	if cfg.Display.ColorizeLines {
		route.Color = cfg.Theme.BusRouteColor
	}
	return Row{
		route,
		{Text: a.DirectionText, Align: AlignLeft},
		minutesCell(a.Min, cfg),
	}
}

// placeholderRow is shown for a station or stop with no arrivals.
func placeholderRow(text string) Row {
	return Row{
		{Text: "--", Align: AlignLeft},
		{Text: text, Align: AlignLeft},
		{Text: "", Align: AlignRight},
	}
}

func minutesCell(min string, cfg *config.Config) Cell {
	c := Cell{
		Text:   min,
		Align:  AlignRight,
		Dimmed: Dimmed(min, cfg.Display.DimmedThreshold),
	}
	if cfg.Display.ColorizeLines {
		c.Color = MinutesColor(min, cfg.Theme)
	}
	return c
}

// MinutesColor returns the color of a minutes cell: the fixed highlight for
// "BRD" and "ARR", the theme schedule color otherwise.
func MinutesColor(min string, theme config.ThemeConfig) string {
	switch min {
	case transit.MinutesBoarding:
		return BoardingColor
	case transit.MinutesArriving:
		return ArrivingColor
	default:
		return theme.ScheduleColor
	}
}

// Dimmed reports whether a minutes value is beyond threshold. A zero
// threshold disables dimming; values without a leading integer, such as
// the sentinels, never dim.
func Dimmed(min string, threshold int) bool {
	if threshold == 0 {
		return false
	}
	n, ok := leadingInt(min)
	return ok && n > threshold
}

// leadingInt parses the integer prefix of s after leading whitespace,
// accepting an optional sign: "15" and "15 min" give 15, "ARR" gives false.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
