package board

import (
	"strings"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// Segment is a run of text with an optional color. Color is empty when the
// run is uncolored or the line code is unknown.
type Segment struct {
	Text  string
	Color string
}

// IncidentText is a formatted incident line built from segments so the
// color markers stay declarative.
type IncidentText []Segment

// String returns the display text without color markers.
func (t IncidentText) String() string {
	var b strings.Builder
	for _, s := range t {
		b.WriteString(s.Text)
	}
	return b.String()
}

// FormatIncidents turns the affected line codes into a display line.
//
// With codesOnly the codes are joined by two spaces. Otherwise the result
// reads "Incident Reported On Red Line", "Incidents Reported On Red and
// Blue Lines" or "Incidents Reported On Red, Blue, and Green Lines".
// Unknown codes produce an empty name and no color.
func FormatIncidents(codes []string, colorize, codesOnly bool) IncidentText {
	n := len(codes)
	if n == 0 {
		return IncidentText{{Text: MsgNoIncidents}}
	}

	var out IncidentText
	color := func(code string) string {
		if !colorize {
			return ""
		}
		return transit.LineColor(code)
	}

	if codesOnly {
		for i, code := range codes {
			out = append(out, Segment{Text: code, Color: color(code)})
			if i < n-1 {
				out = append(out, Segment{Text: "  "})
			}
		}
		return out
	}

	if n == 1 {
		out = append(out, Segment{Text: "Incident Reported On "})
	} else {
		out = append(out, Segment{Text: "Incidents Reported On "})
	}
	for i, code := range codes {
		last := i == n-1
		if last && n > 1 {
			out = append(out, Segment{Text: "and "})
		}
		out = append(out, Segment{Text: transit.LineName(code), Color: color(code)})
		sep := " "
		if !last && n > 2 {
			sep = ", "
		}
		out = append(out, Segment{Text: sep})
	}
	if n == 1 {
		out = append(out, Segment{Text: "Line"})
	} else {
		out = append(out, Segment{Text: "Lines"})
	}
	return out
}
