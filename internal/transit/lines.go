// Package transit holds the data delivered by the polling collaborator:
// incident, train and bus snapshots, the events that carry them, and the
// shared metro line tables used by every formatter.
package transit

// Line describes one metro line.
type Line struct {
	Code  string
	Name  string
	Color string // CSS color name
}

// lines is the single code table shared by incident and row formatting.
var lines = map[string]Line{
	"BL": {Code: "BL", Name: "Blue", Color: "DeepSkyBlue"},
	"GR": {Code: "GR", Name: "Green", Color: "Green"},
	"OR": {Code: "OR", Name: "Orange", Color: "Orange"},
	"RD": {Code: "RD", Name: "Red", Color: "Red"},
	"SV": {Code: "SV", Name: "Silver", Color: "Snow"},
	"YL": {Code: "YL", Name: "Yellow", Color: "Yellow"},
}

// LookupLine returns the line for code and whether it is known.
func LookupLine(code string) (Line, bool) {
	l, ok := lines[code]
	return l, ok
}

// LineName returns the full name for a line code, or "" if the code is unknown.
func LineName(code string) string {
	return lines[code].Name
}

// LineColor returns the display color for a line code, or "" if the code is unknown.
func LineColor(code string) string {
	return lines[code].Color
}
