package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/board"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/config"
)

func TestNewTheme(t *testing.T) {
	if got := NewTheme("").Accent(); got != lipgloss.Color(config.DefaultAccentColor) {
		t.Errorf("default accent = %v, want %v", got, config.DefaultAccentColor)
	}
	if got := NewTheme("#FF0000").Accent(); got != lipgloss.Color("#FF0000") {
		t.Errorf("accent = %v, want #FF0000", got)
	}
}

func TestColorOf(t *testing.T) {
	tests := []struct {
		name string
		want lipgloss.TerminalColor
	}{
		{"", lipgloss.NoColor{}},
		{"#49742a", lipgloss.Color("#49742a")},
		{"DeepSkyBlue", lipgloss.Color("#00BFFF")},
		{"snow", lipgloss.Color("#FFFAFA")},
		{"NotAColor", lipgloss.NoColor{}},
	}
	for _, tt := range tests {
		if got := colorOf(tt.name); got != tt.want {
			t.Errorf("colorOf(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLineColorsResolve(t *testing.T) {
	for _, name := range []string{"DeepSkyBlue", "Green", "Orange", "Red", "Snow", "Yellow"} {
		if _, ok := colorOf(name).(lipgloss.NoColor); ok {
			t.Errorf("line color %q has no terminal color", name)
		}
	}
}

func TestCellStyle(t *testing.T) {
	s := cellStyle(board.Cell{Text: "15", Align: board.AlignRight, Dimmed: true}, 4)
	if !s.GetFaint() {
		t.Error("dimmed cell should be faint")
	}
	if s.GetAlign() != lipgloss.Right {
		t.Errorf("align = %v, want right", s.GetAlign())
	}
	if got := s.Render("15"); got != "  15" {
		t.Errorf("Render = %q, want right-padded to 4", got)
	}

	if cellStyle(board.Cell{Text: "5"}, 0).GetFaint() {
		t.Error("undimmed cell should not be faint")
	}
}

func TestRenderBoard(t *testing.T) {
	rm := board.RenderModel{Blocks: []board.Block{
		{Kind: board.BlockHeader, Cell: board.Cell{Text: "Incidents"}},
		{Kind: board.BlockIncident, Incident: board.FormatIncidents([]string{"RD", "BL", "GR"}, true, false)},
		{Kind: board.BlockHeader, Cell: board.Cell{Text: "METRO CENTER", Align: board.AlignRight}},
		{Kind: board.BlockRow, Row: board.Row{{Text: "RD"}, {Text: "Glenmont"}, {Text: "ARR", Align: board.AlignRight}}},
		{Kind: board.BlockRow, Row: board.Row{{Text: "RD"}, {Text: "Shady Grove"}, {Text: "12", Align: board.AlignRight}}},
	}}

	lines := NewTheme("").RenderBoard(rm, 20)
	joined := strings.Join(lines, "\n")

	for _, want := range []string{"Incidents", "METRO CENTER", "Glenmont", "Shady Grove"} {
		if !strings.Contains(joined, want) {
			t.Errorf("RenderBoard missing %q; got:\n%s", want, joined)
		}
	}
	if len(lines) <= len(rm.Blocks) {
		t.Errorf("incident text should wrap at 20 cells; got %d lines", len(lines))
	}
	for _, l := range lines {
		if w := lipgloss.Width(l); w > 20 {
			t.Errorf("line %q is %d wide, want <= 20", l, w)
		}
	}
}

func TestRenderBoardMessage(t *testing.T) {
	rm := board.RenderModel{Blocks: []board.Block{
		{Kind: board.BlockMessage, Cell: board.Cell{Text: board.MsgMissingAPIKey}},
	}}
	lines := NewTheme("").RenderBoard(rm, 0)
	if len(lines) != 1 || !strings.Contains(lines[0], board.MsgMissingAPIKey) {
		t.Errorf("RenderBoard = %q", lines)
	}
}

func TestRenderDetails(t *testing.T) {
	th := NewTheme("")

	empty := th.RenderDetails(board.RenderModel{}, 40)
	if len(empty) != 1 || !strings.Contains(empty[0], "No incident details") {
		t.Errorf("RenderDetails(empty) = %q", empty)
	}

	lines := th.RenderDetails(board.RenderModel{Descriptions: []string{"First", "Second"}}, 40)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "• First") || !strings.Contains(joined, "• Second") {
		t.Errorf("RenderDetails = %q", joined)
	}
}

func TestPhaseSymbol(t *testing.T) {
	tests := []struct {
		phase board.Phase
		want  string
	}{
		{board.PhaseReady, "●"},
		{board.PhaseConfigError, "✗"},
		{board.PhaseAwaitingFirstData, "…"},
	}
	for _, tt := range tests {
		if got := phaseSymbol(tt.phase); got != tt.want {
			t.Errorf("phaseSymbol(%v) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
