package panels

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderHeader_BasicFields(t *testing.T) {
	accent := lipgloss.NewStyle().Background(lipgloss.Color("#7D56F4"))
	now := time.Date(2026, 1, 1, 15, 30, 0, 0, time.UTC)

	props := HeaderProps{
		Title:       "DC Metro Times",
		Identifier:  "0f8fad5b-d9cb-469f-a165-70867728950e",
		PhaseSymbol: "●",
		PhaseLabel:  "ready",
		Updated:     now.Add(-90 * time.Second),
		Clock:       now,
	}

	rendered := RenderHeader(props, 200, accent)

	for _, want := range []string{"DC Metro Times", "id: 0f8fad5b", "● ready", "updated: 1m30s ago", "15:30"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("RenderHeader() missing %q; output: %q", want, rendered)
		}
	}
	if strings.Contains(rendered, "d9cb") {
		t.Errorf("identifier should be shortened; got %q", rendered)
	}
}

func TestRenderHeader_EmptyFieldFallbacks(t *testing.T) {
	rendered := RenderHeader(HeaderProps{}, 200, lipgloss.NewStyle())

	for _, want := range []string{DefaultTitle, "updated: —"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("RenderHeader() with empty props missing %q; got %q", want, rendered)
		}
	}
	if strings.Contains(rendered, "id:") {
		t.Errorf("empty identifier should be omitted; got %q", rendered)
	}
}

func TestShortID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"abc", "abc"},
		{"abcdefgh", "abcdefgh"},
		{"abcdefghij", "abcdefgh"},
	}
	for _, tt := range tests {
		if got := ShortID(tt.in); got != tt.want {
			t.Errorf("ShortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{5 * time.Second, "5s"},
		{1500 * time.Millisecond, "2s"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{time.Hour + 15*time.Minute, "1h15m"},
	}
	for _, tt := range tests {
		if got := FormatAge(tt.d); got != tt.want {
			t.Errorf("FormatAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
