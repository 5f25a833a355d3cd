// Package components provides reusable widgets for the board TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// BoardView is a scrollable board body wrapping bubbles/viewport. Content
// is replaced wholesale on every render; the scroll position is kept so a
// refresh does not jump a reader back to the top.
type BoardView struct {
	vp     viewport.Model
	lines  []string // rendered (pre-styled) lines
	width  int
	height int
}

// NewBoardView creates a BoardView with the given dimensions.
func NewBoardView(w, h int) BoardView {
	return BoardView{
		vp:     viewport.New(w, h),
		width:  w,
		height: h,
	}
}

// SetContent replaces the board lines. The scroll offset is clamped to the
// new content.
func (v BoardView) SetContent(lines []string) BoardView {
	v.lines = make([]string, len(lines))
	copy(v.lines, lines)
	offset := v.vp.YOffset
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	v.vp.SetYOffset(offset)
	return v
}

// Lines returns the current content.
func (v BoardView) Lines() []string {
	return v.lines
}

// SetSize resizes the view.
func (v BoardView) SetSize(w, h int) BoardView {
	v.width = w
	v.height = h
	v.vp.Width = w
	v.vp.Height = h
	v.vp.SetYOffset(v.vp.YOffset)
	return v
}

// ScrollPercent reports how far the view is scrolled, from 0 to 1.
func (v BoardView) ScrollPercent() float64 {
	return v.vp.ScrollPercent()
}

// Scrollable reports whether the content is taller than the view.
func (v BoardView) Scrollable() bool {
	return len(v.lines) > v.height
}

// Top scrolls back to the first line.
func (v BoardView) Top() BoardView {
	v.vp.GotoTop()
	return v
}

// Update handles scroll keys and mouse wheel events.
func (v BoardView) Update(msg tea.Msg) (BoardView, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

// View renders the visible part of the board.
func (v BoardView) View() string {
	return v.vp.View()
}
