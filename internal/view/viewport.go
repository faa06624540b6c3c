package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RowProvider supplies rendered rows to a viewport. The viewport knows
// nothing about log structure or styling; it only scrolls and pads.
type RowProvider interface {
	// RowCount returns the total number of visible rows
	RowCount() int

	// Row returns the rendered row at index (0-based), without its line
	// number gutter
	Row(i int) string

	// RowNumber returns the display number for the gutter, 0 to skip
	RowNumber(i int) int
}

// Viewport manages the visible portion of a row provider
type Viewport struct {
	provider RowProvider

	width  int
	height int

	scrollOffset int

	gutterStyle lipgloss.Style
	showGutter  bool
}

// NewViewport creates a new viewport
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:       width,
		height:      height,
		showGutter:  true,
		gutterStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// SetProvider sets the row provider and resets scroll
func (v *Viewport) SetProvider(p RowProvider) {
	v.provider = p
	v.scrollOffset = 0
}

// SetGutterStyle sets the style for the line number gutter
func (v *Viewport) SetGutterStyle(s lipgloss.Style) {
	v.gutterStyle = s
}

// SetShowGutter toggles the line number gutter
func (v *Viewport) SetShowGutter(show bool) {
	v.showGutter = show
}

// SetSize updates viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampScroll()
}

// ScrollDown scrolls down by n rows
func (v *Viewport) ScrollDown(n int) {
	v.scrollOffset += n
	v.clampScroll()
}

// ScrollUp scrolls up by n rows
func (v *Viewport) ScrollUp(n int) {
	v.scrollOffset -= n
	v.clampScroll()
}

// PageDown scrolls down by one page
func (v *Viewport) PageDown() {
	v.ScrollDown(v.height - 1)
}

// PageUp scrolls up by one page
func (v *Viewport) PageUp() {
	v.ScrollUp(v.height - 1)
}

// GotoTop scrolls to the beginning
func (v *Viewport) GotoTop() {
	v.scrollOffset = 0
}

// GotoBottom scrolls to the end
func (v *Viewport) GotoBottom() {
	if v.provider == nil {
		return
	}
	v.scrollOffset = v.provider.RowCount() - v.height
	v.clampScroll()
}

// GotoRow scrolls so the given row is visible, preferring it at the top
func (v *Viewport) GotoRow(row int) {
	v.scrollOffset = row
	v.clampScroll()
}

// CurrentRow returns the current top row index
func (v *Viewport) CurrentRow() int {
	return v.scrollOffset
}

// clampScroll ensures scroll offset is within valid bounds
func (v *Viewport) clampScroll() {
	if v.provider == nil {
		v.scrollOffset = 0
		return
	}

	maxScroll := v.provider.RowCount() - v.height
	if maxScroll < 0 {
		maxScroll = 0
	}

	if v.scrollOffset > maxScroll {
		v.scrollOffset = maxScroll
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// Render returns the viewport content as a string
func (v *Viewport) Render() string {
	if v.provider == nil {
		return ""
	}

	total := v.provider.RowCount()
	count := v.height
	if v.scrollOffset+count > total {
		count = total - v.scrollOffset
	}

	var builder strings.Builder
	gutterWidth := len(fmt.Sprintf("%d", max(total, 1)))

	for i := 0; i < count; i++ {
		if i > 0 {
			builder.WriteString("\n")
		}

		row := v.scrollOffset + i
		if v.showGutter {
			if n := v.provider.RowNumber(row); n > 0 {
				builder.WriteString(v.gutterStyle.Render(fmt.Sprintf("%*d ", gutterWidth, n)))
			} else {
				builder.WriteString(strings.Repeat(" ", gutterWidth+1))
			}
		}
		builder.WriteString(v.provider.Row(row))
	}

	// Pad with empty rows if needed
	for i := count; i < v.height; i++ {
		if i > 0 || count > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("~")
	}

	return builder.String()
}

// PercentScrolled returns how far through the document we are
func (v *Viewport) PercentScrolled() float64 {
	if v.provider == nil || v.provider.RowCount() == 0 {
		return 0
	}

	total := v.provider.RowCount()
	if total <= v.height {
		return 100
	}

	return float64(v.scrollOffset) / float64(total-v.height) * 100
}
