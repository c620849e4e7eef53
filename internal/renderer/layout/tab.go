// Package layout maps document columns to display columns.
package layout

import "github.com/dshills/guides/internal/renderer/core"

// TabExpander provides tab expansion utilities.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
func NewTabExpander(tabWidth int) *TabExpander {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return &TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the current tab width.
func (t *TabExpander) TabWidth() int {
	return t.tabWidth
}

// SetTabWidth sets the tab width.
func (t *TabExpander) SetTabWidth(width int) {
	if width < 1 {
		width = 1
	}
	t.tabWidth = width
}

// NextTabStop returns the next tab stop column after the given column.
func (t *TabExpander) NextTabStop(col int) int {
	return col + t.tabWidth - (col % t.tabWidth)
}

// ExpandedWidth calculates the display width of a string with tab expansion.
func (t *TabExpander) ExpandedWidth(s string) int {
	cols := t.Columns(s)
	return cols[len(cols)-1]
}

// Columns returns the display column at which each rune of s starts, plus
// one trailing entry holding the total width. Columns(s)[i] is the display
// column of rune index i, which is how guide positions map to the screen.
func (t *TabExpander) Columns(s string) []int {
	cols := make([]int, 0, len(s)+1)
	col := 0
	for _, r := range s {
		cols = append(cols, col)
		if r == '\t' {
			col = t.NextTabStop(col)
		} else {
			col += core.RuneWidth(r)
		}
	}
	return append(cols, col)
}

// RuneAt returns the rune index displayed at display column col, or the
// rune count when col is past the end.
func (t *TabExpander) RuneAt(s string, col int) int {
	cols := t.Columns(s)
	for i := 0; i < len(cols)-1; i++ {
		if col < cols[i+1] {
			return i
		}
	}
	return len(cols) - 1
}
