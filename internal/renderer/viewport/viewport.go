// Package viewport provides viewport management for the renderer.
package viewport

import "sync"

// MarginConfig holds scroll margin configuration.
type MarginConfig struct {
	Top    int // Lines to keep above cursor
	Bottom int // Lines to keep below cursor
	Left   int // Columns to keep left of cursor
	Right  int // Columns to keep right of cursor
}

// DefaultMargins returns sensible default margins.
func DefaultMargins() MarginConfig {
	return MarginConfig{Top: 3, Bottom: 3, Left: 8, Right: 8}
}

// maxMarginRatio limits margins to 1/3 of viewport dimension to ensure
// there's always usable space in the center.
const maxMarginRatio = 3

// Viewport represents the visible portion of the document.
type Viewport struct {
	mu sync.RWMutex

	// Position in document (first visible line and display column)
	topLine    int
	leftColumn int

	// Size in screen cells
	width  int
	height int

	margins   MarginConfig
	lineCount int
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:   max(width, 1),
		height:  max(height, 1),
		margins: DefaultMargins(),
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// LeftColumn returns the first visible display column.
func (v *Viewport) LeftColumn() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftColumn
}

// Resize updates the viewport size.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, 1)
	v.height = max(height, 1)
}

// SetLineCount sets the document length used to clamp scrolling.
func (v *Viewport) SetLineCount(count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineCount = max(count, 0)
	v.topLine = v.clampTop(v.topLine)
}

// SetMargins sets the scroll margins.
func (v *Viewport) SetMargins(m MarginConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.margins = m
}

// VisibleLineRange returns the first and last screen rows as document lines.
// end may exceed the document; callers render those rows as filler.
func (v *Viewport) VisibleLineRange() (start, end int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine, v.topLine + v.height - 1
}

// IsLineVisible returns true if the line is within the viewport.
func (v *Viewport) IsLineVisible(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line < v.topLine+v.height
}

// LineToScreenRow converts a document line to a screen row.
// Returns -1 if the line is not visible.
func (v *Viewport) LineToScreenRow(line int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if line < v.topLine || line >= v.topLine+v.height {
		return -1
	}
	return line - v.topLine
}

// ScrollTo shows line at the top.
func (v *Viewport) ScrollTo(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(line)
}

// ScrollToReveal scrolls minimally so (line, col) sits inside the margins.
// col is a display column. Returns true if scrolling occurred.
func (v *Viewport) ScrollToReveal(line, col int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := v.effectiveMargins()
	top, left := v.topLine, v.leftColumn

	switch {
	case line < top+m.Top:
		top = line - m.Top
	case line > top+v.height-1-m.Bottom:
		top = line - v.height + 1 + m.Bottom
	}

	switch {
	case col < left+m.Left:
		left = col - m.Left
	case col > left+v.width-1-m.Right:
		left = col - v.width + 1 + m.Right
	}

	top = v.clampTop(top)
	left = max(left, 0)
	if top == v.topLine && left == v.leftColumn {
		return false
	}
	v.topLine, v.leftColumn = top, left
	return true
}

// CenterOn centers the viewport on the given line.
func (v *Viewport) CenterOn(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(line - v.height/2)
}

func (v *Viewport) clampTop(top int) int {
	if v.lineCount > 0 {
		top = min(top, v.lineCount-1)
	}
	return max(top, 0)
}

// effectiveMargins clamps margins to a third of the viewport.
func (v *Viewport) effectiveMargins() MarginConfig {
	maxV := v.height / maxMarginRatio
	maxH := v.width / maxMarginRatio
	return MarginConfig{
		Top:    min(v.margins.Top, maxV),
		Bottom: min(v.margins.Bottom, maxV),
		Left:   min(v.margins.Left, maxH),
		Right:  min(v.margins.Right, maxH),
	}
}
