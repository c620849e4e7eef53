// Package gutter provides gutter rendering for the viewer.
// The gutter is the area to the left of the text content that displays
// line numbers and the open/close markers of the active indentation scope.
package gutter

import (
	"strconv"
	"sync"
)

// Config holds gutter configuration.
type Config struct {
	// ShowLineNumbers enables line number display.
	ShowLineNumbers bool

	// MinLineNumberWidth is the minimum width for auto-calculated widths.
	MinLineNumberWidth int

	// ShowScopeMarkers reserves a column for the active scope markers.
	ShowScopeMarkers bool
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:    true,
		MinLineNumberWidth: 3,
		ShowScopeMarkers:   false,
	}
}

// Marker glyphs for the active scope.
const (
	GlyphOpen  = '┌'
	GlyphClose = '└'
)

// CellStyle describes how to style a gutter cell.
type CellStyle uint8

const (
	StyleNormal CellStyle = iota
	StyleCurrentLine
	StyleDim
	StyleScopeOpen
	StyleScopeClose
)

// Cell represents a single gutter cell.
type Cell struct {
	Rune  rune
	Style CellStyle
}

// Gutter manages the gutter area rendering.
type Gutter struct {
	mu sync.RWMutex

	config    Config
	width     int
	lineCount int
	current   int

	// Active scope markers; valid only when hasScope is set.
	scopeOpen  int
	scopeClose int
	hasScope   bool
}

// New creates a new gutter with the given configuration.
func New(config Config) *Gutter {
	g := &Gutter{config: config}
	g.recalculate()
	return g
}

// Width returns the current gutter width.
func (g *Gutter) Width() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width
}

// Config returns the current configuration.
func (g *Gutter) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the gutter configuration.
func (g *Gutter) SetConfig(config Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.config = config
	g.recalculate()
}

// SetLineCount updates the total line count (affects width calculation).
func (g *Gutter) SetLineCount(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lineCount = count
	g.recalculate()
}

// SetCurrentLine updates the current cursor line.
func (g *Gutter) SetCurrentLine(line int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = line
}

// SetScope sets the open and close lines of the active scope. Markers are
// drawn only when ok is true.
func (g *Gutter) SetScope(open, close int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scopeOpen, g.scopeClose, g.hasScope = open, close, ok
}

// ClearScope removes the scope markers.
func (g *Gutter) ClearScope() {
	g.SetScope(-1, -1, false)
}

// RenderLine renders the gutter for a single line.
// exists indicates if the line exists in the document.
func (g *Gutter) RenderLine(line int, exists bool) []Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.width == 0 {
		return nil
	}

	cells := make([]Cell, g.width)
	for i := range cells {
		cells[i] = Cell{Rune: ' ', Style: StyleNormal}
	}

	col := 0
	if g.config.ShowLineNumbers {
		numWidth := g.lineNumberWidth()
		if exists {
			style := StyleDim
			if line == g.current {
				style = StyleCurrentLine
			}
			for _, r := range PadLeft(strconv.Itoa(line+1), numWidth) {
				cells[col] = Cell{Rune: r, Style: style}
				col++
			}
		} else {
			// ~ marks lines past the end of the document
			col += numWidth - 1
			cells[col] = Cell{Rune: '~', Style: StyleDim}
			col++
		}
	}

	if g.config.ShowScopeMarkers && exists && g.hasScope {
		switch line {
		case g.scopeOpen:
			cells[col] = Cell{Rune: GlyphOpen, Style: StyleScopeOpen}
		case g.scopeClose:
			cells[col] = Cell{Rune: GlyphClose, Style: StyleScopeClose}
		}
	}

	return cells
}

// lineNumberWidth returns the width for line numbers.
func (g *Gutter) lineNumberWidth() int {
	return numberWidth(g.lineCount, g.config.MinLineNumberWidth)
}

// recalculate updates the total width. Callers hold the lock.
func (g *Gutter) recalculate() {
	width := 0
	if g.config.ShowLineNumbers {
		width += g.lineNumberWidth()
	}
	if g.config.ShowScopeMarkers {
		width++
	}

	// Separator
	if width > 0 {
		width++
	}
	g.width = width
}
