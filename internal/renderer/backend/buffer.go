package backend

import (
	"strings"
	"sync"

	"github.com/dshills/guides/internal/renderer/core"
)

// Memory is an in-memory backend. It records every cell written and serves
// posted events, which makes rendering observable in tests and in print mode.
type Memory struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	events        chan Event
	shows         int
}

// NewMemory creates a memory backend with the given dimensions.
func NewMemory(width, height int) *Memory {
	m := &Memory{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
	m.allocate()
	return m
}

func (m *Memory) allocate() {
	m.cells = make([][]core.Cell, m.height)
	for y := range m.cells {
		m.cells[y] = make([]core.Cell, m.width)
		for x := range m.cells[y] {
			m.cells[y][x] = core.EmptyCell()
		}
	}
}

// Init implements Backend.
func (m *Memory) Init() error { return nil }

// Shutdown implements Backend.
func (m *Memory) Shutdown() {}

// Size implements Backend.
func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

// Resize reallocates the grid and queues a resize event.
func (m *Memory) Resize(width, height int) {
	m.mu.Lock()
	m.width = width
	m.height = height
	m.allocate()
	m.mu.Unlock()
	m.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// SetCell implements Backend.
func (m *Memory) SetCell(x, y int, cell core.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x >= 0 && x < m.width && y >= 0 && y < m.height {
		m.cells[y][x] = cell
	}
}

// GetCell implements Backend.
func (m *Memory) GetCell(x, y int) core.Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x >= 0 && x < m.width && y >= 0 && y < m.height {
		return m.cells[y][x]
	}
	return core.EmptyCell()
}

// Fill implements Backend.
func (m *Memory) Fill(rect core.ScreenRect, cell core.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for y := max(rect.Top, 0); y < rect.Bottom && y < m.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < m.width; x++ {
			m.cells[y][x] = cell
		}
	}
}

// Clear implements Backend.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	empty := core.EmptyCell()
	for y := range m.cells {
		for x := range m.cells[y] {
			m.cells[y][x] = empty
		}
	}
}

// Show implements Backend. It only counts frames.
func (m *Memory) Show() {
	m.mu.Lock()
	m.shows++
	m.mu.Unlock()
}

// Frames returns how many times Show was called.
func (m *Memory) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}

// ShowCursor implements Backend.
func (m *Memory) ShowCursor(x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorX, m.cursorY = x, y
	m.cursorVisible = true
}

// HideCursor implements Backend.
func (m *Memory) HideCursor() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorVisible = false
}

// CursorPosition returns the current cursor position.
func (m *Memory) CursorPosition() (x, y int, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursorX, m.cursorY, m.cursorVisible
}

// PollEvent implements Backend.
func (m *Memory) PollEvent() Event {
	return <-m.events
}

// PostEvent implements Backend. Events are dropped when the queue is full.
func (m *Memory) PostEvent(event Event) {
	select {
	case m.events <- event:
	default:
	}
}

// Row returns row y as a string with trailing spaces trimmed.
func (m *Memory) Row(y int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if y < 0 || y >= m.height {
		return ""
	}
	return strings.TrimRight(core.StringFromCells(m.cells[y]), " ")
}

// Lines returns every row, trimmed as in Row, without trailing empty rows.
func (m *Memory) Lines() []string {
	_, h := m.Size()
	lines := make([]string, h)
	last := -1
	for y := range h {
		lines[y] = m.Row(y)
		if lines[y] != "" {
			last = y
		}
	}
	return lines[:last+1]
}
