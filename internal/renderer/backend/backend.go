// Package backend draws cells on a display and reads its input.
//
// Terminal drives a real screen through tcell. Memory keeps cells in a
// grid and is used for print output and tests.
package backend

import "github.com/dshills/guides/internal/renderer/core"

// EventType tells which fields of an Event are set.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize

	// EventInterrupt wakes a blocked PollEvent without carrying input.
	EventInterrupt
)

// Event is one input or screen change.
type Event struct {
	Type EventType

	Key  Key
	Rune rune // set when Key is KeyRune
	Mod  ModMask

	Width, Height int // set for EventResize
}

// Key is a key the viewer understands. Anything else arrives as KeyNone.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlL
	KeyCtrlQ
)

// ModMask is a set of held modifiers.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether mod is held.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Backend is a cell grid plus an event source.
//
// Drawing calls only touch the back buffer; Show makes them visible.
// Coordinates outside Size are ignored.
type Backend interface {
	// Init must succeed before any other call.
	Init() error

	// Shutdown restores the display. It is safe to call once after Init.
	Shutdown()

	Size() (width, height int)

	SetCell(x, y int, cell core.Cell)
	GetCell(x, y int) core.Cell
	Fill(rect core.ScreenRect, cell core.Cell)
	Clear()
	Show()

	ShowCursor(x, y int)
	HideCursor()

	// PollEvent blocks until an event arrives. Callers stop polling by
	// posting EventInterrupt.
	PollEvent() Event

	// PostEvent queues a synthetic event, dropping it if the queue is full.
	PostEvent(event Event)
}
