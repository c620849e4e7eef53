package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/guides/internal/renderer/core"
)

var _ Backend = (*Memory)(nil)
var _ Backend = (*Terminal)(nil)

func TestMemorySetGetCell(t *testing.T) {
	m := NewMemory(20, 5)
	if err := m.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cell := core.NewStyledCell('X', core.DefaultStyle().WithForeground(core.ColorWhite))
	m.SetCell(3, 2, cell)

	if got := m.GetCell(3, 2); !got.Equals(cell) {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds should be ignored/return empty
	m.SetCell(-1, 0, cell)
	m.SetCell(100, 0, cell)
	if got := m.GetCell(-1, 0); !got.Equals(core.EmptyCell()) {
		t.Error("out of bounds should return empty cell")
	}
}

func TestMemoryFillAndClear(t *testing.T) {
	m := NewMemory(10, 4)
	m.Fill(core.RectFromSize(1, -2, 2, 5), core.NewStyledCell('#', core.DefaultStyle()))

	want := []string{"", "###", "###"}
	got := m.Lines()
	if len(got) != len(want) {
		t.Fatalf("Lines() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], want[i])
		}
	}

	m.Clear()
	if lines := m.Lines(); len(lines) != 0 {
		t.Errorf("after Clear, Lines() = %q", lines)
	}
}

func TestMemoryEvents(t *testing.T) {
	m := NewMemory(10, 4)
	m.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'q'})
	m.Resize(12, 6)

	ev := m.PollEvent()
	if ev.Type != EventKey || ev.Rune != 'q' {
		t.Errorf("first event = %+v, want key q", ev)
	}
	ev = m.PollEvent()
	if ev.Type != EventResize || ev.Width != 12 || ev.Height != 6 {
		t.Errorf("second event = %+v, want resize 12x6", ev)
	}
	if w, h := m.Size(); w != 12 || h != 6 {
		t.Errorf("Size() = (%d, %d), want (12, 6)", w, h)
	}
}

func TestMemoryCursorAndFrames(t *testing.T) {
	m := NewMemory(10, 4)
	m.ShowCursor(4, 2)
	m.Show()
	m.Show()

	x, y, visible := m.CursorPosition()
	if x != 4 || y != 2 || !visible {
		t.Errorf("cursor = (%d, %d, %v), want (4, 2, true)", x, y, visible)
	}
	m.HideCursor()
	if _, _, visible := m.CursorPosition(); visible {
		t.Error("cursor should be hidden")
	}
	if m.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", m.Frames())
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want Key
	}{
		{tcell.KeyBackspace2, KeyBackspace},
		{tcell.KeyPgDn, KeyPageDown},
		{tcell.KeyCtrlC, KeyCtrlC},
		{tcell.KeyF1, KeyNone},
	}
	for _, tt := range tests {
		if got := convertKey(tt.in); got != tt.want {
			t.Errorf("convertKey(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := convertToTcellKey(KeyBackspace); got != tcell.KeyBackspace {
		t.Errorf("convertToTcellKey(KeyBackspace) = %v, want KeyBackspace", got)
	}
}

func TestConvertMod(t *testing.T) {
	mod := ModShift | ModCtrl
	if got := convertMod(convertToTcellMod(mod)); got != mod {
		t.Errorf("mod round trip = %v, want %v", got, mod)
	}
}

func TestConvertStyle(t *testing.T) {
	s := core.DefaultStyle().
		WithForeground(core.ColorFromRGB(10, 20, 30)).
		WithAttributes(core.AttrBold | core.AttrReverse)

	fg, bg, attrs := convertStyle(s).Decompose()
	if got := convertTcellColor(fg); !got.Equals(s.Foreground) {
		t.Errorf("foreground = %v, want %v", got, s.Foreground)
	}
	if !convertTcellColor(bg).IsDefault() {
		t.Error("background should stay default")
	}
	if got := convertTcellAttrs(attrs); got != s.Attributes {
		t.Errorf("attributes = %v, want %v", got, s.Attributes)
	}
}
