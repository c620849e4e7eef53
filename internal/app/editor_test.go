package app

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/dshills/guides/internal/document"
	"github.com/dshills/guides/internal/guides"
)

func newTestEditor(text string) *Editor {
	return NewEditor("a.py", document.New(text), 0)
}

func TestEditorMoveHorizontal(t *testing.T) {
	tests := []struct {
		name  string
		from  guides.Position
		delta int
		want  guides.Position
	}{
		{"right", guides.Position{Line: 0, Col: 0}, 1, guides.Position{Line: 0, Col: 1}},
		{"right to line end", guides.Position{Line: 0, Col: 2}, 1, guides.Position{Line: 0, Col: 3}},
		{"right wraps", guides.Position{Line: 0, Col: 3}, 1, guides.Position{Line: 1, Col: 0}},
		{"left wraps", guides.Position{Line: 1, Col: 0}, -1, guides.Position{Line: 0, Col: 3}},
		{"left at start", guides.Position{}, -1, guides.Position{}},
		{"right at end", guides.Position{Line: 1, Col: 4}, 1, guides.Position{Line: 1, Col: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := newTestEditor("abc\n  de")
			ed.SetCursor(tt.from)
			ed.MoveHorizontal(tt.delta, false)
			if got := ed.Cursor(); got != tt.want {
				t.Errorf("cursor = %+v, want %+v", got, tt.want)
			}
			if ed.HasSelection() {
				t.Error("plain move should not select")
			}
		})
	}
}

func TestEditorMoveVerticalKeepsGoal(t *testing.T) {
	ed := newTestEditor("long line\nab\nanother line")
	ed.SetCursor(guides.Position{Line: 0, Col: 7})

	ed.MoveVertical(1, false)
	if got := ed.Cursor(); got != (guides.Position{Line: 1, Col: 2}) {
		t.Errorf("short line cursor = %+v, want 1:2", got)
	}
	ed.MoveVertical(1, false)
	if got := ed.Cursor(); got != (guides.Position{Line: 2, Col: 7}) {
		t.Errorf("goal column lost: %+v", got)
	}
	ed.MoveVertical(10, false)
	if got := ed.Cursor().Line; got != 2 {
		t.Errorf("line = %d, want clamped to 2", got)
	}
	ed.MoveVertical(-10, false)
	if got := ed.Cursor().Line; got != 0 {
		t.Errorf("line = %d, want clamped to 0", got)
	}
}

func TestEditorLineStartToggles(t *testing.T) {
	ed := newTestEditor("    x = 1\n")
	ed.SetCursor(guides.Position{Line: 0, Col: 7})

	ed.MoveLineStart(false)
	if got := ed.Cursor().Col; got != 4 {
		t.Errorf("first Home = %d, want 4", got)
	}
	ed.MoveLineStart(false)
	if got := ed.Cursor().Col; got != 0 {
		t.Errorf("second Home = %d, want 0", got)
	}
	ed.MoveLineEnd(false)
	if got := ed.Cursor().Col; got != 9 {
		t.Errorf("End = %d, want 9", got)
	}

	// Blank lines go to column 0.
	ed.SetCursor(guides.Position{Line: 1})
	ed.MoveLineStart(false)
	if got := ed.Cursor(); got != (guides.Position{Line: 1}) {
		t.Errorf("blank Home = %+v", got)
	}
}

func TestEditorExtendSelection(t *testing.T) {
	ed := newTestEditor("abc\ndef")
	ed.SetCursor(guides.Position{Line: 0, Col: 1})
	ed.MoveVertical(1, true)
	ed.MoveLineEnd(true)

	sel := ed.Selections()
	if len(sel) != 1 {
		t.Fatalf("got %d selections", len(sel))
	}
	want := guides.Selection{Anchor: guides.Position{Line: 0, Col: 1}, Active: guides.Position{Line: 1, Col: 3}}
	if sel[0] != want {
		t.Errorf("selection = %+v, want %+v", sel[0], want)
	}

	ed.Collapse()
	if ed.HasSelection() {
		t.Error("Collapse should drop the selection")
	}
}

func TestEditorTyping(t *testing.T) {
	ed := newTestEditor("if x:")
	ed.MoveLineEnd(false)

	for _, r := range "\n\ty" {
		if err := ed.InsertRune(r); err != nil {
			t.Fatalf("InsertRune(%q): %v", r, err)
		}
	}
	if got := ed.Buffer().Text(); got != "if x:\n\ty" {
		t.Errorf("text = %q", got)
	}
	if got := ed.Cursor(); got != (guides.Position{Line: 1, Col: 2}) {
		t.Errorf("cursor = %+v", got)
	}

	for range 3 {
		if err := ed.Backspace(); err != nil {
			t.Fatalf("Backspace: %v", err)
		}
	}
	if got := ed.Buffer().Text(); got != "if x:" {
		t.Errorf("text after backspace = %q", got)
	}
	if !ed.IsModified() {
		t.Error("editor should be modified")
	}
}

func TestEditorBackspaceAtStart(t *testing.T) {
	ed := newTestEditor("x")
	if err := ed.Backspace(); err != nil {
		t.Fatalf("Backspace: %v", err)
	}
	if ed.Buffer().Text() != "x" || ed.IsModified() {
		t.Error("backspace at the document start should do nothing")
	}
}

func TestEditorDelete(t *testing.T) {
	ed := newTestEditor("ab\ncd")
	ed.SetCursor(guides.Position{Line: 0, Col: 1})

	for range 2 {
		if err := ed.Delete(); err != nil {
			t.Fatalf("Delete: %v", err)
		}
	}
	if got := ed.Buffer().Text(); got != "acd" {
		t.Errorf("text = %q, want %q", got, "acd")
	}
	if got := ed.Cursor(); got != (guides.Position{Line: 0, Col: 1}) {
		t.Errorf("cursor = %+v", got)
	}

	ed.MoveLineEnd(false)
	if err := ed.Delete(); err != nil {
		t.Fatalf("Delete at end: %v", err)
	}
	if got := ed.Buffer().Text(); got != "acd" {
		t.Errorf("delete at the document end changed text to %q", got)
	}
}

func TestEditorTabSize(t *testing.T) {
	ed := newTestEditor("")
	if ed.TabSize() != 0 {
		t.Errorf("TabSize() = %d, want 0", ed.TabSize())
	}
	ed.SetTabSize(-3)
	if ed.TabSize() != 0 {
		t.Errorf("negative size = %d, want 0", ed.TabSize())
	}
	ed.SetTabSize(2)
	if ed.TabSize() != 2 {
		t.Errorf("TabSize() = %d, want 2", ed.TabSize())
	}
}

func TestOpenEditor(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.go", "package x\r\n\r\nfunc f() {}\r\n")

	ed, err := OpenEditor(path, 8)
	if err != nil {
		t.Fatalf("OpenEditor: %v", err)
	}
	if ed.ID() != path || ed.Name() != "x.go" || ed.TabSize() != 8 {
		t.Errorf("editor = %q/%q/%d", ed.ID(), ed.Name(), ed.TabSize())
	}
	if ed.Buffer().LineCount() != 4 || ed.Buffer().LineEnding() != document.LineEndingCRLF {
		t.Errorf("lines = %d ending = %v", ed.Buffer().LineCount(), ed.Buffer().LineEnding())
	}

	if _, err := OpenEditor(filepath.Join(dir, "none"), 0); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}
