package app

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/guides/internal/document"
	"github.com/dshills/guides/internal/guides"
)

// Editor is the single view the viewer shows: a document plus one
// selection. It implements controller.Editor.
type Editor struct {
	mu sync.RWMutex

	path string
	name string
	doc  *document.Document

	anchor guides.Position
	cursor guides.Position

	// goal is the display column vertical moves try to keep.
	goal int

	tabSize  int
	modified bool
}

// NewEditor wraps doc. An empty path makes a scratch editor.
func NewEditor(path string, doc *document.Document, tabSize int) *Editor {
	if doc == nil {
		doc = document.New("")
	}
	name := "[scratch]"
	if path != "" {
		name = filepath.Base(path)
	}
	return &Editor{path: path, name: name, doc: doc, tabSize: tabSize}
}

// OpenEditor reads path into a new editor.
func OpenEditor(path string, tabSize int) (*Editor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	defer f.Close()

	doc, err := document.FromReader(f)
	if err != nil {
		return nil, NewOperationError("read", path, err)
	}
	return NewEditor(path, doc, tabSize), nil
}

// ID returns the file path, or the display name for scratch editors.
func (e *Editor) ID() string {
	if e.path != "" {
		return e.path
	}
	return e.name
}

// Name returns the display name.
func (e *Editor) Name() string { return e.name }

// Path returns the file path, empty for scratch editors.
func (e *Editor) Path() string { return e.path }

// Document implements controller.Editor.
func (e *Editor) Document() guides.Document { return e.doc }

// Buffer returns the underlying document.
func (e *Editor) Buffer() *document.Document { return e.doc }

// Selections returns the one selection.
func (e *Editor) Selections() []guides.Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return []guides.Selection{{Anchor: e.anchor, Active: e.cursor}}
}

// Cursor returns the active end of the selection.
func (e *Editor) Cursor() guides.Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursor
}

// TabSize returns the editor's tab width, 0 when unset.
func (e *Editor) TabSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tabSize
}

// SetTabSize changes the tab width.
func (e *Editor) SetTabSize(size int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tabSize = max(size, 0)
}

// IsModified reports whether the text was edited.
func (e *Editor) IsModified() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.modified
}

// HasSelection reports whether anchor and cursor differ.
func (e *Editor) HasSelection() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.anchor != e.cursor
}

// SetCursor moves the cursor to pos, clamped to the document, and
// collapses the selection.
func (e *Editor) SetCursor(pos guides.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = e.clamp(pos)
	e.anchor = e.cursor
	e.goal = e.cursor.Col
}

// Collapse drops the selection, keeping the cursor.
func (e *Editor) Collapse() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.anchor = e.cursor
}

// MoveHorizontal moves the cursor by delta runes, wrapping across line
// ends. With extend the anchor stays put.
func (e *Editor) MoveHorizontal(delta int, extend bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := e.cursor
	for ; delta < 0; delta++ {
		switch {
		case pos.Col > 0:
			pos.Col--
		case pos.Line > 0:
			pos.Line--
			pos.Col = e.doc.LineLen(pos.Line)
		}
	}
	for ; delta > 0; delta-- {
		switch {
		case pos.Col < e.doc.LineLen(pos.Line):
			pos.Col++
		case pos.Line < e.doc.LineCount()-1:
			pos.Line++
			pos.Col = 0
		}
	}
	e.goal = pos.Col
	e.place(pos, extend)
}

// MoveVertical moves the cursor by delta lines, keeping the goal column
// where the line is long enough.
func (e *Editor) MoveVertical(delta int, extend bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	line := e.cursor.Line + delta
	line = min(max(line, 0), e.doc.LineCount()-1)
	pos := guides.Position{Line: line, Col: min(e.goal, e.doc.LineLen(line))}
	e.place(pos, extend)
}

// MoveLineStart moves to the first non-whitespace column, or to column 0
// when already there.
func (e *Editor) MoveLineStart(extend bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	col := 0
	if info := e.doc.LineInfo(e.cursor.Line); !info.IsEmptyOrWhitespace && info.FirstNonWhitespace != e.cursor.Col {
		col = info.FirstNonWhitespace
	}
	e.goal = col
	e.place(guides.Position{Line: e.cursor.Line, Col: col}, extend)
}

// MoveLineEnd moves past the last rune of the line.
func (e *Editor) MoveLineEnd(extend bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	col := e.doc.LineLen(e.cursor.Line)
	e.goal = col
	e.place(guides.Position{Line: e.cursor.Line, Col: col}, extend)
}

// InsertRune types r at the cursor. A selection is collapsed first.
func (e *Editor) InsertRune(r rune) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, err := e.doc.InsertRune(e.cursor, r)
	if err != nil {
		return err
	}
	e.afterEdit(pos)
	return nil
}

// Backspace deletes the rune before the cursor.
func (e *Editor) Backspace() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cursor == (guides.Position{}) {
		e.anchor = e.cursor
		return nil
	}
	pos, err := e.doc.DeleteBackward(e.cursor)
	if err != nil {
		return err
	}
	e.afterEdit(pos)
	return nil
}

// Delete removes the rune after the cursor, joining lines at a line end.
func (e *Editor) Delete() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.cursor
	switch {
	case next.Col < e.doc.LineLen(next.Line):
		next.Col++
	case next.Line < e.doc.LineCount()-1:
		next = guides.Position{Line: next.Line + 1}
	default:
		e.anchor = e.cursor
		return nil
	}
	pos, err := e.doc.DeleteBackward(next)
	if err != nil {
		return err
	}
	e.afterEdit(pos)
	return nil
}

func (e *Editor) afterEdit(pos guides.Position) {
	e.cursor = pos
	e.anchor = pos
	e.goal = pos.Col
	e.modified = true
}

// place sets the cursor. Caller must hold e.mu.
func (e *Editor) place(pos guides.Position, extend bool) {
	e.cursor = pos
	if !extend {
		e.anchor = pos
	}
}

// clamp keeps pos inside the document. Caller must hold e.mu.
func (e *Editor) clamp(pos guides.Position) guides.Position {
	pos.Line = min(max(pos.Line, 0), e.doc.LineCount()-1)
	pos.Col = min(max(pos.Col, 0), e.doc.LineLen(pos.Line))
	return pos
}
