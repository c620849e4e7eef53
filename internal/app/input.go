package app

import (
	"github.com/dshills/guides/internal/guides"
	"github.com/dshills/guides/internal/renderer/backend"
)

// Mode decides what plain keys do.
type Mode int

const (
	// ModeNormal moves the cursor; letters are commands.
	ModeNormal Mode = iota
	// ModeInsert types letters into the document.
	ModeInsert
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Label returns the status line prefix for the mode.
func (m Mode) Label() string {
	if m == ModeInsert {
		return "-- INSERT -- "
	}
	return ""
}

// Mode returns the current input mode.
func (app *Application) Mode() Mode {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.mode
}

func (app *Application) setMode(m Mode) {
	app.mu.Lock()
	app.mode = m
	app.mu.Unlock()
	app.logger.Debug("mode %s", m)
}

// handleEvent routes one backend event.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		if r := app.Renderer(); r != nil {
			r.Resize(ev.Width, ev.Height)
		}
		return nil
	case backend.EventKey:
		return app.handleKey(ev)
	default:
		return nil
	}
}

func (app *Application) handleKey(ev backend.Event) error {
	ed := app.editor
	extend := ev.Mod.Has(backend.ModShift)

	switch ev.Key {
	case backend.KeyCtrlC, backend.KeyCtrlQ:
		return ErrQuit

	case backend.KeyCtrlL:
		if r := app.Renderer(); r != nil {
			r.Clear()
		}
		app.controller.Refresh()
		return nil

	case backend.KeyEscape:
		if app.Mode() == ModeInsert {
			app.setMode(ModeNormal)
		}
		ed.Collapse()

	case backend.KeyUp:
		ed.MoveVertical(-1, extend)
	case backend.KeyDown:
		ed.MoveVertical(1, extend)
	case backend.KeyLeft:
		ed.MoveHorizontal(-1, extend)
	case backend.KeyRight:
		ed.MoveHorizontal(1, extend)
	case backend.KeyHome:
		ed.MoveLineStart(extend)
	case backend.KeyEnd:
		ed.MoveLineEnd(extend)
	case backend.KeyPageUp:
		ed.MoveVertical(-app.pageSize(), extend)
	case backend.KeyPageDown:
		ed.MoveVertical(app.pageSize(), extend)

	case backend.KeyEnter:
		return app.edit(ed.InsertRune, '\n')
	case backend.KeyTab:
		return app.edit(ed.InsertRune, '\t')
	case backend.KeyBackspace:
		return app.edit(func(rune) error { return ed.Backspace() }, 0)
	case backend.KeyDelete:
		return app.edit(func(rune) error { return ed.Delete() }, 0)

	case backend.KeyRune:
		if app.Mode() == ModeInsert {
			return app.edit(ed.InsertRune, ev.Rune)
		}
		return app.command(ev.Rune)

	default:
		return nil
	}

	app.controller.SelectionChanged(ed, ed.Selections())
	return nil
}

// command runs a normal mode key.
func (app *Application) command(r rune) error {
	switch r {
	case 'q':
		return ErrQuit
	case 'i':
		app.setMode(ModeInsert)
	case 'r':
		app.logger.Info("reloading configuration")
		app.controller.ConfigurationChanged()
	case '+':
		app.setTabSize(app.effectiveTabSize() + 1)
	case '-':
		app.setTabSize(app.effectiveTabSize() - 1)
	case 'g':
		app.editor.SetCursor(guides.Position{})
		app.controller.SelectionChanged(app.editor, app.editor.Selections())
	case 'G':
		app.editor.SetCursor(guides.Position{Line: app.editor.Buffer().LineCount() - 1})
		app.controller.SelectionChanged(app.editor, app.editor.Selections())
	}
	return nil
}

// edit applies a text change in insert mode and rescans.
func (app *Application) edit(fn func(rune) error, r rune) error {
	if app.Mode() != ModeInsert {
		return nil
	}
	if err := fn(r); err != nil {
		app.logger.Warn("edit: %v", err)
		return nil
	}
	app.controller.DocumentChanged(app.editor)
	return nil
}

func (app *Application) setTabSize(size int) {
	size = max(size, 1)
	app.editor.SetTabSize(size)
	app.controller.EditorOptionsChanged(app.editor, size)
}

// pageSize is the number of text rows on screen.
func (app *Application) pageSize() int {
	if r := app.Renderer(); r != nil {
		if h := r.Viewport().Height(); h > 1 {
			return h - 1
		}
	}
	return 1
}
