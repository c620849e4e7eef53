package guides

import "strings"

// brackets are the characters that trigger bracket expansion.
const brackets = "({[)}]"

// ActiveContext describes how to pick the active guide of a line.
// Exactly one mode applies: a fixed level, or a cursor column.
type ActiveContext struct {
	// Level, when >= 0, selects guides[Level] directly.
	Level int

	// Cursor is the cursor column (rune index). Negative means end of line.
	Cursor int

	ExtraIndent    bool
	ExpandBrackets bool
}

// AtLevel returns a context that reuses a level already known by the caller.
func AtLevel(level int) ActiveContext {
	return ActiveContext{Level: level, Cursor: -1}
}

// AtCursor returns a context resolving from a cursor column.
func AtCursor(col int, opts Options) ActiveContext {
	return ActiveContext{
		Level:          -1,
		Cursor:         col,
		ExtraIndent:    opts.ExtraIndent,
		ExpandBrackets: opts.ExpandBrackets,
	}
}

// AtEndOfLine returns a cursor context placed after the last character.
func AtEndOfLine(opts Options) ActiveContext {
	return AtCursor(-1, opts)
}

// ResolveActive returns the index into guides of the active guide.
func ResolveActive(ctx ActiveContext, text string, guides []Guide) (int, bool) {
	if ctx.Level >= 0 {
		if ctx.Level < len(guides) {
			return ctx.Level, true
		}
		return -1, false
	}

	runes := []rune(text)
	cursor := ctx.Cursor
	if cursor < 0 {
		cursor = len(runes)
	}

	if ctx.ExpandBrackets && cursor > 0 && cursor <= len(runes) {
		if isBracket(runes[cursor-1]) {
			cursor--
		}
	}

	for i := len(guides) - 1; i >= 0; i-- {
		g := guides[i]
		if ctx.ExtraIndent {
			if g.Position <= cursor {
				return i, true
			}
			continue
		}
		if g.Kind != KindEnd && g.Position < cursor {
			return i, true
		}
	}
	return -1, false
}

func isBracket(r rune) bool {
	return strings.ContainsRune(brackets, r)
}
