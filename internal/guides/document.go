package guides

// Position is a line and column (rune index) in a document.
type Position struct {
	Line int
	Col  int
}

// Before reports whether p sorts before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

// Selection is a range between an anchor and the active (cursor) end.
// When Anchor == Active the selection is a bare cursor.
type Selection struct {
	Anchor Position
	Active Position
}

// Cursor returns a bare cursor selection at p.
func Cursor(p Position) Selection {
	return Selection{Anchor: p, Active: p}
}

// IsEmpty reports whether the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Position {
	if s.Active.Before(s.Anchor) {
		return s.Active
	}
	return s.Anchor
}

// End returns the upper bound of the selection.
func (s Selection) End() Position {
	if s.Active.Before(s.Anchor) {
		return s.Anchor
	}
	return s.Active
}

// Contains reports whether p lies within the selection, bounds included.
func (s Selection) Contains(p Position) bool {
	return !p.Before(s.Start()) && !s.End().Before(p)
}

// Document is the read-only text the scanner walks.
type Document interface {
	LineCount() int
	LineText(line int) string
}

// LineInfoProvider is implemented by documents that cache per-line facts.
// The scanner passes them to Extract to skip rescanning.
type LineInfoProvider interface {
	LineInfo(line int) LineInfo
}

// Lines is a Document backed by a string slice.
type Lines []string

// LineCount implements Document.
func (l Lines) LineCount() int { return len(l) }

// LineText implements Document.
func (l Lines) LineText(line int) string { return l[line] }

// LineInfo implements LineInfoProvider, so blank lines are skipped the
// same way as in a cached document.
func (l Lines) LineInfo(line int) LineInfo { return MeasureLine(l[line]) }

func lineInfo(doc Document, line int) *LineInfo {
	if p, ok := doc.(LineInfoProvider); ok {
		info := p.LineInfo(line)
		return &info
	}
	return nil
}
