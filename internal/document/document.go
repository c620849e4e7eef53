package document

import (
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dshills/guides/internal/guides"
)

// Errors returned by document operations.
var (
	ErrLineOutOfRange   = errors.New("line out of range")
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrMultiline        = errors.New("text contains a line break")
)

// LineEnding specifies the line ending style used when the document is
// written back out. Lines are always stored without terminators.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// RevisionID identifies a document revision.
// Each modification produces a new revision.
type RevisionID uint64

var revisionCounter uint64

func newRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// Document is a line-oriented text model.
//
// It caches, per line, whether the line is blank and where its first
// non-whitespace character sits, so guide extraction never rescans
// indentation it already measured. All methods are thread-safe.
type Document struct {
	mu         sync.RWMutex
	lines      []string
	info       []guides.LineInfo
	lineEnding LineEnding
	revision   RevisionID
}

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithLineEnding sets the line ending used by Text.
func WithLineEnding(le LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = le
	}
}

// New creates a document from text. CRLF and CR line breaks are
// normalized; the original style is detected and kept for Text unless an
// option overrides it.
func New(text string, opts ...Option) *Document {
	d := &Document{
		lineEnding: DetectLineEnding(text),
		revision:   newRevisionID(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.setLines(strings.Split(normalizeLineEndings(text), "\n"))
	return d
}

// FromReader creates a document from everything r yields.
func FromReader(r io.Reader, opts ...Option) (*Document, error) {
	// Read everything first; a CRLF pair may straddle a read boundary.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(string(data), opts...), nil
}

// FromLines creates a document from lines that carry no terminators.
func FromLines(lines []string, opts ...Option) (*Document, error) {
	for _, l := range lines {
		if strings.ContainsAny(l, "\r\n") {
			return nil, ErrMultiline
		}
	}
	d := &Document{revision: newRevisionID()}
	for _, opt := range opts {
		opt(d)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	d.setLines(append([]string(nil), lines...))
	return d, nil
}

func (d *Document) setLines(lines []string) {
	d.lines = lines
	d.info = make([]guides.LineInfo, len(lines))
	for i, l := range lines {
		d.info[i] = measure(l)
	}
}

// measure computes the cached facts for one line.
func measure(text string) guides.LineInfo {
	return guides.MeasureLine(text)
}

// normalizeLineEndings converts CRLF and CR to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// DetectLineEnding returns the most common line ending in text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlf++
			i++
		case text[i] == '\r':
			cr++
		case text[i] == '\n':
			lf++
		}
	}
	switch {
	case crlf > 0 && crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > 0 && cr >= lf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// Read Operations

// LineCount returns the number of lines. A document always has at least one.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// LineText returns the text of a line without its terminator.
// Out of range lines return "".
func (d *Document) LineText(line int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if line < 0 || line >= len(d.lines) {
		return ""
	}
	return d.lines[line]
}

// LineInfo returns the cached facts for a line. Out of range lines report
// nothing known.
func (d *Document) LineInfo(line int) guides.LineInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if line < 0 || line >= len(d.info) {
		return guides.LineInfo{}
	}
	return d.info[line]
}

// LineLen returns the length of a line in runes.
func (d *Document) LineLen(line int) int {
	return len([]rune(d.LineText(line)))
}

// Text returns the full document joined with its line ending.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Join(d.lines, d.lineEnding.Sequence())
}

// LineEnding returns the line ending used by Text.
func (d *Document) LineEnding() LineEnding {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lineEnding
}

// Revision returns the current revision ID.
func (d *Document) Revision() RevisionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// Snapshot returns an immutable copy of the lines, safe to scan while the
// document keeps changing.
func (d *Document) Snapshot() guides.Lines {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append(guides.Lines(nil), d.lines...)
}

// Write Operations

// SetLine replaces the text of a line.
func (d *Document) SetLine(line int, text string) error {
	if strings.ContainsAny(text, "\r\n") {
		return ErrMultiline
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if line < 0 || line >= len(d.lines) {
		return ErrLineOutOfRange
	}
	d.lines[line] = text
	d.info[line] = measure(text)
	d.revision = newRevisionID()
	return nil
}

// Insert inserts lines before line. line may equal LineCount to append.
func (d *Document) Insert(line int, lines ...string) error {
	for _, l := range lines {
		if strings.ContainsAny(l, "\r\n") {
			return ErrMultiline
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if line < 0 || line > len(d.lines) {
		return ErrLineOutOfRange
	}
	if len(lines) == 0 {
		return nil
	}

	info := make([]guides.LineInfo, len(lines))
	for i, l := range lines {
		info[i] = measure(l)
	}
	d.lines = append(d.lines[:line], append(append([]string(nil), lines...), d.lines[line:]...)...)
	d.info = append(d.info[:line], append(info, d.info[line:]...)...)
	d.revision = newRevisionID()
	return nil
}

// Delete removes count lines starting at line. Deleting every line leaves
// a single empty line.
func (d *Document) Delete(line, count int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if line < 0 || count < 0 || line+count > len(d.lines) {
		return ErrLineOutOfRange
	}
	if count == 0 {
		return nil
	}

	d.lines = append(d.lines[:line], d.lines[line+count:]...)
	d.info = append(d.info[:line], d.info[line+count:]...)
	if len(d.lines) == 0 {
		d.lines = []string{""}
		d.info = []guides.LineInfo{measure("")}
	}
	d.revision = newRevisionID()
	return nil
}

// InsertRune inserts r at pos and returns the position after it.
// A newline splits the line.
func (d *Document) InsertRune(pos guides.Position, r rune) (guides.Position, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	runes, err := d.runesAt(pos)
	if err != nil {
		return pos, err
	}

	if r == '\n' || r == '\r' {
		head, tail := string(runes[:pos.Col]), string(runes[pos.Col:])
		d.lines[pos.Line] = head
		d.info[pos.Line] = measure(head)
		d.lines = append(d.lines[:pos.Line+1], append([]string{tail}, d.lines[pos.Line+1:]...)...)
		d.info = append(d.info[:pos.Line+1], append([]guides.LineInfo{measure(tail)}, d.info[pos.Line+1:]...)...)
		d.revision = newRevisionID()
		return guides.Position{Line: pos.Line + 1}, nil
	}

	text := string(runes[:pos.Col]) + string(r) + string(runes[pos.Col:])
	d.lines[pos.Line] = text
	d.info[pos.Line] = measure(text)
	d.revision = newRevisionID()
	return guides.Position{Line: pos.Line, Col: pos.Col + 1}, nil
}

// DeleteBackward removes the rune before pos and returns the new position.
// At the start of a line it joins the line onto the previous one; at the
// start of the document it does nothing.
func (d *Document) DeleteBackward(pos guides.Position) (guides.Position, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	runes, err := d.runesAt(pos)
	if err != nil {
		return pos, err
	}

	if pos.Col > 0 {
		text := string(runes[:pos.Col-1]) + string(runes[pos.Col:])
		d.lines[pos.Line] = text
		d.info[pos.Line] = measure(text)
		d.revision = newRevisionID()
		return guides.Position{Line: pos.Line, Col: pos.Col - 1}, nil
	}
	if pos.Line == 0 {
		return pos, nil
	}

	prev := d.lines[pos.Line-1]
	joined := prev + d.lines[pos.Line]
	d.lines[pos.Line-1] = joined
	d.info[pos.Line-1] = measure(joined)
	d.lines = append(d.lines[:pos.Line], d.lines[pos.Line+1:]...)
	d.info = append(d.info[:pos.Line], d.info[pos.Line+1:]...)
	d.revision = newRevisionID()
	return guides.Position{Line: pos.Line - 1, Col: len([]rune(prev))}, nil
}

func (d *Document) runesAt(pos guides.Position) ([]rune, error) {
	if pos.Line < 0 || pos.Line >= len(d.lines) {
		return nil, ErrLineOutOfRange
	}
	runes := []rune(d.lines[pos.Line])
	if pos.Col < 0 || pos.Col > len(runes) {
		return nil, ErrColumnOutOfRange
	}
	return runes, nil
}
