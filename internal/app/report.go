package app

import (
	"bufio"
	"cmp"
	"encoding/json"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dshills/guides/internal/guides"
	"github.com/dshills/guides/internal/renderer"
	"github.com/dshills/guides/internal/renderer/backend"
	"github.com/dshills/guides/internal/renderer/core"
	"github.com/dshills/guides/internal/renderer/decoration"
)

// Guide kinds in a report, in paint priority order.
const (
	KindStack  = "stack"
	KindActive = "active"
	KindNormal = "normal"
)

// Report is the outcome of one scan around the cursor. Lines and columns
// are one-based.
type Report struct {
	File        string        `json:"file"`
	Lines       int           `json:"lines"`
	Cursor      ReportPos     `json:"cursor"`
	TabSize     int           `json:"tabSize"`
	Enabled     bool          `json:"enabled"`
	ActiveLevel int           `json:"activeLevel"`
	Scope       *ReportRange  `json:"scope,omitempty"`
	Window      ReportRange   `json:"window"`
	Guides      []ReportGuide `json:"guides"`
	Backgrounds []ReportSpan  `json:"backgrounds,omitempty"`
}

// ReportPos is a one-based position.
type ReportPos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ReportRange is an inclusive one-based line range.
type ReportRange struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// ReportGuide is one painted guide glyph.
type ReportGuide struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Kind   string `json:"kind"`
}

// ReportSpan is one background band, columns [From, To).
type ReportSpan struct {
	Line  int `json:"line"`
	From  int `json:"from"`
	To    int `json:"to"`
	Level int `json:"level"`
}

// Report scans the editor now and describes the result.
func (app *Application) Report() Report {
	app.controller.Update(app.editor)
	res, scanned := app.Result()

	cur := app.editor.Cursor()
	rep := Report{
		File:        app.editor.ID(),
		Lines:       app.editor.Buffer().LineCount(),
		Cursor:      ReportPos{Line: cur.Line + 1, Column: cur.Col + 1},
		TabSize:     app.effectiveTabSize(),
		Enabled:     scanned,
		ActiveLevel: -1,
		Guides:      []ReportGuide{},
	}
	if !scanned {
		return rep
	}

	rep.ActiveLevel = res.ActiveLevel
	rep.Window = ReportRange{First: res.FirstLine + 1, Last: res.LastLine + 1}
	if open, closing, ok := res.Gutter(); ok {
		rep.Scope = &ReportRange{First: open + 1, Last: closing + 1}
	}

	add := func(kind string, marks []guides.Mark) {
		for _, m := range marks {
			rep.Guides = append(rep.Guides, ReportGuide{Line: m.Line + 1, Column: m.Col + 1, Kind: kind})
		}
	}
	add(KindStack, res.Stack)
	add(KindActive, res.Active)
	add(KindNormal, res.Normal)
	slices.SortStableFunc(rep.Guides, func(a, b ReportGuide) int {
		return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.Column, b.Column))
	})

	for level, spans := range res.Backgrounds {
		for _, s := range spans {
			rep.Backgrounds = append(rep.Backgrounds, ReportSpan{Line: s.Line + 1, From: s.From + 1, To: s.To + 1, Level: level})
		}
	}
	slices.SortStableFunc(rep.Backgrounds, func(a, b ReportSpan) int {
		return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.From, b.From))
	})
	return rep
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// TextOptions configures WriteText.
type TextOptions struct {
	// Width is the line width including the gutter.
	Width int

	// Color emits true color escape sequences.
	Color bool

	// LineNumbers shows the gutter.
	LineNumbers bool
}

// DefaultTextWidth is the width used when none is given.
const DefaultTextWidth = 100

// WriteText renders the whole document with its guides as plain text,
// or as ANSI colored text when opts.Color is set.
func (app *Application) WriteText(w io.Writer, opts TextOptions) error {
	if opts.Width <= 0 {
		opts.Width = DefaultTextWidth
	}
	app.controller.Update(app.editor)

	// No selections: the page is not scrolled to the cursor.
	app.mu.RLock()
	frame := renderer.Frame{
		Doc:         app.editor.Buffer(),
		Result:      app.result,
		Decorations: app.decorations,
	}
	app.mu.RUnlock()

	lines := frame.Doc.LineCount()
	mem := backend.NewMemory(opts.Width, lines)

	ropts := renderer.DefaultOptions()
	ropts.ShowGutter = opts.LineNumbers
	ropts.TabSize = app.effectiveTabSize()
	ropts.Theme = decoration.ThemeByName(app.controller.Config().Theme)
	renderer.New(mem, ropts).Render(frame)
	page := ropts.Theme.Background

	out := bufio.NewWriter(w)
	var paint func(text string, style core.Style) string
	if opts.Color {
		lr := lipgloss.NewRenderer(w)
		lr.SetColorProfile(termenv.TrueColor)
		paint = func(text string, style core.Style) string {
			return lipglossStyle(lr, style).Render(text)
		}
	}

	for y := range lines {
		if paint == nil {
			out.WriteString(mem.Row(y))
		} else {
			writeStyledRow(out, mem, y, opts.Width, page, paint)
		}
		out.WriteByte('\n')
	}
	return out.Flush()
}

// writeStyledRow writes row y as runs of equally styled cells. Trailing
// blanks on the page background are dropped.
func writeStyledRow(out *bufio.Writer, mem *backend.Memory, y, width int, page core.Color, paint func(string, core.Style) string) {
	end := width
	for end > 0 && blank(mem.GetCell(end-1, y), page) {
		end--
	}

	var run strings.Builder
	var style core.Style
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(paint(run.String(), style))
			run.Reset()
		}
	}
	for x := 0; x < end; x++ {
		c := mem.GetCell(x, y)
		if c.IsContinuation() {
			continue
		}
		if !c.Style.Equals(style) {
			flush()
			style = c.Style
		}
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		run.WriteRune(r)
	}
	flush()
}

func blank(c core.Cell, page core.Color) bool {
	if c.Rune != ' ' && c.Rune != 0 {
		return false
	}
	return c.Style.Background.IsDefault() || c.Style.Background.Equals(page)
}

func lipglossStyle(lr *lipgloss.Renderer, s core.Style) lipgloss.Style {
	st := lr.NewStyle()
	if !s.Foreground.IsDefault() {
		st = st.Foreground(lipgloss.Color(s.Foreground.String()))
	}
	if !s.Background.IsDefault() {
		st = st.Background(lipgloss.Color(s.Background.String()))
	}
	if s.Attributes.Has(core.AttrBold) {
		st = st.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		st = st.Faint(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		st = st.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		st = st.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		st = st.Reverse(true)
	}
	return st
}
