package renderer

import (
	"sync"

	"github.com/dshills/guides/internal/guides"
	"github.com/dshills/guides/internal/renderer/backend"
	"github.com/dshills/guides/internal/renderer/core"
	"github.com/dshills/guides/internal/renderer/decoration"
	"github.com/dshills/guides/internal/renderer/gutter"
	"github.com/dshills/guides/internal/renderer/layout"
	"github.com/dshills/guides/internal/renderer/style"
	"github.com/dshills/guides/internal/renderer/viewport"
)

// Options configures the renderer.
type Options struct {
	// ShowGutter enables the line number gutter.
	ShowGutter bool

	// Gutter configures line numbers. Scope markers are switched on
	// automatically when the decoration set carries gutter handles.
	Gutter gutter.Config

	// TabSize is the display width of a tab.
	TabSize int

	// Theme supplies the text colors.
	Theme decoration.Theme

	// Margins keep the cursor away from the viewport edges.
	Margins viewport.MarginConfig

	// StatusLine reserves the bottom row for a status line.
	StatusLine bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		ShowGutter: true,
		Gutter:     gutter.DefaultConfig(),
		TabSize:    guides.DefaultTabSize,
		Theme:      decoration.DarkTheme(),
		Margins:    viewport.DefaultMargins(),
	}
}

// Frame is everything one render paints. Each frame fully replaces the
// previous one.
type Frame struct {
	Doc         guides.Document
	Result      guides.Result
	Decorations decoration.Set
	Selections  []guides.Selection

	// Status is shown on the status row when enabled.
	Status string
}

// Renderer is the main rendering facade.
// It paints document text, guides, background bands and gutter markers.
type Renderer struct {
	mu sync.Mutex

	opts Options

	backend backend.Backend
	width   int
	height  int

	gutter   *gutter.Gutter
	viewport *viewport.Viewport
	tabs     *layout.TabExpander
	resolver *style.Resolver

	frameCount uint64
}

// New creates a new renderer with the given backend and options.
func New(b backend.Backend, opts Options) *Renderer {
	width, height := b.Size()
	r := &Renderer{
		opts:     opts,
		backend:  b,
		width:    width,
		height:   height,
		gutter:   gutter.New(opts.Gutter),
		viewport: viewport.NewViewport(width, height),
		tabs:     layout.NewTabExpander(opts.TabSize),
		resolver: style.NewResolver(),
	}
	r.viewport.SetMargins(opts.Margins)
	r.applyTheme()
	return r
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

// SetTabSize changes the tab display width.
func (r *Renderer) SetTabSize(size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs.SetTabWidth(size)
}

// SetTheme switches text colors.
func (r *Renderer) SetTheme(theme decoration.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.Theme = theme
	r.applyTheme()
}

func (r *Renderer) applyTheme() {
	r.resolver.SetBaseStyle(core.DefaultStyle().
		WithForeground(r.opts.Theme.Foreground).
		WithBackground(r.opts.Theme.Background))
}

// Viewport returns the renderer's viewport.
func (r *Renderer) Viewport() *viewport.Viewport {
	return r.viewport
}

// FrameCount returns the number of frames rendered.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// GutterWidth returns the current gutter width.
func (r *Renderer) GutterWidth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gutterWidth()
}

func (r *Renderer) gutterWidth() int {
	if !r.opts.ShowGutter {
		return 0
	}
	return r.gutter.Width()
}

// Render paints f, scrolling to keep the primary cursor visible.
func (r *Renderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.Doc == nil {
		r.backend.Clear()
		r.backend.HideCursor()
		r.backend.Show()
		return
	}

	total := f.Doc.LineCount()
	cursor, hasCursor := primaryCursor(f.Selections, total)

	cfg := r.opts.Gutter
	cfg.ShowScopeMarkers = f.Decorations.GutterOpen != nil
	r.gutter.SetConfig(cfg)
	r.gutter.SetLineCount(total)
	r.gutter.SetCurrentLine(cursor.Line)
	if open, closing, ok := f.Result.Gutter(); ok && cfg.ShowScopeMarkers {
		r.gutter.SetScope(open, closing, true)
	} else {
		r.gutter.ClearScope()
	}

	rows := r.height
	if r.opts.StatusLine && rows > 1 {
		rows--
	}
	gw := r.gutterWidth()
	r.viewport.Resize(r.width-gw, rows)
	r.viewport.SetLineCount(total)

	cursorCol := 0
	if hasCursor {
		cursorCol = r.displayColumn(f.Doc.LineText(cursor.Line), cursor.Col)
		r.viewport.ScrollToReveal(cursor.Line, cursorCol)
	}

	paints := index(f.Result, f.Decorations)
	top, left := r.viewport.TopLine(), r.viewport.LeftColumn()

	for row := range rows {
		line := top + row
		exists := line < total
		if gw > 0 {
			r.renderGutter(line, row, exists, f.Decorations)
		}
		if !exists {
			r.clearContent(row, gw)
			continue
		}
		cells := r.lineCells(f.Doc.LineText(line), line, paints[line], f.Selections)
		for x := 0; x < r.width-gw; x++ {
			cell := core.Cell{Rune: ' ', Width: 1, Style: r.resolver.BaseStyle()}
			if c := left + x; c < len(cells) {
				cell = cells[c]
			}
			r.backend.SetCell(gw+x, row, cell)
		}
	}

	if r.opts.StatusLine && r.height > 1 {
		r.renderStatus(f.Status)
	}

	if row := r.viewport.LineToScreenRow(cursor.Line); hasCursor && row >= 0 && cursorCol >= left && cursorCol-left < r.width-gw {
		r.backend.ShowCursor(gw+cursorCol-left, row)
	} else {
		r.backend.HideCursor()
	}

	r.backend.Show()
	r.frameCount++
}

// Clear blanks the screen, dropping every decoration.
func (r *Renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Clear()
	r.backend.Show()
}

// displayColumn maps a rune index on text to its display column.
func (r *Renderer) displayColumn(text string, col int) int {
	cols := r.tabs.Columns(text)
	return cols[min(max(col, 0), len(cols)-1)]
}

// linePaint holds the decorations landing on one document line.
type linePaint struct {
	guides []guidePaint
	bands  []bandPaint
}

type guidePaint struct {
	col int
	dec *decoration.Decoration
}

type bandPaint struct {
	from, to int
	dec      *decoration.Decoration
}

// index groups a result's marks by line, dropping categories without a
// decoration handle.
func index(res guides.Result, set decoration.Set) map[int]*linePaint {
	paints := make(map[int]*linePaint)
	at := func(line int) *linePaint {
		p := paints[line]
		if p == nil {
			p = &linePaint{}
			paints[line] = p
		}
		return p
	}

	for _, group := range []struct {
		marks []guides.Mark
		dec   *decoration.Decoration
	}{
		{res.Normal, set.Normal},
		{res.Stack, set.Stack},
		{res.Active, set.Active},
	} {
		if group.dec == nil {
			continue
		}
		for _, m := range group.marks {
			p := at(m.Line)
			p.guides = append(p.guides, guidePaint{col: m.Col, dec: group.dec})
		}
	}

	for level, spans := range res.Backgrounds {
		dec := set.Background(level)
		if dec == nil {
			continue
		}
		for _, s := range spans {
			p := at(s.Line)
			p.bands = append(p.bands, bandPaint{from: s.From, to: s.To, dec: dec})
		}
	}
	return paints
}

// lineCells lays out one line with tabs expanded and decorations applied.
func (r *Renderer) lineCells(text string, line int, paint *linePaint, selections []guides.Selection) []core.Cell {
	cols := r.tabs.Columns(text)
	runes := []rune(text)
	width := cols[len(cols)-1]

	// Guides on whitespace-only lines may sit one past the last rune.
	if paint != nil {
		for _, g := range paint.guides {
			width = max(width, column(cols, g.col)+1)
		}
	}

	base := r.resolver.BaseStyle()
	cells := make([]core.Cell, width)
	for i := range cells {
		cells[i] = core.Cell{Rune: ' ', Width: 1, Style: base}
	}
	for i, ch := range runes {
		c := cols[i]
		switch {
		case ch == '\t':
			// already blank
		case core.RuneWidth(ch) == 2:
			cells[c] = core.Cell{Rune: ch, Width: 2}
			if c+1 < len(cells) {
				cells[c+1] = core.ContinuationCell(base)
			}
		default:
			cells[c] = core.Cell{Rune: ch, Width: 1}
		}
	}

	var spans []style.Span
	if paint != nil {
		for _, b := range paint.bands {
			spans = append(spans, style.Span{
				StartCol: column(cols, b.from),
				EndCol:   column(cols, b.to),
				Style:    b.dec.Style,
				Layer:    style.LayerBackground,
				Merge:    style.MergeBackground,
			})
		}
		for _, g := range paint.guides {
			c := column(cols, g.col)
			if cells[c].Rune == ' ' && g.dec.Glyph != 0 {
				cells[c].Rune = g.dec.Glyph
			}
			spans = append(spans, style.Span{
				StartCol: c,
				EndCol:   c + 1,
				Style:    g.dec.Style,
				Layer:    style.LayerGuide,
				Merge:    style.MergeOverlay,
			})
		}
	}
	for _, sel := range selections {
		from, to, ok := selectedRunes(sel, line, len(runes))
		if !ok {
			continue
		}
		spans = append(spans, style.Span{
			StartCol: column(cols, from),
			EndCol:   column(cols, to),
			Style:    core.DefaultStyle().WithAttributes(core.AttrReverse),
			Layer:    style.LayerSelection,
			Merge:    style.MergeAttributes,
		})
	}

	r.resolver.ResolveLine(cells, spans)
	return cells
}

// column maps a rune index, possibly past the end, to a display column.
func column(cols []int, i int) int {
	if i < len(cols) {
		return cols[max(i, 0)]
	}
	return cols[len(cols)-1] + i - (len(cols) - 1)
}

// selectedRunes returns the half-open rune range sel covers on line.
func selectedRunes(sel guides.Selection, line, length int) (from, to int, ok bool) {
	if sel.IsEmpty() {
		return 0, 0, false
	}
	start, end := sel.Start(), sel.End()
	if line < start.Line || line > end.Line {
		return 0, 0, false
	}
	from, to = 0, length
	if line == start.Line {
		from = start.Col
	}
	if line == end.Line {
		to = end.Col
	}
	from, to = min(from, length), min(to, length)
	return from, to, from < to
}

func (r *Renderer) renderGutter(line, row int, exists bool, set decoration.Set) {
	theme := r.opts.Theme
	base := r.resolver.BaseStyle()
	for x, c := range r.gutter.RenderLine(line, exists) {
		s := base
		switch c.Style {
		case gutter.StyleDim:
			s = s.WithForeground(theme.Foreground.Blend(theme.Background, 0.5))
		case gutter.StyleCurrentLine:
			s = s.WithAttributes(core.AttrBold)
		case gutter.StyleScopeOpen:
			s = s.Merge(set.GutterOpen.Style)
		case gutter.StyleScopeClose:
			s = s.Merge(set.GutterClose.Style)
		}
		r.backend.SetCell(x, row, core.NewStyledCell(c.Rune, s))
	}
}

func (r *Renderer) clearContent(row, gw int) {
	r.backend.Fill(core.RectFromSize(row, gw, 1, r.width-gw), core.Cell{Rune: ' ', Width: 1, Style: r.resolver.BaseStyle()})
}

func (r *Renderer) renderStatus(status string) {
	row := r.height - 1
	s := r.resolver.BaseStyle().WithAttributes(core.AttrReverse)
	r.backend.Fill(core.RectFromSize(row, 0, 1, r.width), core.Cell{Rune: ' ', Width: 1, Style: s})
	x := 0
	for _, ch := range status {
		if x >= r.width {
			break
		}
		r.backend.SetCell(x, row, core.NewStyledCell(ch, s))
		x += max(core.RuneWidth(ch), 1)
	}
}

// primaryCursor returns the clamped cursor of the first selection.
func primaryCursor(selections []guides.Selection, total int) (guides.Position, bool) {
	if len(selections) == 0 || total == 0 {
		return guides.Position{}, false
	}
	p := selections[0].Active
	p.Line = min(max(p.Line, 0), total-1)
	return p, true
}
