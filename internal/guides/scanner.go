package guides

// Mark is a guide column on a given line.
type Mark struct {
	Line int
	Col  int
}

// Span is a background band on a given line, columns [From, To).
type Span struct {
	Line int
	From int
	To   int
}

// Result is the merged render set of one scan. It replaces any previous
// result wholesale.
type Result struct {
	Stack  []Mark
	Active []Mark
	Normal []Mark

	// Backgrounds holds one bucket per palette level.
	Backgrounds [][]Span

	// ActiveLevel is the level resolved on the cursor line, -1 when none.
	ActiveLevel int

	// TopActive and BottomActive bound the continuous active scope.
	TopActive    int
	BottomActive int

	// FirstLine and LastLine bound the scanned window, inclusive.
	FirstLine int
	LastLine  int

	// shown is set when the cursor line's active guide is rendered.
	shown bool
}

// Gutter returns the lines for the scope open and close markers. ok is
// false when the scope covers a single line, or when the cursor line's
// active guide is hidden.
func (r Result) Gutter() (open, close int, ok bool) {
	if !r.shown || r.TopActive == r.BottomActive {
		return 0, 0, false
	}
	return r.TopActive, r.BottomActive, true
}

// Scanner drives extraction, resolution and classification over the
// lines around the cursor.
type Scanner struct {
	opts Options
}

// NewScanner creates a scanner with the given options.
func NewScanner(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Options returns the scanner options.
func (s *Scanner) Options() Options {
	return s.opts
}

// scan carries the inputs and output of a single Scan call.
type scan struct {
	opts       Options
	doc        Document
	selections []Selection
	result     *Result
	stack      bool
}

// Scan computes the render set for doc with the given selections. The
// first selection is the primary one and owns the cursor.
func (s *Scanner) Scan(doc Document, selections []Selection) Result {
	res := Result{
		ActiveLevel:  -1,
		TopActive:    -1,
		BottomActive: -1,
		FirstLine:    -1,
		LastLine:     -1,
	}
	if s.opts.BackgroundLevels > 0 {
		res.Backgrounds = make([][]Span, s.opts.BackgroundLevels)
	}

	total := doc.LineCount()
	if total == 0 {
		return res
	}

	var cursor Position
	if len(selections) > 0 {
		cursor = selections[0].Active
	}
	cursor.Line = clamp(cursor.Line, 0, total-1)

	single := len(selections) == 1 && selections[0].IsEmpty()
	sc := &scan{
		opts:       s.opts,
		doc:        doc,
		selections: selections,
		result:     &res,
		stack:      single && s.opts.StackEnabled,
	}

	// Cursor line.
	text := doc.LineText(cursor.Line)
	guides, _ := Extract(text, s.opts.tabSize(), lineInfo(doc, cursor.Line))
	var active *Guide
	if idx, ok := ResolveActive(AtCursor(cursor.Col, s.opts), text, guides); ok {
		a := guides[idx]
		active = &a
	}

	level := -1
	if active != nil {
		level = active.Level
	}
	state := NewViewportState(cursor.Line, level, single, s.opts.ActiveEnabled)
	res.ActiveLevel = level
	res.shown = active != nil && visible(s.opts, *active)
	sc.merge(cursor.Line, Classify(s.opts, guides, active), state.Up.StillActive(), level)

	limit := s.opts.window(total)

	first := 0
	if limit >= 0 {
		first = max(cursor.Line-limit, 0)
	}
	for line := cursor.Line - 1; line >= first; line-- {
		sc.outward(line, state.ActiveLevel, &state.Up)
	}

	last := total - 1
	if limit >= 0 {
		last = min(cursor.Line+limit, total-1)
	}
	for line := cursor.Line + 1; line <= last; line++ {
		sc.outward(line, state.ActiveLevel, &state.Down)
	}

	res.TopActive = state.TopActive()
	res.BottomActive = state.BottomActive()
	res.FirstLine = first
	res.LastLine = last
	return res
}

// outward classifies a line away from the cursor against the fixed active
// level and advances the sweep.
func (sc *scan) outward(line, level int, sw *Sweep) {
	text := sc.doc.LineText(line)
	guides, ok := Extract(text, sc.opts.tabSize(), lineInfo(sc.doc, line))
	if !ok {
		// Blank lines neither carry nor break the scope.
		return
	}

	var active *Guide
	if level >= 0 {
		if idx, found := ResolveActive(AtLevel(level), text, guides); found {
			a := guides[idx]
			active = &a
		}
	}

	switch {
	case active != nil:
		sw.Reach(line)
	case level >= 0:
		sw.Break()
	}

	sc.merge(line, Classify(sc.opts, guides, active), sw.StillActive(), sw.LastActiveLevel())
	sw.Narrow(max(MaxLevel(guides), 0))
}

// merge adds the ranges of one line to the result, demoting categories
// whose styling is off.
func (sc *scan) merge(line int, r Ranges, stillActive bool, lastActiveLevel int) {
	res := sc.result

	for _, g := range r.Stack {
		if sc.stack && g.Level < lastActiveLevel {
			sc.add(&res.Stack, line, g.Position, sc.opts.HideOnSelection.Stack)
		} else {
			sc.add(&res.Normal, line, g.Position, sc.opts.HideOnSelection.Normal)
		}
	}

	if r.Active != nil && visible(sc.opts, *r.Active) {
		if stillActive {
			sc.add(&res.Active, line, r.Active.Position, sc.opts.HideOnSelection.Active)
		} else {
			sc.add(&res.Normal, line, r.Active.Position, sc.opts.HideOnSelection.Normal)
		}
	}

	for _, g := range r.Normal {
		sc.add(&res.Normal, line, g.Position, sc.opts.HideOnSelection.Normal)
	}

	if n := len(res.Backgrounds); n > 0 {
		for _, b := range r.Backgrounds {
			if sc.opts.HideOnSelection.Background && sc.selected(Position{Line: line, Col: b.To}) {
				continue
			}
			bucket := b.Level % n
			res.Backgrounds[bucket] = append(res.Backgrounds[bucket], Span{Line: line, From: b.From, To: b.To})
		}
	}
}

func (sc *scan) add(dst *[]Mark, line, col int, hide bool) {
	if hide && sc.selected(Position{Line: line, Col: col}) {
		return
	}
	*dst = append(*dst, Mark{Line: line, Col: col})
}

// selected reports whether p lies inside any non-empty selection.
func (sc *scan) selected(p Position) bool {
	for _, s := range sc.selections {
		if !s.IsEmpty() && s.Contains(p) {
			return true
		}
	}
	return false
}

// window returns how many lines to scan in each direction, -1 for all.
func (o Options) window(total int) int {
	switch {
	case o.LineLimit <= 0:
		return -1
	case o.LineLimit < 1:
		return max(int(float64(total)/2*o.LineLimit), 1)
	default:
		return int(o.LineLimit)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
