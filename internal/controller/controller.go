package controller

import (
	"sync"

	"github.com/dshills/guides/internal/config"
	"github.com/dshills/guides/internal/debounce"
	"github.com/dshills/guides/internal/guides"
	"github.com/dshills/guides/internal/renderer/decoration"
)

// Editor is a view onto a document with its selections.
type Editor interface {
	// ID identifies the editor across events.
	ID() string

	Document() guides.Document

	// Selections returns the current selections; the first is primary.
	Selections() []guides.Selection

	// TabSize returns the editor's tab width, or 0 when it has none.
	TabSize() int
}

// Sink receives the computed guides.
type Sink interface {
	// VisibleEditors returns every editor currently on screen.
	VisibleEditors() []Editor

	// Apply replaces all guide decorations of an editor.
	Apply(ed Editor, res guides.Result, set decoration.Set)

	// Clear removes all guide decorations of an editor.
	Clear(ed Editor)
}

// Settings supplies the typed configuration.
// *config.Config implements it.
type Settings interface {
	Reload() error
	Guides() config.GuidesConfig
}

// Logger is the logging surface the controller needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Controller turns editor events into guide scans.
//
// Selection changes are paced by a coalescing timer: the first change
// arms it and later ones are absorbed until it fires. Configuration
// changes bypass the timer and redraw every visible editor at once.
type Controller struct {
	mu sync.Mutex

	settings Settings
	sink     Sink
	cache    *decoration.Cache
	logger   Logger

	cfg         config.GuidesConfig
	decorations decoration.Set
	fallbackTab int

	timer   *debounce.Coalescer
	pending Editor

	memo selectionMemo
}

// selectionMemo remembers the last single cursor seen.
type selectionMemo struct {
	editor string
	active guides.Position
	valid  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCache shares a decoration cache with the controller.
func WithCache(cache *decoration.Cache) Option {
	return func(c *Controller) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// New creates a controller and loads the current settings. It does not
// render anything until an event arrives or Refresh is called.
func New(settings Settings, sink Sink, opts ...Option) *Controller {
	c := &Controller{
		settings: settings,
		sink:     sink,
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = decoration.NewCache(decoration.DarkTheme())
	}
	c.timer = debounce.NewCoalescer(0, c.fire)
	c.load()
	return c
}

// load reads the settings and rebuilds the decoration handles.
// Callers must not hold c.mu.
func (c *Controller) load() {
	cfg := c.settings.Guides()
	c.cache.SetTheme(decoration.ThemeByName(cfg.Theme))

	set, err := decoration.FromConfig(cfg, c.cache)
	if err != nil {
		c.logger.Warn("decoration fallback: %v", err)
	}

	c.mu.Lock()
	c.cfg = cfg
	c.decorations = set
	c.fallbackTab = cfg.TabSize
	c.memo = selectionMemo{}
	c.mu.Unlock()

	c.timer.SetDelay(cfg.UpdateDelay)
}

// Config returns the settings in effect.
func (c *Controller) Config() config.GuidesConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Decorations returns the handles in effect.
func (c *Controller) Decorations() decoration.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decorations
}

// FallbackTabSize returns the tab width used for editors reporting none.
func (c *Controller) FallbackTabSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fallbackTab
}

// SelectionChanged schedules a scan of ed unless the move cannot change
// the guides.
func (c *Controller) SelectionChanged(ed Editor, selections []guides.Selection) {
	if ed == nil {
		return
	}
	c.mu.Lock()
	skip := c.memoize(ed, selections)
	c.mu.Unlock()

	if skip {
		c.logger.Debug("selection unchanged for %s", ed.ID())
		return
	}
	c.schedule(ed)
}

// memoize records a single selection and reports whether the scan for it
// can be skipped. Caller must hold c.mu.
//
// A scan is skipped when the cursor stays on its line past the first
// non-whitespace character and not at the end of the line, or when it
// moves one line between lines that share their indentation and the scan
// is unbounded.
func (c *Controller) memoize(ed Editor, selections []guides.Selection) bool {
	if len(selections) != 1 {
		return false
	}

	cur := selections[0].Active
	last := c.memo
	c.memo = selectionMemo{editor: ed.ID(), active: cur, valid: true}
	if !last.valid || last.editor != ed.ID() {
		return false
	}

	doc := ed.Document()
	if cur.Line < 0 || cur.Line >= doc.LineCount() {
		return false
	}
	first, length := firstNonWhitespace(doc, cur.Line)

	if cur.Line == last.active.Line {
		return cur.Col != length && first < cur.Col-1
	}

	if c.cfg.LineLimit < 0 && abs(cur.Line-last.active.Line) == 1 &&
		last.active.Line < doc.LineCount() {
		prev, _ := firstNonWhitespace(doc, last.active.Line)
		return first == prev
	}
	return false
}

// ActiveEditorChanged schedules a scan of the newly focused editor.
func (c *Controller) ActiveEditorChanged(ed Editor) {
	if ed == nil {
		return
	}
	c.schedule(ed)
}

// DocumentChanged schedules a scan of ed after its text was edited. The
// memo is dropped since an edit can move guides the cursor never touched.
func (c *Controller) DocumentChanged(ed Editor) {
	if ed == nil {
		return
	}
	c.mu.Lock()
	c.memo = selectionMemo{}
	c.mu.Unlock()
	c.schedule(ed)
}

// EditorOptionsChanged records the editor's tab size as the fallback and
// schedules a scan. A size of zero resets the fallback to the default.
func (c *Controller) EditorOptionsChanged(ed Editor, tabSize int) {
	if tabSize <= 0 {
		tabSize = guides.DefaultTabSize
	}
	c.mu.Lock()
	c.fallbackTab = tabSize
	c.mu.Unlock()

	if ed != nil {
		c.schedule(ed)
	}
}

// ConfigurationChanged reloads the settings, then clears and redraws every
// visible editor.
func (c *Controller) ConfigurationChanged() {
	if err := c.settings.Reload(); err != nil {
		c.logger.Warn("reload: %v", err)
	}
	c.reset()
}

// SettingsChanged is ConfigurationChanged for settings that were already
// reloaded, such as by a file watcher.
func (c *Controller) SettingsChanged() {
	c.reset()
}

func (c *Controller) reset() {
	for _, ed := range c.sink.VisibleEditors() {
		c.sink.Clear(ed)
	}
	c.timer.Reset()
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()

	c.load()
	c.Refresh()
}

// Refresh scans every visible editor now.
func (c *Controller) Refresh() {
	for _, ed := range c.sink.VisibleEditors() {
		c.Update(ed)
	}
}

// Update scans ed now and hands the result to the sink. Nothing happens
// while guides are disabled.
func (c *Controller) Update(ed Editor) {
	if ed == nil {
		return
	}

	c.mu.Lock()
	cfg := c.cfg
	set := c.decorations
	fallback := c.fallbackTab
	c.mu.Unlock()

	if !cfg.Enabled {
		return
	}

	opts := cfg.Options()
	opts.TabSize = ed.TabSize()
	if opts.TabSize <= 0 {
		opts.TabSize = fallback
	}

	res := guides.NewScanner(opts).Scan(ed.Document(), ed.Selections())
	c.logger.Debug("scanned %s lines %d-%d active level %d (%d-%d)",
		ed.ID(), res.FirstLine, res.LastLine, res.ActiveLevel, res.TopActive, res.BottomActive)
	c.sink.Apply(ed, res, set)
}

// Flush runs a pending scan immediately.
func (c *Controller) Flush() {
	c.timer.Flush()
}

// Pending reports whether a scan is scheduled.
func (c *Controller) Pending() bool {
	return c.timer.IsPending()
}

// Close cancels any pending scan.
func (c *Controller) Close() {
	c.timer.Reset()
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// schedule arms the timer for ed. While a scan is pending the editor that
// armed it wins.
func (c *Controller) schedule(ed Editor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer.Schedule() {
		c.pending = ed
	}
}

func (c *Controller) fire() {
	c.mu.Lock()
	ed := c.pending
	c.pending = nil
	c.mu.Unlock()
	c.Update(ed)
}

// firstNonWhitespace returns the first non-whitespace column of a line
// and its length in runes. Blank lines report their length as the column.
func firstNonWhitespace(doc guides.Document, line int) (first, length int) {
	text := doc.LineText(line)
	length = len([]rune(text))
	if p, ok := doc.(guides.LineInfoProvider); ok {
		if info := p.LineInfo(line); info.Known {
			return info.FirstNonWhitespace, length
		}
	}
	first = guides.FirstNonWhitespace(text)
	if first < 0 {
		first = length
	}
	return first, length
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
