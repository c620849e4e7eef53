// Package app wires the guides viewer together: configuration, the
// document editor, the guides controller and the terminal renderer. It
// also builds the one-shot report used by print mode.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/guides/internal/config"
	"github.com/dshills/guides/internal/config/notify"
	"github.com/dshills/guides/internal/controller"
	"github.com/dshills/guides/internal/guides"
	"github.com/dshills/guides/internal/renderer"
	"github.com/dshills/guides/internal/renderer/backend"
	"github.com/dshills/guides/internal/renderer/decoration"
	"github.com/dshills/guides/internal/renderer/gutter"
)

// Application is the central coordinator of the viewer.
// It manages component lifecycles, wiring, and the main event loop.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config  *config.Config
	logger  *Logger
	metrics *Metrics

	// Guides
	editor     *Editor
	cache      *decoration.Cache
	controller *controller.Controller
	configSub  *notify.Subscription

	// Last scan handed over by the controller
	result      guides.Result
	decorations decoration.Set
	scanned     bool

	// Display
	renderer *renderer.Renderer
	backend  backend.Backend
	theme    string
	tabSize  int
	mode     Mode

	// State
	redraw    chan struct{}
	running   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath replaces the user configuration file.
	ConfigPath string

	// File is the file to open. Empty opens a scratch buffer.
	File string

	// Cursor is the initial zero-based cursor position.
	Cursor guides.Position

	// TabSize overrides the configured tab width when positive.
	TabSize int

	// LogLevel sets the logging verbosity. Empty uses logging.level.
	LogLevel string

	// LogOutput receives log lines. Nil means stderr.
	LogOutput io.Writer

	// Watch reloads configuration files when they change.
	Watch bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
		redraw:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Logger, so config problems can be reported
	out := app.opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(app.opts.LogLevel),
		Output: out,
		Prefix: "guides",
	})

	// 2. Config System
	configOpts := []config.Option{config.WithWatcher(app.opts.Watch)}
	if app.opts.ConfigPath != "" {
		configOpts = append(configOpts, config.WithUserConfig(app.opts.ConfigPath))
	}
	if project := config.FindProjectConfig(app.projectDir()); project != "" {
		configOpts = append(configOpts, config.WithProjectConfig(project))
	}
	app.config = config.New(configOpts...)
	if err := app.config.Load(context.Background()); err != nil {
		// Config load errors are non-fatal: broken layers are skipped
		app.logger.Warn("config: %v", err)
	}
	if app.opts.LogLevel == "" {
		app.logger.SetLevel(ParseLogLevel(app.config.LogLevel()))
	}

	// 3. Editor
	if app.opts.File == "" {
		app.editor = NewEditor("", nil, app.opts.TabSize)
	} else {
		ed, err := OpenEditor(app.opts.File, app.opts.TabSize)
		if err != nil {
			return err
		}
		app.editor = ed
	}
	app.editor.SetCursor(app.opts.Cursor)

	// 4. Guides controller
	app.cache = decoration.NewCache(decoration.DarkTheme())
	app.controller = controller.New(app.config, app,
		controller.WithLogger(app.logger.WithComponent("controller")),
		controller.WithCache(app.cache),
	)

	// Files reloaded by the watcher are already merged; Reload notifies
	// with its own source and is handled by whoever called it.
	app.configSub = app.config.Subscribe(func(change notify.Change) {
		if change.Type == notify.ChangeReload && change.Source != "reload" {
			app.logger.Info("config reloaded from %s", change.Source)
			app.controller.SettingsChanged()
		}
	})

	app.logger.WithField("file", app.editor.ID()).Debug("bootstrap complete")
	return nil
}

func (app *Application) projectDir() string {
	if app.opts.File != "" {
		if abs, err := filepath.Abs(app.opts.File); err == nil {
			return filepath.Dir(abs)
		}
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// VisibleEditors implements controller.Sink.
func (app *Application) VisibleEditors() []controller.Editor {
	return []controller.Editor{app.editor}
}

// Apply implements controller.Sink.
func (app *Application) Apply(_ controller.Editor, res guides.Result, set decoration.Set) {
	app.mu.Lock()
	app.result = res
	app.decorations = set
	app.scanned = true
	app.mu.Unlock()

	app.metrics.RecordScan(res.LastLine - res.FirstLine + 1)
	app.requestRedraw()
}

// Clear implements controller.Sink.
func (app *Application) Clear(controller.Editor) {
	app.mu.Lock()
	app.result = guides.Result{ActiveLevel: -1}
	app.decorations = decoration.Set{}
	app.scanned = false
	app.mu.Unlock()

	app.requestRedraw()
}

// requestRedraw wakes the event loop. A pending request absorbs new ones.
func (app *Application) requestRedraw() {
	select {
	case app.redraw <- struct{}{}:
	default:
	}
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run starts the application main loop.
// Blocks until the user quits, ctx ends or Shutdown is called.
func (app *Application) Run(ctx context.Context) error {
	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()
	if b == nil {
		return ErrNoBackend
	}

	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	app.mu.Lock()
	app.renderer = renderer.New(b, app.rendererOptions())
	app.mu.Unlock()

	events := make(chan backend.Event, 64)
	stop := make(chan struct{})
	go app.pollEvents(b, events, stop)
	defer func() {
		close(stop)
		// Wake the poller blocked in PollEvent.
		b.PostEvent(backend.Event{Type: backend.EventInterrupt})
	}()

	// First scan without waiting for the timer
	app.controller.Update(app.editor)

	return app.eventLoop(ctx, events)
}

func (app *Application) rendererOptions() renderer.Options {
	opts := renderer.DefaultOptions()
	opts.StatusLine = true
	opts.Gutter = gutter.DefaultConfig()
	opts.TabSize = app.effectiveTabSize()
	opts.Theme = decoration.ThemeByName(app.controller.Config().Theme)
	app.tabSize = opts.TabSize
	app.theme = app.controller.Config().Theme
	return opts
}

func (app *Application) effectiveTabSize() int {
	if tab := app.editor.TabSize(); tab > 0 {
		return tab
	}
	return app.controller.FallbackTabSize()
}

// pollEvents forwards backend events until stop is closed.
func (app *Application) pollEvents(b backend.Backend, events chan<- backend.Event, stop <-chan struct{}) {
	for {
		ev := b.PollEvent()
		select {
		case <-stop:
			return
		default:
		}
		if ev.Type == backend.EventNone {
			continue
		}
		select {
		case events <- ev:
		case <-stop:
			return
		}
	}
}

// eventLoop is the main application loop.
func (app *Application) eventLoop(ctx context.Context, events <-chan backend.Event) error {
	app.draw()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-app.done:
			return nil

		case ev := <-events:
			if err := app.dispatch(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
			app.draw()

		case <-app.redraw:
			app.draw()
		}
	}
}

// dispatch handles one event, turning a panic into an error.
func (app *Application) dispatch(ev backend.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()

	timer := StartTimer()
	defer func() { app.metrics.RecordInput(timer.Elapsed()) }()
	return app.handleEvent(ev)
}

// draw paints the current state.
func (app *Application) draw() {
	app.mu.Lock()
	r := app.renderer
	if r == nil {
		app.mu.Unlock()
		return
	}
	if theme := app.controller.Config().Theme; theme != app.theme {
		app.theme = theme
		r.SetTheme(decoration.ThemeByName(theme))
	}
	if tab := app.effectiveTabSize(); tab != app.tabSize {
		app.tabSize = tab
		r.SetTabSize(tab)
	}
	frame := renderer.Frame{
		Doc:         app.editor.Buffer(),
		Result:      app.result,
		Decorations: app.decorations,
		Selections:  app.editor.Selections(),
		Status:      app.statusLocked(),
	}
	app.mu.Unlock()

	timer := StartTimer()
	r.Render(frame)
	app.metrics.RecordFrame(timer.Elapsed())
}

// Status returns the status line text.
func (app *Application) Status() string {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.statusLocked()
}

func (app *Application) statusLocked() string {
	cur := app.editor.Cursor()
	status := app.mode.Label() + app.editor.Name()
	if app.editor.IsModified() {
		status += " [+]"
	}
	status += "  " + gutter.FormatPosition(cur.Line, cur.Col)

	switch {
	case !app.scanned:
		status += "  guides off"
	case app.result.ActiveLevel < 0:
		status += "  no active guide"
	default:
		status += "  level " + strconv.Itoa(app.result.ActiveLevel)
		if open, closing, ok := app.result.Gutter(); ok {
			status += " (" + strconv.Itoa(open+1) + "-" + strconv.Itoa(closing+1) + ")"
		}
	}
	return status
}

// Result returns the last applied scan and whether there is one.
func (app *Application) Result() (guides.Result, bool) {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.result, app.scanned
}

// Shutdown initiates graceful shutdown. Safe to call more than once.
func (app *Application) Shutdown() {
	app.closeOnce.Do(func() {
		close(app.done)
		app.shutdown()
	})
}

// shutdown performs cleanup in reverse initialization order.
func (app *Application) shutdown() {
	if app.configSub != nil {
		app.configSub.Unsubscribe()
	}
	if app.controller != nil {
		app.controller.Close()
	}
	if app.config != nil {
		app.config.Close()
	}
	if app.logger != nil {
		snap := app.metrics.Snapshot()
		app.logger.WithFields(map[string]any{
			"frames": snap.FrameCount,
			"scans":  snap.ScanCount,
		}).Debug("shutdown after %s", snap.Uptime.Round(time.Millisecond))
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Controller returns the guides controller.
func (app *Application) Controller() *controller.Controller {
	return app.controller
}

// Editor returns the editor.
func (app *Application) Editor() *Editor {
	return app.editor
}

// Renderer returns the renderer, nil before Run.
func (app *Application) Renderer() *renderer.Renderer {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.renderer
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Metrics returns the performance counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
