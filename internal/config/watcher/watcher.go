// Package watcher reports changes to configuration files for live reload.
//
// Files are watched through their parent directories so that editors that
// save by rename, and files created after startup, are both seen. Bursts
// of events are debounced into one callback per file.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/guides/internal/debounce"
)

// ErrWatcherClosed is returned when watching after Close.
var ErrWatcherClosed = errors.New("watcher closed")

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified or created.
	OpWrite Operation = iota

	// OpRemove indicates the file was deleted or renamed away.
	OpRemove
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event represents a file change.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string
	Op   Operation
	Time time.Time
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors configuration files.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int
	handlers []Handler

	pending   map[string]Operation
	debouncer *debounce.Debouncer

	errHandler func(error)

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before handlers run.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debouncer = debounce.NewDebouncer(d, w.flush)
		}
	}
}

// WithErrorHandler receives errors reported by the underlying watcher.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.errHandler = fn
	}
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		pending: make(map[string]Operation),
		done:    make(chan struct{}),
	}
	w.debouncer = debounce.NewDebouncer(100*time.Millisecond, w.flush)
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch adds a file. The file need not exist yet but its directory must.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Unwatch removes a file.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// WatchedFiles returns the watched file paths.
func (w *Watcher) WatchedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	return files
}

// Close stops the watcher and drops pending events.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	w.debouncer.Cancel()
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.errHandler != nil {
				w.errHandler(err)
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)

	var op Operation
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		op = OpRemove
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		op = OpWrite
	default:
		return
	}

	w.mu.Lock()
	if !w.files[path] {
		w.mu.Unlock()
		return
	}
	w.pending[path] = op
	w.mu.Unlock()

	w.debouncer.Call()
}

// flush delivers the last operation seen for each pending file.
func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	pending := w.pending
	w.pending = make(map[string]Operation)
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	now := time.Now()
	for path, op := range pending {
		ev := Event{Path: path, Op: op, Time: now}
		for _, h := range handlers {
			h(ev)
		}
	}
}
