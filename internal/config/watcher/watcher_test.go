package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func waitFor(t *testing.T, r *recorder, n int) []Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if evs := r.snapshot(); len(evs) >= n {
			return evs
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %v", n, r.snapshot())
	return nil
}

func TestWatcherWriteDebounced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guides.toml")

	w, err := New(WithDebounce(30 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	r := &recorder{}
	w.OnChange(r.handle)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("enabled = true\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	waitFor(t, r, 1)
	time.Sleep(100 * time.Millisecond)
	evs := r.snapshot()

	if len(evs) != 1 {
		t.Fatalf("got %d events, want 1 debounced event", len(evs))
	}
	if evs[0].Op != OpWrite {
		t.Errorf("Op = %v, want write", evs[0].Op)
	}
	abs, _ := filepath.Abs(path)
	if evs[0].Path != abs {
		t.Errorf("Path = %q, want %q", evs[0].Path, abs)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	r := &recorder{}
	w.OnChange(r.handle)
	if err := w.Watch(filepath.Join(dir, "guides.toml")); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if evs := r.snapshot(); len(evs) != 0 {
		t.Errorf("got events for an unwatched file: %v", evs)
	}
}

func TestWatcherRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guides.yaml")
	if err := os.WriteFile(path, []byte("enabled: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	r := &recorder{}
	w.OnChange(r.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	evs := waitFor(t, r, 1)
	if evs[0].Op != OpRemove {
		t.Errorf("Op = %v, want remove", evs[0].Op)
	}
}

func TestWatcherUnwatchAndClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guides.toml")

	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	if got := w.WatchedFiles(); len(got) != 1 {
		t.Errorf("WatchedFiles = %v", got)
	}
	if err := w.Unwatch(path); err != nil {
		t.Errorf("Unwatch: %v", err)
	}
	if got := w.WatchedFiles(); len(got) != 0 {
		t.Errorf("WatchedFiles after Unwatch = %v", got)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := w.Watch(path); err != ErrWatcherClosed {
		t.Errorf("Watch after Close = %v, want ErrWatcherClosed", err)
	}
}

func TestOperationString(t *testing.T) {
	if OpWrite.String() != "write" || OpRemove.String() != "remove" || Operation(7).String() != "unknown" {
		t.Error("unexpected operation names")
	}
}
