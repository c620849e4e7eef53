package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dshills/guides/internal/config/notify"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	base := []Option{
		WithUserConfig(""),
		WithEnvPrefix(""),
	}
	c := New(append(base, opts...)...)
	t.Cleanup(c.Close)
	return c
}

func TestDefaults(t *testing.T) {
	c := newTestConfig(t)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if v, _ := c.GetBool("enabled"); !v {
		t.Error("enabled should default to true")
	}
	if v, _ := c.GetFloat("limit.maximum"); v != 500 {
		t.Errorf("limit.maximum = %v, want 500", v)
	}
	if v, _ := c.GetStringSlice("indent.backgrounds"); len(v) != 4 {
		t.Errorf("got %d backgrounds, want 4", len(v))
	}
	if got := c.Which("active.extraIndent"); got != LayerDefaults {
		t.Errorf("Which = %q, want %q", got, LayerDefaults)
	}
}

func TestLayerPrecedence(t *testing.T) {
	dir := t.TempDir()
	user := writeConfig(t, dir, "user.toml", `
tabSize = 2
[limit]
maximum = 100
[active]
extraIndent = true
`)
	project := writeConfig(t, dir, ".guides.yaml", `
limit:
  maximum: 50
`)
	t.Setenv("GUIDES_ACTIVE_EXTRA_INDENT", "false")

	c := newTestConfig(t,
		WithUserConfig(user),
		WithProjectConfig(project),
		WithEnvPrefix(DefaultEnvPrefix),
	)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if v, _ := c.GetInt("tabSize"); v != 2 {
		t.Errorf("tabSize = %d, want 2 from user", v)
	}
	if v, _ := c.GetInt("limit.maximum"); v != 50 {
		t.Errorf("limit.maximum = %d, want 50 from project", v)
	}
	if v, _ := c.GetBool("active.extraIndent"); v {
		t.Error("active.extraIndent should be overridden by the environment")
	}
	if got := c.Which("limit.maximum"); got != LayerProject {
		t.Errorf("Which(limit.maximum) = %q, want %q", got, LayerProject)
	}
	if got := c.Which("active.extraIndent"); got != LayerEnv {
		t.Errorf("Which(active.extraIndent) = %q, want %q", got, LayerEnv)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c := newTestConfig(t, WithUserConfig(filepath.Join(t.TempDir(), "missing.toml")))
	if err := c.Load(context.Background()); err != nil {
		t.Errorf("Load with a missing file = %v, want nil", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "bad.toml", "enabled = = true")

	c := newTestConfig(t, WithUserConfig(path))
	err := c.Load(context.Background())

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load error = %v, want *ParseError", err)
	}
	if _, ok := c.ConfigErrors()[path]; !ok {
		t.Error("parse error should be recorded against the file")
	}
	// Defaults still apply.
	if !c.Guides().Enabled {
		t.Error("defaults should survive a malformed file")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	c := newTestConfig(t, WithProjectConfig("guides.json"))
	if err := c.Load(context.Background()); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestTypedGetters(t *testing.T) {
	c := newTestConfig(t)
	_ = c.Set("sample.count", 3.0)
	_ = c.Set("sample.ratio", 3.5)
	_ = c.Set("sample.name", "x")
	_ = c.Set("sample.list", []any{"a", 1})

	if v, err := c.GetInt("sample.count"); err != nil || v != 3 {
		t.Errorf("GetInt(3.0) = %d, %v", v, err)
	}
	if _, err := c.GetInt("sample.ratio"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt(3.5) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := c.GetBool("sample.name"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetBool(string) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := c.GetStringSlice("sample.list"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetStringSlice(mixed) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := c.GetString("sample.missing"); err != ErrSettingNotFound {
		t.Errorf("GetString(missing) error = %v, want ErrSettingNotFound", err)
	}
	if err := c.Set("", 1); err != ErrInvalidPath {
		t.Errorf("Set(\"\") = %v, want ErrInvalidPath", err)
	}
}

func TestSetNotifies(t *testing.T) {
	c := newTestConfig(t)

	var got []notify.Change
	c.SubscribePath("active", func(ch notify.Change) { got = append(got, ch) })

	if err := c.Set("active.gutter", true); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("stack.enabled", false); err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d changes, want 1", len(got))
	}
	if got[0].OldValue != false || got[0].NewValue != true || got[0].Source != LayerArgs {
		t.Errorf("change = %+v", got[0])
	}
	if c.Which("active.gutter") != LayerArgs {
		t.Error("Set should write the arguments layer")
	}
	if v, _ := c.GetBool("stack.enabled"); v {
		t.Error("second Set should keep the first override and add its own")
	}
}

func TestReloadNotifiesDiff(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "guides.toml", "[limit]\nmaximum = 100\n")

	c := newTestConfig(t, WithUserConfig(path))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var changes []notify.Change
	c.Subscribe(func(ch notify.Change) { changes = append(changes, ch) })

	writeConfig(t, dir, "guides.toml", "[limit]\nmaximum = 20\n")
	if err := c.Reload(); err != nil {
		t.Fatal(err)
	}

	if len(changes) != 2 {
		t.Fatalf("got %d changes, want set + reload", len(changes))
	}
	if changes[0].Path != "limit.maximum" || changes[0].NewValue != int64(20) {
		t.Errorf("set change = %+v", changes[0])
	}
	if changes[1].Type != notify.ChangeReload {
		t.Errorf("last change type = %v, want reload", changes[1].Type)
	}

	// Removing the file drops the layer.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := c.Reload(); err != nil {
		t.Fatal(err)
	}
	if v, _ := c.GetInt("limit.maximum"); v != 500 {
		t.Errorf("limit.maximum = %d after removal, want default 500", v)
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "guides.toml", "enabled = true\n")

	c := newTestConfig(t, WithUserConfig(path), WithWatcher(true))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	reloaded := false
	c.Subscribe(func(ch notify.Change) {
		if ch.Type == notify.ChangeReload {
			mu.Lock()
			reloaded = true
			mu.Unlock()
		}
	})

	writeConfig(t, dir, "guides.toml", "enabled = false\n")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		done := reloaded
		mu.Unlock()
		if done {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if !reloaded {
		t.Fatal("watcher did not trigger a reload")
	}
	if c.Guides().Enabled {
		t.Error("enabled should be false after the file changed")
	}
}

func TestFindProjectConfig(t *testing.T) {
	dir := t.TempDir()
	if got := FindProjectConfig(dir); got != "" {
		t.Errorf("FindProjectConfig(empty) = %q", got)
	}
	path := writeConfig(t, dir, ".guides.yml", "enabled: true\n")
	if got := FindProjectConfig(dir); got != path {
		t.Errorf("FindProjectConfig = %q, want %q", got, path)
	}
}

func TestDefaultUserConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultUserConfigPath(); got != filepath.Join("/tmp/xdg", "guides", "config.toml") {
		t.Errorf("DefaultUserConfigPath = %q", got)
	}
}
