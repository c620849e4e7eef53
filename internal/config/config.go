package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/guides/internal/config/layer"
	"github.com/dshills/guides/internal/config/loader"
	"github.com/dshills/guides/internal/config/notify"
	"github.com/dshills/guides/internal/config/watcher"
)

// Layer names.
const (
	LayerDefaults = "defaults"
	LayerUser     = "user"
	LayerProject  = "project"
	LayerEnv      = "environment"
	LayerArgs     = "arguments"
)

// DefaultEnvPrefix is the prefix of environment overrides.
const DefaultEnvPrefix = "GUIDES_"

// Config provides unified access to the configuration layers.
// It manages loading, live reloading and change notification.
type Config struct {
	mu sync.RWMutex

	layers   *layer.Manager
	notifier *notify.Notifier
	watcher  *watcher.Watcher
	fs       loader.FileSystem

	userConfigPath    string
	projectConfigPath string
	envPrefix         string
	enableWatcher     bool

	// configErrors stores errors met while reading typed sections and
	// reloading files.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfig sets the user configuration file. An empty path disables it.
func WithUserConfig(path string) Option {
	return func(c *Config) {
		c.userConfigPath = path
	}
}

// WithProjectConfig sets the project configuration file.
func WithProjectConfig(path string) Option {
	return func(c *Config) {
		c.projectConfigPath = path
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithWatcher enables file watching for live reload.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithFileSystem replaces the file system used by the loaders.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// New creates a Config holding the built-in defaults.
func New(opts ...Option) *Config {
	c := &Config{
		layers:         layer.NewManager(),
		notifier:       notify.New(),
		fs:             loader.DefaultFS(),
		userConfigPath: DefaultUserConfigPath(),
		envPrefix:      DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.layers.Put(layer.NewLayer(LayerDefaults, layer.SourceBuiltin, defaultConfig()))
	return c
}

// Load reads every configured source and starts the watcher when enabled.
// A missing file is not an error. Sources that fail to load are skipped
// and their errors joined into the result.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	err := c.loadSources()
	c.mu.Unlock()

	if c.enableWatcher {
		if werr := c.startWatcher(); werr != nil {
			err = errors.Join(err, fmt.Errorf("starting config watcher: %w", werr))
		}
	}
	return err
}

// Reload re-reads every source and notifies observers of the paths whose
// effective value changed, followed by a reload event.
func (c *Config) Reload() error {
	c.mu.Lock()
	before := c.layers.Merge()
	err := c.loadSources()
	after := c.layers.Merge()
	c.mu.Unlock()

	c.notifyDiff(before, after, "reload")
	return err
}

// Close stops the watcher and notifier.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}
	c.notifier.Close()
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Get(path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path. Floats with no
// fractional part are accepted.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetFloat returns a numeric value at the given path.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float", Actual: typeName(v)}
	}
}

// GetStringSlice returns a list of strings at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: "[]" + typeName(item)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// Set overrides a value in the command-line layer and notifies observers.
func (c *Config) Set(path string, value any) error {
	if path == "" {
		return ErrInvalidPath
	}

	c.mu.Lock()
	oldValue, _ := c.layers.Get(path)

	args := c.layers.Layer(LayerArgs)
	data := map[string]any{}
	if args != nil {
		data = args.Clone().Data
	}
	layer.SetByPath(data, path, value)
	c.layers.Put(layer.NewLayer(LayerArgs, layer.SourceArgs, data))

	newValue, _ := c.layers.Get(path)
	c.mu.Unlock()

	c.notifier.NotifySet(path, oldValue, newValue, LayerArgs)
	return nil
}

// Subscribe registers an observer for all configuration changes.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes under a path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// Merged returns the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Merge()
}

// Which returns the name of the layer that provides path.
func (c *Config) Which(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Which(path)
}

// Files returns the configuration files in use, lowest priority first.
func (c *Config) Files() []string {
	var files []string
	for _, p := range []string{c.userConfigPath, c.projectConfigPath} {
		if p != "" {
			files = append(files, p)
		}
	}
	return files
}

// loadSources must be called with c.mu held.
func (c *Config) loadSources() error {
	var errs []error

	if err := c.loadFile(LayerUser, layer.SourceUser, c.userConfigPath); err != nil {
		errs = append(errs, err)
	}
	if err := c.loadFile(LayerProject, layer.SourceProject, c.projectConfigPath); err != nil {
		errs = append(errs, err)
	}
	if c.envPrefix != "" {
		data, err := loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			errs = append(errs, err)
		} else {
			c.layers.Put(layer.NewLayer(LayerEnv, layer.SourceEnv, data))
		}
	}
	return errors.Join(errs...)
}

// loadFile replaces the named layer with the contents of path. A missing
// file removes the layer; a malformed one keeps the previous contents.
func (c *Config) loadFile(name string, source layer.Source, path string) error {
	if path == "" {
		return nil
	}

	l, err := loader.ForPath(c.fs, path)
	if err != nil {
		c.recordErrorLocked(path, err)
		return err
	}
	data, err := l.Load()
	if err != nil {
		c.recordErrorLocked(path, err)
		return err
	}
	if data == nil {
		c.layers.Remove(name)
		return nil
	}

	ly := layer.NewLayer(name, source, data)
	ly.Path = path
	c.layers.Put(ly)
	return nil
}

func (c *Config) startWatcher() error {
	w, err := watcher.New()
	if err != nil {
		return err
	}
	for _, path := range c.Files() {
		if err := w.Watch(path); err != nil {
			_ = w.Close()
			return err
		}
	}
	w.OnChange(c.handleFileChange)

	c.mu.Lock()
	old := c.watcher
	c.watcher = w
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// handleFileChange reloads the layer backed by the changed file.
func (c *Config) handleFileChange(event watcher.Event) {
	c.mu.Lock()
	before := c.layers.Merge()

	for _, src := range []struct {
		name   string
		source layer.Source
		path   string
	}{
		{LayerUser, layer.SourceUser, c.userConfigPath},
		{LayerProject, layer.SourceProject, c.projectConfigPath},
	} {
		if src.path == "" || !samePath(src.path, event.Path) {
			continue
		}
		if event.Op == watcher.OpRemove {
			c.layers.Remove(src.name)
			continue
		}
		_ = c.loadFile(src.name, src.source, src.path)
	}

	after := c.layers.Merge()
	c.mu.Unlock()

	c.notifyDiff(before, after, event.Path)
}

func (c *Config) notifyDiff(before, after map[string]any, source string) {
	for _, path := range layer.Diff(before, after) {
		oldValue, _ := layer.GetByPath(before, path)
		newValue, _ := layer.GetByPath(after, path)
		c.notifier.NotifySet(path, oldValue, newValue, source)
	}
	c.notifier.NotifyReload(source)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// DefaultUserConfigPath returns the user configuration file path.
func DefaultUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "guides", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "guides", "config.toml")
}

// FindProjectConfig returns the first project file found in dir, or "".
func FindProjectConfig(dir string) string {
	for _, name := range []string{".guides.toml", ".guides.yaml", ".guides.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
