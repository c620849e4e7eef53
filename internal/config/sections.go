package config

import (
	"errors"
	"strings"
	"time"

	"github.com/dshills/guides/internal/guides"
)

// Section accessors return snapshot structs. Mutating the returned struct
// does not modify the underlying configuration.

// GuidesConfig is the typed configuration of the guides engine, read once
// per reload.
type GuidesConfig struct {
	// Enabled turns all guide rendering on or off.
	Enabled bool

	// UpdateDelay is the debounce delay for selection changes.
	UpdateDelay time.Duration

	// LineLimit bounds the outward scan (see guides.Options.LineLimit).
	LineLimit float64

	// TabSize is the fallback tab width when the editor reports none.
	TabSize int

	// Theme selects the dark or light color variants.
	Theme string

	Indent IndentConfig
	Normal GuideStyle
	Active ActiveConfig
	Stack  GuideStyle
}

// IndentConfig holds the settings shared by every guide.
type IndentConfig struct {
	// FirstIndent renders the column-zero guide.
	FirstIndent bool

	// HideBackgroundOnSelection drops background bands under a selection.
	HideBackgroundOnSelection bool

	// Backgrounds is the palette cycled by indentation level.
	Backgrounds []string
}

// GuideStyle configures one guide category.
type GuideStyle struct {
	Enabled bool

	// Style is one of solid, dashed, dotted, double or none.
	Style string

	// Width is the border width in cells or pixels, at least 1.
	Width int

	Color ColorVariant

	// HideOnSelection hides the category under a non-empty selection.
	HideOnSelection bool
}

// Visible reports whether the category renders at all.
func (s GuideStyle) Visible() bool {
	return s.Enabled && s.Style != StyleNone
}

// ColorVariant holds the per-theme colors of a category.
type ColorVariant struct {
	Dark  string
	Light string
}

// For returns the color for theme, falling back to the other variant.
func (v ColorVariant) For(theme string) string {
	if theme == "light" {
		if v.Light != "" {
			return v.Light
		}
		return v.Dark
	}
	if v.Dark != "" {
		return v.Dark
	}
	return v.Light
}

// ActiveConfig extends GuideStyle with the active resolution policy.
type ActiveConfig struct {
	GuideStyle

	// ExtraIndent admits the end-of-indent guide as the active one.
	ExtraIndent bool

	// ExpandBrackets resolves a cursor right after a bracket as if it were
	// before it.
	ExpandBrackets bool

	// Gutter shows open and close markers around the active scope.
	Gutter bool
}

// Options converts the configuration into engine options.
func (g GuidesConfig) Options() guides.Options {
	opts := guides.Options{
		TabSize:        g.TabSize,
		FirstIndent:    g.Indent.FirstIndent,
		ExtraIndent:    g.Active.ExtraIndent,
		ExpandBrackets: g.Active.ExpandBrackets,
		ActiveEnabled:  g.Active.Enabled,
		StackEnabled:   g.Stack.Enabled,
		HideOnSelection: guides.HideOnSelection{
			Active:     g.Active.HideOnSelection,
			Stack:      g.Stack.HideOnSelection,
			Normal:     g.Normal.HideOnSelection,
			Background: g.Indent.HideBackgroundOnSelection,
		},
		LineLimit: g.LineLimit,
	}
	if g.Enabled {
		opts.BackgroundLevels = len(g.Indent.Backgrounds)
	}
	return opts
}

// Guides returns the typed guides configuration.
func (c *Config) Guides() GuidesConfig {
	return GuidesConfig{
		Enabled:     c.getBoolOr("enabled", true),
		UpdateDelay: c.getDelayOr("updateDelay", 100*time.Millisecond),
		LineLimit:   c.getFloatOr("limit.maximum", 500),
		TabSize:     c.getPositiveIntOr("tabSize", guides.DefaultTabSize),
		Theme:       c.getEnumOr("theme", "dark", "dark", "light"),
		Indent: IndentConfig{
			FirstIndent:               c.getBoolOr("indent.firstIndent", true),
			HideBackgroundOnSelection: c.getBoolOr("indent.hideBackgroundOnSelection", true),
			Backgrounds:               c.backgrounds(),
		},
		Normal: c.guideStyle("normal"),
		Active: ActiveConfig{
			GuideStyle:     c.guideStyle("active"),
			ExtraIndent:    c.getBoolOr("active.extraIndent", false),
			ExpandBrackets: c.getBoolOr("active.expandBrackets", false),
			Gutter:         c.getBoolOr("active.gutter", false),
		},
		Stack: c.guideStyle("stack"),
	}
}

// LogLevel returns logging.level.
func (c *Config) LogLevel() string {
	return c.getEnumOr("logging.level", "info", "debug", "info", "warn", "error")
}

func (c *Config) guideStyle(section string) GuideStyle {
	return GuideStyle{
		Enabled: c.getBoolOr(section+".enabled", true),
		Style: c.getEnumOr(section+".style", StyleSolid,
			StyleSolid, StyleDashed, StyleDotted, StyleDouble, StyleNone),
		Width: c.getPositiveIntOr(section+".width", 1),
		Color: ColorVariant{
			Dark:  c.getStringOr(section+".color.dark", ""),
			Light: c.getStringOr(section+".color.light", ""),
		},
		HideOnSelection: c.getBoolOr(section+".hideOnSelection", true),
	}
}

// backgrounds prefers normal.backgrounds over indent.backgrounds.
func (c *Config) backgrounds() []string {
	fallback := c.getStringSliceOr("indent.backgrounds", defaultBackgrounds)
	return c.getStringSliceOr("normal.backgrounds", fallback)
}

// These helpers return the default for ErrSettingNotFound. Other errors
// are recorded and also return the default.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.recordError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getEnumOr(path string, defaultValue string, allowed ...string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.recordError(path, err)
		return defaultValue
	}
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	c.recordError(path, &ValueError{Path: path, Value: v, Reason: "one of " + strings.Join(allowed, ", ")})
	return defaultValue
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.recordError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getFloatOr(path string, defaultValue float64) float64 {
	v, err := c.GetFloat(path)
	if err != nil {
		c.recordError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getPositiveIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		c.recordError(path, err)
		return defaultValue
	}
	if v < 1 {
		c.recordError(path, &ValueError{Path: path, Value: v, Reason: "must be at least 1"})
		return defaultValue
	}
	return v
}

// getDelayOr reads a delay in seconds.
func (c *Config) getDelayOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetFloat(path)
	if err != nil {
		c.recordError(path, err)
		return defaultValue
	}
	if v < 0 {
		c.recordError(path, &ValueError{Path: path, Value: v, Reason: "must not be negative"})
		return defaultValue
	}
	return time.Duration(v * float64(time.Second))
}

func (c *Config) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		c.recordError(path, err)
		return append([]string(nil), defaultValue...)
	}
	return v
}

func (c *Config) recordError(path string, err error) {
	if errors.Is(err, ErrSettingNotFound) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordErrorLocked(path, err)
}

// recordErrorLocked keeps the first error for each path.
func (c *Config) recordErrorLocked(path string, err error) {
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns the errors recorded while reading configuration.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

// ClearConfigErrors clears any stored configuration errors.
func (c *Config) ClearConfigErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configErrors = nil
}
