// Package decoration turns guide configuration into renderable styles.
//
// A Cache hands out Decoration handles keyed by a canonical JSON encoding
// of their RenderOptions, so logically identical requests share one handle.
package decoration

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/dshills/guides/internal/renderer/core"
)

// Gutter icons.
const (
	IconOpen  = "open"
	IconClose = "close"
)

// RenderOptions describes one decoration type.
type RenderOptions struct {
	// BorderStyle is solid, dashed, dotted or double. Empty for backgrounds.
	BorderStyle string

	// BorderWidth selects the heavy glyph variant when greater than one.
	BorderWidth int

	// Color applies to every theme. DarkColor and LightColor override it.
	Color      string
	DarkColor  string
	LightColor string

	// Background fills the cells the decoration covers.
	Background string

	// GutterIcon is IconOpen or IconClose for scope markers.
	GutterIcon string
}

// Key returns the canonical serialization of o.
func (o RenderOptions) Key() string {
	key := "{}"
	for _, f := range []struct {
		path  string
		value any
	}{
		{"borderStyle", o.BorderStyle},
		{"borderWidth", o.BorderWidth},
		{"color", o.Color},
		{"dark.color", o.DarkColor},
		{"light.color", o.LightColor},
		{"backgroundColor", o.Background},
		{"gutterIcon", o.GutterIcon},
	} {
		next, err := sjson.Set(key, f.path, f.value)
		if err != nil {
			return key
		}
		key = next
	}
	return key
}

// Decoration is a resolved, shareable style handle.
type Decoration struct {
	ID      string
	Key     string
	Options RenderOptions

	// Glyph replaces the covered cell's rune. Zero keeps the text.
	Glyph rune

	// Style is merged over the text style.
	Style core.Style
}

// Theme is the opaque surface decorations are composited onto.
type Theme struct {
	Name       string
	Foreground core.Color
	Background core.Color
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Name:       "dark",
		Foreground: core.ColorFromRGB(0xD4, 0xD4, 0xD4),
		Background: core.ColorFromRGB(0x1E, 0x1E, 0x1E),
	}
}

// LightTheme returns the default light theme.
func LightTheme() Theme {
	return Theme{
		Name:       "light",
		Foreground: core.ColorFromRGB(0x33, 0x33, 0x33),
		Background: core.ColorFromRGB(0xFF, 0xFF, 0xFF),
	}
}

// ThemeByName returns LightTheme for "light" and DarkTheme otherwise.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Cache owns every decoration handle.
type Cache struct {
	mu      sync.Mutex
	theme   Theme
	entries map[string]*Decoration
	allocs  int
}

// NewCache creates an empty cache for theme.
func NewCache(theme Theme) *Cache {
	return &Cache{
		theme:   theme,
		entries: make(map[string]*Decoration),
	}
}

// Theme returns the cache's theme.
func (c *Cache) Theme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// SetTheme switches themes. Existing handles are dropped since their colors
// were composited onto the old background.
func (c *Cache) SetTheme(theme Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = theme
	c.entries = make(map[string]*Decoration)
}

// Get returns the handle for opts, creating it on first use.
func (c *Cache) Get(opts RenderOptions) (*Decoration, error) {
	key := opts.Key()

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.entries[key]; ok {
		return d, nil
	}

	d, err := c.build(key, opts)
	if err != nil {
		return nil, err
	}
	c.entries[key] = d
	c.allocs++
	return d, nil
}

// Len returns the number of live handles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Allocations returns how many handles were ever created.
func (c *Cache) Allocations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allocs
}

// Clear drops every handle.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Decoration)
}

func (c *Cache) build(key string, opts RenderOptions) (*Decoration, error) {
	d := &Decoration{
		ID:      uuid.NewString(),
		Key:     key,
		Options: opts,
		Style:   core.DefaultStyle(),
	}

	if s := c.themed(opts); s != "" {
		fg, err := ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("decoration %s: %w", key, err)
		}
		d.Style.Foreground = fg.Over(c.theme.Background)
	} else if opts.BorderStyle != "" || opts.GutterIcon != "" {
		d.Style.Foreground = c.theme.Foreground.Blend(c.theme.Background, 0.6)
	}

	if opts.Background != "" {
		bg, err := ParseColor(opts.Background)
		if err != nil {
			return nil, fmt.Errorf("decoration %s: %w", key, err)
		}
		d.Style.Background = bg.Over(c.theme.Background)
	}

	switch opts.GutterIcon {
	case IconOpen:
		d.Glyph = '┌'
	case IconClose:
		d.Glyph = '└'
	case "":
		d.Glyph = borderGlyph(opts.BorderStyle, opts.BorderWidth)
	default:
		return nil, fmt.Errorf("decoration %s: unknown gutter icon %q", key, opts.GutterIcon)
	}
	return d, nil
}

// themed picks the color for the cache's theme.
func (c *Cache) themed(opts RenderOptions) string {
	switch {
	case c.theme.Name == "light" && opts.LightColor != "":
		return opts.LightColor
	case c.theme.Name != "light" && opts.DarkColor != "":
		return opts.DarkColor
	}
	return opts.Color
}

func borderGlyph(style string, width int) rune {
	heavy := width > 1
	switch style {
	case "solid":
		if heavy {
			return '┃'
		}
		return '│'
	case "dashed":
		if heavy {
			return '╏'
		}
		return '╎'
	case "dotted":
		if heavy {
			return '┋'
		}
		return '┊'
	case "double":
		return '║'
	}
	return 0
}
