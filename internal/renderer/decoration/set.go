package decoration

import (
	"errors"

	"github.com/dshills/guides/internal/config"
)

// Set is the decoration handles for one configuration. A nil handle means
// the category is not rendered.
type Set struct {
	Normal *Decoration
	Active *Decoration
	Stack  *Decoration

	// Backgrounds holds one handle per palette entry, indexed by level.
	Backgrounds []*Decoration

	GutterOpen  *Decoration
	GutterClose *Decoration
}

// Empty reports whether nothing would be rendered.
func (s Set) Empty() bool {
	return s.Normal == nil && s.Active == nil && s.Stack == nil &&
		len(s.Backgrounds) == 0 && s.GutterOpen == nil
}

// Background returns the handle for a palette level, or nil.
func (s Set) Background(level int) *Decoration {
	if level < 0 || level >= len(s.Backgrounds) {
		return nil
	}
	return s.Backgrounds[level]
}

// FromConfig builds the handles for cfg. Colors that fail to parse fall
// back to the theme's guide color; the failures are returned joined.
func FromConfig(cfg config.GuidesConfig, cache *Cache) (Set, error) {
	var set Set
	if !cfg.Enabled {
		return set, nil
	}

	var errs []error
	get := func(opts RenderOptions) *Decoration {
		d, err := cache.Get(opts)
		if err == nil {
			return d
		}
		errs = append(errs, err)
		opts.Color, opts.DarkColor, opts.LightColor = "", "", ""
		if opts.Background != "" {
			return nil
		}
		d, err = cache.Get(opts)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}

	guide := func(s config.GuideStyle) *Decoration {
		if !s.Visible() {
			return nil
		}
		return get(RenderOptions{
			BorderStyle: s.Style,
			BorderWidth: s.Width,
			DarkColor:   s.Color.Dark,
			LightColor:  s.Color.Light,
		})
	}

	set.Normal = guide(cfg.Normal)
	set.Active = guide(cfg.Active.GuideStyle)
	set.Stack = guide(cfg.Stack)

	for _, bg := range cfg.Indent.Backgrounds {
		set.Backgrounds = append(set.Backgrounds, get(RenderOptions{Background: bg}))
	}

	if cfg.Active.Gutter && cfg.Active.Enabled {
		color := RenderOptions{DarkColor: cfg.Active.Color.Dark, LightColor: cfg.Active.Color.Light}
		open, closing := color, color
		open.GutterIcon = IconOpen
		closing.GutterIcon = IconClose
		set.GutterOpen = get(open)
		set.GutterClose = get(closing)
	}

	return set, errors.Join(errs...)
}
