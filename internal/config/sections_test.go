package config

import (
	"errors"
	"testing"
	"time"
)

func TestGuidesDefaults(t *testing.T) {
	c := newTestConfig(t)
	g := c.Guides()

	if !g.Enabled {
		t.Error("Enabled should default to true")
	}
	if g.UpdateDelay != 100*time.Millisecond {
		t.Errorf("UpdateDelay = %v, want 100ms", g.UpdateDelay)
	}
	if g.LineLimit != 500 {
		t.Errorf("LineLimit = %v, want 500", g.LineLimit)
	}
	if g.TabSize != 4 {
		t.Errorf("TabSize = %d, want 4", g.TabSize)
	}
	if !g.Indent.FirstIndent {
		t.Error("FirstIndent should default to true")
	}
	if g.Active.ExtraIndent || g.Active.ExpandBrackets || g.Active.Gutter {
		t.Error("active policies should default to false")
	}
	for name, s := range map[string]GuideStyle{"normal": g.Normal, "active": g.Active.GuideStyle, "stack": g.Stack} {
		if !s.Visible() || s.Style != StyleSolid || s.Width != 1 {
			t.Errorf("%s style = %+v", name, s)
		}
		if s.Color.Dark == "" || s.Color.Light == "" {
			t.Errorf("%s colors missing: %+v", name, s.Color)
		}
	}
	if len(g.Indent.Backgrounds) != 4 {
		t.Errorf("got %d backgrounds, want 4", len(g.Indent.Backgrounds))
	}
	if errs := c.ConfigErrors(); len(errs) != 0 {
		t.Errorf("defaults produced errors: %v", errs)
	}
}

func TestGuidesOptions(t *testing.T) {
	c := newTestConfig(t)
	_ = c.Set("tabSize", 2)
	_ = c.Set("active.extraIndent", true)
	_ = c.Set("stack.enabled", false)
	_ = c.Set("normal.hideOnSelection", false)
	_ = c.Set("indent.hideBackgroundOnSelection", false)
	_ = c.Set("limit.maximum", 0.5)

	opts := c.Guides().Options()

	if opts.TabSize != 2 || !opts.ExtraIndent || opts.StackEnabled || !opts.ActiveEnabled {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts.HideOnSelection.Normal || opts.HideOnSelection.Background || !opts.HideOnSelection.Active {
		t.Errorf("HideOnSelection = %+v", opts.HideOnSelection)
	}
	if opts.LineLimit != 0.5 {
		t.Errorf("LineLimit = %v, want 0.5", opts.LineLimit)
	}
	if opts.BackgroundLevels != 4 {
		t.Errorf("BackgroundLevels = %d, want 4", opts.BackgroundLevels)
	}

	_ = c.Set("enabled", false)
	if got := c.Guides().Options().BackgroundLevels; got != 0 {
		t.Errorf("BackgroundLevels when disabled = %d, want 0", got)
	}
}

func TestGuidesFallbacks(t *testing.T) {
	c := newTestConfig(t)
	_ = c.Set("tabSize", 0)
	_ = c.Set("normal.style", "wavy")
	_ = c.Set("active.width", "thick")
	_ = c.Set("updateDelay", -1)
	_ = c.Set("stack.style", " Dashed ")

	g := c.Guides()
	if g.TabSize != 4 {
		t.Errorf("TabSize = %d, want fallback 4", g.TabSize)
	}
	if g.Normal.Style != StyleSolid {
		t.Errorf("normal style = %q, want fallback solid", g.Normal.Style)
	}
	if g.Active.Width != 1 {
		t.Errorf("active width = %d, want fallback 1", g.Active.Width)
	}
	if g.UpdateDelay != 100*time.Millisecond {
		t.Errorf("UpdateDelay = %v, want fallback", g.UpdateDelay)
	}
	if g.Stack.Style != StyleDashed {
		t.Errorf("stack style = %q, want dashed", g.Stack.Style)
	}

	errs := c.ConfigErrors()
	if !errors.Is(errs["tabSize"], ErrInvalidValue) {
		t.Errorf("tabSize error = %v, want ErrInvalidValue", errs["tabSize"])
	}
	if !errors.Is(errs["normal.style"], ErrInvalidValue) {
		t.Errorf("normal.style error = %v", errs["normal.style"])
	}
	if !errors.Is(errs["active.width"], ErrTypeMismatch) {
		t.Errorf("active.width error = %v, want ErrTypeMismatch", errs["active.width"])
	}

	c.ClearConfigErrors()
	if c.ConfigErrors() != nil {
		t.Error("ClearConfigErrors should drop all errors")
	}
}

func TestNormalBackgroundsOverride(t *testing.T) {
	c := newTestConfig(t)
	_ = c.Set("normal.backgrounds", []any{"#101010"})

	g := c.Guides()
	if len(g.Indent.Backgrounds) != 1 || g.Indent.Backgrounds[0] != "#101010" {
		t.Errorf("Backgrounds = %v", g.Indent.Backgrounds)
	}
}

func TestStyleNone(t *testing.T) {
	c := newTestConfig(t)
	_ = c.Set("normal.style", "none")
	if c.Guides().Normal.Visible() {
		t.Error("style none should not be visible")
	}
}

func TestColorVariantFor(t *testing.T) {
	tests := []struct {
		v     ColorVariant
		theme string
		want  string
	}{
		{ColorVariant{Dark: "d", Light: "l"}, "dark", "d"},
		{ColorVariant{Dark: "d", Light: "l"}, "light", "l"},
		{ColorVariant{Dark: "d"}, "light", "d"},
		{ColorVariant{Light: "l"}, "dark", "l"},
	}
	for _, tt := range tests {
		if got := tt.v.For(tt.theme); got != tt.want {
			t.Errorf("%+v.For(%q) = %q, want %q", tt.v, tt.theme, got, tt.want)
		}
	}
}
