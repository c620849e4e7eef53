package decoration

import (
	"errors"
	"math"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/guides/internal/config"
	"github.com/dshills/guides/internal/renderer/core"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		alpha   float64
		wantErr bool
	}{
		{"#fff", 255, 255, 255, 1, false},
		{"#FF8000", 255, 128, 0, 1, false},
		{"#FF800080", 255, 128, 0, 128.0 / 255, false},
		{"rgb(10, 20, 30)", 10, 20, 30, 1, false},
		{"rgba(255,255,64,0.07)", 255, 255, 64, 0.07, false},
		{" RGBA(0, 0, 0, 1) ", 0, 0, 0, 1, false},
		{"white", 255, 255, 255, 1, false},
		{"", 0, 0, 0, 0, true},
		{"#12", 0, 0, 0, 0, true},
		{"rgb(1, 2)", 0, 0, 0, 0, true},
		{"rgba(1, 2, 3, 2)", 0, 0, 0, 0, true},
		{"rgb(300, 0, 0)", 0, 0, 0, 0, true},
		{"not-a-color", 0, 0, 0, 0, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q) unexpected error: %v", tt.in, err)
			continue
		}
		r, g, b := got.Color.RGB255()
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("ParseColor(%q) = (%d,%d,%d), want (%d,%d,%d)", tt.in, r, g, b, tt.r, tt.g, tt.b)
		}
		if math.Abs(got.Alpha-tt.alpha) > 1e-9 {
			t.Errorf("ParseColor(%q) alpha = %v, want %v", tt.in, got.Alpha, tt.alpha)
		}
	}
}

func TestOverComposites(t *testing.T) {
	c, err := ParseColor("rgba(255, 255, 255, 0.5)")
	if err != nil {
		t.Fatal(err)
	}
	got := c.Over(core.ColorBlack)
	if got.R < 127 || got.R > 128 || got.R != got.G || got.G != got.B {
		t.Errorf("Over = %v, want mid gray", got)
	}

	opaque, _ := ParseColor("#336699")
	if got := opaque.Over(core.ColorWhite); !got.Equals(core.ColorFromRGB(0x33, 0x66, 0x99)) {
		t.Errorf("opaque Over = %v, want #336699", got)
	}
}

func TestKeyCanonical(t *testing.T) {
	a := RenderOptions{BorderStyle: "solid", BorderWidth: 1, DarkColor: "#111"}
	b := RenderOptions{DarkColor: "#111", BorderWidth: 1, BorderStyle: "solid"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %s vs %s", a.Key(), b.Key())
	}

	want := `{"borderStyle":"solid","borderWidth":1,"color":"","dark":{"color":"#111"},"light":{"color":""},"backgroundColor":"","gutterIcon":""}`
	if got := a.Key(); got != want {
		t.Errorf("Key() = %s, want %s", got, want)
	}

	c := a
	c.BorderWidth = 2
	if a.Key() == c.Key() {
		t.Error("different options should have different keys")
	}
}

func TestKeyEscapesValues(t *testing.T) {
	opts := RenderOptions{Color: `"quoted"\path`, LightColor: "rgba(1, 2, 3, 0.5)", GutterIcon: IconOpen}
	key := opts.Key()
	if !gjson.Valid(key) {
		t.Fatalf("Key() = %s is not valid JSON", key)
	}

	tests := []struct {
		path string
		want string
	}{
		{"color", opts.Color},
		{"light.color", opts.LightColor},
		{"gutterIcon", IconOpen},
		{"borderWidth", "0"},
	}
	for _, tt := range tests {
		if got := gjson.Get(key, tt.path).String(); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCacheSharesHandles(t *testing.T) {
	cache := NewCache(DarkTheme())
	opts := RenderOptions{BorderStyle: "solid", BorderWidth: 1, Color: "#808080"}

	d1, err := cache.Get(opts)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	d2, err := cache.Get(opts)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if d1 != d2 {
		t.Error("identical options should return the same handle")
	}
	if cache.Allocations() != 1 || cache.Len() != 1 {
		t.Errorf("allocations = %d, len = %d, want 1, 1", cache.Allocations(), cache.Len())
	}
	if d1.ID == "" || d1.Glyph != '│' {
		t.Errorf("handle = %+v", d1)
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d", cache.Len())
	}
	d3, _ := cache.Get(opts)
	if d3 == d1 || d3.ID == d1.ID {
		t.Error("Clear should force a new handle")
	}
}

func TestCacheErrors(t *testing.T) {
	cache := NewCache(DarkTheme())
	if _, err := cache.Get(RenderOptions{Background: "bogus"}); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("error = %v, want ErrInvalidColor", err)
	}
	if _, err := cache.Get(RenderOptions{GutterIcon: "middle"}); err == nil {
		t.Error("expected error for unknown gutter icon")
	}
	if cache.Len() != 0 {
		t.Errorf("failed builds should not be cached, Len() = %d", cache.Len())
	}
}

func TestThemedColor(t *testing.T) {
	opts := RenderOptions{BorderStyle: "dotted", DarkColor: "#010101", LightColor: "#FEFEFE"}

	dark, _ := NewCache(DarkTheme()).Get(opts)
	if !dark.Style.Foreground.Equals(core.ColorFromRGB(1, 1, 1)) {
		t.Errorf("dark foreground = %v", dark.Style.Foreground)
	}

	cache := NewCache(DarkTheme())
	cache.SetTheme(ThemeByName("light"))
	light, _ := cache.Get(opts)
	if !light.Style.Foreground.Equals(core.ColorFromRGB(0xFE, 0xFE, 0xFE)) {
		t.Errorf("light foreground = %v", light.Style.Foreground)
	}
	if light.Glyph != '┊' {
		t.Errorf("glyph = %q, want ┊", light.Glyph)
	}
}

func TestBorderGlyph(t *testing.T) {
	tests := []struct {
		style string
		width int
		want  rune
	}{
		{"solid", 1, '│'},
		{"solid", 2, '┃'},
		{"dashed", 1, '╎'},
		{"dashed", 3, '╏'},
		{"dotted", 2, '┋'},
		{"double", 1, '║'},
		{"", 1, 0},
	}
	for _, tt := range tests {
		if got := borderGlyph(tt.style, tt.width); got != tt.want {
			t.Errorf("borderGlyph(%q, %d) = %q, want %q", tt.style, tt.width, got, tt.want)
		}
	}
}

func guidesConfig() config.GuidesConfig {
	style := config.GuideStyle{
		Enabled: true,
		Style:   config.StyleSolid,
		Width:   1,
		Color:   config.ColorVariant{Dark: "#404040", Light: "#C0C0C0"},
	}
	return config.GuidesConfig{
		Enabled: true,
		Indent: config.IndentConfig{
			Backgrounds: []string{"rgba(255, 0, 0, 0.1)", "rgba(0, 255, 0, 0.1)"},
		},
		Normal: style,
		Active: config.ActiveConfig{GuideStyle: style, Gutter: true},
		Stack:  style,
	}
}

func TestFromConfig(t *testing.T) {
	cache := NewCache(DarkTheme())
	set, err := FromConfig(guidesConfig(), cache)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}

	if set.Normal == nil || set.Active == nil || set.Stack == nil {
		t.Fatalf("guide handles missing: %+v", set)
	}
	if set.Normal != set.Active || set.Active != set.Stack {
		t.Error("identical styles should share one handle")
	}
	if len(set.Backgrounds) != 2 || set.Background(1) == nil || set.Background(2) != nil {
		t.Errorf("backgrounds = %v", set.Backgrounds)
	}
	if set.GutterOpen == nil || set.GutterOpen.Glyph != '┌' || set.GutterClose.Glyph != '└' {
		t.Errorf("gutter handles = %+v, %+v", set.GutterOpen, set.GutterClose)
	}
	// guide + 2 backgrounds + 2 gutter icons
	if cache.Len() != 5 {
		t.Errorf("cache Len() = %d, want 5", cache.Len())
	}
}

func TestFromConfigHidden(t *testing.T) {
	cfg := guidesConfig()
	cfg.Stack.Style = config.StyleNone
	cfg.Normal.Enabled = false
	cfg.Active.Gutter = false

	set, err := FromConfig(cfg, NewCache(DarkTheme()))
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	if set.Stack != nil || set.Normal != nil {
		t.Error("hidden categories should have nil handles")
	}
	if set.Active == nil {
		t.Error("active should still render")
	}
	if set.GutterOpen != nil {
		t.Error("gutter markers should be off")
	}

	cfg.Enabled = false
	set, _ = FromConfig(cfg, NewCache(DarkTheme()))
	if !set.Empty() {
		t.Errorf("disabled config should produce an empty set, got %+v", set)
	}
}

func TestFromConfigFallback(t *testing.T) {
	cfg := guidesConfig()
	cfg.Normal.Color = config.ColorVariant{Dark: "nope"}
	cfg.Indent.Backgrounds = []string{"nope", "#FF0000"}

	theme := DarkTheme()
	set, err := FromConfig(cfg, NewCache(theme))
	if !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("error = %v, want ErrInvalidColor", err)
	}
	if set.Normal == nil {
		t.Fatal("bad guide color should fall back, not disappear")
	}
	want := theme.Foreground.Blend(theme.Background, 0.6)
	if !set.Normal.Style.Foreground.Equals(want) {
		t.Errorf("fallback foreground = %v, want %v", set.Normal.Style.Foreground, want)
	}
	if set.Background(0) != nil || set.Background(1) == nil {
		t.Errorf("backgrounds = %v, want [nil, handle]", set.Backgrounds)
	}
}
