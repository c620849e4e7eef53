package decoration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/guides/internal/renderer/core"
)

// ErrInvalidColor is returned for color strings that cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// RGBA is a parsed color with straight alpha in [0, 1].
type RGBA struct {
	Color colorful.Color
	Alpha float64
}

// ParseColor parses #RGB, #RRGGBB, #RRGGBBAA, rgb(r, g, b),
// rgba(r, g, b, a) and the named terminal colors.
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "":
		return RGBA{}, fmt.Errorf("%w: empty", ErrInvalidColor)

	case strings.HasPrefix(s, "#"):
		return parseHex(s)

	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		return parseFunc(s)
	}

	if tc := tcell.GetColor(s); tc != tcell.ColorDefault {
		r, g, b := tc.RGB()
		return RGBA{Color: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, Alpha: 1}, nil
	}
	return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHex(s string) (RGBA, error) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return RGBA{Color: c, Alpha: alpha}, nil
}

func parseFunc(s string) (RGBA, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	name := s[:open]
	parts := strings.Split(s[open+1:len(s)-1], ",")

	want := 3
	if name == "rgba" {
		want = 4
	}
	if len(parts) != want {
		return RGBA{}, fmt.Errorf("%w: %q needs %d components", ErrInvalidColor, s, want)
	}

	var rgb [3]float64
	for i := range rgb {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || v < 0 || v > 255 {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		rgb[i] = v / 255
	}

	alpha := 1.0
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		alpha = a
	}
	return RGBA{Color: colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, Alpha: alpha}, nil
}

// Over composites c onto an opaque background. Terminals have no alpha
// channel, so translucent colors are flattened against the theme.
func (c RGBA) Over(bg core.Color) core.Color {
	base := fromCore(bg)
	r, g, b := base.BlendRgb(c.Color, c.Alpha).Clamped().RGB255()
	return core.ColorFromRGB(r, g, b)
}

func fromCore(c core.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
