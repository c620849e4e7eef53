package config

// Guide styles accepted by normal.style, active.style and stack.style.
const (
	StyleSolid  = "solid"
	StyleDashed = "dashed"
	StyleDotted = "dotted"
	StyleDouble = "double"
	StyleNone   = "none"
)

// defaultBackgrounds is the palette cycled by indentation level.
var defaultBackgrounds = []string{
	"rgba(255, 255, 64, 0.07)",
	"rgba(127, 255, 127, 0.07)",
	"rgba(255, 127, 255, 0.07)",
	"rgba(79, 236, 236, 0.07)",
}

// defaultConfig returns the built-in configuration layer.
func defaultConfig() map[string]any {
	backgrounds := make([]any, len(defaultBackgrounds))
	for i, c := range defaultBackgrounds {
		backgrounds[i] = c
	}

	return map[string]any{
		"enabled":     true,
		"updateDelay": 0.1,
		"tabSize":     4,
		"theme":       "dark",
		"limit": map[string]any{
			"maximum": 500,
		},
		"indent": map[string]any{
			"firstIndent":               true,
			"hideBackgroundOnSelection": true,
			"backgrounds":               backgrounds,
		},
		"normal": guideDefaults("rgba(60, 60, 60, 0.75)", "rgba(220, 220, 220, 0.75)"),
		"active": mergeInto(guideDefaults("rgba(120, 120, 120, 0.75)", "rgba(180, 180, 180, 0.75)"), map[string]any{
			"extraIndent":    false,
			"expandBrackets": false,
			"gutter":         false,
		}),
		"stack": guideDefaults("rgba(80, 80, 80, 0.75)", "rgba(200, 200, 200, 0.75)"),
		"logging": map[string]any{
			"level": "info",
		},
	}
}

func guideDefaults(dark, light string) map[string]any {
	return map[string]any{
		"enabled":         true,
		"style":           StyleSolid,
		"width":           1,
		"hideOnSelection": true,
		"color": map[string]any{
			"dark":  dark,
			"light": light,
		},
	}
}

func mergeInto(dst, src map[string]any) map[string]any {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
