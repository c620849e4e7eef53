// Package style provides style resolution for combining styles from multiple sources.
// The Resolver merges indentation backgrounds, guide glyph colors and
// selection highlighting in priority order.
package style

import (
	"github.com/dshills/guides/internal/renderer/core"
)

// Layer represents a style layer with priority.
type Layer uint8

const (
	// LayerBase is the base/default style layer.
	LayerBase Layer = iota

	// LayerBackground is the per-level indentation band layer.
	LayerBackground

	// LayerGuide is the guide glyph layer.
	LayerGuide

	// LayerSelection is the selection highlight layer.
	LayerSelection

	// LayerCount is the number of layers.
	LayerCount
)

// String returns the string representation of the layer.
func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerBackground:
		return "background"
	case LayerGuide:
		return "guide"
	case LayerSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// Span represents a styled span at a specific layer.
type Span struct {
	// StartCol is the starting display column (inclusive).
	StartCol int

	// EndCol is the ending display column (exclusive).
	EndCol int

	// Style is the style to apply.
	Style core.Style

	// Layer is the priority layer.
	Layer Layer

	// Merge indicates how to merge with lower layers.
	Merge MergeMode
}

// MergeMode determines how styles are merged.
type MergeMode uint8

const (
	// MergeOverlay overlays onto lower layers (default colors fall through).
	MergeOverlay MergeMode = iota

	// MergeReplace replaces all lower layer styles.
	MergeReplace

	// MergeAttributes only adds attributes, preserves colors.
	MergeAttributes

	// MergeForeground only changes foreground color.
	MergeForeground

	// MergeBackground only changes background color.
	MergeBackground
)

// Resolver resolves styles by combining multiple layers.
type Resolver struct {
	// baseStyle is the default style when no layers apply.
	baseStyle core.Style

	// layerEnabled tracks which layers are enabled.
	layerEnabled [LayerCount]bool
}

// NewResolver creates a new style resolver.
func NewResolver() *Resolver {
	r := &Resolver{
		baseStyle: core.DefaultStyle(),
	}
	for i := range r.layerEnabled {
		r.layerEnabled[i] = true
	}
	return r
}

// BaseStyle returns the base style.
func (r *Resolver) BaseStyle() core.Style {
	return r.baseStyle
}

// SetBaseStyle sets the base style.
func (r *Resolver) SetBaseStyle(style core.Style) {
	r.baseStyle = style
}

// SetLayerEnabled enables or disables a layer.
func (r *Resolver) SetLayerEnabled(layer Layer, enabled bool) {
	if layer < LayerCount {
		r.layerEnabled[layer] = enabled
	}
}

// Resolve combines styles from multiple spans at a specific column.
func (r *Resolver) Resolve(col int, spans []Span) core.Style {
	result := r.baseStyle

	// Process spans in layer order (lower layers first)
	for layer := LayerBase; layer < LayerCount; layer++ {
		if !r.layerEnabled[layer] {
			continue
		}
		for _, span := range spans {
			if span.Layer != layer || col < span.StartCol || col >= span.EndCol {
				continue
			}
			result = mergeStyle(result, span.Style, span.Merge)
		}
	}

	return result
}

// ResolveLine resolves styles for an entire line of cells in place,
// indexed by display column.
func (r *Resolver) ResolveLine(cells []core.Cell, spans []Span) {
	for i := range cells {
		cells[i].Style = r.Resolve(i, spans)
	}
}

// mergeStyle merges an overlay style onto a base style.
func mergeStyle(base, overlay core.Style, mode MergeMode) core.Style {
	switch mode {
	case MergeReplace:
		return overlay

	case MergeAttributes:
		base.Attributes |= overlay.Attributes
		return base

	case MergeForeground:
		if !overlay.Foreground.IsDefault() {
			base.Foreground = overlay.Foreground
		}
		return base

	case MergeBackground:
		if !overlay.Background.IsDefault() {
			base.Background = overlay.Background
		}
		return base

	default:
		return base.Merge(overlay)
	}
}
