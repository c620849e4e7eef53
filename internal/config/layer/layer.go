// Package layer holds the configuration sources of the guides engine and
// merges them by priority. Higher priority layers override lower ones.
package layer

import "time"

// Layer is a single configuration source.
type Layer struct {
	// Name identifies the layer ("defaults", "user", "project", ...).
	Name string

	// Priority determines merge order (higher overrides lower).
	Priority int

	// Source indicates where this layer was loaded from.
	Source Source

	// Path is the file path when loaded from a file.
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any

	// ModTime is when the layer was loaded.
	ModTime time.Time
}

// NewLayer creates a layer holding data. A nil map is replaced by an empty one.
func NewLayer(name string, source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: DefaultPriority(source),
		Data:     data,
		ModTime:  time.Now(),
	}
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		Name:     l.Name,
		Priority: l.Priority,
		Source:   l.Source,
		Path:     l.Path,
		Data:     cloneMap(l.Data),
		ModTime:  l.ModTime,
	}
}

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin is the built-in defaults.
	SourceBuiltin Source = iota
	// SourceUser is the user config file (~/.config/guides/).
	SourceUser
	// SourceProject is the project config file (.guides.toml).
	SourceProject
	// SourceEnv is GUIDES_* environment variables.
	SourceEnv
	// SourceArgs is command-line flags.
	SourceArgs
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceUser:
		return "user"
	case SourceProject:
		return "project"
	case SourceEnv:
		return "environment"
	case SourceArgs:
		return "arguments"
	default:
		return "unknown"
	}
}

// Standard priorities.
const (
	PriorityBuiltin = 0
	PriorityUser    = 100
	PriorityProject = 200
	PriorityEnv     = 500
	PriorityArgs    = 600
)

// DefaultPriority returns the default priority for a given source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceUser:
		return PriorityUser
	case SourceProject:
		return PriorityProject
	case SourceEnv:
		return PriorityEnv
	case SourceArgs:
		return PriorityArgs
	default:
		return PriorityBuiltin
	}
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneSlice(src []any) []any {
	if src == nil {
		return nil
	}
	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		return cloneSlice(v)
	case []string:
		return append([]string(nil), v...)
	default:
		return val
	}
}
