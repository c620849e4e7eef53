package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func parseYAML(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ParseError{Path: source, Line: yamlErrorLine(err), Message: err.Error(), Err: err}
	}
	if config == nil {
		return make(map[string]any), nil
	}
	return normalize(config).(map[string]any), nil
}

// yamlErrorLine extracts the line from "yaml: line N: ..." messages.
func yamlErrorLine(err error) int {
	var line int
	if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr != nil {
		return 0
	}
	return line
}

// normalize turns yaml's int and map[any]any values into the shapes the
// TOML loader produces.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	case int:
		return int64(val)
	default:
		return v
	}
}
