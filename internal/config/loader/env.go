package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from prefixed environment variables.
//
// GUIDES_LIMIT_MAXIMUM maps to limit.maximum and GUIDES_ACTIVE_EXTRA_INDENT
// to active.extraIndent: the first word is the section and the rest form a
// camelCase key. Single-word names map to top-level keys.
type EnvLoader struct {
	prefix  string            // including the trailing underscore
	mapping map[string]string // explicit env var -> config path
	environ func() []string
}

// NewEnvLoader creates a loader for variables starting with prefix.
func NewEnvLoader(prefix string) *EnvLoader {
	if prefix != "" && !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// defaultEnvMapping covers keys that do not follow the section rule.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "UPDATE_DELAY": "updateDelay",
		prefix + "TAB_SIZE":     "tabSize",
		prefix + "LOG_LEVEL":    "logging.level",
		prefix + "FIRST_INDENT": "indent.firstIndent",
		prefix + "BACKGROUNDS":  "indent.backgrounds",
		prefix + "LIMIT":        "limit.maximum",
	}
}

// AddMapping adds an explicit environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load reads the environment. Empty values are kept as empty strings.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		setByPath(config, path, parseValue(value))
	}
	return config, nil
}

// envToPath converts GUIDES_ACTIVE_EXTRA_INDENT to active.extraIndent.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(strings.ToLower(name), "_")
	if parts[0] == "" {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}

	key := parts[1]
	for _, p := range parts[2:] {
		if p != "" {
			key += strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return parts[0] + "." + key
}

// parseValue converts an environment string into a bool, number, JSON
// array or object, falling back to the string itself.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}

func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
