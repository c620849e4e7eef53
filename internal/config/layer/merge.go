package layer

import "strings"

// DeepMerge recursively merges src into dst.
// Maps are merged recursively; other values in src replace those in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}
	return dst
}

// GetByPath retrieves a value from a nested map using a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}

	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetByPath sets a value in a nested map using a dot-separated path,
// creating intermediate maps as needed.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil || path == "" {
		return
	}

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

// FlattenMap flattens a nested map into dot-separated keys.
func FlattenMap(data map[string]any) map[string]any {
	result := make(map[string]any)
	flatten(data, "", result)
	return result
}

func flatten(data map[string]any, prefix string, result map[string]any) {
	for key, val := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flatten(nested, full, result)
			continue
		}
		result[full] = val
	}
}

// Diff returns the flattened paths whose values differ between old and new,
// including paths present in only one of them.
func Diff(old, new map[string]any) []string {
	oldFlat := FlattenMap(old)
	newFlat := FlattenMap(new)

	var changed []string
	for path, newVal := range newFlat {
		if oldVal, ok := oldFlat[path]; !ok || !valuesEqual(oldVal, newVal) {
			changed = append(changed, path)
		}
	}
	for path := range oldFlat {
		if _, ok := newFlat[path]; !ok {
			changed = append(changed, path)
		}
	}
	return changed
}

func valuesEqual(a, b any) bool {
	switch va := a.(type) {
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !valuesEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	case []string:
		vb, ok := b.([]string)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if va[i] != vb[i] {
				return false
			}
		}
		return true
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k := range va {
			if !valuesEqual(va[k], vb[k]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
