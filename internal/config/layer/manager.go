package layer

import (
	"sort"
	"sync"
)

// Manager holds the configuration layers and provides merged access.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer       // sorted by priority, ascending
	merged map[string]any // cached merge
	dirty  bool
}

// NewManager creates an empty layer manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// Put adds l, replacing any layer with the same name.
func (m *Manager) Put(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.layers {
		if existing.Name == l.Name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			break
		}
	}
	m.layers = append(m.layers, l)
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
	m.dirty = true
}

// Remove removes a layer by name and reports whether it was present.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Name == name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// Layer returns a layer by name, or nil.
func (m *Manager) Layer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Layers returns the layers sorted by priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// Merge combines all layers into a single map. The result is a copy.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneMap(m.mergedLocked())
}

// Get returns the merged value at a dotted path.
func (m *Manager) Get(path string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return GetByPath(m.mergedLocked(), path)
}

// Which returns the name of the highest layer that sets path.
func (m *Manager) Which(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if _, ok := GetByPath(m.layers[i].Data, path); ok {
			return m.layers[i].Name
		}
	}
	return ""
}

func (m *Manager) mergedLocked() map[string]any {
	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		for _, l := range m.layers {
			result = DeepMerge(result, l.Data)
		}
		m.merged = result
		m.dirty = false
	}
	return m.merged
}
