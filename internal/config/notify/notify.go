// Package notify delivers configuration change notifications to observers.
package notify

import "sync"

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a value was removed.
	ChangeDelete

	// ChangeReload indicates the entire configuration was reloaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	// Path is the dot-separated setting path. Empty for reload events.
	Path string

	Type     ChangeType
	OldValue any
	NewValue any

	// Source identifies where the change came from (a file path, "env", ...).
	Source string
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages configuration change subscriptions.
// Observers are called synchronously, outside the notifier lock.
type Notifier struct {
	mu     sync.RWMutex
	global map[uint64]Observer
	paths  map[string]map[uint64]Observer
	nextID uint64
	closed bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{
		global: make(map[uint64]Observer),
		paths:  make(map[string]map[uint64]Observer),
	}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.global[id] = observer
	return &Subscription{id: id, notifier: n}
}

// SubscribePath registers an observer for a path and everything below it.
// Subscribing to "active" receives changes to "active.extraIndent".
// Reload events reach every path observer.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	if n.paths[path] == nil {
		n.paths[path] = make(map[uint64]Observer)
	}
	n.paths[path][id] = observer
	return &Subscription{id: id, notifier: n}
}

// Notify sends a change notification to all matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}

	var observers []Observer
	for _, obs := range n.global {
		observers = append(observers, obs)
	}
	for path, pathObs := range n.paths {
		if change.Path != "" && path != change.Path && !isParentPath(path, change.Path) {
			continue
		}
		for _, obs := range pathObs {
			observers = append(observers, obs)
		}
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// Close stops delivery. It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.global, id)
	for path, observers := range n.paths {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.paths, path)
		}
	}
}

// isParentPath reports whether parent is an ancestor of child.
func isParentPath(parent, child string) bool {
	if parent == "" {
		return true
	}
	return len(child) > len(parent) && child[:len(parent)] == parent && child[len(parent)] == '.'
}
