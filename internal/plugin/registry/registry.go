// Package registry keeps named plugins of one kind.
package registry

import (
	"maps"
	"slices"
	"sync"
)

// Named is anything with a stable name.
type Named interface {
	Name() string
}

// Set maps plugin names to plugins. It is safe for concurrent use, which
// the HTTP server relies on.
type Set[P Named] struct {
	mu sync.RWMutex
	m  map[string]P
}

// New returns an empty Set.
func New[P Named]() *Set[P] {
	return &Set[P]{m: make(map[string]P)}
}

// Register stores p under p.Name(), replacing any previous entry.
func (s *Set[P]) Register(p P) {
	s.mu.Lock()
	s.m[p.Name()] = p
	s.mu.Unlock()
}

// Get looks a plugin up by name.
func (s *Set[P]) Get(name string) (P, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[name]
	return p, ok
}

// List returns the registered names in order.
func (s *Set[P]) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.m))
}

// All returns a snapshot of the set.
func (s *Set[P]) All() map[string]P {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.m)
}
