package generation

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Registry maps provider names to generators.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	fallback   string
}

// NewRegistry creates an empty registry. The first registered provider
// becomes the default until SetDefault is called.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// Register adds g under name, replacing any previous entry. Names are case-insensitive.
func (r *Registry) Register(name string, g Generator) {
	key := strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[key] = g
	if r.fallback == "" {
		r.fallback = key
	}
}

// SetDefault picks the provider used for requests that name none.
func (r *Registry) SetDefault(name string) error {
	key := strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.generators[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	r.fallback = key
	return nil
}

// Get returns the generator registered under name, or the default one for
// an empty name.
func (r *Registry) Get(name string) (Generator, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	defer r.mu.RUnlock()
	if key == "" {
		key = r.fallback
	}
	g, ok := r.generators[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return g, nil
}

// Names lists registered providers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.generators))
}
