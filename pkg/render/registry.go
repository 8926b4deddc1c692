package render

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownRenderer is returned by Get for unregistered names.
var ErrUnknownRenderer = errors.New("render: renderer not found")

// Registry maps output format names to renderers. Names match
// case-insensitively. The first renderer registered is the default and
// answers an empty name.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	fallback  string
}

// NewRegistry creates a registry holding renderers, in order.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{renderers: make(map[string]Renderer, len(renderers))}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a renderer under its Name(). Duplicate names are refused.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := normalizeName(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	if r.fallback == "" {
		r.fallback = name
	}
	return nil
}

// Get returns the renderer registered under name, or the default for "".
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := normalizeName(name)
	if key == "" {
		key = r.fallback
	}
	renderer, ok := r.renderers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownRenderer, name, strings.Join(r.names(), ", "))
	}
	return renderer, nil
}

// Default names the renderer used for an empty name.
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	return slices.Sorted(maps.Keys(r.renderers))
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
