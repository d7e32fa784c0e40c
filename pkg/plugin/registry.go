package plugin

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry holds installed plugins in registration order.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	byName  map[string]int
	domains map[string]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]int),
		domains: make(map[string]string),
	}
}

// Register validates p and appends it to the registry.
func (r *Registry) Register(p Plugin) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[p.name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.name)
	}
	if p.kind == KindDomain {
		domain := strings.ToLower(p.domain.Domain())
		if owner, claimed := r.domains[domain]; claimed {
			return fmt.Errorf("%w: %s (claimed by %s)", ErrDuplicateDomain, domain, owner)
		}
		r.domains[domain] = p.name
	}

	r.byName[p.name] = len(r.plugins)
	r.plugins = append(r.plugins, p)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(plugins ...Plugin) {
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
}

// Get returns the plugin registered under name.
func (r *Registry) Get(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byName[name]
	if !ok {
		return Plugin{}, fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}
	return r.plugins[i], nil
}

// Plugins returns all plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.plugins)
}

// ByKind returns the plugins of kind k in registration order.
func (r *Registry) ByKind(k Kind) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Plugin
	for _, p := range r.plugins {
		if p.kind == k {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}
