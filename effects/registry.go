package effects

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-ledviz/config"
)

// Registry maps effect names to renderers.
type Registry struct {
	renderers map[string]Renderer
}

var errDuplicateEffect = errors.New("duplicate effect name")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// DefaultRegistry returns a Registry holding bars, pulse and doublebars.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Bars{})
	r.MustRegister(Pulse{})
	r.MustRegister(DoubleBars{})

	return r
}

// Register adds a renderer under its own name.
func (r *Registry) Register(rd Renderer) error {
	if rd == nil {
		return errors.New("nil renderer")
	}

	name := rd.Name()
	if name == "" {
		return errors.New("empty effect name")
	}

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, name)
	}

	r.renderers[name] = rd

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(rd Renderer) {
	err := r.Register(rd)
	if err != nil {
		panic("effects registry: " + err.Error())
	}
}

// Lookup returns the renderer registered under name.
func (r *Registry) Lookup(name string) (Renderer, bool) {
	rd, ok := r.renderers[name]
	return rd, ok
}

// Resolve is like Lookup but reports unknown names as config.ErrUnknownEffect.
func (r *Registry) Resolve(name string) (Renderer, error) {
	rd, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownEffect, name)
	}

	return rd, nil
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
