package converter

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// ErrDuplicateName is returned when two converters are registered under the same name.
var ErrDuplicateName = errors.New("duplicate converter name")

// Registry maps API type names to converters.
// It is assembled once at startup and never mutated afterward, so it is safe for concurrent use.
// NewRegistry should be used to create instances of Registry.
type Registry struct {
	converters map[string]Converter
}

// NewRegistry creates a registry from the supplied converters.
// Names must be non-empty and unique.
func NewRegistry(converters ...Converter) (*Registry, error) {
	r := &Registry{converters: make(map[string]Converter, len(converters))}

	for _, c := range converters {
		if c == nil || reflect.ValueOf(c).IsNil() {
			return nil, fmt.Errorf("converter cannot be nil")
		}
		name := c.Name()
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("converter name cannot be empty")
		}
		if _, exists := r.converters[name]; exists {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateName, name)
		}
		r.converters[name] = c
	}

	return r, nil
}

// Converter returns the converter registered under name, and whether it exists.
// Names are case-sensitive.
func (r *Registry) Converter(name string) (Converter, bool) {
	c, ok := r.converters[name]
	return c, ok
}

// Names returns the sorted names of all registered converters.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.converters))
}

// List returns all registered converters sorted by name.
func (r *Registry) List() []Converter {
	names := r.Names()
	out := make([]Converter, 0, len(names))
	for _, n := range names {
		out = append(out, r.converters[n])
	}
	return out
}

// Len returns the number of registered converters.
func (r *Registry) Len() int {
	return len(r.converters)
}
