package converter

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/tisseltassel/tisseltassel/internal/config"
)

// ErrUnknownKind is returned when a configuration entry names a converter kind no constructor is registered for.
var ErrUnknownKind = errors.New("unknown converter kind")

// Constructor builds a converter from its configuration entry.
type Constructor func(entry config.ConverterEntry) (Converter, error)

// Factory maps converter kinds to constructors, and assembles registries from configuration.
// NewFactory should be used to create instances of Factory.
type Factory struct {
	constructors map[string]Constructor
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{constructors: map[string]Constructor{}}
}

// Register associates a kind with its constructor.
// Kinds are case-insensitive and may only be registered once.
func (f *Factory) Register(kind string, ctor Constructor) error {
	kind = normalizeKind(kind)
	if kind == "" {
		return fmt.Errorf("converter kind cannot be empty")
	}
	if ctor == nil {
		return fmt.Errorf("constructor for converter kind '%s' cannot be nil", kind)
	}
	if _, exists := f.constructors[kind]; exists {
		return fmt.Errorf("converter kind '%s' already registered", kind)
	}
	f.constructors[kind] = ctor
	return nil
}

// Kinds returns the sorted list of registered kinds.
func (f *Factory) Kinds() []string {
	return slices.Sorted(maps.Keys(f.constructors))
}

// Build constructs a converter for each entry and returns them as a registry.
func (f *Factory) Build(entries ...config.ConverterEntry) (*Registry, error) {
	converters := make([]Converter, 0, len(entries))

	for _, entry := range entries {
		ctor, ok := f.constructors[normalizeKind(entry.Kind)]
		if !ok {
			return nil, fmt.Errorf(
				"%w: '%s' for converter '%s' (available: %s)",
				ErrUnknownKind,
				entry.Kind,
				entry.Name,
				strings.Join(f.Kinds(), ", "),
			)
		}

		c, err := ctor(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to create converter '%s': %w", entry.Name, err)
		}
		converters = append(converters, c)
	}

	return NewRegistry(converters...)
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

// Builder assembles a registry from configuration entries.
type Builder interface {
	Build(entries ...config.ConverterEntry) (*Registry, error)
}

var _ Builder = (*Factory)(nil)
