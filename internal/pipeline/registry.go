package pipeline

import (
	"fmt"
	"sort"
	"strings"

	apperrors "docpipe/pkg/errors"
)

// Definition names a processor type and carries its raw configuration, the
// shape a pipeline definition file decodes into.
type Definition struct {
	Type   string
	Config map[string]interface{}
}

// Registry maps processor type names to their factories. Registration
// happens once at startup; afterwards the registry is read-only and safe for
// concurrent use.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

func (r *Registry) Factory(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Types returns the registered processor type names, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for name := range r.factories {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// Build constructs the processor sequence for the given definitions. The
// config maps are copied before the factories consume them, so a definition
// can be built more than once.
func (r *Registry) Build(defs []Definition) ([]Processor, error) {
	processors := make([]Processor, 0, len(defs))
	for _, def := range defs {
		factory, ok := r.factories[def.Type]
		if !ok {
			return nil, apperrors.ErrInvalidConfigValue.WithMessagef(
				"unknown processor type [%s]. valid values are [%s]",
				def.Type, strings.Join(r.Types(), ", "))
		}
		config := make(map[string]interface{}, len(def.Config))
		for k, v := range def.Config {
			config[k] = v
		}
		processor, err := factory.Create(config)
		if err != nil {
			return nil, fmt.Errorf("failed to build processor [%s]: %w", def.Type, err)
		}
		processors = append(processors, processor)
	}
	return processors, nil
}
