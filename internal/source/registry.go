package source

import (
	"fmt"

	"NewsDashboard/internal/config"
	"NewsDashboard/internal/ports"
)

// Builder constructs a source from its configuration entry.
type Builder func(cfg config.SourceConfig) (ports.NewsSource, error)

// Registry keeps a mapping from source kinds to their builders.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: map[string]Builder{}}
}

// Register adds or replaces a builder for a source kind.
func (r *Registry) Register(kind string, builder Builder) {
	if r.builders == nil {
		r.builders = map[string]Builder{}
	}
	r.builders[kind] = builder
}

// Build resolves each configured source through its registered builder.
func (r *Registry) Build(cfgs []config.SourceConfig) ([]ports.NewsSource, error) {
	sources := make([]ports.NewsSource, 0, len(cfgs))
	for _, cfg := range cfgs {
		builder, ok := r.builders[cfg.Kind]
		if !ok {
			return nil, fmt.Errorf("source %s: kind %q is not registered", cfg.Name, cfg.Kind)
		}
		src, err := builder(cfg)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", cfg.Name, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}
