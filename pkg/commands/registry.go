package commands

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// HandlerFunc handles one command invocation.
type HandlerFunc func(ce *Event) Outcome

// Definition describes a chat command.
type Definition struct {
	Name        string
	Description string
	Args        string
	Aliases     []string
	Examples    []string
	// OutputPrefix is prepended to everything the handler sends.
	OutputPrefix string
	Handler      HandlerFunc
}

// Run invokes the handler with the definition's output prefix applied.
func (d *Definition) Run(ce *Event) Outcome {
	if d.OutputPrefix != "" {
		wrapped := *ce
		wrapped.Responder = WithOutputPrefix(d.OutputPrefix, ce.Responder)
		ce = &wrapped
	}
	return d.Handler(ce)
}

// Registry collects command definitions for dispatch.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*Definition
	aliases  map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]*Definition),
		aliases:  make(map[string]string),
	}
}

// Register adds a command definition to the registry and returns it.
func (r *Registry) Register(def Definition) *Definition {
	if def.Name == "" || def.Handler == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := &def
	name := strings.ToLower(def.Name)
	r.handlers[name] = stored
	for _, alias := range def.Aliases {
		r.aliases[strings.ToLower(alias)] = name
	}
	return stored
}

// Get retrieves a definition by name or alias, case-insensitively.
func (r *Registry) Get(name string) *Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.ToLower(name)
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	return r.handlers[name]
}

// All returns all definitions sorted by name.
func (r *Registry) All() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*Definition, 0, len(r.handlers))
	for _, def := range r.handlers {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b *Definition) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return defs
}

// Names returns all registered command names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
