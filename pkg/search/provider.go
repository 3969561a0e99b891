package search

import (
	"context"
	"net/http"
	"slices"
	"strings"
)

// Backend performs text searches against a single engine.
type Backend interface {
	Name() string
	Text(ctx context.Context, client *http.Client, params TextParams) ([]TextResult, error)
}

// Registry stores named backends. Registration order is the priority used
// when a search asks for "auto".
type Registry struct {
	backends map[string]Backend
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds a backend, or replaces one with the same name while keeping
// its priority.
func (r *Registry) Register(backend Backend) {
	if r == nil || backend == nil {
		return
	}
	if r.backends == nil {
		r.backends = make(map[string]Backend)
	}
	name := normalizeBackendName(backend.Name())
	if _, exists := r.backends[name]; !exists {
		r.order = append(r.order, name)
	}
	r.backends[name] = backend
}

// Get returns a backend by name, ignoring case and surrounding space.
func (r *Registry) Get(name string) Backend {
	if r == nil {
		return nil
	}
	return r.backends[normalizeBackendName(name)]
}

// Names returns registered backend names in priority order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.order)
}

// Resolve turns a requested backend list into the backends to try, in
// order. "auto" expands to every registered backend in priority order, and
// an empty request means "auto". Repeated names are tried once. Names that
// aren't registered are returned separately.
func (r *Registry) Resolve(requested []string) (backends []Backend, unknown []string) {
	seen := make(map[string]bool)
	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if backend := r.Get(name); backend != nil {
			backends = append(backends, backend)
		} else {
			unknown = append(unknown, name)
		}
	}
	explicit := false
	for _, item := range requested {
		name := normalizeBackendName(item)
		switch name {
		case "":
			continue
		case BackendAuto:
			for _, registered := range r.Names() {
				add(registered)
			}
		default:
			add(name)
		}
		explicit = true
	}
	if !explicit {
		for _, registered := range r.Names() {
			add(registered)
		}
	}
	return backends, unknown
}

func normalizeBackendName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// registerBackends registers the engines in DefaultBackendOrder priority.
func registerBackends(registry *Registry, endpoints Endpoints) {
	registry.Register(&ddgBackend{url: endpoints.DuckDuckGo})
	registry.Register(&googleBackend{url: endpoints.Google})
	registry.Register(&braveBackend{url: endpoints.Brave})
	registry.Register(&bingBackend{url: endpoints.Bing})
}
