package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Config holds the backend-agnostic construction parameters. Each
// constructor reads the fields it understands and ignores the rest.
type Config struct {
	// APIKey is the resolved credential for the backend
	APIKey string

	// BaseURL overrides the backend's default endpoint when set
	BaseURL string
}

// Constructor builds a ChatService from a Config
type Constructor func(cfg Config) (ChatService, error)

// Registry maps backend kinds to their constructors. Backends are selected
// by a runtime key from provider configuration, not by compile-time type.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates an empty backend registry
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register adds a constructor for the given kind, replacing any previous one
func (r *Registry) Register(kind string, fn Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.constructors[kind] = fn
}

// New constructs a ChatService for the given kind
func (r *Registry) New(kind string, cfg Config) (ChatService, error) {
	r.mu.RLock()
	fn, ok := r.constructors[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	return fn(cfg)
}

// Has reports whether a constructor is registered for the given kind
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.constructors[kind]
	return ok
}

// Kinds returns the registered backend kinds in sorted order
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.constructors))
	for kind := range r.constructors {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	return kinds
}
