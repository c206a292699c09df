// Package registry maps concept identifiers to their bound handler and
// storage instances. The registry is an explicit object constructed at
// startup and passed into the transport, not hidden global state.
package registry

import (
	"sync"

	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/ports"
)

// Binding pairs a concept's handler with its storage instance.
type Binding struct {
	Handler ports.Handler
	Storage ports.Storage
}

// Registry manages concept bindings. It is populated by registration calls
// at startup and read continuously while serving; a RWMutex makes
// registration concurrent with serving safe.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		bindings: make(map[string]Binding),
	}
}

// Option configures a single registration.
type Option func(*Binding)

// WithStorage binds a caller-supplied storage instance instead of a fresh
// in-memory default. Supplying the same instance to several concepts
// shares it between them.
func WithStorage(st ports.Storage) Option {
	return func(b *Binding) {
		b.Storage = st
	}
}

// Register binds a concept identifier to a handler. If a binding with the
// same identifier exists, it is overwritten. Without WithStorage, the
// concept gets a dedicated in-memory store.
func (r *Registry) Register(conceptID string, h ports.Handler, opts ...Option) {
	binding := Binding{Handler: h}
	for _, opt := range opts {
		opt(&binding)
	}
	if binding.Storage == nil {
		binding.Storage = memory.NewStore()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[conceptID] = binding
}

// Lookup resolves a concept identifier, reporting whether it is bound.
func (r *Registry) Lookup(conceptID string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[conceptID]
	return b, ok
}

// Concepts returns the identifiers currently bound.
func (r *Registry) Concepts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.bindings))
	for id := range r.bindings {
		ids = append(ids, id)
	}
	return ids
}

// Clear empties all bindings. Test support only; nothing on the serving
// path calls it.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = make(map[string]Binding)
}
