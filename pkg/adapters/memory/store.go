package memory

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
)

// Store implements ports.Storage in memory. It is the reference storage
// backend: relations are created lazily on first access and live for the
// lifetime of the instance.
// Safe for concurrent use.
type Store struct {
	relations map[string]map[string]domain.StoredEntry
	mu        sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		relations: make(map[string]map[string]domain.StoredEntry),
	}
}

// Get returns the value for key in relation, reporting presence.
func (s *Store) Get(ctx context.Context, relation, key string) (map[string]any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.relations[relation][key]
	if !ok {
		return nil, false, nil
	}
	return copyValue(entry.Value), true, nil
}

// Put inserts or overwrites the entry and refreshes its timestamp.
func (s *Store) Put(ctx context.Context, relation, key string, value map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, ok := s.relations[relation]
	if !ok {
		rel = make(map[string]domain.StoredEntry)
		s.relations[relation] = rel
	}
	rel[key] = domain.StoredEntry{
		Value:     copyValue(value),
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

// Delete removes the entry if present and reports whether it existed.
func (s *Store) Delete(ctx context.Context, relation, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, ok := s.relations[relation]
	if !ok {
		return false, nil
	}
	if _, ok := rel[key]; !ok {
		return false, nil
	}
	delete(rel, key)
	return true, nil
}

// Find returns the relation's values, optionally filtered by field equality.
func (s *Store) Find(ctx context.Context, relation string, filter map[string]any) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([]map[string]any, 0, len(s.relations[relation]))
	for _, entry := range s.relations[relation] {
		if matches(entry.Value, filter) {
			values = append(values, copyValue(entry.Value))
		}
	}
	return values, nil
}

// matches reports whether value carries every filter key with an equal field.
// Equality against an absent field never matches.
func matches(value, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := value[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// copyValue shallow-copies an entry so callers can't mutate store state
// through a shared map.
func copyValue(value map[string]any) map[string]any {
	out := make(map[string]any, len(value))
	for k, v := range value {
		out[k] = v
	}
	return out
}
