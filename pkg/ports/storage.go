package ports

import "context"

// Storage defines the interface for a concept's per-relation key/value store.
// Relations are created lazily on first access and never explicitly
// destroyed within an instance's lifetime.
type Storage interface {
	// Get returns the current value for key in relation. The boolean
	// reports presence; a missing key is not an error.
	Get(ctx context.Context, relation, key string) (map[string]any, bool, error)

	// Put inserts or overwrites the entry and refreshes its
	// last-written timestamp.
	Put(ctx context.Context, relation, key string, value map[string]any) error

	// Delete removes the entry if present and reports whether it existed.
	// Deleting a missing key returns false, no error.
	Delete(ctx context.Context, relation, key string) (bool, error)

	// Find returns all values in the relation when filter is empty;
	// otherwise only values where every filter key equals the
	// corresponding field. A value missing a filtered key never matches.
	// An unwritten relation yields an empty slice, never an error.
	Find(ctx context.Context, relation string, filter map[string]any) ([]map[string]any, error)
}
