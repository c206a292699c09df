package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.Storage using Redis. Each relation maps to one
// hash, with entry keys as hash fields and JSON-encoded StoredEntry
// payloads as hash values.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix for relation hashes.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "lattice:relation:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(relation string) string {
	return s.prefix + relation
}

// Get retrieves the value for key in relation.
func (s *Store) Get(ctx context.Context, relation, key string) (map[string]any, bool, error) {
	raw, err := s.client.HGet(ctx, s.key(relation), key).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get from redis: %w", err)
	}

	entry, err := decodeEntry(raw)
	if err != nil {
		return nil, false, err
	}
	return entry.Value, true, nil
}

// Put persists the entry to the relation's hash.
func (s *Store) Put(ctx context.Context, relation, key string, value map[string]any) error {
	data, err := json.Marshal(domain.StoredEntry{
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	if err := s.client.HSet(ctx, s.key(relation), key, data).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes the entry and reports whether it existed.
func (s *Store) Delete(ctx context.Context, relation, key string) (bool, error) {
	removed, err := s.client.HDel(ctx, s.key(relation), key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete from redis: %w", err)
	}
	return removed > 0, nil
}

// Find returns the relation's values, optionally filtered by field equality.
func (s *Store) Find(ctx context.Context, relation string, filter map[string]any) ([]map[string]any, error) {
	raw, err := s.client.HGetAll(ctx, s.key(relation)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan relation: %w", err)
	}

	values := make([]map[string]any, 0, len(raw))
	for _, data := range raw {
		entry, err := decodeEntry(data)
		if err != nil {
			return nil, err
		}
		if matches(entry.Value, filter) {
			values = append(values, entry.Value)
		}
	}
	return values, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func decodeEntry(raw string) (domain.StoredEntry, error) {
	var entry domain.StoredEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return entry, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return entry, nil
}

func matches(value, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := value[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
