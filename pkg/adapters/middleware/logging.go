package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/lattice/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.Storage
	logger *slog.Logger
}

// NewLoggingMiddleware creates a middleware that logs every storage
// operation with its relation, outcome and duration at Debug level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.Storage) ports.Storage {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Get(ctx context.Context, relation, key string) (map[string]any, bool, error) {
	start := time.Now()
	value, ok, err := m.next.Get(ctx, relation, key)
	m.log(ctx, "get", relation, start, err, "key", key, "found", ok)
	return value, ok, err
}

func (m *loggingMiddleware) Put(ctx context.Context, relation, key string, value map[string]any) error {
	start := time.Now()
	err := m.next.Put(ctx, relation, key, value)
	m.log(ctx, "put", relation, start, err, "key", key)
	return err
}

func (m *loggingMiddleware) Delete(ctx context.Context, relation, key string) (bool, error) {
	start := time.Now()
	existed, err := m.next.Delete(ctx, relation, key)
	m.log(ctx, "delete", relation, start, err, "key", key, "existed", existed)
	return existed, err
}

func (m *loggingMiddleware) Find(ctx context.Context, relation string, filter map[string]any) ([]map[string]any, error) {
	start := time.Now()
	values, err := m.next.Find(ctx, relation, filter)
	m.log(ctx, "find", relation, start, err, "results", len(values))
	return values, err
}

func (m *loggingMiddleware) log(ctx context.Context, op, relation string, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "relation", relation, "duration", time.Since(start))
	if err != nil {
		attrs = append(attrs, "err", err)
		m.logger.ErrorContext(ctx, "storage", attrs...)
		return
	}
	m.logger.DebugContext(ctx, "storage", attrs...)
}
