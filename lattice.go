package lattice

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	nethttp "net/http"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/adapters/http"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// Runtime is the high-level entry point for the Lattice library.
// It bundles the concept registry with a transport backend and provides a
// simplified API for consumers.
type Runtime struct {
	registry *registry.Registry
	backend  http.BackendKind
	addr     string
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithRegistry injects a pre-populated registry, bypassing the default
// empty one.
func WithRegistry(reg *registry.Registry) Option {
	return func(rt *Runtime) {
		rt.registry = reg
	}
}

// WithBackend selects the transport backend kind (concurrent or serial).
func WithBackend(kind http.BackendKind) Option {
	return func(rt *Runtime) {
		rt.backend = kind
	}
}

// WithAddr sets the bind address for ListenAndServe.
func WithAddr(addr string) Option {
	return func(rt *Runtime) {
		rt.addr = addr
	}
}

// WithLogger sets a custom structured logger for the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// New initializes a new Lattice Runtime.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		backend: http.BackendConcurrent,
		addr:    ":8787",
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.registry == nil {
		rt.registry = registry.New()
	}
	if rt.logger == nil {
		rt.logger = logging.NewNop()
	}
	return rt
}

// Register binds a concept identifier to a handler. Options allow
// supplying a caller-owned storage instance.
func (rt *Runtime) Register(conceptID string, h ports.Handler, opts ...registry.Option) {
	rt.registry.Register(conceptID, h, opts...)
}

// Registry exposes the underlying registry, mainly for tests.
func (rt *Runtime) Registry() *registry.Registry {
	return rt.registry
}

// Invoke dispatches an invocation against the local registry without
// going through the transport. Dispatch failures come back inside the
// completion; only an unregistered concept is a Go error.
func (rt *Runtime) Invoke(ctx context.Context, inv domain.ActionInvocation) (domain.ActionCompletion, error) {
	inv.Normalize()

	binding, ok := rt.registry.Lookup(inv.Concept)
	if !ok {
		return domain.ActionCompletion{}, fmt.Errorf("%w: %s", domain.ErrConceptNotFound, inv.Concept)
	}

	output := runtime.Dispatch(ctx, binding.Handler, binding.Storage, inv.Action, inv.Input)
	return domain.NewCompletion(&inv, output), nil
}

// Handler returns the protocol handler, for embedding into an existing
// server or test harness.
func (rt *Runtime) Handler() nethttp.Handler {
	return http.NewHandler(rt.registry, http.WithLogger(rt.logger))
}

// ListenAndServe binds the configured address and serves the protocol
// until ctx is cancelled, then shuts down gracefully.
func (rt *Runtime) ListenAndServe(ctx context.Context) error {
	backend, err := http.NewBackend(rt.backend, rt.Handler())
	if err != nil {
		return err
	}

	l, err := net.Listen("tcp", rt.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", rt.addr, err)
	}

	serveErrors := make(chan error, 1)
	go func() {
		serveErrors <- backend.Serve(l)
	}()

	rt.logger.Info("serving", "addr", l.Addr().String(), "backend", string(rt.backend))

	select {
	case err := <-serveErrors:
		return err
	case <-ctx.Done():
		return backend.Shutdown(context.Background())
	}
}

// DecodeInput binds an open input payload to a typed struct, honoring
// json field tags. Concrete handlers use it to avoid hand-written map
// plumbing.
func DecodeInput(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}
	return nil
}
