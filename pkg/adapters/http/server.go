// Package http exposes the Lattice runtime over a JSON wire protocol.
//
// Routing, decoding, and encoding live in one handler shared by both
// server backends, so concurrent and serial serving produce identical
// bodies for identical inputs.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
	"github.com/go-chi/chi/v5"
)

// Server routes protocol requests through the registry to handler dispatch.
type Server struct {
	Registry *registry.Registry
	Logger   *slog.Logger
	Metrics  *Metrics
}

// Option configures the server handler.
type Option func(*Server)

// WithLogger sets the structured logger for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics sets the metrics collection for the handler.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// NewHandler creates the HTTP handler for a registry.
func NewHandler(reg *registry.Registry, opts ...Option) http.Handler {
	server := &Server{Registry: reg}
	for _, opt := range opts {
		opt(server)
	}
	if server.Logger == nil {
		server.Logger = logging.NewNop()
	}
	if server.Metrics == nil {
		server.Metrics = NewMetrics()
	}

	r := chi.NewRouter()
	r.Use(server.Metrics.Middleware)

	r.Post("/invoke", server.Invoke)
	r.Post("/query", server.Query)
	r.Get("/health", server.Health)
	r.Get("/metrics", server.Metrics.ServeHTTP)

	return r
}

// Invoke handles the POST /invoke request. Routing and dispatch failures
// are encoded as error-variant completions with HTTP 200; only a
// malformed body fails the request itself.
func (s *Server) Invoke(w http.ResponseWriter, r *http.Request) {
	var inv domain.ActionInvocation
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	inv.Normalize()

	var output map[string]any
	binding, ok := s.Registry.Lookup(inv.Concept)
	if !ok {
		output = domain.ErrorOutput(fmt.Sprintf("Unknown concept: %s", inv.Concept))
	} else {
		output = runtime.Dispatch(r.Context(), binding.Handler, binding.Storage, inv.Action, inv.Input)
	}

	completion := domain.NewCompletion(&inv, output)
	s.Logger.Info("invoke",
		"concept", inv.Concept,
		"action", inv.Action,
		"variant", completion.Variant,
		"flow", inv.Flow,
	)

	s.writeJSON(w, completion)
}

// Query handles the POST /query request. An unknown concept yields an
// empty result list, not an error.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var q domain.ConceptQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	values := []map[string]any{}
	if binding, ok := s.Registry.Lookup(q.Concept); ok {
		found, err := binding.Storage.Find(r.Context(), q.Relation, q.Args)
		if err != nil {
			http.Error(w, fmt.Sprintf("Query error: %v", err), http.StatusInternalServerError)
			return
		}
		if found != nil {
			values = found
		}
	}

	s.Logger.Info("query",
		"concept", q.Concept,
		"relation", q.Relation,
		"results", len(values),
	)

	s.writeJSON(w, values)
}

// HealthResponse is the static liveness payload.
type HealthResponse struct {
	Healthy   bool `json:"healthy"`
	LatencyMs int  `json:"latencyMs"`
}

// Health handles the GET /health request. It never fails and checks no
// dependencies.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, HealthResponse{Healthy: true, LatencyMs: 0})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing left to signal to the client.
		s.Logger.Error("response encode failed", "err", err)
	}
}
