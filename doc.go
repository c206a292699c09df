/*
Package lattice is a minimal runtime that lets a Go process participate in a
distributed concept sync system: it receives ActionInvocations over a small
JSON wire protocol, dispatches them to locally registered handlers backed by
per-concept relation storage, and answers out-of-band queries against that
storage.

# Concept

A concept is a named unit of business logic identified by a URI-like string.
Each concept binds one handler (a table of named action operations) to one
storage instance (relations of key-unique values). The surrounding sync
engine originates invocations and consumes completions; this runtime only
speaks the protocol boundary. This Hexagonal Architecture keeps the dispatch
core decoupled from storage backends (in-memory, Redis, or externally
supplied) and from the transport backends (concurrent or serial serving).

# Key Properties

  - Contract-checked dispatch: unknown actions, non-conforming operations,
    and malformed results all degrade to error-variant completions, never
    crashes.
  - Domain errors ride inside completions: HTTP status stays 200 for every
    successfully routed invocation regardless of outcome.
  - Interchangeable backends: the concurrent and serial servers produce
    identical bodies for identical inputs.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/lattice"
		"github.com/aretw0/lattice/pkg/ports"
	)

	func main() {
		rt := lattice.New(lattice.WithAddr(":8787"))

		rt.Register("urn:example/Echo", ports.ActionMap{
			"echo": ports.ActionFunc(func(ctx context.Context, input map[string]any, st ports.Storage) (map[string]any, error) {
				return map[string]any{"variant": "ok", "message": input["message"]}, nil
			}),
		})

		if err := rt.ListenAndServe(context.Background()); err != nil {
			log.Fatal(err)
		}
	}
*/
package lattice
