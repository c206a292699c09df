// Package middleware provides composable decorators for ports.Storage.
package middleware

import "github.com/aretw0/lattice/pkg/ports"

// Middleware allows wrapping a Storage to add behavior.
type Middleware func(ports.Storage) ports.Storage

// Chain applies middlewares outermost-first, so the first middleware sees
// every operation before the wrapped ones.
func Chain(st ports.Storage, mws ...Middleware) ports.Storage {
	for i := len(mws) - 1; i >= 0; i-- {
		st = mws[i](st)
	}
	return st
}
