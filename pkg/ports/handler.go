package ports

import "context"

// ActionFunc is the signature every concept action must conform to.
// It receives the open input payload and the concept's bound storage, and
// returns an output payload that must contain a "variant" key.
type ActionFunc func(ctx context.Context, input map[string]any, st Storage) (map[string]any, error)

// Handler declares a concept's named action operations.
//
// The table maps action names to operations. Entries are declared as `any`
// so the dispatch layer can distinguish a missing action from a declared
// operation that does not conform to ActionFunc; the latter is a contract
// violation surfaced to callers, not a crash.
type Handler interface {
	Actions() map[string]any
}

// ActionMap is a convenience Handler for concepts built from plain
// function tables.
type ActionMap map[string]any

// Actions implements Handler.
func (m ActionMap) Actions() map[string]any { return m }
