// Package runtime implements action dispatch: resolving an action name in a
// handler's table, invoking it against the concept's storage, and
// normalizing every failure mode into a well-formed output payload.
package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Dispatch resolves action in the handler's table and executes it with
// (input, storage). It never fails: contract violations (unknown action,
// non-conforming operation, malformed result) and operation errors all
// come back as error-variant payloads, while a domain-level error variant
// returned by the operation itself passes through unchanged.
func Dispatch(ctx context.Context, h ports.Handler, st ports.Storage, action string, input map[string]any) (output map[string]any) {
	op, declared := h.Actions()[action]
	if !declared {
		return domain.ErrorOutput(fmt.Sprintf("Unknown action: %s", action))
	}

	fn, ok := op.(ports.ActionFunc)
	if !ok {
		// Also accept the raw function type so handlers need not cast.
		raw, rawOK := op.(func(context.Context, map[string]any, ports.Storage) (map[string]any, error))
		if !rawOK {
			return domain.ErrorOutput(fmt.Sprintf("Action '%s' must be async", action))
		}
		fn = raw
	}

	// A panicking operation must not take down the server; it degrades to
	// an error-variant completion like any other operation failure.
	defer func() {
		if r := recover(); r != nil {
			output = domain.ErrorOutput(fmt.Sprintf("Action '%s' panicked: %v", action, r))
		}
	}()

	result, err := fn(ctx, input, st)
	if err != nil {
		return domain.ErrorOutput(err.Error())
	}

	if _, hasVariant := result["variant"]; !hasVariant {
		return domain.ErrorOutput(fmt.Sprintf("Action '%s' must return dict with 'variant' key", action))
	}

	return result
}
