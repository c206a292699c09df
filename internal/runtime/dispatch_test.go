package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler() ports.Handler {
	return ports.ActionMap{
		"echo": ports.ActionFunc(func(ctx context.Context, input map[string]any, st ports.Storage) (map[string]any, error) {
			return map[string]any{"variant": "ok", "message": input["message"]}, nil
		}),
		// Declared but does not conform to the action signature.
		"blocking": func(input map[string]any) map[string]any {
			return map[string]any{"variant": "ok"}
		},
		"noVariant": ports.ActionFunc(func(ctx context.Context, input map[string]any, st ports.Storage) (map[string]any, error) {
			return map[string]any{"message": "oops"}, nil
		}),
		"reject": ports.ActionFunc(func(ctx context.Context, input map[string]any, st ports.Storage) (map[string]any, error) {
			return map[string]any{"variant": "error", "message": "domain said no"}, nil
		}),
		"fail": ports.ActionFunc(func(ctx context.Context, input map[string]any, st ports.Storage) (map[string]any, error) {
			return nil, errors.New("backend unavailable")
		}),
		"explode": ports.ActionFunc(func(ctx context.Context, input map[string]any, st ports.Storage) (map[string]any, error) {
			panic("boom")
		}),
	}
}

func dispatch(t *testing.T, action string, input map[string]any) map[string]any {
	t.Helper()
	return runtime.Dispatch(context.Background(), echoHandler(), memory.NewStore(), action, input)
}

func TestDispatch_Invoke(t *testing.T) {
	out := dispatch(t, "echo", map[string]any{"message": "hi"})
	assert.Equal(t, map[string]any{"variant": "ok", "message": "hi"}, out)
}

func TestDispatch_UnknownAction(t *testing.T) {
	out := dispatch(t, "vanish", nil)
	assert.Equal(t, "error", out["variant"])
	assert.Contains(t, out["message"], "Unknown action: vanish")
}

func TestDispatch_NonConformingAction(t *testing.T) {
	out := dispatch(t, "blocking", nil)
	assert.Equal(t, "error", out["variant"])
	assert.Contains(t, out["message"], "must be async")
}

func TestDispatch_MissingVariant(t *testing.T) {
	out := dispatch(t, "noVariant", nil)
	assert.Equal(t, "error", out["variant"])
	assert.Contains(t, out["message"], "must return dict with 'variant' key")
}

func TestDispatch_DomainErrorPassesThrough(t *testing.T) {
	out := dispatch(t, "reject", nil)
	// The operation's own error variant is not rewritten.
	assert.Equal(t, map[string]any{"variant": "error", "message": "domain said no"}, out)
}

func TestDispatch_OperationError(t *testing.T) {
	out := dispatch(t, "fail", nil)
	assert.Equal(t, "error", out["variant"])
	assert.Contains(t, out["message"], "backend unavailable")
}

func TestDispatch_PanicRecovered(t *testing.T) {
	out := dispatch(t, "explode", nil)
	assert.Equal(t, "error", out["variant"])
	assert.Contains(t, out["message"], "boom")
}

func TestDispatch_StorageBound(t *testing.T) {
	st := memory.NewStore()
	h := ports.ActionMap{
		"save": ports.ActionFunc(func(ctx context.Context, input map[string]any, st ports.Storage) (map[string]any, error) {
			if err := st.Put(ctx, "notes", "n1", input); err != nil {
				return nil, err
			}
			return map[string]any{"variant": "ok"}, nil
		}),
	}

	out := runtime.Dispatch(context.Background(), h, st, "save", map[string]any{"text": "remember"})
	require.Equal(t, "ok", out["variant"])

	saved, ok, err := st.Get(context.Background(), "notes", "n1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "remember", saved["text"])
}
