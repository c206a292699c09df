package lattice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoRuntime() *lattice.Runtime {
	rt := lattice.New()
	rt.Register("urn:test/Echo", ports.ActionMap{
		"echo": ports.ActionFunc(func(ctx context.Context, input map[string]any, st ports.Storage) (map[string]any, error) {
			return map[string]any{"variant": "ok", "message": input["message"]}, nil
		}),
	})
	return rt
}

func TestEndToEnd_Echo(t *testing.T) {
	handler := echoRuntime().Handler()

	req := httptest.NewRequest("POST", "/invoke", strings.NewReader(
		`{"concept":"urn:test/Echo","action":"echo","input":{"message":"hi"}}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var completion map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &completion))
	assert.Equal(t, map[string]any{"variant": "ok", "message": "hi"}, completion["output"])
	assert.Equal(t, "ok", completion["variant"])
}

func TestInvoke_Programmatic(t *testing.T) {
	rt := echoRuntime()

	completion, err := rt.Invoke(context.Background(), domain.ActionInvocation{
		Concept: "urn:test/Echo",
		Action:  "echo",
		Input:   map[string]any{"message": "direct"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", completion.Variant)
	assert.Equal(t, "direct", completion.Output["message"])
	assert.NotEmpty(t, completion.ID, "absent identifiers are generated")
	assert.NotEmpty(t, completion.Flow)
}

func TestInvoke_UnregisteredConcept(t *testing.T) {
	rt := lattice.New()

	_, err := rt.Invoke(context.Background(), domain.ActionInvocation{
		Concept: "urn:test/Nowhere",
		Action:  "echo",
	})
	assert.ErrorIs(t, err, domain.ErrConceptNotFound)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	rt := lattice.New(lattice.WithAddr("127.0.0.1:0"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- rt.ListenAndServe(ctx)
	}()

	cancel()
	assert.NoError(t, <-done)
}

func TestDecodeInput(t *testing.T) {
	type EchoInput struct {
		Message string `json:"message"`
		Count   int    `json:"count"`
	}

	var in EchoInput
	err := lattice.DecodeInput(map[string]any{"message": "hi", "count": 3}, &in)
	require.NoError(t, err)
	assert.Equal(t, "hi", in.Message)
	assert.Equal(t, 3, in.Count)
}

func TestDecodeInput_TypeMismatch(t *testing.T) {
	type EchoInput struct {
		Count int `json:"count"`
	}

	var in EchoInput
	err := lattice.DecodeInput(map[string]any{"count": map[string]any{}}, &in)
	assert.Error(t, err)
}
