package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"

	latticehttp "github.com/aretw0/lattice/pkg/adapters/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startBackend serves a fresh handler on a loopback listener and returns
// the base URL; shutdown runs on test cleanup.
func startBackend(t *testing.T, kind latticehttp.BackendKind) string {
	t.Helper()

	backend, err := latticehttp.NewBackend(kind, latticehttp.NewHandler(testRegistry()))
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		_ = backend.Serve(l)
	}()
	t.Cleanup(func() {
		_ = backend.Shutdown(context.Background())
	})

	return "http://" + l.Addr().String()
}

func postBody(t *testing.T, baseURL, path, body string) (int, []byte) {
	t.Helper()

	resp, err := http.Post(baseURL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestNewBackend_UnknownKind(t *testing.T) {
	_, err := latticehttp.NewBackend("fibrous", nil)
	assert.Error(t, err)
}

func TestBackends_EquivalentBodies(t *testing.T) {
	concurrent := startBackend(t, latticehttp.BackendConcurrent)
	serial := startBackend(t, latticehttp.BackendSerial)

	requests := []struct {
		path string
		body string
	}{
		{"/query", `{"concept":"urn:test/Nowhere","relation":"entries"}`},
		{"/invoke", `{"id":"i1","concept":"urn:test/Nowhere","action":"echo","input":{},"flow":"f1"}`},
		{"/invoke", `{"id":"i2","concept":"urn:test/Echo","action":"echo","input":{"message":"hi"},"flow":"f2"}`},
		{"/invoke", `{"id":"i3","concept":"urn:test/Echo","action":"vanish","input":{},"flow":"f3"}`},
	}

	for _, r := range requests {
		codeA, bodyA := postBody(t, concurrent, r.path, r.body)
		codeB, bodyB := postBody(t, serial, r.path, r.body)
		assert.Equal(t, codeA, codeB, "status for %s %s", r.path, r.body)

		if r.path == "/query" {
			assert.Equal(t, string(bodyA), string(bodyB))
			continue
		}

		// Completions embed a second-precision timestamp; compare
		// everything else field by field.
		var a, b map[string]any
		require.NoError(t, json.Unmarshal(bodyA, &a))
		require.NoError(t, json.Unmarshal(bodyB, &b))
		delete(a, "timestamp")
		delete(b, "timestamp")
		assert.Equal(t, a, b, "completion for %s", r.body)
	}

	// Health is timestamp-free and must match byte for byte.
	respA, err := http.Get(concurrent + "/health")
	require.NoError(t, err)
	healthA, _ := io.ReadAll(respA.Body)
	respA.Body.Close()

	respB, err := http.Get(serial + "/health")
	require.NoError(t, err)
	healthB, _ := io.ReadAll(respB.Body)
	respB.Body.Close()

	assert.Equal(t, string(healthA), string(healthB))
}

func TestSerialBackend_HandlesSequentialClients(t *testing.T) {
	serial := startBackend(t, latticehttp.BackendSerial)

	// Several clients in flight at once; the backend admits them one at
	// a time but every request completes.
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"concept":"urn:test/Echo","action":"echo","input":{"message":"m%d"}}`, i)
			resp, err := http.Post(serial+"/invoke", "application/json", strings.NewReader(body))
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var completion map[string]any
			data, _ := io.ReadAll(resp.Body)
			assert.NoError(t, json.Unmarshal(data, &completion))
			assert.Equal(t, "ok", completion["variant"])
		}(i)
	}
	wg.Wait()
}
