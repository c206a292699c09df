package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
)

// BackendKind selects the serving strategy. Selection happens once at
// startup through explicit configuration, never by probing.
type BackendKind string

const (
	// BackendConcurrent serves many connections at once, one goroutine
	// per connection.
	BackendConcurrent BackendKind = "concurrent"

	// BackendSerial admits one connection at a time and processes its
	// request fully before accepting the next.
	BackendSerial BackendKind = "serial"
)

// Backend accepts connections on a listener and serves the protocol
// handler. Both implementations route through the same handler, so their
// response bodies are identical for identical inputs.
type Backend interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// NewBackend constructs the backend for a kind.
func NewBackend(kind BackendKind, handler http.Handler) (Backend, error) {
	switch kind {
	case BackendConcurrent, "":
		return NewConcurrentBackend(handler), nil
	case BackendSerial:
		return NewSerialBackend(handler), nil
	default:
		return nil, fmt.Errorf("unknown backend kind: %q", kind)
	}
}

// ConcurrentBackend wraps the standard net/http server.
type ConcurrentBackend struct {
	srv *http.Server
}

// NewConcurrentBackend creates the concurrent backend.
func NewConcurrentBackend(handler http.Handler) *ConcurrentBackend {
	return &ConcurrentBackend{srv: &http.Server{Handler: handler}}
}

// Serve accepts connections until the listener closes or Shutdown is called.
func (b *ConcurrentBackend) Serve(l net.Listener) error {
	return b.srv.Serve(l)
}

// Shutdown gracefully stops the server, letting in-flight requests finish.
func (b *ConcurrentBackend) Shutdown(ctx context.Context) error {
	return b.srv.Shutdown(ctx)
}

// SerialBackend serves the same handler strictly one connection at a
// time: Accept blocks until the previous connection is closed, and
// keep-alives are disabled so a connection carries exactly one exchange.
type SerialBackend struct {
	srv *http.Server
}

// NewSerialBackend creates the serial backend.
func NewSerialBackend(handler http.Handler) *SerialBackend {
	srv := &http.Server{Handler: handler}
	srv.SetKeepAlivesEnabled(false)
	return &SerialBackend{srv: srv}
}

// Serve accepts connections serially until the listener closes or
// Shutdown is called.
func (b *SerialBackend) Serve(l net.Listener) error {
	return b.srv.Serve(&serialListener{Listener: l, gate: make(chan struct{}, 1)})
}

// Shutdown gracefully stops the server.
func (b *SerialBackend) Shutdown(ctx context.Context) error {
	return b.srv.Shutdown(ctx)
}

// serialListener admits one connection at a time. The gate is held from
// Accept until the connection's Close.
type serialListener struct {
	net.Listener
	gate chan struct{}
}

func (l *serialListener) Accept() (net.Conn, error) {
	l.gate <- struct{}{}
	conn, err := l.Listener.Accept()
	if err != nil {
		<-l.gate
		return nil, err
	}
	return &serialConn{Conn: conn, release: func() { <-l.gate }}, nil
}

type serialConn struct {
	net.Conn
	once    sync.Once
	release func()
}

func (c *serialConn) Close() error {
	err := c.Conn.Close()
	c.once.Do(c.release)
	return err
}
