package engine

import (
	"context"
	"net/http"
	"time"
)

// Server owns the HTTP listener bound to one ServerContext. Teardown
// stops accepting new connections and waits for in-flight requests up to a
// deadline before releasing the listener (spec.md 5). In-flight requests
// are not canceled by teardown.
type Server struct {
	http *http.Server
	ctx  *ServerContext
}

// NewServer returns a Server listening on addr, serving mocked responses
// and, when adminHandler is non-nil, the admin surface under the same
// listener via mux composition.
func NewServer(addr string, ctx *ServerContext, adminHandler http.Handler) *Server {
	mux := http.NewServeMux()
	if adminHandler != nil {
		mux.Handle("/__admin/", adminHandler)
	}
	mux.Handle("/", NewHandler(ctx))

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ctx: ctx,
	}
}

// ListenAndServe blocks until the server stops, returning nil on a clean
// Shutdown and any other error from the underlying listener.
func (s *Server) ListenAndServe() error {
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting new connections and drains in-flight requests
// until drainDeadline elapses or every connection finishes, whichever
// comes first.
func (s *Server) Shutdown(drainDeadline time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), drainDeadline)
	defer cancel()
	return s.http.Shutdown(ctx)
}
