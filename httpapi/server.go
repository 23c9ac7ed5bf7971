package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Server runs the HTTP API in the background
type Server struct {
	server *http.Server
}

// NewServer creates a server for handler on addr
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// LATEST lookups may check several draws before answering.
			WriteTimeout: 60 * time.Second,
		},
	}
}

// Start binds the listener and serves until Shutdown
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	go func() {
		log.WithField("addr", ln.Addr().String()).Info("HTTP API listening")
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP API server error")
		}
	}()
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
