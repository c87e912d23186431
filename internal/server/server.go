// Package server owns the ingress HTTP listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"madnotify/pkg/logx"
)

type Config struct {
	Host string // default 0.0.0.0
	Port int

	ReadTimeout       time.Duration // default 30s
	ReadHeaderTimeout time.Duration // default 5s
	IdleTimeout       time.Duration // default 60s
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = 5 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 60 * time.Second
	}
	return c
}

// Server wraps an http.Server with explicit start/stop. Stop drains
// in-flight requests, which also lets their outbound dispatches finish.
type Server struct {
	mu   sync.Mutex
	log  logx.Logger
	srv  *http.Server
	ln   net.Listener
	addr string
}

func New(handler http.Handler, cfg Config, log logx.Logger) *Server {
	cfg = cfg.withDefaults()
	if log.IsZero() {
		log = logx.Nop()
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           Recover(handler, log),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		// No WriteTimeout: the anomaly pipeline includes a bounded outbound
		// call (up to 10s) and the response itself is tiny.
	}
	return &Server{log: log.With(logx.String("comp", "server")), srv: srv}
}

// Start binds the listener and serves in the background. A failed bind is
// returned synchronously so startup can fail fast.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.ln = ln
	s.addr = ln.Addr().String()

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server error", logx.String("addr", s.addr), logx.Err(err))
		}
	}()

	s.log.Info("listening", logx.String("addr", s.addr))
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.ln = nil
	addr := s.addr
	s.addr = ""
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Warn("shutdown error", logx.String("addr", addr), logx.Err(err))
		return err
	}
	s.log.Info("stopped", logx.String("addr", addr))
	return nil
}

// Addr reports the actual listen address if running. Handy for tests
// binding port 0.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
