// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/tradie/internal/broadcast"
	"github.com/jeranaias/tradie/internal/markdown"
	"github.com/jeranaias/tradie/internal/metrics"
	"github.com/jeranaias/tradie/internal/model"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:8787"

	// Version is reported by /health.
	Version = "0.1.0"
)

// ============================================================================
// SOURCES
// ============================================================================

// SymbolSource provides the latest symbol and live updates. *broadcast.Bus
// implements it.
type SymbolSource interface {
	Last() (broadcast.Event, bool)
	Subscribe(l broadcast.Listener) func()
}

// SnapshotSource provides the conversation. *panel.Panel implements it.
type SnapshotSource interface {
	Snapshot() model.Snapshot
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the HTTP surface.
type Server struct {
	addr    string
	symbols SymbolSource
	panel   SnapshotSource
	metrics *metrics.Recorder
	cors    *CORSConfig
	log     zerolog.Logger
	html    *markdown.HTMLRenderer
	started time.Time

	handler http.Handler
	feed    *feedHub

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithSymbols enables /v1/symbol and /v1/symbol/ws.
func WithSymbols(src SymbolSource) Option {
	return func(s *Server) { s.symbols = src }
}

// WithPanel enables /panel.
func WithPanel(src SnapshotSource) Option {
	return func(s *Server) { s.panel = src }
}

// WithMetrics enables /metrics and the feed client gauge.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *Server) { s.metrics = rec }
}

// WithLogger sets the request and diagnostics logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithAllowedOrigins replaces the default CORS origins when origins is
// not empty.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.cors.AllowedOrigins = origins
		}
	}
}

// New creates a server for addr. Routes whose source is not configured
// respond 404.
func New(addr string, opts ...Option) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		addr:    addr,
		cors:    DefaultCORSConfig(),
		log:     zerolog.Nop(),
		html:    markdown.NewHTMLRenderer(),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.feed = newFeedHub(s.symbols, s.cors, s.metrics, s.log)
	s.handler = Chain(
		RecoveryMiddleware(s.log),
		LoggingMiddleware(s.log),
		SecurityHeadersMiddleware(),
		CORSMiddleware(s.cors),
	)(s.routes())
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.symbols != nil {
		mux.HandleFunc("GET /v1/symbol", s.handleSymbol)
		mux.Handle("GET /v1/symbol/ws", s.feed)
	}
	if s.panel != nil {
		mux.HandleFunc("GET /panel", s.handlePanel)
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the bound address once listening, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// ============================================================================
// HANDLERS
// ============================================================================

// HealthResponse is the /health body.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	FeedClients   int    `json:"feed_clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       Version,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		FeedClients:   s.feed.Len(),
	})
}

// SymbolResponse is the /v1/symbol body. Symbol is empty before the first
// broadcast.
type SymbolResponse struct {
	Symbol string     `json:"symbol"`
	At     *time.Time `json:"at,omitempty"`
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.symbols.Last()
	if !ok {
		writeJSON(w, http.StatusOK, SymbolResponse{})
		return
	}
	writeJSON(w, http.StatusOK, SymbolResponse{Symbol: ev.Symbol, At: &ev.At})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens on the configured address and serves until Shutdown. It
// returns nil after a graceful shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mu.Lock()
	if s.server != nil {
		s.mu.Unlock()
		ln.Close()
		return errors.New("server already started")
	}
	s.server = srv
	s.listener = ln
	s.mu.Unlock()

	s.log.Info().Str("addr", ln.Addr().String()).Str("version", Version).Msg("server start")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes feed connections and stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.log.Info().Int("feed_clients", s.feed.Len()).Msg("server shutdown")
	s.feed.CloseAll()
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
