// Package server serves the palette web client as static files alongside a
// small JSON API over the symbol codec and the palette store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
	"github.com/papapumpkin/adaptive-palette/internal/palette"
	"github.com/papapumpkin/adaptive-palette/internal/telemetry"
)

// Deps are the collaborators the handlers read from. Logger and Telemetry
// may be nil.
type Deps struct {
	Codec     *bliss.Codec
	Palettes  *palette.Store
	Logger    *zap.Logger
	Telemetry *telemetry.Emitter
}

// Config holds listener and transport settings.
type Config struct {
	Port int
	// ClientDir is served at "/". Empty disables static files.
	ClientDir string
	Gzip      bool
	// Home is the palette a compose request starts from when it names none.
	Home string
}

// DefaultHome is the palette compose requests start from by default.
const DefaultHome = "home"

// Server is the HTTP front end.
type Server struct {
	deps Deps
	cfg  Config
	log  *zap.Logger

	srv *http.Server
	ln  net.Listener
}

// New creates a server. It does not listen until Start.
func New(deps Deps, cfg Config) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Home == "" {
		cfg.Home = DefaultHome
	}
	return &Server{deps: deps, cfg: cfg, log: log}
}

// Handler returns the full handler chain: routes wrapped in request IDs,
// access logging, and, when enabled, gzip.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/symbols", s.handleSymbolIDs)
	mux.HandleFunc("GET /api/symbols/{id}", s.handleSymbol)
	mux.HandleFunc("GET /api/symbols/{id}/composition", s.handleComposition)
	mux.HandleFunc("GET /api/builder", s.handleBuilder)
	mux.HandleFunc("GET /api/decompose", s.handleDecompose)
	mux.HandleFunc("POST /api/parse", s.handleParse)
	mux.HandleFunc("POST /api/compose", s.handleCompose)
	mux.HandleFunc("GET /api/palettes", s.handlePalettes)
	mux.HandleFunc("GET /api/palettes/{name}", s.handlePalette)
	if s.cfg.ClientDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.cfg.ClientDir)))
	}

	var h http.Handler = mux
	if s.cfg.Gzip {
		h = gzhttp.GzipHandler(h)
	}
	h = s.accessLog(h)
	return requestID(h)
}

// Start listens on the configured port and serves in the background. It
// returns once the listener is bound.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("server: listen on port %d: %w", s.cfg.Port, err)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("serve failed", zap.Error(err))
		}
	}()

	s.log.Info("server listening", zap.String("addr", ln.Addr().String()), zap.String("client_dir", s.cfg.ClientDir))
	s.emit(telemetry.Event{Kind: telemetry.KindServerStart, Data: map[string]string{"addr": ln.Addr().String()}})
	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	s.emit(telemetry.Event{Kind: telemetry.KindServerStop})
	s.log.Info("server stopped")
	return err
}

func (s *Server) emit(evt telemetry.Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if err := s.deps.Telemetry.Emit(evt); err != nil {
		s.log.Warn("telemetry emit failed", zap.Error(err))
	}
}
