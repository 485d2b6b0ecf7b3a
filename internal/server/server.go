// Package server provides the development HTTP host for a deck.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/kolibry/kolibry/internal/logging"
	"github.com/kolibry/kolibry/internal/plugins"
	"github.com/kolibry/kolibry/pkg/types"
)

// Config holds server configuration.
type Config struct {
	Port int
	Host string
	// Root is served when the host configuration does not name one.
	Root         string
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         3030,
		Host:         "localhost",
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
	}
}

// WithHostConfig returns a copy of c with server.port and server.host from
// inline applied.
func (c *Config) WithHostConfig(inline types.InlineConfig) *Config {
	out := *c
	if port, ok := inline.Int("server.port"); ok {
		out.Port = port
	}
	if host := inline.String("server.host"); host != "" {
		out.Host = host
	}
	return &out
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ServerPlugin receives the router once the built-in routes are registered.
type ServerPlugin interface {
	ConfigureServer(host plugins.ServerHost)
}

// Server is the development HTTP host.
type Server struct {
	config  *Config
	router  *chi.Mux
	httpSrv *http.Server
	fs      afero.Fs
	inline  atomic.Pointer[types.InlineConfig]
	log     zerolog.Logger
}

// New creates a Server serving files from fs according to the merged host
// configuration inline. Plugins are configured in order after the built-in
// routes.
func New(cfg *Config, fs afero.Fs, inline types.InlineConfig, serverPlugins ...ServerPlugin) *Server {
	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		fs:     fs,
		log:    logging.Component("server"),
	}
	s.SetHostConfig(inline)

	s.setupMiddleware()
	s.setupRoutes()

	for _, p := range serverPlugins {
		p.ConfigureServer(s.router)
	}

	return s
}

// HostConfig returns the merged host configuration currently served.
func (s *Server) HostConfig() types.InlineConfig {
	return *s.inline.Load()
}

// SetHostConfig replaces the merged host configuration.
func (s *Server) SetHostConfig(inline types.InlineConfig) {
	if inline == nil {
		inline = types.InlineConfig{}
	}
	s.inline.Store(&inline)
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(logging.Component("http")))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RealIP)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.log.Info().Str("addr", s.httpSrv.Addr).Msg("listening")
	if err := s.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
