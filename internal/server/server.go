package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Addr      string  // Bind address, e.g. ":8090"
	DevMode   bool    // Detailed error responses
	APIKey    string  // Optional X-API-Key value
	SwapRate  float64 // Swap submissions per second per client
	SwapBurst int
}

func (c *ServerConfig) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8090"
	}
	if c.SwapRate <= 0 {
		c.SwapRate = 1
	}
	if c.SwapBurst <= 0 {
		c.SwapBurst = 5
	}
}

// ServerDeps contains dependencies required to create a new Server
type ServerDeps struct {
	Handlers *Handlers
	Config   ServerConfig
}

// Server wraps Echo with lifecycle management
type Server struct {
	e        *echo.Echo
	cfg      ServerConfig
	handlers *Handlers
	closed   chan struct{}
}

// NewServer builds the Echo instance and registers every route
func NewServer(deps ServerDeps) (*Server, error) {
	h := deps.Handlers
	if h == nil || h.Engine == nil {
		return nil, errors.New("handlers with an engine are required")
	}
	if h.Logger == nil {
		h.Logger = logrus.New()
	}
	cfg := deps.Config
	cfg.applyDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(h.Logger))

	// Swap submission waits on the simulated network, keep the write timeout above it
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	RegisterRoutes(e, h, cfg)

	return &Server{e: e, cfg: cfg, handlers: h, closed: make(chan struct{})}, nil
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start serves until Shutdown; http.ErrServerClosed is not an error
func (s *Server) Start() error {
	if err := s.e.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server with a 10-second timeout
func (s *Server) Shutdown(ctx context.Context) error {
	defer close(s.closed)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.e.Shutdown(ctx)
}

// WaitClosed blocks until the server is fully shut down or ctx ends
func (s *Server) WaitClosed(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return nil
	}
}
