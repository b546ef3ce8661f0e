// Package mockapi serves an offline stand-in for the Jupiter swap, price and
// token APIs. Quotes are priced from a static catalog and swap transactions
// are real, unsigned Solana transactions.
package mockapi

import (
	"context"
	"net/http"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	Addr   string // bind address, e.g. ":8090"
	APIKey string // required in x-api-key when set

	// RateLimit is requests per second per client IP; zero disables it.
	RateLimit float64
	Burst     int

	// AccessLog enables echo's request logger.
	AccessLog bool
}

type Server struct {
	e      *echo.Echo
	cfg    ServerConfig
	closed chan struct{}
}

// NewServer wires the default catalog and router behind echo.
func NewServer(cfg ServerConfig, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	catalog := DefaultCatalog()
	h := &Handlers{
		Catalog: catalog,
		Router:  NewRouter(catalog, solana.MPK(constants.JupiterProgram)),
		Logger:  logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	if cfg.AccessLog {
		e.Use(middleware.Logger())
	}

	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	RegisterRoutes(e, h, cfg)

	return &Server{e: e, cfg: cfg, closed: make(chan struct{})}
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Start() error {
	return s.e.Start(s.cfg.Addr)
}

// Shutdown gracefully stops the server, waiting at most 10 seconds.
func (s *Server) Shutdown(ctx context.Context) error {
	defer close(s.closed)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.e.Shutdown(ctx)
}

// WaitClosed blocks until Shutdown has finished or ctx is done.
func (s *Server) WaitClosed(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return nil
	}
}

func SetNoCacheHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return next(c)
	}
}
