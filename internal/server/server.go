// Package server hosts the liveness endpoint the deployment platform
// polls to keep the process alive, plus the Prometheus metrics handler.
// It runs alongside the scheduler and must never be blocked by it.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quantBreakoutBot/internal/ports"
)

const readinessBody = "Quant breakout engine operational 24/7"

// Server wraps the echo instance.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger ports.Logger
}

// New builds the HTTP server and registers its routes.
func New(addr string, logger ports.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, readinessBody)
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{echo: e, addr: addr, logger: logger}
}

// Start serves until Shutdown is called. Intended to run in its own
// goroutine; a closed-server error on shutdown is not reported.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Liveness server listening", map[string]interface{}{"addr": s.addr})
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
