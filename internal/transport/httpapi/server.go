package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/nobra/internal/config"
	"github.com/alexisbeaulieu97/nobra/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

// Options configures a Server.
type Options struct {
	Service   ports.ScoreService
	Config    config.ServerConfig
	Logger    ports.Logger
	AccessLog zerolog.Logger
}

// Server exposes the score registry over HTTP.
type Server struct {
	echo   *echo.Echo
	cfg    config.ServerConfig
	logger ports.Logger
}

// New builds the echo instance, installs middleware and registers routes.
// One POST /<score_id> route is registered for every id known at
// construction time.
func New(opts Options) *Server {
	logger := logging.OrNop(opts.Logger).With("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Server.ReadTimeout = opts.Config.ReadTimeout
	e.Server.WriteTimeout = opts.Config.WriteTimeout

	e.Use(RequestID())
	e.Use(AccessLog(opts.AccessLog))
	e.Use(Recovery(opts.AccessLog))
	if opts.Config.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.Config.BodyLimit))
	}
	if opts.Config.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: opts.Config.RequestTimeout,
		}))
	}
	if len(opts.Config.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: opts.Config.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderContentType, RequestIDHeader},
		}))
	}

	h := &handlers{svc: opts.Service}
	e.GET("/health", h.health)

	api := e.Group("/api")
	api.GET("/scores", h.listScores)
	api.GET("/scores/:score_id", h.scoreMetadata)
	api.GET("/scores/:score_id/validate", h.validateScore)
	api.GET("/categories", h.categories)
	api.POST("/reload", h.reload)
	api.POST("/:score_id/calculate", h.calculate)

	ids := opts.Service.IDs(context.Background())
	for _, id := range ids {
		e.POST("/"+string(id), h.calculateFixed(id))
	}
	logger.Debug(context.Background(), "routes registered", "score_routes", len(ids))

	return &Server{echo: e, cfg: opts.Config, logger: logger}
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "server listening", "addr", s.cfg.Addr)
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info(ctx, "shutting down server", "timeout", timeout)
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
