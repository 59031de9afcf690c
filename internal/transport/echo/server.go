package echo

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"rights-service/internal/config"
	"rights-service/internal/repository"
	"rights-service/internal/rights"
	"rights-service/internal/token"
)

// Server wraps the Echo server with dependencies
type Server struct {
	echo   *echo.Echo
	config *config.Config
	users  repository.UserRepository
	groups repository.GroupRepository
	rights rights.Store
	engine *rights.Engine
	tokens *token.Service
	logger zerolog.Logger
}

// NewServer creates a new Echo server with middleware and routes
func NewServer(
	cfg *config.Config,
	users repository.UserRepository,
	groups repository.GroupRepository,
	rightsStore rights.Store,
	engine *rights.Engine,
	tokens *token.Service,
	logger zerolog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	rateLimiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      10,
				Burst:     30,
				ExpiresIn: 3 * time.Minute,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, nil)
		},
	}

	e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig))
	e.Use(middleware.CORS())

	server := &Server{
		echo:   e,
		config: cfg,
		users:  users,
		groups: groups,
		rights: rightsStore,
		engine: engine,
		tokens: tokens,
		logger: logger,
	}

	e.Use(server.requestLogger)
	server.registerRoutes()

	return server
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		s.logger.Info().
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", c.Response().Status).
			Dur("latency", time.Since(start)).
			Msg("request")

		return err
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	return s.echo.Start(":" + s.config.Server.Port)
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
