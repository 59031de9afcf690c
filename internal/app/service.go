package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"rights-service/internal/cache"
	"rights-service/internal/config"
	"rights-service/internal/repository/postgres"
	"rights-service/internal/rights"
	"rights-service/internal/token"
	"rights-service/internal/transport/echo"
)

const cachePurgeInterval = 5 * time.Minute

// Service represents the rights management application
type Service struct {
	config    *config.Config
	db        *postgres.DB
	decisions cache.DecisionCache
	engine    *rights.Engine
	tokens    *token.Service
	server    *echo.Server
	logger    zerolog.Logger
}

// NewService creates and initializes a new Service instance
// This is a convenience wrapper around InitializeService
func NewService() (*Service, error) {
	return InitializeService()
}

// Start starts the service and all background tasks
func (s *Service) Start() error {
	go s.startCachePurge()

	s.logger.Info().Str("port", s.config.Server.Port).Msg("starting rights service")
	return s.server.Start()
}

// startCachePurge runs a background task to clear expired decisions
func (s *Service) startCachePurge() {
	ticker := time.NewTicker(cachePurgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.decisions.Purge(context.Background())
	}
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.db.Close()
	return err
}
