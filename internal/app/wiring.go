package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"rights-service/internal/cache"
	"rights-service/internal/config"
	"rights-service/internal/keys"
	"rights-service/internal/repository/postgres"
	"rights-service/internal/rights"
	"rights-service/internal/token"
	"rights-service/internal/transport/echo"
)

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService() (*Service, error) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "rights-service").Logger()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	decisions, err := newDecisionCache(&cfg.Cache)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create decision cache: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	rightRepo := postgres.NewRightRepository(db)

	keyStore := keys.NewPostgresStore(db.Pool)
	tokens := token.NewService(keyStore, cfg.Token.SigningKeyName, cfg.Token.ValidityPeriod, nil)
	engine := rights.NewEngine(rightRepo, decisions, cfg.Cache.DecisionTTL)

	server := echo.NewServer(cfg, userRepo, groupRepo, rightRepo, engine, tokens, logger)

	return &Service{
		config:    cfg,
		db:        db,
		decisions: decisions,
		engine:    engine,
		tokens:    tokens,
		server:    server,
		logger:    logger,
	}, nil
}

func newDecisionCache(cfg *config.CacheConfig) (cache.DecisionCache, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		return cache.NewRedisCache(cfg.RedisURL)
	default:
		return cache.NewMemoryCache(), nil
	}
}
