package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envSigningKeyName        = "TOKEN_SIGNING_KEY_NAME"
	envTokenValidity         = "TOKEN_VALIDITY_PERIOD"
	envCacheBackend          = "CACHE_BACKEND"
	envCacheDecisionTTL      = "CACHE_DECISION_TTL"
	envRedisURL              = "REDIS_URL"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "rightsservice"
	defaultDBUser             = "rightsservice_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultSigningKeyName     = "jwt-signing-key"
	defaultTokenValidity      = 20 * time.Minute
	defaultCacheBackend       = CacheBackendMemory
	defaultCacheDecisionTTL   = time.Minute

	errPortRequiredFmt         = "PORT must be set"
	errDBPasswordRequiredFmt   = "DB_PASSWORD must be set"
	errSigningKeyNameFmt       = "TOKEN_SIGNING_KEY_NAME must be set"
	errTokenValidityFmt        = "TOKEN_VALIDITY_PERIOD must be positive"
	errCacheBackendFmt         = "CACHE_BACKEND must be %q or %q, got %q"
	errRedisURLRequiredFmt     = "REDIS_URL must be set when CACHE_BACKEND is redis"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Token    TokenConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// TokenConfig configures token issuance. SigningKeyName identifies the
// ECDSA key pair resolved through the key manager; the key material itself
// never appears in the environment.
type TokenConfig struct {
	SigningKeyName string
	ValidityPeriod time.Duration
}

type CacheConfig struct {
	Backend     string
	DecisionTTL time.Duration
	RedisURL    string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: requireEnv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		Token: TokenConfig{
			SigningKeyName: getEnv(envSigningKeyName, defaultSigningKeyName),
			ValidityPeriod: getDurationEnv(envTokenValidity, defaultTokenValidity),
		},
		Cache: CacheConfig{
			Backend:     getEnv(envCacheBackend, defaultCacheBackend),
			DecisionTTL: getDurationEnv(envCacheDecisionTTL, defaultCacheDecisionTTL),
			RedisURL:    os.Getenv(envRedisURL),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	if c.Token.SigningKeyName == "" {
		return fmt.Errorf(errSigningKeyNameFmt)
	}

	if c.Token.ValidityPeriod <= 0 {
		return fmt.Errorf(errTokenValidityFmt)
	}

	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf(errRedisURLRequiredFmt)
		}
	default:
		return fmt.Errorf(errCacheBackendFmt, CacheBackendMemory, CacheBackendRedis, c.Cache.Backend)
	}

	return nil
}

// DSN builds a postgres connection string for pgx.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func requireEnv(key string) string {
	return os.Getenv(key)
}

func getIntEnv(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
