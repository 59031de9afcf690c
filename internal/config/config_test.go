package config_test

import (
	"testing"
	"time"

	"rights-service/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "testing-password")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, expected 8080", cfg.Server.Port)
	}
	if cfg.Token.SigningKeyName != "jwt-signing-key" {
		t.Errorf("Token.SigningKeyName = %q, expected jwt-signing-key", cfg.Token.SigningKeyName)
	}
	if cfg.Token.ValidityPeriod != 20*time.Minute {
		t.Errorf("Token.ValidityPeriod = %v, expected 20m", cfg.Token.ValidityPeriod)
	}
	if cfg.Cache.Backend != config.CacheBackendMemory {
		t.Errorf("Cache.Backend = %q, expected memory", cfg.Cache.Backend)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "testing-password")
	t.Setenv("TOKEN_SIGNING_KEY_NAME", "primary-signing-key")
	t.Setenv("TOKEN_VALIDITY_PERIOD", "1h")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Token.SigningKeyName != "primary-signing-key" {
		t.Errorf("Token.SigningKeyName = %q, expected primary-signing-key", cfg.Token.SigningKeyName)
	}
	if cfg.Token.ValidityPeriod != time.Hour {
		t.Errorf("Token.ValidityPeriod = %v, expected 1h", cfg.Token.ValidityPeriod)
	}
}

func TestLoadMissingDBPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	if _, err := config.Load(); err == nil {
		t.Error("Load() expected error when DB_PASSWORD is unset")
	}
}

func TestLoadRedisBackendRequiresURL(t *testing.T) {
	t.Setenv("DB_PASSWORD", "testing-password")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "")

	if _, err := config.Load(); err == nil {
		t.Error("Load() expected error when REDIS_URL is unset for redis backend")
	}
}

func TestLoadUnknownCacheBackend(t *testing.T) {
	t.Setenv("DB_PASSWORD", "testing-password")
	t.Setenv("CACHE_BACKEND", "memcached")

	if _, err := config.Load(); err == nil {
		t.Error("Load() expected error for unknown cache backend")
	}
}
