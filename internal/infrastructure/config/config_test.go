package config_test

import (
	"testing"
	"time"

	"github.com/iho/cashbook/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.StoreDriver != config.StoreDriverPostgres {
		t.Fatalf("expected default store driver postgres, got %s", cfg.StoreDriver)
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected idempotency to be disabled by default, got %q", cfg.RedisURL)
	}

	if cfg.RedisTimeout != 3*time.Second {
		t.Fatalf("expected default redis timeout 3s, got %s", cfg.RedisTimeout)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.ReconcileConcurrency != 8 {
		t.Fatalf("expected default reconcile concurrency 8, got %d", cfg.ReconcileConcurrency)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/ledger.db")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("REDIS_TIMEOUT", "500ms")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("RECONCILE_CONCURRENCY", "2")
	t.Setenv("IDEMPOTENCY_TTL", "1h")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StoreDriver != config.StoreDriverSQLite || cfg.SQLitePath != "/tmp/ledger.db" {
		t.Fatalf("expected sqlite store settings, got driver=%s path=%s", cfg.StoreDriver, cfg.SQLitePath)
	}

	if cfg.RedisURL != "redis://example" || cfg.RedisTimeout != 500*time.Millisecond {
		t.Fatalf("expected custom redis settings, got url=%s timeout=%s", cfg.RedisURL, cfg.RedisTimeout)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second || cfg.IdempotencyTTL != time.Hour {
		t.Fatalf("expected duration overrides, got db=%s ttl=%s", cfg.DatabaseTimeout, cfg.IdempotencyTTL)
	}

	if cfg.ReconcileConcurrency != 2 {
		t.Fatalf("expected reconcile concurrency override, got %d", cfg.ReconcileConcurrency)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsUnknownStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}
}

func TestLoadRejectsZeroConcurrency(t *testing.T) {
	t.Setenv("RECONCILE_CONCURRENCY", "0")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for zero concurrency")
	}
}

func TestLoadRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	t.Setenv("RATE_LIMIT_BURST", "10")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RateLimitRPS != 5.5 || cfg.RateLimitBurst != 10 {
		t.Fatalf("expected rate limit overrides, got rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	t.Setenv("RATE_LIMIT_RPS", "-1")
	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for negative rate limit")
	}
}
