package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/cashbook/internal/adapter/http"
	"github.com/iho/cashbook/internal/adapter/http/handler"
	"github.com/iho/cashbook/internal/adapter/http/middleware"
	"github.com/iho/cashbook/internal/adapter/repository/idgen"
	postgresRepo "github.com/iho/cashbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashbook/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/cashbook/internal/adapter/repository/sqlite"
	"github.com/iho/cashbook/internal/infrastructure/config"
	"github.com/iho/cashbook/internal/infrastructure/logger"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
	"github.com/iho/cashbook/internal/infrastructure/postgres"
	"github.com/iho/cashbook/internal/infrastructure/redis"
	"github.com/iho/cashbook/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	logg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr, Service: "cashbook"})
	log.Logger = logg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Fatal().Err(err).Msg("server failed")
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, logg zerolog.Logger) error {
	a, err := newApp(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.rateLimiter != nil {
		go a.rateLimiter.RunCleanup(ctx, 10*time.Minute, time.Hour)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logg.Info().Msg("server stopped")
	return nil
}

// app is the wired service: router plus the resources it owns.
type app struct {
	handler     http.Handler
	entries     *usecase.EntryUseCase
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// entryStore is a usecase.EntryStore that can report its health.
type entryStore interface {
	usecase.EntryStore
	Ping(ctx context.Context) error
}

func newApp(ctx context.Context, cfg *config.Config, logg zerolog.Logger) (*app, error) {
	a := &app{}

	store, closeStore, err := buildStore(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)
	checks := []handler.Check{{Name: cfg.StoreDriver, Ping: store.Ping}}

	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Timeout: cfg.RedisTimeout})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { client.Close() })
		logg.Info().Msg("connected to redis")

		redisStore := redisRepo.NewIdempotencyStore(client)
		idempotencyStore = redisStore
		checks = append(checks, handler.Check{Name: "redis", Ping: redisStore.Ping})
	} else {
		logg.Info().Msg("idempotency replay disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	reconciler := usecase.NewReconciliationUseCase(store,
		usecase.WithLogger(logg),
		usecase.WithMetrics(m),
		usecase.WithConcurrency(cfg.ReconcileConcurrency),
	)
	a.entries = usecase.NewEntryUseCase(store, reconciler, m)

	// An unreachable store at startup leaves the view empty until the next
	// mutation or an explicit reconcile.
	if result, err := a.entries.Reload(ctx); err != nil {
		logg.Warn().Err(err).Msg("initial reconciliation incomplete")
	} else {
		logg.Info().Int("entries", len(result.Entries)).Msg("ledger loaded")
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntryHandler:     handler.NewEntryHandler(a.entries),
		HealthHandler:    handler.NewHealthHandler(checks...),
		Logger:           logg,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		MetricsRegistry:  registry,
		RateLimiter:      a.rateLimiter,
	})

	return a, nil
}

// buildStore opens the configured store and returns it with its closer.
func buildStore(ctx context.Context, cfg *config.Config, logg zerolog.Logger) (entryStore, func(), error) {
	idGen := idgen.NewULIDGenerator()

	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		db, err := sqliteRepo.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		logg.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite")
		store := sqliteRepo.NewEntryRepository(db, idGen, sqliteRepo.NewRetrier(logg))
		return store, func() { db.Close() }, nil

	case config.StoreDriverPostgres:
		if cfg.AutoMigrate {
			if _, err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, logg).Up(); err != nil {
				return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
			}
		}

		connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
		defer cancel()

		pool, err := postgres.NewPoolWithConfig(connectCtx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		logg.Info().Msg("connected to postgres")
		store := postgresRepo.NewEntryRepository(pool, idGen, postgresRepo.NewRetrier(logg))
		return store, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
