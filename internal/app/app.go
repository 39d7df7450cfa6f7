package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/crowdprep/interview-bank/internal/auth"
	"github.com/crowdprep/interview-bank/internal/config"
	"github.com/crowdprep/interview-bank/internal/db/repository"
	"github.com/crowdprep/interview-bank/internal/logging"
	"github.com/crowdprep/interview-bank/internal/question"
	"github.com/crowdprep/interview-bank/internal/server"
)

// Application aggregates shared infrastructure (store, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, the question store, and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	var pool *pgxpool.Pool
	var store question.Store
	if cfg.Postgres.Host != "" {
		connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password,
			cfg.Postgres.Database, cfg.Postgres.SSLMode, cfg.Postgres.MaxConns)

		var err error
		pool, err = pgxpool.New(ctx, connString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store = repository.NewQuestionRepo(pool)
	} else {
		logger.Warn().Msg("PG_HOST not set; using in-memory question store (data is not durable)")
		store = question.NewMemoryStore()
	}

	var redisClient *redis.Client
	var cache question.CategoryCache
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		cache = question.NewRedisCategoryCache(redisClient, cfg.Redis.CacheTTL)
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; category reads scan the store directly")
	}

	tokens := auth.NewTokenManager([]byte(cfg.Security.JWTSecret), cfg.Security.JWTIssuer)
	questionSvc := question.NewService(store, cache, logger)
	questionHandlers := question.NewHTTPHandlers(questionSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, tokens, questionHandlers)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
