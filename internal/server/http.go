package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/crowdprep/interview-bank/internal/auth"
	"github.com/crowdprep/interview-bank/internal/config"
	"github.com/crowdprep/interview-bank/internal/question"
)

// NewHTTPServer wires the route table. pool and redisClient may be nil when
// the service runs on the in-memory store; readyz only pings what exists.
func NewHTTPServer(
	cfg *config.App,
	logger zerolog.Logger,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	tokens *auth.TokenManager,
	questions *question.HTTPHandlers,
) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/questions", questions.Create)
	mux.HandleFunc("GET /v1/questions", questions.List)
	mux.HandleFunc("GET /v1/questions/search", questions.Search)
	mux.HandleFunc("GET /v1/questions/categories", questions.Categories)
	mux.HandleFunc("GET /v1/questions/{id}", questions.Get)
	mux.Handle("PUT /v1/questions/{id}", auth.RequireAuth(http.HandlerFunc(questions.Update)))
	mux.Handle("DELETE /v1/questions/{id}", auth.RequireAuth(http.HandlerFunc(questions.Delete)))
	mux.Handle("POST /v1/questions/{id}/upvote", auth.RequireAuth(http.HandlerFunc(questions.Upvote)))
	mux.HandleFunc("GET /v1/questions/{id}/upvotes", questions.Upvotes)

	handler := Observe(logger)(auth.Middleware(tokens, logger)(mux))

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if pool != nil {
		if err := pool.Ping(ctx); err != nil {
			return err
		}
	}
	if redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
