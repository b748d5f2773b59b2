package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/VrindaSoni2/hire.ai/internal/auth"
	"github.com/VrindaSoni2/hire.ai/internal/auth/jwt"
	"github.com/VrindaSoni2/hire.ai/internal/config"
	"github.com/VrindaSoni2/hire.ai/internal/db/repository"
	"github.com/VrindaSoni2/hire.ai/internal/interview"
	"github.com/VrindaSoni2/hire.ai/internal/interview/document"
	"github.com/VrindaSoni2/hire.ai/internal/interview/generation"
	"github.com/VrindaSoni2/hire.ai/internal/interview/normalize"
	"github.com/VrindaSoni2/hire.ai/internal/interview/prompt"
	"github.com/VrindaSoni2/hire.ai/internal/llm"
	"github.com/VrindaSoni2/hire.ai/internal/logging"
	"github.com/VrindaSoni2/hire.ai/internal/roleskill"
	"github.com/VrindaSoni2/hire.ai/internal/server"
	ws "github.com/VrindaSoni2/hire.ai/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	hub   *ws.Hub
	http  *http.Server
}

// New bootstraps configs, logger, Postgres, Redis, the LLM client and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.Postgres.MaxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	client, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("llm client: %w", err)
	}
	pipeline := NewPipeline(cfg, client, logger)

	roleSkillRepo := repository.NewPgRoleSkillRepository(pool)
	roleSkillSvc := roleskill.NewService(roleSkillRepo, roleskill.NewCache(redisClient, cfg.RoleSkills.CatalogCacheTTL), logger)

	var protect func(http.Handler) http.Handler
	if cfg.Security.JWTSecret != "" {
		tokens := jwt.NewManager(jwt.TokenConfig{
			Secret: []byte(cfg.Security.JWTSecret),
			TTL:    cfg.Security.TokenTTL,
			Issuer: cfg.Name,
		})
		protect = auth.Middleware(tokens, logger)
		logger.Info().Msg("bearer authentication enabled")
	} else {
		logger.Warn().Msg("JWT secret not configured; API routes are unauthenticated")
	}

	wsHub := ws.NewHub(logger)
	interviewHandler := interview.NewHTTPHandler(pipeline, wsHub, interview.HandlerOptions{
		DefaultQuestionCount: cfg.Generation.DefaultQuestionCount,
		DefaultComplexity:    &cfg.Generation.DefaultComplexity,
		MaxUploadBytes:       cfg.Upload.MaxBytes,
	}, logger)
	roleSkillHandler := roleskill.NewHTTPHandler(roleSkillSvc, logger)

	pingers := []server.Pinger{server.PostgresPinger(pool), server.RedisPinger(redisClient)}
	apiServer := server.NewHTTPServer(cfg, logger, pingers, protect, interviewHandler, roleSkillHandler)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		hub:    wsHub,
		http:   apiServer,
	}, nil
}

// NewPipeline assembles the question-generation pipeline around client.
func NewPipeline(cfg *config.App, client llm.Client, logger zerolog.Logger) *interview.Service {
	gen := cfg.Generation
	orchestrator := generation.New(client, generation.Policy{
		Timeout:     gen.AttemptTimeout,
		MaxAttempts: gen.MaxAttempts,
		BaseBackoff: gen.BackoffBase,
		MaxBackoff:  gen.BackoffMax,
	}, logger)

	return interview.NewService(
		document.New(document.Options{CharBudget: gen.DocumentCharBudget}),
		prompt.New(prompt.Options{ExcerptChars: gen.ExcerptChars}),
		orchestrator,
		normalize.New(logger),
		client,
		interview.ServiceOptions{
			Limits:       interview.Limits{MaxQuestions: gen.MaxQuestions},
			Provider:     cfg.LLM.Provider,
			ProbeTimeout: cfg.LLM.HealthTimeout,
		},
		logger,
	)
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	a.hub.CloseAll()
	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
