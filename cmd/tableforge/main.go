package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/tableforge/tableforge/internal/app"
	"github.com/tableforge/tableforge/internal/auth"
	"github.com/tableforge/tableforge/internal/authn"
	"github.com/tableforge/tableforge/internal/credentials"
	"github.com/tableforge/tableforge/internal/observability"
	"github.com/tableforge/tableforge/internal/platform/db"
	"github.com/tableforge/tableforge/internal/reference"
	"github.com/tableforge/tableforge/internal/shared"
	"github.com/tableforge/tableforge/internal/token"
	"github.com/tableforge/tableforge/internal/users"
	"github.com/tableforge/tableforge/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionStore := shared.NewSessionStore(redisClient, cfg.SessionCookie, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	codec := token.NewCodec(cfg.TokenSecret)
	metrics := observability.NewMetrics()

	userRepo := users.NewRepository(pool)
	credRepo := credentials.NewRepository(pool)
	authRepo := auth.NewRepository(pool)
	sourceRepo := reference.NewRepository(pool)

	chain := authn.NewChain(codec, credRepo, userRepo, sessionStore)
	authenticator := &authn.Authenticator{Chain: chain, Logger: logger, Metrics: metrics}

	authService := auth.NewService(userRepo, credRepo, codec, authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionStore, authenticator)

	usersHandler := users.NewHandler(logger, users.NewService(userRepo))
	sourceHandler := reference.NewHandler(logger, sourceRepo)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		SessionStore:  sessionStore,
		Authenticator: authenticator,
		AuthHandler:   authHandler,
		UsersHandler:  usersHandler,
		SourceHandler: sourceHandler,
		JobHandler:    jobHandler,
		Metrics:       metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
