package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/iho/fintrack/internal/adapter/http"
	"github.com/iho/fintrack/internal/adapter/http/handler"
	"github.com/iho/fintrack/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/fintrack/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/fintrack/internal/adapter/repository/redis"
	"github.com/iho/fintrack/internal/infrastructure/auth"
	"github.com/iho/fintrack/internal/infrastructure/config"
	"github.com/iho/fintrack/internal/infrastructure/logger"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/infrastructure/postgres"
	"github.com/iho/fintrack/internal/infrastructure/redis"
	"github.com/iho/fintrack/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("fintrack-api", logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	cardRepo := postgresRepo.NewCreditCardRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, transactionRepo, idGen)
	cardUC := usecase.NewCreditCardUseCase(txManager, cardRepo, transactionRepo, idGen)
	categoryUC := usecase.NewCategoryUseCase(txManager, categoryRepo, transactionRepo, idGen)
	transactionUC := usecase.NewTransactionUseCase(
		txManager, accountRepo, cardRepo, categoryRepo, transactionRepo, idGen, cache,
	).WithRetrier(retrier)
	summaryUC := usecase.NewSummaryUseCase(accountRepo, cardRepo, transactionRepo, cache)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, m),
		CreditCardHandler:  handler.NewCreditCardHandler(cardUC, m),
		CategoryHandler:    handler.NewCategoryHandler(categoryUC, m),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, m),
		SummaryHandler:     handler.NewSummaryHandler(summaryUC),
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager, m),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),

		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,

		Logger:            log,
		MetricsMiddleware: middleware.NewMetricsMiddleware(m),
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits.Inc),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
