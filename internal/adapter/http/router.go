package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/adapter/http/handler"
	"github.com/iho/fintrack/internal/adapter/http/middleware"
	"github.com/iho/fintrack/internal/infrastructure/auth"
	"github.com/iho/fintrack/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	CreditCardHandler  *handler.CreditCardHandler
	CategoryHandler    *handler.CategoryHandler
	TransactionHandler *handler.TransactionHandler
	SummaryHandler     *handler.SummaryHandler
	AuthHandler        *handler.AuthHandler
	HealthHandler      *handler.HealthHandler

	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	Logger            zerolog.Logger
	MetricsMiddleware *middleware.MetricsMiddleware
	RateLimiter       *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewRecoveryMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.MetricsMiddleware != nil {
		r.Use(cfg.MetricsMiddleware.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Put("/{id}", cfg.AccountHandler.Update)
				r.Delete("/{id}", cfg.AccountHandler.Delete)
			})

			r.Route("/credit-cards", func(r chi.Router) {
				r.Post("/", cfg.CreditCardHandler.Create)
				r.Get("/", cfg.CreditCardHandler.List)
				r.Get("/{id}", cfg.CreditCardHandler.Get)
				r.Put("/{id}", cfg.CreditCardHandler.Update)
				r.Delete("/{id}", cfg.CreditCardHandler.Delete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", cfg.CategoryHandler.Create)
				r.Get("/", cfg.CategoryHandler.List)
				r.Get("/{id}", cfg.CategoryHandler.Get)
				r.Put("/{id}", cfg.CategoryHandler.Update)
				r.Delete("/{id}", cfg.CategoryHandler.Delete)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Create)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Put("/{id}", cfg.TransactionHandler.Update)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})

			r.Get("/summary", cfg.SummaryHandler.Summary)
			r.Get("/summary/monthly", cfg.SummaryHandler.MonthlySummary)
			r.Get("/overview", cfg.SummaryHandler.Overview)
		})
	})

	return r
}
