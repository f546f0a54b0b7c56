package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/goloan/internal/adapter/http/handler"
	"github.com/iho/goloan/internal/adapter/http/middleware"
	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/metrics"
	"github.com/iho/goloan/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LoanHandler       *handler.LoanHandler
	PaymentHandler    *handler.PaymentHandler
	CalculatorHandler *handler.CalculatorHandler
	AuditHandler      *handler.AuditHandler
	HealthHandler     *handler.HealthHandler
	// AuthHandler and TokenVerifier enable bearer auth when both are set.
	AuthHandler   *handler.AuthHandler
	TokenVerifier middleware.TokenVerifier

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	authEnabled := cfg.TokenVerifier != nil && cfg.AuthHandler != nil

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if authEnabled {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		if authEnabled {
			r.Get("/auth/me", cfg.AuthHandler.Me)
			r.With(middleware.RequireRole(domain.RoleAdmin)).Post("/auth/token", cfg.AuthHandler.IssueToken)
		}

		// Loans
		r.Route("/loans", func(r chi.Router) {
			if authEnabled {
				r.Use(middleware.RequireWriteRole)
			}
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/", cfg.LoanHandler.List)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Get("/{id}/schedule", cfg.LoanHandler.Schedule)
			r.Post("/{id}/schedule", cfg.LoanHandler.ImportSchedule)
			r.Get("/{id}/schedule/verify", cfg.AuditHandler.Verify)
			r.Get("/{id}/investors", cfg.LoanHandler.Investors)
			r.Post("/{id}/payments", cfg.PaymentHandler.Register)
			r.Get("/{id}/payments", cfg.PaymentHandler.ListByLoan)
		})

		// Payments
		r.Get("/payments/{id}", cfg.PaymentHandler.Get)

		// Calculators store nothing, so any authenticated role may use them.
		r.Route("/calculator", func(r chi.Router) {
			r.Post("/amortization", cfg.CalculatorHandler.Amortization)
			r.Post("/interest-only", cfg.CalculatorHandler.InterestOnly)
		})
	})

	return r
}
