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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/goloan/internal/adapter/http"
	"github.com/iho/goloan/internal/adapter/http/handler"
	apimiddleware "github.com/iho/goloan/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/goloan/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/goloan/internal/adapter/repository/redis"
	"github.com/iho/goloan/internal/infrastructure/auth"
	"github.com/iho/goloan/internal/infrastructure/config"
	"github.com/iho/goloan/internal/infrastructure/eventpublisher"
	"github.com/iho/goloan/internal/infrastructure/logger"
	"github.com/iho/goloan/internal/infrastructure/metrics"
	"github.com/iho/goloan/internal/infrastructure/postgres"
	"github.com/iho/goloan/internal/infrastructure/redis"
	"github.com/iho/goloan/internal/infrastructure/scheduler"
	"github.com/iho/goloan/internal/usecase"
)

// rateLimiterIdle is how long a client may stay silent before its limiter is dropped.
const rateLimiterIdle = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Schema first, so the pool never sees a half-migrated database
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info().Str("path", cfg.MigrationsPath).Msg("migrations applied")

	// Connect to PostgreSQL
	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	pool, err := postgres.NewPoolWithConfig(connectCtx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisConnectTimeout)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	scheduleRepo := postgresRepo.NewScheduleRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	investorRepo := postgresRepo.NewInvestorRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(
		postgresRepo.WithLogger(log),
		postgresRepo.WithMetrics(m),
	)

	// Initialize use cases
	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, scheduleRepo, investorRepo, outboxRepo, idGen, m, log, cfg.ScheduleHorizon)
	recalcUC := usecase.NewRecalculationUseCase(loanRepo, scheduleRepo, outboxRepo, idGen, m, cfg.ScheduleHorizon)
	paymentUC := usecase.NewPaymentUseCase(txManager, retrier, loanRepo, scheduleRepo, paymentRepo, outboxRepo, recalcUC, idGen, m)
	previewUC := usecase.NewPreviewUseCase(redisRepo.NewCache(redisClient), log)
	auditUC := usecase.NewAuditUseCase(loanRepo, scheduleRepo, m)
	overdueUC := usecase.NewOverdueUseCase(scheduleRepo, m)

	rateLimiter := newRateLimiter(cfg, m)
	verifier, authHandler := newAuth(cfg)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LoanHandler:       handler.NewLoanHandler(loanUC),
		PaymentHandler:    handler.NewPaymentHandler(paymentUC),
		CalculatorHandler: handler.NewCalculatorHandler(previewUC),
		AuditHandler:      handler.NewAuditHandler(auditUC),
		HealthHandler: handler.NewHealthHandler(
			pool.Ping,
			func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		),
		AuthHandler:      authHandler,
		TokenVerifier:    verifier,
		IdempotencyStore: redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:           log,
	})

	// Background jobs
	jobs := scheduler.New(scheduler.WithLogger(log))
	if cfg.OverdueSweepSpec != "" {
		if err := jobs.Add("overdue-sweep", cfg.OverdueSweepSpec, func(ctx context.Context) error {
			_, err := overdueUC.MarkOverdue(ctx, time.Now().UTC())
			return err
		}); err != nil {
			return err
		}
	}
	if rateLimiter != nil {
		if err := jobs.Add("rate-limiter-cleanup", "@every 5m", func(context.Context) error {
			rateLimiter.Cleanup(rateLimiterIdle)
			return nil
		}); err != nil {
			return err
		}
	}

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  redisRepo.NewEventPublisher(redisClient, cfg.EventChannel),
		Metrics:    m,
		Logger:     &log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	workersDone := make(chan struct{}, 2)
	go func() {
		_ = jobs.Start(workerCtx)
		workersDone <- struct{}{}
	}()
	go func() {
		_ = publisher.Start(workerCtx)
		workersDone <- struct{}{}
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Bool("auth", cfg.AuthEnabled).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	stopWorkers()
	for i := 0; i < cap(workersDone); i++ {
		select {
		case <-workersDone:
		case <-shutdownCtx.Done():
			return shutdownCtx.Err()
		}
	}

	return nil
}

// newRateLimiter returns nil when rate limiting is disabled.
func newRateLimiter(cfg *config.Config, m *metrics.Metrics) *apimiddleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPS, burst, m)
}

// newAuth returns the token verifier and the auth handler, or nils when
// authentication is disabled.
func newAuth(cfg *config.Config) (apimiddleware.TokenVerifier, *handler.AuthHandler) {
	if !cfg.AuthEnabled {
		return nil, nil
	}
	manager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	return manager, handler.NewAuthHandler(manager, cfg.JWTExpiration)
}
