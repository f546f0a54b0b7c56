package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/goloan/internal/infrastructure/metrics"
)

// PostgreSQL error codes for retryable errors.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

// Retrier implements usecase.Retrier with exponential backoff.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// RetrierOption configures a Retrier.
type RetrierOption func(*Retrier)

// WithLogger sets the logger used to report retries.
func WithLogger(logger zerolog.Logger) RetrierOption {
	return func(r *Retrier) { r.logger = logger }
}

// WithMetrics counts retries in m.
func WithMetrics(m *metrics.Metrics) RetrierOption {
	return func(r *Retrier) { r.metrics = m }
}

// WithMaxRetries overrides the default of 3 retries.
func WithMaxRetries(n int) RetrierOption {
	return func(r *Retrier) { r.maxRetries = n }
}

// NewRetrier creates a new PostgreSQL retrier with default settings.
func NewRetrier(opts ...RetrierOption) *Retrier {
	r := &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retry executes an operation with exponential backoff on deadlocks and
// serialization failures. Any other error is returned at once.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		r.logger.Warn().
			Err(err).
			Int("retry", retryCount).
			Msg("retryable database error, retrying")
		if r.metrics != nil {
			r.metrics.DBRetries.Inc()
		}

		return err
	}, backoff.WithContext(b, ctx))
}

// isRetryableError checks if a PostgreSQL error should trigger a retry.
func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure:
			return true
		}
	}
	return false
}
