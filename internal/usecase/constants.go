package usecase

import (
	"fmt"
	"time"

	"github.com/iho/goloan/internal/domain"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// PreviewCacheTTL is how long calculator results are cached
	PreviewCacheTTL = 10 * time.Minute
)

// txFailure wraps a persistence error raised mid-transaction so callers can
// match both the failure category and the cause.
func txFailure(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, step, err)
}
