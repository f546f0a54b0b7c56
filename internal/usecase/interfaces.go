package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/goloan/internal/domain"
)

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	// UpdateBalance sets the nominal amount and outstanding balance and bumps
	// the version.
	UpdateBalance(ctx context.Context, tx Transaction, id string, amount, balance domain.Cents, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Loan, error)
}

// ScheduleRepository defines data access for schedule rows.
type ScheduleRepository interface {
	InsertRows(ctx context.Context, tx Transaction, rows []domain.ScheduleRow) error
	// ListOpen returns the loan's unsettled rows (see RowStatus.IsOpen) ordered by due date.
	ListOpen(ctx context.Context, tx Transaction, loanID string) ([]domain.ScheduleRow, error)
	// Latest returns the row with the highest number, or ErrInstallmentNotFound.
	Latest(ctx context.Context, tx Transaction, loanID string) (*domain.ScheduleRow, error)
	GetByNumberForUpdate(ctx context.Context, tx Transaction, loanID string, number int) (*domain.ScheduleRow, error)
	CountByLoan(ctx context.Context, tx Transaction, loanID string) (int64, error)
	PatchRow(ctx context.Context, tx Transaction, id string, patch domain.RowPatch, updatedAt time.Time) error
	CancelOpen(ctx context.Context, tx Transaction, loanID string, updatedAt time.Time) (int64, error)
	Settle(ctx context.Context, tx Transaction, id, paymentID string, updatedAt time.Time) error
	ListByLoan(ctx context.Context, loanID string) ([]domain.ScheduleRow, error)
	// MarkOverdue flips pending rows due before asOf to late.
	MarkOverdue(ctx context.Context, asOf, updatedAt time.Time) (int64, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByLoan(ctx context.Context, loanID string, limit, offset int) ([]*domain.Payment, error)
}

// InvestorRepository defines data access for loan investor shares.
type InvestorRepository interface {
	Create(ctx context.Context, tx Transaction, share *domain.InvestorShare) error
	ListByLoan(ctx context.Context, loanID string) ([]*domain.InvestorShare, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyProcessing is the value held under an idempotency key while the
// first request with that key is still running.
const IdempotencyProcessing = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}
