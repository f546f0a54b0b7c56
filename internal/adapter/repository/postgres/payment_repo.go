package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/postgres/generated"
	"github.com/iho/goloan/internal/usecase"
)

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	queries *generated.Queries
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db generated.DBTX) *PaymentRepository {
	return &PaymentRepository{
		queries: generated.New(db),
	}
}

// Create inserts a payment inside tx.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	return queriesFor(tx).CreatePayment(ctx, generated.CreatePaymentParams{
		ID:                payment.ID,
		LoanID:            payment.LoanID,
		InstallmentNumber: int32(payment.InstallmentNumber),
		Method:            payment.Method,
		PaidAt:            timeToPgDate(payment.PaidAt),
		Principal:         centsToNumeric(payment.Principal),
		Interest:          centsToNumeric(payment.Interest),
		Total:             centsToNumeric(payment.Total),
		CreatedAt:         timeToPgTimestamptz(payment.CreatedAt),
	})
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row, err := r.queries.GetPaymentByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	return rowToPayment(row), nil
}

// ListByLoan lists a loan's payments in registration order.
func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID string, limit, offset int) ([]*domain.Payment, error) {
	rows, err := r.queries.ListPaymentsByLoan(ctx, generated.ListPaymentsByLoanParams{
		LoanID: loanID,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	payments := make([]*domain.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, rowToPayment(row))
	}

	return payments, nil
}

func rowToPayment(row generated.Payment) *domain.Payment {
	return &domain.Payment{
		ID:                row.ID,
		LoanID:            row.LoanID,
		InstallmentNumber: int(row.InstallmentNumber),
		Method:            row.Method,
		PaidAt:            pgDateToTime(row.PaidAt),
		Principal:         numericToCents(row.Principal),
		Interest:          numericToCents(row.Interest),
		Total:             numericToCents(row.Total),
		CreatedAt:         row.CreatedAt.Time,
	}
}
