package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/postgres/generated"
	"github.com/iho/goloan/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	queries *generated.Queries
}

// NewLoanRepository creates a new LoanRepository. db is usually a *pgxpool.Pool.
func NewLoanRepository(db generated.DBTX) *LoanRepository {
	return &LoanRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new loan.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	var endDate pgtype.Date
	if loan.EndDate != nil {
		endDate = timeToPgDate(*loan.EndDate)
	}

	return queriesFor(tx).CreateLoan(ctx, generated.CreateLoanParams{
		ID:             loan.ID,
		ClientID:       loan.ClientID,
		IntermediaryID: stringToPgText(loan.IntermediaryID),
		GuarantorID:    stringToPgText(loan.GuarantorID),
		Product:        string(loan.Product),
		Cadence:        string(loan.Cadence),
		InterestRate:   decimalToNumeric(loan.InterestRate.Fraction()),
		Amount:         centsToNumeric(loan.Amount),
		Balance:        centsToNumeric(loan.Balance),
		Term:           int32(loan.Term),
		StartDate:      timeToPgDate(loan.StartDate),
		EndDate:        endDate,
		Version:        loan.Version,
		CreatedAt:      timeToPgTimestamptz(loan.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(loan.UpdatedAt),
	})
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	row, err := r.queries.GetLoanByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return rowToLoan(row)
}

// GetByIDForUpdate retrieves a loan by ID with a FOR UPDATE lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	row, err := queriesFor(tx).GetLoanByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return rowToLoan(row)
}

// UpdateBalance sets the amount and balance of a loan.
func (r *LoanRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, amount, balance domain.Cents, updatedAt time.Time) error {
	n, err := queriesFor(tx).UpdateLoanBalance(ctx, generated.UpdateLoanBalanceParams{
		ID:        id,
		Amount:    centsToNumeric(amount),
		Balance:   centsToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// List lists loans with pagination, newest first.
func (r *LoanRepository) List(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	rows, err := r.queries.ListLoans(ctx, generated.ListLoansParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	loans := make([]*domain.Loan, 0, len(rows))
	for _, row := range rows {
		loan, err := rowToLoan(row)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, nil
}

func rowToLoan(row generated.Loan) (*domain.Loan, error) {
	rate, err := domain.RateFromFraction(numericToDecimal(row.InterestRate))
	if err != nil {
		return nil, err
	}

	var endDate *time.Time
	if row.EndDate.Valid {
		t := pgDateToTime(row.EndDate)
		endDate = &t
	}

	return &domain.Loan{
		ID:             row.ID,
		ClientID:       row.ClientID,
		IntermediaryID: pgTextToString(row.IntermediaryID),
		GuarantorID:    pgTextToString(row.GuarantorID),
		Product:        domain.Product(row.Product),
		Cadence:        domain.Cadence(row.Cadence),
		InterestRate:   rate,
		Amount:         numericToCents(row.Amount),
		Balance:        numericToCents(row.Balance),
		Term:           int(row.Term),
		StartDate:      pgDateToTime(row.StartDate),
		EndDate:        endDate,
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}, nil
}
