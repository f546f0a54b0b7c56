package postgres

import (
	"context"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/postgres/generated"
	"github.com/iho/goloan/internal/usecase"
)

// InvestorRepository implements usecase.InvestorRepository.
type InvestorRepository struct {
	queries *generated.Queries
}

// NewInvestorRepository creates a new InvestorRepository.
func NewInvestorRepository(db generated.DBTX) *InvestorRepository {
	return &InvestorRepository{
		queries: generated.New(db),
	}
}

// Create records an investor stake inside tx.
func (r *InvestorRepository) Create(ctx context.Context, tx usecase.Transaction, share *domain.InvestorShare) error {
	return queriesFor(tx).CreateLoanInvestor(ctx, generated.CreateLoanInvestorParams{
		LoanID:         share.LoanID,
		InvestorID:     share.InvestorID,
		AmountInvested: centsToNumeric(share.AmountInvested),
		InvestorShare:  decimalToNumeric(share.InvestorShare),
		AdminShare:     decimalToNumeric(share.AdminShare),
	})
}

// ListByLoan returns the stakes of a loan.
func (r *InvestorRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.InvestorShare, error) {
	rows, err := r.queries.ListLoanInvestors(ctx, loanID)
	if err != nil {
		return nil, err
	}

	shares := make([]*domain.InvestorShare, 0, len(rows))
	for _, row := range rows {
		shares = append(shares, &domain.InvestorShare{
			LoanID:         row.LoanID,
			InvestorID:     row.InvestorID,
			AmountInvested: numericToCents(row.AmountInvested),
			InvestorShare:  numericToDecimal(row.InvestorShare),
			AdminShare:     numericToDecimal(row.AdminShare),
		})
	}

	return shares, nil
}
