package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLoanInvestor = `-- name: CreateLoanInvestor :exec
INSERT INTO loan_investors (loan_id, investor_id, amount_invested, investor_share, admin_share)
VALUES ($1, $2, $3, $4, $5)
`

type CreateLoanInvestorParams struct {
	LoanID         string         `json:"loan_id"`
	InvestorID     string         `json:"investor_id"`
	AmountInvested pgtype.Numeric `json:"amount_invested"`
	InvestorShare  pgtype.Numeric `json:"investor_share"`
	AdminShare     pgtype.Numeric `json:"admin_share"`
}

func (q *Queries) CreateLoanInvestor(ctx context.Context, arg CreateLoanInvestorParams) error {
	_, err := q.db.Exec(ctx, createLoanInvestor,
		arg.LoanID,
		arg.InvestorID,
		arg.AmountInvested,
		arg.InvestorShare,
		arg.AdminShare,
	)
	return err
}

const listLoanInvestors = `-- name: ListLoanInvestors :many
SELECT loan_id, investor_id, amount_invested, investor_share, admin_share FROM loan_investors
WHERE loan_id = $1
ORDER BY investor_id
`

func (q *Queries) ListLoanInvestors(ctx context.Context, loanID string) ([]LoanInvestor, error) {
	rows, err := q.db.Query(ctx, listLoanInvestors, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LoanInvestor
	for rows.Next() {
		var i LoanInvestor
		if err := rows.Scan(
			&i.LoanID,
			&i.InvestorID,
			&i.AmountInvested,
			&i.InvestorShare,
			&i.AdminShare,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
