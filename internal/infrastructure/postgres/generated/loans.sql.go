package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLoan = `-- name: CreateLoan :exec
INSERT INTO loans (id, client_id, intermediary_id, guarantor_id, product, cadence, interest_rate, amount, balance, term, start_date, end_date, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

type CreateLoanParams struct {
	ID             string             `json:"id"`
	ClientID       string             `json:"client_id"`
	IntermediaryID pgtype.Text        `json:"intermediary_id"`
	GuarantorID    pgtype.Text        `json:"guarantor_id"`
	Product        string             `json:"product"`
	Cadence        string             `json:"cadence"`
	InterestRate   pgtype.Numeric     `json:"interest_rate"`
	Amount         pgtype.Numeric     `json:"amount"`
	Balance        pgtype.Numeric     `json:"balance"`
	Term           int32              `json:"term"`
	StartDate      pgtype.Date        `json:"start_date"`
	EndDate        pgtype.Date        `json:"end_date"`
	Version        int64              `json:"version"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateLoan(ctx context.Context, arg CreateLoanParams) error {
	_, err := q.db.Exec(ctx, createLoan,
		arg.ID,
		arg.ClientID,
		arg.IntermediaryID,
		arg.GuarantorID,
		arg.Product,
		arg.Cadence,
		arg.InterestRate,
		arg.Amount,
		arg.Balance,
		arg.Term,
		arg.StartDate,
		arg.EndDate,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getLoanByID = `-- name: GetLoanByID :one
SELECT id, client_id, intermediary_id, guarantor_id, product, cadence, interest_rate, amount, balance, term, start_date, end_date, version, created_at, updated_at FROM loans WHERE id = $1
`

func (q *Queries) GetLoanByID(ctx context.Context, id string) (Loan, error) {
	row := q.db.QueryRow(ctx, getLoanByID, id)
	var i Loan
	err := row.Scan(
		&i.ID,
		&i.ClientID,
		&i.IntermediaryID,
		&i.GuarantorID,
		&i.Product,
		&i.Cadence,
		&i.InterestRate,
		&i.Amount,
		&i.Balance,
		&i.Term,
		&i.StartDate,
		&i.EndDate,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getLoanByIDForUpdate = `-- name: GetLoanByIDForUpdate :one
SELECT id, client_id, intermediary_id, guarantor_id, product, cadence, interest_rate, amount, balance, term, start_date, end_date, version, created_at, updated_at FROM loans WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetLoanByIDForUpdate(ctx context.Context, id string) (Loan, error) {
	row := q.db.QueryRow(ctx, getLoanByIDForUpdate, id)
	var i Loan
	err := row.Scan(
		&i.ID,
		&i.ClientID,
		&i.IntermediaryID,
		&i.GuarantorID,
		&i.Product,
		&i.Cadence,
		&i.InterestRate,
		&i.Amount,
		&i.Balance,
		&i.Term,
		&i.StartDate,
		&i.EndDate,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listLoans = `-- name: ListLoans :many
SELECT id, client_id, intermediary_id, guarantor_id, product, cadence, interest_rate, amount, balance, term, start_date, end_date, version, created_at, updated_at FROM loans
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2
`

type ListLoansParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListLoans(ctx context.Context, arg ListLoansParams) ([]Loan, error) {
	rows, err := q.db.Query(ctx, listLoans, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Loan
	for rows.Next() {
		var i Loan
		if err := rows.Scan(
			&i.ID,
			&i.ClientID,
			&i.IntermediaryID,
			&i.GuarantorID,
			&i.Product,
			&i.Cadence,
			&i.InterestRate,
			&i.Amount,
			&i.Balance,
			&i.Term,
			&i.StartDate,
			&i.EndDate,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateLoanBalance = `-- name: UpdateLoanBalance :execrows
UPDATE loans SET amount = $2, balance = $3, version = version + 1, updated_at = $4 WHERE id = $1
`

type UpdateLoanBalanceParams struct {
	ID        string             `json:"id"`
	Amount    pgtype.Numeric     `json:"amount"`
	Balance   pgtype.Numeric     `json:"balance"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateLoanBalance(ctx context.Context, arg UpdateLoanBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateLoanBalance,
		arg.ID,
		arg.Amount,
		arg.Balance,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
