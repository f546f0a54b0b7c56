package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPayment = `-- name: CreatePayment :exec
INSERT INTO payments (id, loan_id, installment_number, method, paid_at, principal, interest, total, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreatePaymentParams struct {
	ID                string             `json:"id"`
	LoanID            string             `json:"loan_id"`
	InstallmentNumber int32              `json:"installment_number"`
	Method            string             `json:"method"`
	PaidAt            pgtype.Date        `json:"paid_at"`
	Principal         pgtype.Numeric     `json:"principal"`
	Interest          pgtype.Numeric     `json:"interest"`
	Total             pgtype.Numeric     `json:"total"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) error {
	_, err := q.db.Exec(ctx, createPayment,
		arg.ID,
		arg.LoanID,
		arg.InstallmentNumber,
		arg.Method,
		arg.PaidAt,
		arg.Principal,
		arg.Interest,
		arg.Total,
		arg.CreatedAt,
	)
	return err
}

const getPaymentByID = `-- name: GetPaymentByID :one
SELECT id, loan_id, installment_number, method, paid_at, principal, interest, total, created_at FROM payments WHERE id = $1
`

func (q *Queries) GetPaymentByID(ctx context.Context, id string) (Payment, error) {
	row := q.db.QueryRow(ctx, getPaymentByID, id)
	var i Payment
	err := row.Scan(
		&i.ID,
		&i.LoanID,
		&i.InstallmentNumber,
		&i.Method,
		&i.PaidAt,
		&i.Principal,
		&i.Interest,
		&i.Total,
		&i.CreatedAt,
	)
	return i, err
}

const listPaymentsByLoan = `-- name: ListPaymentsByLoan :many
SELECT id, loan_id, installment_number, method, paid_at, principal, interest, total, created_at FROM payments
WHERE loan_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3
`

type ListPaymentsByLoanParams struct {
	LoanID string `json:"loan_id"`
	Limit  int32  `json:"limit"`
	Offset int32  `json:"offset"`
}

func (q *Queries) ListPaymentsByLoan(ctx context.Context, arg ListPaymentsByLoanParams) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPaymentsByLoan, arg.LoanID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Payment
	for rows.Next() {
		var i Payment
		if err := rows.Scan(
			&i.ID,
			&i.LoanID,
			&i.InstallmentNumber,
			&i.Method,
			&i.PaidAt,
			&i.Principal,
			&i.Interest,
			&i.Total,
			&i.CreatedAt,
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
