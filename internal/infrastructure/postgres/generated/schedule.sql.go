package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const cancelOpenRows = `-- name: CancelOpenRows :execrows
UPDATE schedule_rows SET status = 'cancelled', updated_at = $2
WHERE loan_id = $1 AND status IN ('pending', 'late', 'partially_paid')
`

type CancelOpenRowsParams struct {
	LoanID    string             `json:"loan_id"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CancelOpenRows(ctx context.Context, arg CancelOpenRowsParams) (int64, error) {
	result, err := q.db.Exec(ctx, cancelOpenRows, arg.LoanID, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const countScheduleRows = `-- name: CountScheduleRows :one
SELECT COUNT(*) FROM schedule_rows WHERE loan_id = $1
`

func (q *Queries) CountScheduleRows(ctx context.Context, loanID string) (int64, error) {
	row := q.db.QueryRow(ctx, countScheduleRows, loanID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createScheduleRow = `-- name: CreateScheduleRow :exec
INSERT INTO schedule_rows (id, loan_id, number, due_date, opening_balance, principal, interest, total, closing_balance, status, payment_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

type CreateScheduleRowParams struct {
	ID             string             `json:"id"`
	LoanID         string             `json:"loan_id"`
	Number         int32              `json:"number"`
	DueDate        pgtype.Date        `json:"due_date"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	Principal      pgtype.Numeric     `json:"principal"`
	Interest       pgtype.Numeric     `json:"interest"`
	Total          pgtype.Numeric     `json:"total"`
	ClosingBalance pgtype.Numeric     `json:"closing_balance"`
	Status         string             `json:"status"`
	PaymentID      pgtype.Text        `json:"payment_id"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateScheduleRow(ctx context.Context, arg CreateScheduleRowParams) error {
	_, err := q.db.Exec(ctx, createScheduleRow,
		arg.ID,
		arg.LoanID,
		arg.Number,
		arg.DueDate,
		arg.OpeningBalance,
		arg.Principal,
		arg.Interest,
		arg.Total,
		arg.ClosingBalance,
		arg.Status,
		arg.PaymentID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getLatestScheduleRow = `-- name: GetLatestScheduleRow :one
SELECT id, loan_id, number, due_date, opening_balance, principal, interest, total, closing_balance, status, payment_id, created_at, updated_at FROM schedule_rows
WHERE loan_id = $1
ORDER BY number DESC
LIMIT 1
`

func (q *Queries) GetLatestScheduleRow(ctx context.Context, loanID string) (ScheduleRow, error) {
	row := q.db.QueryRow(ctx, getLatestScheduleRow, loanID)
	var i ScheduleRow
	err := row.Scan(
		&i.ID,
		&i.LoanID,
		&i.Number,
		&i.DueDate,
		&i.OpeningBalance,
		&i.Principal,
		&i.Interest,
		&i.Total,
		&i.ClosingBalance,
		&i.Status,
		&i.PaymentID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getScheduleRowByNumberForUpdate = `-- name: GetScheduleRowByNumberForUpdate :one
SELECT id, loan_id, number, due_date, opening_balance, principal, interest, total, closing_balance, status, payment_id, created_at, updated_at FROM schedule_rows
WHERE loan_id = $1 AND number = $2
FOR UPDATE
`

type GetScheduleRowByNumberForUpdateParams struct {
	LoanID string `json:"loan_id"`
	Number int32  `json:"number"`
}

func (q *Queries) GetScheduleRowByNumberForUpdate(ctx context.Context, arg GetScheduleRowByNumberForUpdateParams) (ScheduleRow, error) {
	row := q.db.QueryRow(ctx, getScheduleRowByNumberForUpdate, arg.LoanID, arg.Number)
	var i ScheduleRow
	err := row.Scan(
		&i.ID,
		&i.LoanID,
		&i.Number,
		&i.DueDate,
		&i.OpeningBalance,
		&i.Principal,
		&i.Interest,
		&i.Total,
		&i.ClosingBalance,
		&i.Status,
		&i.PaymentID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listOpenScheduleRows = `-- name: ListOpenScheduleRows :many
SELECT id, loan_id, number, due_date, opening_balance, principal, interest, total, closing_balance, status, payment_id, created_at, updated_at FROM schedule_rows
WHERE loan_id = $1 AND status IN ('pending', 'late', 'partially_paid')
ORDER BY due_date, number
FOR UPDATE
`

func (q *Queries) ListOpenScheduleRows(ctx context.Context, loanID string) ([]ScheduleRow, error) {
	rows, err := q.db.Query(ctx, listOpenScheduleRows, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ScheduleRow
	for rows.Next() {
		var i ScheduleRow
		if err := rows.Scan(
			&i.ID,
			&i.LoanID,
			&i.Number,
			&i.DueDate,
			&i.OpeningBalance,
			&i.Principal,
			&i.Interest,
			&i.Total,
			&i.ClosingBalance,
			&i.Status,
			&i.PaymentID,
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

const listScheduleRowsByLoan = `-- name: ListScheduleRowsByLoan :many
SELECT id, loan_id, number, due_date, opening_balance, principal, interest, total, closing_balance, status, payment_id, created_at, updated_at FROM schedule_rows
WHERE loan_id = $1
ORDER BY number
`

func (q *Queries) ListScheduleRowsByLoan(ctx context.Context, loanID string) ([]ScheduleRow, error) {
	rows, err := q.db.Query(ctx, listScheduleRowsByLoan, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ScheduleRow
	for rows.Next() {
		var i ScheduleRow
		if err := rows.Scan(
			&i.ID,
			&i.LoanID,
			&i.Number,
			&i.DueDate,
			&i.OpeningBalance,
			&i.Principal,
			&i.Interest,
			&i.Total,
			&i.ClosingBalance,
			&i.Status,
			&i.PaymentID,
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

const markOverdueRows = `-- name: MarkOverdueRows :execrows
UPDATE schedule_rows SET status = 'late', updated_at = $2
WHERE status = 'pending' AND due_date < $1
`

type MarkOverdueRowsParams struct {
	AsOf      pgtype.Date        `json:"as_of"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) MarkOverdueRows(ctx context.Context, arg MarkOverdueRowsParams) (int64, error) {
	result, err := q.db.Exec(ctx, markOverdueRows, arg.AsOf, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const patchScheduleRow = `-- name: PatchScheduleRow :execrows
UPDATE schedule_rows
SET opening_balance = $2, principal = 0, interest = $3, total = $4, closing_balance = $5, updated_at = $6
WHERE id = $1 AND status IN ('pending', 'late', 'partially_paid')
`

type PatchScheduleRowParams struct {
	ID             string             `json:"id"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	Interest       pgtype.Numeric     `json:"interest"`
	Total          pgtype.Numeric     `json:"total"`
	ClosingBalance pgtype.Numeric     `json:"closing_balance"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) PatchScheduleRow(ctx context.Context, arg PatchScheduleRowParams) (int64, error) {
	result, err := q.db.Exec(ctx, patchScheduleRow,
		arg.ID,
		arg.OpeningBalance,
		arg.Interest,
		arg.Total,
		arg.ClosingBalance,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const settleScheduleRow = `-- name: SettleScheduleRow :execrows
UPDATE schedule_rows SET status = 'paid', payment_id = $2, updated_at = $3
WHERE id = $1 AND status IN ('pending', 'late', 'partially_paid')
`

type SettleScheduleRowParams struct {
	ID        string             `json:"id"`
	PaymentID pgtype.Text        `json:"payment_id"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) SettleScheduleRow(ctx context.Context, arg SettleScheduleRowParams) (int64, error) {
	result, err := q.db.Exec(ctx, settleScheduleRow, arg.ID, arg.PaymentID, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
