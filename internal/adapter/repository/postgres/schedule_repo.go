package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/postgres/generated"
	"github.com/iho/goloan/internal/usecase"
)

// ScheduleRepository implements usecase.ScheduleRepository.
type ScheduleRepository struct {
	queries *generated.Queries
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(db generated.DBTX) *ScheduleRepository {
	return &ScheduleRepository{
		queries: generated.New(db),
	}
}

// InsertRows inserts schedule rows inside tx.
func (r *ScheduleRepository) InsertRows(ctx context.Context, tx usecase.Transaction, rows []domain.ScheduleRow) error {
	queries := queriesFor(tx)

	for i := range rows {
		row := &rows[i]
		var paymentID pgtype.Text
		if row.PaymentID != nil {
			paymentID = stringToPgText(row.PaymentID)
		}

		err := queries.CreateScheduleRow(ctx, generated.CreateScheduleRowParams{
			ID:             row.ID,
			LoanID:         row.LoanID,
			Number:         int32(row.Number),
			DueDate:        timeToPgDate(row.DueDate),
			OpeningBalance: centsToNumeric(row.OpeningBalance),
			Principal:      centsToNumeric(row.Principal),
			Interest:       centsToNumeric(row.Interest),
			Total:          centsToNumeric(row.Total),
			ClosingBalance: centsToNumeric(row.ClosingBalance),
			Status:         string(row.Status),
			PaymentID:      paymentID,
			CreatedAt:      timeToPgTimestamptz(row.CreatedAt),
			UpdatedAt:      timeToPgTimestamptz(row.UpdatedAt),
		})
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: installment %d", domain.ErrScheduleExists, row.Number)
			}
			return err
		}
	}

	return nil
}

// ListOpen locks and returns a loan's unsettled rows ordered by due date.
func (r *ScheduleRepository) ListOpen(ctx context.Context, tx usecase.Transaction, loanID string) ([]domain.ScheduleRow, error) {
	rows, err := queriesFor(tx).ListOpenScheduleRows(ctx, loanID)
	if err != nil {
		return nil, err
	}

	return rowsToSchedule(rows), nil
}

// Latest returns the highest-numbered row of a loan.
func (r *ScheduleRepository) Latest(ctx context.Context, tx usecase.Transaction, loanID string) (*domain.ScheduleRow, error) {
	row, err := queriesFor(tx).GetLatestScheduleRow(ctx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInstallmentNotFound
		}

		return nil, err
	}

	out := rowToScheduleRow(row)
	return &out, nil
}

// GetByNumberForUpdate locks and returns one installment.
func (r *ScheduleRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, loanID string, number int) (*domain.ScheduleRow, error) {
	row, err := queriesFor(tx).GetScheduleRowByNumberForUpdate(ctx, generated.GetScheduleRowByNumberForUpdateParams{
		LoanID: loanID,
		Number: int32(number),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInstallmentNotFound
		}

		return nil, err
	}

	out := rowToScheduleRow(row)
	return &out, nil
}

// CountByLoan counts every row of a loan, cancelled ones included.
func (r *ScheduleRepository) CountByLoan(ctx context.Context, tx usecase.Transaction, loanID string) (int64, error) {
	return queriesFor(tx).CountScheduleRows(ctx, loanID)
}

// PatchRow overwrites the amounts of an open row.
func (r *ScheduleRepository) PatchRow(ctx context.Context, tx usecase.Transaction, id string, patch domain.RowPatch, updatedAt time.Time) error {
	n, err := queriesFor(tx).PatchScheduleRow(ctx, generated.PatchScheduleRowParams{
		ID:             id,
		OpeningBalance: centsToNumeric(patch.OpeningBalance),
		Interest:       centsToNumeric(patch.Interest),
		Total:          centsToNumeric(patch.Total),
		ClosingBalance: centsToNumeric(patch.ClosingBalance),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: row %s is not open", domain.ErrInconsistentState, id)
	}

	return nil
}

// CancelOpen cancels every unsettled row of a loan.
func (r *ScheduleRepository) CancelOpen(ctx context.Context, tx usecase.Transaction, loanID string, updatedAt time.Time) (int64, error) {
	return queriesFor(tx).CancelOpenRows(ctx, generated.CancelOpenRowsParams{
		LoanID:    loanID,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// Settle marks an open row paid and links the payment.
func (r *ScheduleRepository) Settle(ctx context.Context, tx usecase.Transaction, id, paymentID string, updatedAt time.Time) error {
	n, err := queriesFor(tx).SettleScheduleRow(ctx, generated.SettleScheduleRowParams{
		ID:        id,
		PaymentID: stringToPgText(&paymentID),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInstallmentSettled
	}

	return nil
}

// ListByLoan returns every row of a loan ordered by number.
func (r *ScheduleRepository) ListByLoan(ctx context.Context, loanID string) ([]domain.ScheduleRow, error) {
	rows, err := r.queries.ListScheduleRowsByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	return rowsToSchedule(rows), nil
}

// MarkOverdue flips pending rows due before asOf to late.
func (r *ScheduleRepository) MarkOverdue(ctx context.Context, asOf, updatedAt time.Time) (int64, error) {
	return r.queries.MarkOverdueRows(ctx, generated.MarkOverdueRowsParams{
		AsOf:      timeToPgDate(asOf),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

func rowsToSchedule(rows []generated.ScheduleRow) []domain.ScheduleRow {
	out := make([]domain.ScheduleRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToScheduleRow(row))
	}
	return out
}

func rowToScheduleRow(row generated.ScheduleRow) domain.ScheduleRow {
	return domain.ScheduleRow{
		ID:             row.ID,
		LoanID:         row.LoanID,
		Number:         int(row.Number),
		DueDate:        pgDateToTime(row.DueDate),
		OpeningBalance: numericToCents(row.OpeningBalance),
		Principal:      numericToCents(row.Principal),
		Interest:       numericToCents(row.Interest),
		Total:          numericToCents(row.Total),
		ClosingBalance: numericToCents(row.ClosingBalance),
		Status:         domain.RowStatus(row.Status),
		PaymentID:      pgTextToString(row.PaymentID),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
