package domain

import (
	"fmt"
	"time"
)

// RowStatus is the lifecycle state of a schedule row.
type RowStatus string

const (
	RowPending       RowStatus = "pending"
	RowPaid          RowStatus = "paid"
	RowLate          RowStatus = "late"
	RowPartiallyPaid RowStatus = "partially_paid"
	RowCancelled     RowStatus = "cancelled"
)

// IsValid reports whether s is a known status.
func (s RowStatus) IsValid() bool {
	switch s {
	case RowPending, RowPaid, RowLate, RowPartiallyPaid, RowCancelled:
		return true
	}
	return false
}

// IsOpen reports whether a row in this status can still be settled.
func (s RowStatus) IsOpen() bool {
	return s == RowPending || s == RowLate || s == RowPartiallyPaid
}

// ScheduleRow is one installment of a loan's payment plan.
type ScheduleRow struct {
	DueDate        time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PaymentID      *string
	ID             string
	LoanID         string
	Status         RowStatus
	Number         int
	OpeningBalance Cents
	Principal      Cents
	Interest       Cents
	Total          Cents
	ClosingBalance Cents
}

// Validate checks the row is internally consistent.
func (r *ScheduleRow) Validate() error {
	if r.Number < 1 {
		return fmt.Errorf("%w: number must be >= 1", ErrInvalidScheduleRow)
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("%w: installment %d has no due date", ErrInvalidScheduleRow, r.Number)
	}
	if r.OpeningBalance < 0 || r.ClosingBalance < 0 || r.Principal < 0 || r.Interest < 0 {
		return fmt.Errorf("%w: installment %d has negative amounts", ErrInvalidScheduleRow, r.Number)
	}
	if r.Total != r.Principal+r.Interest {
		return fmt.Errorf("%w: installment %d total %s != %s + %s",
			ErrInvalidScheduleRow, r.Number, r.Total, r.Principal, r.Interest)
	}
	if r.Status != "" && !r.Status.IsValid() {
		return fmt.Errorf("%w: installment %d has unknown status %q", ErrInvalidScheduleRow, r.Number, r.Status)
	}
	return nil
}

// RowPatch overwrites the monetary fields of an open interest-only row.
type RowPatch struct {
	OpeningBalance Cents
	Interest       Cents
	Total          Cents
	ClosingBalance Cents
}

// InterestOnlyPatch returns the patch for a row after the balance changed.
func InterestOnlyPatch(balance Cents, monthly Rate) RowPatch {
	interest := balance.MulRate(monthly.Fraction())
	return RowPatch{
		OpeningBalance: balance,
		Interest:       interest,
		Total:          interest,
		ClosingBalance: balance,
	}
}
