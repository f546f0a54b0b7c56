package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/metrics"
)

// Recalculation outcomes.
const (
	OutcomeCancelled = "cancelled"
	OutcomePatched   = "patched"
	OutcomeExtended  = "extended"
)

// RecalculationResult summarizes what Recalculate did to the schedule.
type RecalculationResult struct {
	LoanID  string
	Outcome string
	Balance domain.Cents
	Rows    int
}

// RecalculationUseCase rewrites the unpaid future of an interest-only
// schedule after the loan balance changed.
type RecalculationUseCase struct {
	loanRepo     LoanRepository
	scheduleRepo ScheduleRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
	horizon      int
}

// NewRecalculationUseCase creates a new RecalculationUseCase. A horizon of
// zero uses domain.DefaultHorizon.
func NewRecalculationUseCase(
	loanRepo LoanRepository,
	scheduleRepo ScheduleRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	horizon int,
) *RecalculationUseCase {
	if horizon <= 0 {
		horizon = domain.DefaultHorizon
	}
	return &RecalculationUseCase{
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		metrics:      metrics,
		horizon:      horizon,
	}
}

// Recalculate runs inside the caller's transaction. With a zero balance every
// open row (pending, late or partially paid) is cancelled; otherwise open rows
// are re-priced in place, and if none remain a new horizon is appended after
// the last row.
func (uc *RecalculationUseCase) Recalculate(ctx context.Context, tx Transaction, loanID string) (*RecalculationResult, error) {
	loan, err := uc.loanRepo.GetByIDForUpdate(ctx, tx, loanID)
	if err != nil {
		return nil, err
	}
	if !loan.IsInterestOnly() {
		return nil, fmt.Errorf("%w: loan %s is not interest-only", domain.ErrInconsistentState, loanID)
	}

	open, err := uc.scheduleRepo.ListOpen(ctx, tx, loanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &RecalculationResult{LoanID: loanID, Balance: loan.Balance}

	switch {
	case loan.Balance == 0:
		n, err := uc.scheduleRepo.CancelOpen(ctx, tx, loanID, now)
		if err != nil {
			return nil, err
		}
		result.Outcome = OutcomeCancelled
		result.Rows = int(n)

	case len(open) > 0:
		patch := domain.InterestOnlyPatch(loan.Balance, loan.InterestRate)
		for _, row := range open {
			if err := uc.scheduleRepo.PatchRow(ctx, tx, row.ID, patch, now); err != nil {
				return nil, err
			}
		}
		result.Outcome = OutcomePatched
		result.Rows = len(open)

	default:
		rows, err := uc.extend(ctx, tx, loan, now)
		if err != nil {
			return nil, err
		}
		result.Outcome = OutcomeExtended
		result.Rows = len(rows)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   loanID,
		AggregateType: domain.AggregateTypeLoan,
		EventType:     domain.EventTypeScheduleRecalculated,
		Payload: map[string]any{
			"loan_id": loanID,
			"outcome": result.Outcome,
			"balance": result.Balance.String(),
			"rows":    result.Rows,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Recalculations.WithLabelValues(result.Outcome).Inc()
	}

	return result, nil
}

// extend projects a fresh horizon anchored at the last row's due date, or at
// the loan start when the loan has no rows yet.
func (uc *RecalculationUseCase) extend(ctx context.Context, tx Transaction, loan *domain.Loan, now time.Time) ([]domain.ScheduleRow, error) {
	anchor := loan.StartDate
	first := 1

	last, err := uc.scheduleRepo.Latest(ctx, tx, loan.ID)
	switch {
	case err == nil:
		anchor = last.DueDate
		first = last.Number + 1
	case errors.Is(err, domain.ErrInstallmentNotFound):
	default:
		return nil, err
	}

	rows, err := domain.GenerateInterestOnlySchedule(domain.InterestOnlyParams{
		Principal:   loan.Balance,
		MonthlyRate: loan.InterestRate,
		Periods:     uc.horizon,
		Cadence:     loan.Cadence,
		StartDate:   anchor,
		FirstNumber: first,
		DayOfMonth:  loan.StartDate.Day(),
	})
	if err != nil {
		return nil, err
	}

	stampRows(rows, loan.ID, uc.idGen, now)
	if err := uc.scheduleRepo.InsertRows(ctx, tx, rows); err != nil {
		return nil, err
	}
	if uc.metrics != nil {
		uc.metrics.ScheduleRowsGenerated.WithLabelValues(string(loan.Product)).Add(float64(len(rows)))
	}
	return rows, nil
}

// stampRows assigns ids, the owning loan and timestamps to generated rows.
func stampRows(rows []domain.ScheduleRow, loanID string, idGen IDGenerator, now time.Time) {
	for i := range rows {
		rows[i].ID = idGen.Generate()
		rows[i].LoanID = loanID
		rows[i].CreatedAt = now
		rows[i].UpdatedAt = now
		if rows[i].Status == "" {
			rows[i].Status = domain.RowPending
		}
	}
}
