package usecase

import (
	"context"
	"time"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/metrics"
)

// AuditUseCase checks stored schedules for consistency.
type AuditUseCase struct {
	loanRepo     LoanRepository
	scheduleRepo ScheduleRepository
	metrics      *metrics.Metrics
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(loanRepo LoanRepository, scheduleRepo ScheduleRepository, metrics *metrics.Metrics) *AuditUseCase {
	return &AuditUseCase{
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		metrics:      metrics,
	}
}

// ScheduleReport is the result of a schedule audit.
type ScheduleReport struct {
	CheckedAt  time.Time
	LoanID     string
	Violations []domain.Violation
	Rows       int
	Consistent bool
}

// VerifyLoan re-checks the invariants of a loan's stored schedule.
func (uc *AuditUseCase) VerifyLoan(ctx context.Context, loanID string) (*ScheduleReport, error) {
	loan, err := uc.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	rows, err := uc.scheduleRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	violations := domain.VerifySchedule(rows, loan.Product)
	if uc.metrics != nil {
		for _, v := range violations {
			uc.metrics.ScheduleViolations.WithLabelValues(v.Rule).Inc()
		}
	}

	return &ScheduleReport{
		LoanID:     loanID,
		Rows:       len(rows),
		Violations: violations,
		Consistent: len(violations) == 0,
		CheckedAt:  time.Now().UTC(),
	}, nil
}
