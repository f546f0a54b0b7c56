package usecase

import (
	"context"
	"time"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/metrics"
)

// OverdueUseCase flags installments whose due date has passed.
type OverdueUseCase struct {
	scheduleRepo ScheduleRepository
	metrics      *metrics.Metrics
}

// NewOverdueUseCase creates a new OverdueUseCase.
func NewOverdueUseCase(scheduleRepo ScheduleRepository, metrics *metrics.Metrics) *OverdueUseCase {
	return &OverdueUseCase{
		scheduleRepo: scheduleRepo,
		metrics:      metrics,
	}
}

// MarkOverdue flips pending rows due strictly before asOf's date to late and
// returns how many rows changed.
func (uc *OverdueUseCase) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	if asOf.IsZero() {
		return 0, domain.ErrInvalidDate
	}
	y, m, d := asOf.UTC().Date()

	n, err := uc.scheduleRepo.MarkOverdue(ctx, domain.Date(y, m, d), time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if uc.metrics != nil {
		uc.metrics.RowsMarkedLate.Add(float64(n))
	}
	return n, nil
}
