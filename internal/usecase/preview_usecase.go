package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goloan/internal/domain"
)

// PreviewUseCase computes schedules without persisting anything. Results are
// deterministic, so they are cached by their parameters when a cache is set.
type PreviewUseCase struct {
	cache  Cache
	logger zerolog.Logger
}

// NewPreviewUseCase creates a new PreviewUseCase. cache may be nil.
func NewPreviewUseCase(cache Cache, logger zerolog.Logger) *PreviewUseCase {
	return &PreviewUseCase{cache: cache, logger: logger}
}

// AmortizationPreviewInput represents input for an amortization preview.
type AmortizationPreviewInput struct {
	StartDate    time.Time
	AnnualRate   domain.Rate
	Cadence      domain.Cadence
	Principal    domain.Cents
	Installments int
}

// InterestOnlyPreviewInput represents input for an interest-only preview.
type InterestOnlyPreviewInput struct {
	StartDate   time.Time
	MonthlyRate domain.Rate
	Cadence     domain.Cadence
	Principal   domain.Cents
	Periods     int
}

// SchedulePreview is a computed schedule with its aggregates.
type SchedulePreview struct {
	Rows          []domain.ScheduleRow
	Payment       domain.Cents
	TotalPaid     domain.Cents
	TotalInterest domain.Cents
	Discrepancy   domain.Cents
}

// PreviewAmortization computes a fixed-payment schedule.
func (uc *PreviewUseCase) PreviewAmortization(ctx context.Context, input AmortizationPreviewInput) (*SchedulePreview, error) {
	key := previewKey("amortization", input.Principal, input.AnnualRate, input.Installments, input.Cadence, input.StartDate)

	return uc.cached(ctx, key, func() (*SchedulePreview, error) {
		schedule, err := domain.GenerateAmortizationSchedule(
			input.Principal, input.AnnualRate, input.Installments, input.Cadence, input.StartDate)
		if err != nil {
			return nil, err
		}
		reportDiscrepancy(uc.logger, nil, "", schedule)

		preview := summarize(schedule.Rows)
		preview.Payment = schedule.Payment
		preview.Discrepancy = schedule.Discrepancy()
		return preview, nil
	})
}

// PreviewInterestOnly computes an interest-only projection.
func (uc *PreviewUseCase) PreviewInterestOnly(ctx context.Context, input InterestOnlyPreviewInput) (*SchedulePreview, error) {
	key := previewKey("interest-only", input.Principal, input.MonthlyRate, input.Periods, input.Cadence, input.StartDate)

	return uc.cached(ctx, key, func() (*SchedulePreview, error) {
		rows, err := domain.GenerateInterestOnlySchedule(domain.InterestOnlyParams{
			Principal:   input.Principal,
			MonthlyRate: input.MonthlyRate,
			Periods:     input.Periods,
			Cadence:     input.Cadence,
			StartDate:   input.StartDate,
		})
		if err != nil {
			return nil, err
		}
		preview := summarize(rows)
		if len(rows) > 0 {
			preview.Payment = rows[0].Total
		}
		return preview, nil
	})
}

func (uc *PreviewUseCase) cached(ctx context.Context, key string, compute func() (*SchedulePreview, error)) (*SchedulePreview, error) {
	if uc.cache != nil {
		data, err := uc.cache.Get(ctx, key)
		switch {
		case err == nil:
			var preview SchedulePreview
			if err := json.Unmarshal(data, &preview); err == nil {
				return &preview, nil
			}
		case !errors.Is(err, ErrCacheMiss):
			uc.logger.Debug().Err(err).Str("key", key).Msg("preview cache read failed")
		}
	}

	preview, err := compute()
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		data, err := json.Marshal(preview)
		if err == nil {
			err = uc.cache.Set(ctx, key, data, PreviewCacheTTL)
		}
		if err != nil {
			uc.logger.Debug().Err(err).Str("key", key).Msg("preview cache write failed")
		}
	}

	return preview, nil
}

func summarize(rows []domain.ScheduleRow) *SchedulePreview {
	preview := &SchedulePreview{Rows: rows}
	for _, row := range rows {
		preview.TotalPaid += row.Total
		preview.TotalInterest += row.Interest
	}
	return preview
}

func previewKey(kind string, principal domain.Cents, rate domain.Rate, n int, cadence domain.Cadence, start time.Time) string {
	raw := fmt.Sprintf("%s|%d|%s|%d|%s|%s",
		kind, principal, rate.Fraction().String(), n, cadence, start.Format(domain.DateLayout))
	sum := sha256.Sum256([]byte(raw))
	return "preview:" + kind + ":" + hex.EncodeToString(sum[:])
}
