package domain

import (
	"time"
)

// DefaultHorizon is the number of periods projected for an open-ended
// interest-only loan when the caller does not ask for a specific count.
const DefaultHorizon = 6

// InterestOnlyParams configures GenerateInterestOnlySchedule.
type InterestOnlyParams struct {
	StartDate   time.Time
	MonthlyRate Rate
	Cadence     Cadence
	Principal   Cents
	Periods     int
	// FirstNumber is the installment number of the first generated row.
	// Zero means 1.
	FirstNumber int
	// DayOfMonth anchors monthly due dates. Zero means the start date's day.
	DayOfMonth int
}

// GenerateInterestOnlySchedule projects a horizon of interest-only rows. Each
// row bills round(principal * monthly rate) regardless of cadence; the
// principal never moves.
func GenerateInterestOnlySchedule(p InterestOnlyParams) ([]ScheduleRow, error) {
	if p.StartDate.IsZero() {
		return nil, ErrInvalidDate
	}
	if p.Principal < 0 {
		return nil, ErrInvalidPrincipal
	}
	if !p.Cadence.IsValid() {
		return nil, ErrInvalidCadence
	}

	periods := p.Periods
	if periods <= 0 {
		periods = DefaultHorizon
	}
	if periods > MaxInstallments {
		return nil, ErrInvalidTerm
	}
	first := p.FirstNumber
	if first <= 0 {
		first = 1
	}
	day := p.DayOfMonth
	if day == 0 {
		day = p.StartDate.Day()
	}

	patch := InterestOnlyPatch(p.Principal, p.MonthlyRate)
	rows := make([]ScheduleRow, 0, periods)
	for i := 1; i <= periods; i++ {
		due, err := DueDate(p.StartDate, p.Cadence, day, i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, ScheduleRow{
			Number:         first + i - 1,
			DueDate:        due,
			OpeningBalance: patch.OpeningBalance,
			Interest:       patch.Interest,
			Total:          patch.Total,
			ClosingBalance: patch.ClosingBalance,
			Status:         RowPending,
		})
	}
	return rows, nil
}
