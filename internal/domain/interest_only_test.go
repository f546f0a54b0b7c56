package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInterestOnlySchedule_DefaultHorizon(t *testing.T) {
	rows, err := GenerateInterestOnlySchedule(InterestOnlyParams{
		Principal:   MustCents("5000"),
		MonthlyRate: MustPercent("5"),
		Cadence:     CadenceMonthly,
		StartDate:   Date(2024, time.January, 31),
	})
	require.NoError(t, err)
	require.Len(t, rows, DefaultHorizon)

	for i, row := range rows {
		assert.Equal(t, i+1, row.Number)
		assert.Equal(t, MustCents("5000"), row.OpeningBalance)
		assert.Equal(t, MustCents("5000"), row.ClosingBalance)
		assert.Equal(t, Cents(0), row.Principal)
		assert.Equal(t, MustCents("250"), row.Interest)
		assert.Equal(t, row.Interest, row.Total)
		assert.Equal(t, RowPending, row.Status)
	}
	assert.Equal(t, Date(2024, time.February, 29), rows[0].DueDate)
	assert.Equal(t, Date(2024, time.March, 31), rows[1].DueDate)
}

func TestGenerateInterestOnlySchedule_Continuation(t *testing.T) {
	rows, err := GenerateInterestOnlySchedule(InterestOnlyParams{
		Principal:   MustCents("4000"),
		MonthlyRate: MustPercent("5"),
		Periods:     3,
		Cadence:     CadenceMonthly,
		StartDate:   Date(2024, time.June, 15),
		FirstNumber: 7,
		DayOfMonth:  15,
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 7, rows[0].Number)
	assert.Equal(t, 9, rows[2].Number)
	assert.Equal(t, Date(2024, time.July, 15), rows[0].DueDate)
	assert.Equal(t, Date(2024, time.September, 15), rows[2].DueDate)
	assert.Equal(t, MustCents("200"), rows[0].Interest)
}

func TestGenerateInterestOnlySchedule_BiweeklyUsesMonthlyRate(t *testing.T) {
	rows, err := GenerateInterestOnlySchedule(InterestOnlyParams{
		Principal:   MustCents("1000"),
		MonthlyRate: MustPercent("10"),
		Periods:     2,
		Cadence:     CadenceBiweekly,
		StartDate:   Date(2024, time.January, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, MustCents("100"), rows[0].Interest)
	assert.Equal(t, Date(2024, time.January, 16), rows[0].DueDate)
	assert.Equal(t, Date(2024, time.January, 31), rows[1].DueDate)
}

func TestGenerateInterestOnlySchedule_RoundsHalfUp(t *testing.T) {
	rows, err := GenerateInterestOnlySchedule(InterestOnlyParams{
		Principal:   MustCents("0.10"),
		MonthlyRate: MustPercent("5"),
		Periods:     1,
		Cadence:     CadenceMonthly,
		StartDate:   Date(2024, time.January, 1),
	})
	require.NoError(t, err)
	// 10 cents * 5% = 0.5 cent, rounded away from zero.
	assert.Equal(t, Cents(1), rows[0].Interest)
}

func TestGenerateInterestOnlySchedule_Errors(t *testing.T) {
	_, err := GenerateInterestOnlySchedule(InterestOnlyParams{
		Principal:   MustCents("100"),
		MonthlyRate: MustPercent("5"),
		Cadence:     CadenceMonthly,
	})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = GenerateInterestOnlySchedule(InterestOnlyParams{
		Principal:   MustCents("100"),
		MonthlyRate: MustPercent("5"),
		Cadence:     Cadence("yearly"),
		StartDate:   Date(2024, time.January, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidCadence)

	_, err = GenerateInterestOnlySchedule(InterestOnlyParams{
		Principal:   MustCents("100"),
		MonthlyRate: MustPercent("5"),
		Cadence:     CadenceMonthly,
		StartDate:   Date(2024, time.January, 1),
		DayOfMonth:  40,
	})
	assert.ErrorIs(t, err, ErrInvalidDayOfMonth)
}
