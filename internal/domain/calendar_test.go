package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{2100, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LastDayOfMonth(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestNextRecurringDate(t *testing.T) {
	tests := []struct {
		name string
		base time.Time
		day  int
		want time.Time
	}{
		{"leap february clamps to 29", Date(2024, time.February, 10), 31, Date(2024, time.February, 29)},
		{"common february clamps to 28", Date(2023, time.February, 10), 31, Date(2023, time.February, 28)},
		{"same day is on or after base", Date(2024, time.March, 15), 15, Date(2024, time.March, 15)},
		{"earlier day rolls to next month", Date(2024, time.January, 20), 15, Date(2024, time.February, 15)},
		{"rollover clamps again", Date(2024, time.January, 31), 30, Date(2024, time.February, 29)},
		{"december rolls into next year", Date(2024, time.December, 20), 5, Date(2025, time.January, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRecurringDate(tt.base, tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.Before(tt.base))
		})
	}
}

func TestNextRecurringDate_InvalidDay(t *testing.T) {
	for _, day := range []int{0, -1, 32} {
		_, err := NextRecurringDate(Date(2024, time.January, 1), day)
		assert.ErrorIs(t, err, ErrInvalidDayOfMonth)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestNextRecurringDate_ZeroBase(t *testing.T) {
	_, err := NextRecurringDate(time.Time{}, 10)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAddPeriodDays(t *testing.T) {
	base := Date(2024, time.January, 1)

	got, err := AddPeriodDays(base, CadenceWeekly, 1)
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.January, 8), got)

	got, err = AddPeriodDays(base, CadenceBiweekly, 2)
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.January, 31), got)

	got, err = AddPeriodDays(Date(2024, time.February, 20), CadenceWeekly, 2)
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.March, 5), got)

	_, err = AddPeriodDays(base, CadenceMonthly, 1)
	assert.ErrorIs(t, err, ErrInvalidCadence)
}

func TestDueDate_MonthlyAnchorsDay(t *testing.T) {
	start := Date(2024, time.January, 31)
	want := []time.Time{
		Date(2024, time.February, 29),
		Date(2024, time.March, 31),
		Date(2024, time.April, 30),
	}
	for i, w := range want {
		got, err := DueDate(start, CadenceMonthly, 31, i+1)
		require.NoError(t, err)
		assert.Equal(t, w, got, "installment %d", i+1)
	}
}

func TestDueDate_IndefiniteFollowsMonthly(t *testing.T) {
	got, err := DueDate(Date(2024, time.November, 10), CadenceIndefinite, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, Date(2025, time.January, 10), got)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.February, 29), d)

	_, err = ParseDate("2023-02-29")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
