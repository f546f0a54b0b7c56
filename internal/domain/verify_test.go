package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amortizingRows(t *testing.T) []ScheduleRow {
	t.Helper()
	s, err := GenerateAmortizationSchedule(MustCents("3000"), MustPercent("12"), 3, CadenceMonthly, Date(2024, time.January, 10))
	require.NoError(t, err)
	return s.Rows
}

func rules(vs []Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Rule)
	}
	return out
}

func TestVerifySchedule(t *testing.T) {
	t.Run("generated schedule is clean", func(t *testing.T) {
		assert.Empty(t, VerifySchedule(amortizingRows(t), ProductAmortizing))
	})

	t.Run("total mismatch", func(t *testing.T) {
		rows := amortizingRows(t)
		rows[1].Total++
		assert.Equal(t, []string{RuleTotal}, rules(VerifySchedule(rows, ProductAmortizing)))
	})

	t.Run("broken chain", func(t *testing.T) {
		rows := amortizingRows(t)
		rows[1].OpeningBalance--
		assert.Equal(t, []string{RuleChain}, rules(VerifySchedule(rows, ProductAmortizing)))
	})

	t.Run("numbering gap", func(t *testing.T) {
		rows := amortizingRows(t)
		rows[2].Number = 4
		assert.Equal(t, []string{RuleNumbering}, rules(VerifySchedule(rows, ProductAmortizing)))
	})

	t.Run("amortizing must close at zero", func(t *testing.T) {
		rows := amortizingRows(t)
		rows[2].ClosingBalance = 1
		assert.Equal(t, []string{RuleClosing}, rules(VerifySchedule(rows, ProductAmortizing)))
	})

	t.Run("cancelled rows are skipped when chaining", func(t *testing.T) {
		rows, err := GenerateInterestOnlySchedule(InterestOnlyParams{
			Principal:   MustCents("1000"),
			MonthlyRate: MustPercent("5"),
			Periods:     3,
			Cadence:     CadenceMonthly,
			StartDate:   Date(2024, time.January, 1),
		})
		require.NoError(t, err)
		rows[1].Status = RowCancelled
		rows[1].OpeningBalance = 0
		rows[1].ClosingBalance = 0
		assert.Empty(t, VerifySchedule(rows, ProductInterestOnly))
	})
	t.Run("interest-only rows stay flat", func(t *testing.T) {
		rows, err := GenerateInterestOnlySchedule(InterestOnlyParams{
			Principal:   MustCents("1000"),
			MonthlyRate: MustPercent("5"),
			Periods:     2,
			Cadence:     CadenceMonthly,
			StartDate:   Date(2024, time.January, 1),
		})
		require.NoError(t, err)
		rows[0].ClosingBalance = 900
		assert.Equal(t, []string{RuleFlat}, rules(VerifySchedule(rows, ProductInterestOnly)))
	})

	t.Run("interest-only settled rows are not chained", func(t *testing.T) {
		rows, err := GenerateInterestOnlySchedule(InterestOnlyParams{
			Principal:   MustCents("1000"),
			MonthlyRate: MustPercent("5"),
			Periods:     3,
			Cadence:     CadenceMonthly,
			StartDate:   Date(2024, time.January, 1),
		})
		require.NoError(t, err)
		rows[0].Status = RowPaid
		for i := 1; i < 3; i++ {
			rows[i].OpeningBalance = 600
			rows[i].ClosingBalance = 600
		}
		assert.Empty(t, VerifySchedule(rows, ProductInterestOnly))
	})
}
