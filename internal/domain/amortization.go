package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MaxInstallments bounds the length of a generated schedule.
	MaxInstallments = 1200

	// ratePrecision is the number of decimal places kept for periodic rates
	// and compounding factors.
	ratePrecision = 24
)

// AmortizationSchedule is the output of the amortization engine.
type AmortizationSchedule struct {
	Rows         []ScheduleRow
	PeriodicRate decimal.Decimal
	// Payment is the level installment from the annuity formula.
	Payment Cents
	// TotalPaid is the sum of every row's total.
	TotalPaid Cents
}

// Discrepancy is the absolute difference between what the rows add up to and
// Payment * N. It comes from the final-row correction and cent rounding.
func (s *AmortizationSchedule) Discrepancy() Cents {
	d := s.TotalPaid - s.Payment*Cents(len(s.Rows))
	if d < 0 {
		return -d
	}
	return d
}

// HasDiscrepancy reports whether the discrepancy exceeds one cent.
func (s *AmortizationSchedule) HasDiscrepancy() bool {
	return s.Discrepancy() > 1
}

// PeriodicRate converts an annual rate to the rate per installment.
func PeriodicRate(annual Rate, cadence Cadence) (decimal.Decimal, error) {
	perYear, err := cadence.PeriodsPerYear()
	if err != nil {
		return decimal.Zero, err
	}
	return annual.Fraction().DivRound(decimal.NewFromInt(perYear), ratePrecision), nil
}

// LevelPayment returns the fixed installment P*r*(1+r)^N / ((1+r)^N - 1),
// rounded to cents. A zero rate splits the principal evenly.
func LevelPayment(principal Cents, periodicRate decimal.Decimal, n int) Cents {
	return Cents(levelPayment(principal, periodicRate, n).IntPart())
}

func levelPayment(principal Cents, periodicRate decimal.Decimal, n int) decimal.Decimal {
	p := decimal.NewFromInt(int64(principal))
	if periodicRate.IsZero() {
		return p.DivRound(decimal.NewFromInt(int64(n)), 0)
	}

	one := decimal.NewFromInt(1)
	base := one.Add(periodicRate)
	factor := one
	for i := 0; i < n; i++ {
		factor = factor.Mul(base).Round(ratePrecision)
	}

	payment := p.Mul(periodicRate).Mul(factor).DivRound(factor.Sub(one), ratePrecision)
	return payment.Round(0)
}

// GenerateAmortizationSchedule builds a fixed-payment, fully amortizing
// schedule. Balances are carried in cents; the last row absorbs the rounding
// residue so its closing balance is exactly zero.
func GenerateAmortizationSchedule(
	principal Cents,
	annualRate Rate,
	totalPayments int,
	cadence Cadence,
	startDate time.Time,
) (*AmortizationSchedule, error) {
	if !principal.IsPositive() {
		return nil, ErrInvalidPrincipal
	}
	if totalPayments < 1 || totalPayments > MaxInstallments {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTerm, totalPayments)
	}
	if cadence == CadenceIndefinite {
		return nil, fmt.Errorf("%w: amortizing loans need a fixed cadence", ErrInvalidCadence)
	}
	if startDate.IsZero() {
		return nil, ErrInvalidDate
	}

	rate, err := PeriodicRate(annualRate, cadence)
	if err != nil {
		return nil, err
	}

	exact := levelPayment(principal, rate, totalPayments)
	if exact.Mul(decimal.NewFromInt(int64(totalPayments))).GreaterThan(maxCents) {
		return nil, fmt.Errorf("%w: schedule total exceeds %s", ErrInvalidAmount, MaxCents)
	}
	payment := Cents(exact.IntPart())
	schedule := &AmortizationSchedule{
		Rows:         make([]ScheduleRow, 0, totalPayments),
		PeriodicRate: rate,
		Payment:      payment,
	}

	balance := principal
	for i := 1; i <= totalPayments; i++ {
		due, err := DueDate(startDate, cadence, startDate.Day(), i)
		if err != nil {
			return nil, err
		}

		interest := balance.MulRate(rate)

		var principalPart Cents
		if i == totalPayments {
			principalPart = balance
		} else {
			principalPart = min(max(payment-interest, 0), balance)
		}

		closing := balance - principalPart
		row := ScheduleRow{
			Number:         i,
			DueDate:        due,
			OpeningBalance: balance,
			Principal:      principalPart,
			Interest:       interest,
			Total:          principalPart + interest,
			ClosingBalance: closing,
			Status:         RowPending,
		}
		schedule.Rows = append(schedule.Rows, row)
		schedule.TotalPaid += row.Total
		balance = closing
	}

	return schedule, nil
}
