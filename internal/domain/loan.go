package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product identifies the financial product of a loan.
type Product string

const (
	// ProductAmortizing is a fixed-payment loan that closes at zero ("Financiamiento").
	ProductAmortizing Product = "financiamiento"
	// ProductInterestOnly is an open-ended interest-only loan ("Réditos").
	ProductInterestOnly Product = "reditos"
)

// IsValid reports whether p is a known product.
func (p Product) IsValid() bool {
	return p == ProductAmortizing || p == ProductInterestOnly
}

// Cadence is the payment frequency of a loan.
type Cadence string

const (
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
	// CadenceIndefinite marks interest-only loans without a fixed term.
	// Due dates follow the monthly rule.
	CadenceIndefinite Cadence = "indefinite"
)

// IsValid reports whether c is a known cadence.
func (c Cadence) IsValid() bool {
	switch c {
	case CadenceWeekly, CadenceBiweekly, CadenceMonthly, CadenceIndefinite:
		return true
	}
	return false
}

// PeriodsPerYear returns how many installments of this cadence fit in a year.
func (c Cadence) PeriodsPerYear() (int64, error) {
	switch c {
	case CadenceWeekly:
		return 52, nil
	case CadenceBiweekly:
		return 24, nil
	case CadenceMonthly:
		return 12, nil
	default:
		return 0, ErrInvalidCadence
	}
}

// Loan is a credit extended to a client.
//
// InterestRate is stored as a fraction. For amortizing loans it is the annual
// rate, for interest-only loans the monthly rate.
type Loan struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	StartDate      time.Time
	EndDate        *time.Time
	ID             string
	ClientID       string
	IntermediaryID *string
	GuarantorID    *string
	Product        Product
	Cadence        Cadence
	InterestRate   Rate
	Amount         Cents
	Balance        Cents
	Term           int
	Version        int64
}

// IsInterestOnly reports whether the loan is a Réditos loan.
func (l *Loan) IsInterestOnly() bool {
	return l.Product == ProductInterestOnly
}

// ApplyPrincipal returns the balance after a principal payment.
func (l *Loan) ApplyPrincipal(principal Cents) (Cents, error) {
	if principal < 0 {
		return l.Balance, ErrInvalidAmount
	}
	if principal > l.Balance {
		return l.Balance, ErrPrincipalExceedsDebt
	}
	return l.Balance - principal, nil
}

// InvestorShare is an investor's stake in a loan. The shares are stored as
// flat fractions; no distribution is computed from them.
type InvestorShare struct {
	LoanID         string
	InvestorID     string
	AmountInvested Cents
	InvestorShare  decimal.Decimal
	AdminShare     decimal.Decimal
}

// Validate checks the share fractions are within [0,1] and sum to at most 1.
func (s *InvestorShare) Validate() error {
	if s.InvestorID == "" {
		return ErrMissingField
	}
	if s.AmountInvested < 0 {
		return ErrInvalidAmount
	}
	one := decimal.NewFromInt(1)
	if s.InvestorShare.IsNegative() || s.AdminShare.IsNegative() ||
		s.InvestorShare.Add(s.AdminShare).GreaterThan(one) {
		return ErrInvalidRate
	}
	return nil
}
