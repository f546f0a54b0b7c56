package domain

import (
	"fmt"
	"strings"
	"time"
)

// Payment is a real payment recorded against a loan.
type Payment struct {
	PaidAt            time.Time
	CreatedAt         time.Time
	ID                string
	LoanID            string
	Method            string
	InstallmentNumber int
	Principal         Cents
	Interest          Cents
	Total             Cents
}

// Validate checks required fields and the principal/interest split.
func (p *Payment) Validate() error {
	if p.LoanID == "" {
		return fmt.Errorf("%w: loan id", ErrMissingField)
	}
	if strings.TrimSpace(p.Method) == "" {
		return fmt.Errorf("%w: payment method", ErrMissingField)
	}
	if p.InstallmentNumber < 1 {
		return fmt.Errorf("%w: installment number", ErrMissingField)
	}
	if p.PaidAt.IsZero() {
		return fmt.Errorf("%w: payment date", ErrMissingField)
	}
	if !p.Total.IsPositive() {
		return fmt.Errorf("%w: total", ErrInvalidAmount)
	}
	if p.Principal < 0 || p.Interest < 0 {
		return ErrInvalidAmount
	}
	if p.Principal+p.Interest != p.Total {
		return ErrPaymentSplit
	}
	return nil
}
