package domain

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors below wrap one of these so callers can
// branch with errors.Is on the category alone.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrInconsistentState  = errors.New("inconsistent state")
	ErrTransactionFailure = errors.New("transaction failure")
)

var (
	// Input errors
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a non-negative value with at most 2 decimals", ErrInvalidArgument)
	ErrInvalidRate        = fmt.Errorf("%w: interest rate must be non-negative", ErrInvalidArgument)
	ErrInvalidDate        = fmt.Errorf("%w: invalid calendar date", ErrInvalidArgument)
	ErrInvalidDayOfMonth  = fmt.Errorf("%w: day of month must be between 1 and 31", ErrInvalidArgument)
	ErrInvalidCadence     = fmt.Errorf("%w: unsupported payment cadence", ErrInvalidArgument)
	ErrInvalidProduct     = fmt.Errorf("%w: unsupported loan product", ErrInvalidArgument)
	ErrInvalidTerm        = fmt.Errorf("%w: number of installments must be positive", ErrInvalidArgument)
	ErrInvalidPrincipal   = fmt.Errorf("%w: principal must be positive", ErrInvalidArgument)
	ErrMissingField       = fmt.Errorf("%w: required field missing", ErrInvalidArgument)
	ErrPaymentSplit       = fmt.Errorf("%w: total must equal principal plus interest", ErrInvalidArgument)
	ErrInvalidScheduleRow = fmt.Errorf("%w: invalid schedule row", ErrInvalidArgument)

	// Lookup errors
	ErrLoanNotFound        = fmt.Errorf("loan %w", ErrNotFound)
	ErrInstallmentNotFound = fmt.Errorf("installment %w", ErrNotFound)
	ErrPaymentNotFound     = fmt.Errorf("payment %w", ErrNotFound)

	// State errors
	ErrPaymentBelowInterest = fmt.Errorf("%w: payment total is below the interest due", ErrInconsistentState)
	ErrPrincipalExceedsDebt = fmt.Errorf("%w: principal exceeds outstanding balance", ErrInconsistentState)
	ErrInstallmentSettled   = fmt.Errorf("%w: installment is not open for settlement", ErrInconsistentState)
	ErrScheduleExists       = fmt.Errorf("%w: loan already has a schedule", ErrInconsistentState)
)
