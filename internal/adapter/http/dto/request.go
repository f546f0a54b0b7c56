package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/usecase"
)

// InvestorRequest is an investor stake attached to a new loan.
type InvestorRequest struct {
	InvestorID     string          `json:"investor_id"`
	AmountInvested domain.Cents    `json:"amount_invested"`
	InvestorShare  decimal.Decimal `json:"investor_share"`
	AdminShare     decimal.Decimal `json:"admin_share"`
}

// CreateLoanRequest represents a request to originate a loan.
//
// InterestRate carries its convention, e.g. {"kind":"percent","value":"12"}.
// It is annual for amortizing loans and monthly for interest-only loans.
type CreateLoanRequest struct {
	ClientID       string            `json:"client_id"`
	IntermediaryID *string           `json:"intermediary_id,omitempty"`
	GuarantorID    *string           `json:"guarantor_id,omitempty"`
	Product        domain.Product    `json:"product"`
	Cadence        domain.Cadence    `json:"cadence"`
	InterestRate   *domain.Rate      `json:"interest_rate"`
	Amount         domain.Cents      `json:"amount"`
	Term           int               `json:"term"`
	StartDate      string            `json:"start_date"`
	Investors      []InvestorRequest `json:"investors,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLoanRequest) ToUseCaseInput() (usecase.CreateLoanInput, error) {
	if r.InterestRate == nil {
		return usecase.CreateLoanInput{}, fmt.Errorf("%w: interest_rate", domain.ErrMissingField)
	}
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return usecase.CreateLoanInput{}, err
	}

	investors := make([]usecase.InvestorInput, len(r.Investors))
	for i, inv := range r.Investors {
		investors[i] = usecase.InvestorInput{
			InvestorID:     inv.InvestorID,
			AmountInvested: inv.AmountInvested,
			InvestorShare:  inv.InvestorShare,
			AdminShare:     inv.AdminShare,
		}
	}

	return usecase.CreateLoanInput{
		StartDate:      start,
		IntermediaryID: r.IntermediaryID,
		GuarantorID:    r.GuarantorID,
		ClientID:       strings.TrimSpace(r.ClientID),
		Product:        r.Product,
		Cadence:        r.Cadence,
		InterestRate:   *r.InterestRate,
		Amount:         r.Amount,
		Term:           r.Term,
		Investors:      investors,
	}, nil
}

// RegisterPaymentRequest represents a payment against one installment.
type RegisterPaymentRequest struct {
	InstallmentNumber int          `json:"installment_number"`
	PaidAt            string       `json:"paid_at"`
	Method            string       `json:"method"`
	Principal         domain.Cents `json:"principal"`
	Interest          domain.Cents `json:"interest"`
	Total             domain.Cents `json:"total"`
}

// ToUseCaseInput converts to use case input for loanID.
func (r *RegisterPaymentRequest) ToUseCaseInput(loanID string) (usecase.RegisterPaymentInput, error) {
	paidAt, err := domain.ParseDate(r.PaidAt)
	if err != nil {
		return usecase.RegisterPaymentInput{}, err
	}
	return usecase.RegisterPaymentInput{
		PaidAt:            paidAt,
		LoanID:            loanID,
		Method:            r.Method,
		InstallmentNumber: r.InstallmentNumber,
		Principal:         r.Principal,
		Interest:          r.Interest,
		Total:             r.Total,
	}, nil
}

// ScheduleRowRequest is one externally prepared installment.
type ScheduleRowRequest struct {
	Number         int              `json:"number"`
	DueDate        string           `json:"due_date"`
	OpeningBalance domain.Cents     `json:"opening_balance"`
	Principal      domain.Cents     `json:"principal"`
	Interest       domain.Cents     `json:"interest"`
	Total          domain.Cents     `json:"total"`
	ClosingBalance domain.Cents     `json:"closing_balance"`
	Status         domain.RowStatus `json:"status,omitempty"`
}

// ImportScheduleRequest represents a bulk schedule import.
type ImportScheduleRequest struct {
	Rows []ScheduleRowRequest `json:"rows"`
}

// ToDomain converts the rows. Rows without a status are pending.
func (r *ImportScheduleRequest) ToDomain() ([]domain.ScheduleRow, error) {
	rows := make([]domain.ScheduleRow, len(r.Rows))
	for i, in := range r.Rows {
		due, err := domain.ParseDate(in.DueDate)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		status := in.Status
		if status == "" {
			status = domain.RowPending
		}
		rows[i] = domain.ScheduleRow{
			DueDate:        due,
			Status:         status,
			Number:         in.Number,
			OpeningBalance: in.OpeningBalance,
			Principal:      in.Principal,
			Interest:       in.Interest,
			Total:          in.Total,
			ClosingBalance: in.ClosingBalance,
		}
	}
	return rows, nil
}

// AmortizationPreviewRequest asks for a fixed-payment schedule.
type AmortizationPreviewRequest struct {
	Principal    domain.Cents   `json:"principal"`
	AnnualRate   *domain.Rate   `json:"annual_rate"`
	Installments int            `json:"installments"`
	Cadence      domain.Cadence `json:"cadence"`
	StartDate    string         `json:"start_date"`
}

// ToUseCaseInput converts to use case input.
func (r *AmortizationPreviewRequest) ToUseCaseInput() (usecase.AmortizationPreviewInput, error) {
	if r.AnnualRate == nil {
		return usecase.AmortizationPreviewInput{}, fmt.Errorf("%w: annual_rate", domain.ErrMissingField)
	}
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return usecase.AmortizationPreviewInput{}, err
	}
	return usecase.AmortizationPreviewInput{
		StartDate:    start,
		AnnualRate:   *r.AnnualRate,
		Cadence:      r.Cadence,
		Principal:    r.Principal,
		Installments: r.Installments,
	}, nil
}

// InterestOnlyPreviewRequest asks for an interest-only projection.
type InterestOnlyPreviewRequest struct {
	Principal   domain.Cents   `json:"principal"`
	MonthlyRate *domain.Rate   `json:"monthly_rate"`
	Periods     int            `json:"periods"`
	Cadence     domain.Cadence `json:"cadence"`
	StartDate   string         `json:"start_date"`
}

// ToUseCaseInput converts to use case input.
func (r *InterestOnlyPreviewRequest) ToUseCaseInput() (usecase.InterestOnlyPreviewInput, error) {
	if r.MonthlyRate == nil {
		return usecase.InterestOnlyPreviewInput{}, fmt.Errorf("%w: monthly_rate", domain.ErrMissingField)
	}
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return usecase.InterestOnlyPreviewInput{}, err
	}
	return usecase.InterestOnlyPreviewInput{
		StartDate:   start,
		MonthlyRate: *r.MonthlyRate,
		Cadence:     r.Cadence,
		Principal:   r.Principal,
		Periods:     r.Periods,
	}, nil
}

// IssueTokenRequest asks for a bearer token.
type IssueTokenRequest struct {
	Subject string      `json:"subject"`
	Role    domain.Role `json:"role"`
}
