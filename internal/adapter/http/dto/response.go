package dto

import (
	"time"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID             string         `json:"id"`
	ClientID       string         `json:"client_id"`
	IntermediaryID *string        `json:"intermediary_id,omitempty"`
	GuarantorID    *string        `json:"guarantor_id,omitempty"`
	Product        domain.Product `json:"product"`
	Cadence        domain.Cadence `json:"cadence"`
	InterestRate   domain.Rate    `json:"interest_rate"`
	Amount         domain.Cents   `json:"amount"`
	Balance        domain.Cents   `json:"balance"`
	Term           int            `json:"term"`
	StartDate      string         `json:"start_date"`
	EndDate        *string        `json:"end_date,omitempty"`
	Version        int64          `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// LoanFromDomain converts domain loan to response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	resp := &LoanResponse{
		ID:             l.ID,
		ClientID:       l.ClientID,
		IntermediaryID: l.IntermediaryID,
		GuarantorID:    l.GuarantorID,
		Product:        l.Product,
		Cadence:        l.Cadence,
		InterestRate:   l.InterestRate,
		Amount:         l.Amount,
		Balance:        l.Balance,
		Term:           l.Term,
		StartDate:      l.StartDate.Format(domain.DateLayout),
		Version:        l.Version,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
	if l.EndDate != nil {
		end := l.EndDate.Format(domain.DateLayout)
		resp.EndDate = &end
	}
	return resp
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// ScheduleRowResponse represents one installment in API responses.
type ScheduleRowResponse struct {
	ID             string           `json:"id,omitempty"`
	Number         int              `json:"number"`
	DueDate        string           `json:"due_date"`
	OpeningBalance domain.Cents     `json:"opening_balance"`
	Principal      domain.Cents     `json:"principal"`
	Interest       domain.Cents     `json:"interest"`
	Total          domain.Cents     `json:"total"`
	ClosingBalance domain.Cents     `json:"closing_balance"`
	Status         domain.RowStatus `json:"status"`
	PaymentID      *string          `json:"payment_id,omitempty"`
}

// ScheduleFromDomain converts schedule rows to responses.
func ScheduleFromDomain(rows []domain.ScheduleRow) []*ScheduleRowResponse {
	result := make([]*ScheduleRowResponse, len(rows))
	for i, r := range rows {
		result[i] = &ScheduleRowResponse{
			ID:             r.ID,
			Number:         r.Number,
			DueDate:        r.DueDate.Format(domain.DateLayout),
			OpeningBalance: r.OpeningBalance,
			Principal:      r.Principal,
			Interest:       r.Interest,
			Total:          r.Total,
			ClosingBalance: r.ClosingBalance,
			Status:         r.Status,
			PaymentID:      r.PaymentID,
		}
	}
	return result
}

// CreateLoanResponse is an originated loan with its schedule.
type CreateLoanResponse struct {
	Loan     *LoanResponse          `json:"loan"`
	Schedule []*ScheduleRowResponse `json:"schedule"`
}

// CreateLoanFromResult converts the origination result to a response.
func CreateLoanFromResult(res *usecase.CreateLoanResult) *CreateLoanResponse {
	return &CreateLoanResponse{
		Loan:     LoanFromDomain(res.Loan),
		Schedule: ScheduleFromDomain(res.Schedule),
	}
}

// InvestorResponse represents an investor stake.
type InvestorResponse struct {
	InvestorID     string       `json:"investor_id"`
	AmountInvested domain.Cents `json:"amount_invested"`
	InvestorShare  string       `json:"investor_share"`
	AdminShare     string       `json:"admin_share"`
}

// InvestorsFromDomain converts investor shares to responses.
func InvestorsFromDomain(shares []*domain.InvestorShare) []*InvestorResponse {
	result := make([]*InvestorResponse, len(shares))
	for i, s := range shares {
		result[i] = &InvestorResponse{
			InvestorID:     s.InvestorID,
			AmountInvested: s.AmountInvested,
			InvestorShare:  s.InvestorShare.String(),
			AdminShare:     s.AdminShare.String(),
		}
	}
	return result
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID                string       `json:"id"`
	LoanID            string       `json:"loan_id"`
	InstallmentNumber int          `json:"installment_number"`
	PaidAt            string       `json:"paid_at"`
	Method            string       `json:"method"`
	Principal         domain.Cents `json:"principal"`
	Interest          domain.Cents `json:"interest"`
	Total             domain.Cents `json:"total"`
	CreatedAt         time.Time    `json:"created_at"`
}

// PaymentFromDomain converts domain payment to response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:                p.ID,
		LoanID:            p.LoanID,
		InstallmentNumber: p.InstallmentNumber,
		PaidAt:            p.PaidAt.Format(domain.DateLayout),
		Method:            p.Method,
		Principal:         p.Principal,
		Interest:          p.Interest,
		Total:             p.Total,
		CreatedAt:         p.CreatedAt,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// PreviewResponse is a computed, unsaved schedule.
type PreviewResponse struct {
	Payment       domain.Cents           `json:"payment"`
	TotalPaid     domain.Cents           `json:"total_paid"`
	TotalInterest domain.Cents           `json:"total_interest"`
	Discrepancy   domain.Cents           `json:"discrepancy"`
	Rows          []*ScheduleRowResponse `json:"rows"`
}

// PreviewFromUseCase converts a preview to a response.
func PreviewFromUseCase(p *usecase.SchedulePreview) *PreviewResponse {
	return &PreviewResponse{
		Payment:       p.Payment,
		TotalPaid:     p.TotalPaid,
		TotalInterest: p.TotalInterest,
		Discrepancy:   p.Discrepancy,
		Rows:          ScheduleFromDomain(p.Rows),
	}
}

// ScheduleReportResponse is the result of a schedule audit.
type ScheduleReportResponse struct {
	LoanID     string             `json:"loan_id"`
	Rows       int                `json:"rows"`
	Consistent bool               `json:"consistent"`
	Violations []domain.Violation `json:"violations"`
	CheckedAt  time.Time          `json:"checked_at"`
}

// ReportFromUseCase converts an audit report to a response.
func ReportFromUseCase(r *usecase.ScheduleReport) *ScheduleReportResponse {
	violations := r.Violations
	if violations == nil {
		violations = []domain.Violation{}
	}
	return &ScheduleReportResponse{
		LoanID:     r.LoanID,
		Rows:       r.Rows,
		Consistent: r.Consistent,
		Violations: violations,
		CheckedAt:  r.CheckedAt,
	}
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string      `json:"token"`
	Subject   string      `json:"subject"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at,omitempty"`
}
