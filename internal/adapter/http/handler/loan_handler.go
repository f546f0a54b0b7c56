package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goloan/internal/adapter/http/dto"
	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*usecase.CreateLoanResult, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, limit, offset int) ([]*domain.Loan, error)
	GetSchedule(ctx context.Context, loanID string) ([]domain.ScheduleRow, error)
	ImportSchedule(ctx context.Context, loanID string, rows []domain.ScheduleRow) ([]domain.ScheduleRow, error)
	ListInvestors(ctx context.Context, loanID string) ([]*domain.InvestorShare, error)
}

// LoanHandler handles loan and schedule HTTP requests.
type LoanHandler struct {
	loanUC LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// Create originates a loan and returns it with its schedule.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.loanUC.CreateLoan(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create loan", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateLoanFromResult(result))
}

// Get retrieves a loan by ID.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loanUC.GetLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// List lists loans.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", domain.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)

	loans, err := h.loanUC.ListLoans(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list loans", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoansFromDomain(loans))
}

// Schedule returns the loan's schedule ordered by installment number.
func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	rows, err := h.loanUC.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ScheduleFromDomain(rows))
}

// ImportSchedule stores an externally prepared schedule.
func (h *LoanHandler) ImportSchedule(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rows, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	stored, err := h.loanUC.ImportSchedule(r.Context(), chi.URLParam(r, "id"), rows)
	if err != nil {
		writeDomainError(w, "failed to import schedule", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ScheduleFromDomain(stored))
}

// Investors lists the loan's investor shares.
func (h *LoanHandler) Investors(w http.ResponseWriter, r *http.Request) {
	shares, err := h.loanUC.ListInvestors(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list investors", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestorsFromDomain(shares))
}
