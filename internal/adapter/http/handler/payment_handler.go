package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goloan/internal/adapter/http/dto"
	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/usecase"
)

// PaymentService defines the behavior needed by PaymentHandler.
type PaymentService interface {
	RegisterPayment(ctx context.Context, input usecase.RegisterPaymentInput) (*domain.Payment, error)
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	ListPayments(ctx context.Context, loanID string, limit, offset int) ([]*domain.Payment, error)
}

// PaymentHandler handles payment HTTP requests.
type PaymentHandler struct {
	paymentUC PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentUC PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// Register records a payment against one of the loan's installments.
func (h *PaymentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	payment, err := h.paymentUC.RegisterPayment(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to register payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromDomain(payment))
}

// Get retrieves a payment by ID.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	payment, err := h.paymentUC.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get payment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(payment))
}

// ListByLoan lists the payments of a loan.
func (h *PaymentHandler) ListByLoan(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", domain.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)

	payments, err := h.paymentUC.ListPayments(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list payments", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentsFromDomain(payments))
}
