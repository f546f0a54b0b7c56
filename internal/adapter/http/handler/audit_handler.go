package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goloan/internal/adapter/http/dto"
	"github.com/iho/goloan/internal/usecase"
)

// AuditService defines the behavior needed by AuditHandler.
type AuditService interface {
	VerifyLoan(ctx context.Context, loanID string) (*usecase.ScheduleReport, error)
}

// AuditHandler exposes schedule verification.
type AuditHandler struct {
	auditUC AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC AuditService) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// Verify checks the stored schedule of a loan. An inconsistent schedule is
// still a 200; the report says what is wrong.
func (h *AuditHandler) Verify(w http.ResponseWriter, r *http.Request) {
	report, err := h.auditUC.VerifyLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to verify schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(report))
}
