package handler

import (
	"context"
	"net/http"

	"github.com/iho/goloan/internal/adapter/http/dto"
	"github.com/iho/goloan/internal/usecase"
)

// PreviewService defines the behavior needed by CalculatorHandler.
type PreviewService interface {
	PreviewAmortization(ctx context.Context, input usecase.AmortizationPreviewInput) (*usecase.SchedulePreview, error)
	PreviewInterestOnly(ctx context.Context, input usecase.InterestOnlyPreviewInput) (*usecase.SchedulePreview, error)
}

// CalculatorHandler computes schedules without storing them.
type CalculatorHandler struct {
	previewUC PreviewService
}

// NewCalculatorHandler creates a new CalculatorHandler.
func NewCalculatorHandler(previewUC PreviewService) *CalculatorHandler {
	return &CalculatorHandler{previewUC: previewUC}
}

// Amortization previews a fixed-payment schedule.
func (h *CalculatorHandler) Amortization(w http.ResponseWriter, r *http.Request) {
	var req dto.AmortizationPreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	preview, err := h.previewUC.PreviewAmortization(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to compute schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PreviewFromUseCase(preview))
}

// InterestOnly previews an interest-only projection.
func (h *CalculatorHandler) InterestOnly(w http.ResponseWriter, r *http.Request) {
	var req dto.InterestOnlyPreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	preview, err := h.previewUC.PreviewInterestOnly(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to compute schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PreviewFromUseCase(preview))
}
