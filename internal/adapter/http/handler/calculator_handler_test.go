package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/goloan/internal/adapter/http/dto"
	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/usecase"
)

// The calculator is pure, so these tests run the real preview use case.
func newCalculator() *CalculatorHandler {
	return NewCalculatorHandler(usecase.NewPreviewUseCase(nil, zerolog.Nop()))
}

func TestCalculatorHandler_Amortization(t *testing.T) {
	body := `{"principal":"10000","annual_rate":{"kind":"percent","value":"12"},"installments":12,"cadence":"monthly","start_date":"2024-01-15"}`
	rec := httptest.NewRecorder()
	newCalculator().Amortization(rec, httptest.NewRequest(http.MethodPost, "/calculator/amortization", bytes.NewBufferString(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.PreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Payment != domain.MustCents("888.49") || len(resp.Rows) != 12 {
		t.Fatalf("unexpected preview payment=%s rows=%d", resp.Payment, len(resp.Rows))
	}
	if resp.Rows[0].Principal != domain.MustCents("788.49") || resp.Rows[11].ClosingBalance != 0 {
		t.Fatalf("unexpected rows %+v ... %+v", resp.Rows[0], resp.Rows[11])
	}
}

func TestCalculatorHandler_InterestOnly(t *testing.T) {
	body := `{"principal":"5000","monthly_rate":{"kind":"percent","value":"5"},"periods":3,"cadence":"monthly","start_date":"2024-01-31"}`
	rec := httptest.NewRecorder()
	newCalculator().InterestOnly(rec, httptest.NewRequest(http.MethodPost, "/calculator/interest-only", bytes.NewBufferString(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.PreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rows) != 3 || resp.Rows[0].Interest != domain.MustCents("250") || resp.Rows[0].DueDate != "2024-02-29" {
		t.Fatalf("unexpected rows %+v", resp.Rows)
	}
}

func TestCalculatorHandler_RejectsInvalidInput(t *testing.T) {
	body := `{"principal":"10000","annual_rate":{"kind":"percent","value":"12"},"installments":0,"cadence":"monthly","start_date":"2024-01-15"}`
	rec := httptest.NewRecorder()
	newCalculator().Amortization(rec, httptest.NewRequest(http.MethodPost, "/calculator/amortization", bytes.NewBufferString(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	newCalculator().InterestOnly(rec, httptest.NewRequest(http.MethodPost, "/calculator/interest-only", bytes.NewBufferString(`{"principal":"5000"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing rate, got %d", rec.Code)
	}
}

type auditServiceStub struct {
	report *usecase.ScheduleReport
	err    error
}

func (s *auditServiceStub) VerifyLoan(ctx context.Context, loanID string) (*usecase.ScheduleReport, error) {
	return s.report, s.err
}

func TestAuditHandler_Verify(t *testing.T) {
	h := NewAuditHandler(&auditServiceStub{report: &usecase.ScheduleReport{
		LoanID: "loan-1",
		Rows:   2,
		Violations: []domain.Violation{
			{Number: 2, Rule: domain.RuleTotal, Message: "total mismatch"},
		},
	}})

	rec := httptest.NewRecorder()
	h.Verify(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/loans/loan-1/schedule/verify", nil), "id", "loan-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 even when inconsistent, got %d", rec.Code)
	}
	var resp dto.ScheduleReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Consistent || len(resp.Violations) != 1 || resp.Violations[0].Rule != domain.RuleTotal {
		t.Fatalf("unexpected report %+v", resp)
	}

	rec = httptest.NewRecorder()
	NewAuditHandler(&auditServiceStub{err: domain.ErrLoanNotFound}).
		Verify(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/loans/x/schedule/verify", nil), "id", "x"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
