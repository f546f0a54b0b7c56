package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/goloan/internal/domain"
)

func TestCreateLoanRequest_ToUseCaseInput(t *testing.T) {
	body := `{
		"client_id": " client-1 ",
		"product": "financiamiento",
		"cadence": "monthly",
		"interest_rate": {"kind": "percent", "value": "12"},
		"amount": "10000.00",
		"term": 12,
		"start_date": "2024-01-15",
		"investors": [{"investor_id": "inv-1", "amount_invested": "5000", "investor_share": "0.8", "admin_share": "0.2"}]
	}`

	var req CreateLoanRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ClientID != "client-1" || got.Product != domain.ProductAmortizing || got.Term != 12 {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.Amount != domain.MustCents("10000") {
		t.Fatalf("expected amount 10000.00, got %s", got.Amount)
	}
	if !got.InterestRate.Fraction().Equal(decimal.RequireFromString("0.12")) {
		t.Fatalf("expected 12%% rate, got %s", got.InterestRate)
	}
	if !got.StartDate.Equal(domain.Date(2024, 1, 15)) {
		t.Fatalf("unexpected start date %s", got.StartDate)
	}
	if len(got.Investors) != 1 || got.Investors[0].AmountInvested != domain.MustCents("5000") {
		t.Fatalf("unexpected investors %+v", got.Investors)
	}
}

func TestCreateLoanRequest_ToUseCaseInputErrors(t *testing.T) {
	rate := domain.MustPercent("5")

	tests := []struct {
		name    string
		request *CreateLoanRequest
		want    error
	}{
		{
			name:    "missing rate",
			request: &CreateLoanRequest{StartDate: "2024-01-15"},
			want:    domain.ErrMissingField,
		},
		{
			name:    "bad start date",
			request: &CreateLoanRequest{InterestRate: &rate, StartDate: "15/01/2024"},
			want:    domain.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.request.ToUseCaseInput()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateLoanRequest_RejectsSubCentAmount(t *testing.T) {
	var req CreateLoanRequest
	err := json.Unmarshal([]byte(`{"amount": "10.005"}`), &req)
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestRegisterPaymentRequest_ToUseCaseInput(t *testing.T) {
	req := &RegisterPaymentRequest{
		InstallmentNumber: 1,
		PaidAt:            "2024-02-15",
		Method:            "transfer",
		Principal:         domain.MustCents("788.49"),
		Interest:          domain.MustCents("100"),
		Total:             domain.MustCents("888.49"),
	}

	got, err := req.ToUseCaseInput("loan-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LoanID != "loan-1" || got.InstallmentNumber != 1 || got.Total != domain.MustCents("888.49") {
		t.Fatalf("unexpected input %+v", got)
	}
	if !got.PaidAt.Equal(domain.Date(2024, 2, 15)) {
		t.Fatalf("unexpected paid date %s", got.PaidAt)
	}

	req.PaidAt = "yesterday"
	if _, err := req.ToUseCaseInput("loan-1"); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
}

func TestImportScheduleRequest_ToDomain(t *testing.T) {
	req := &ImportScheduleRequest{Rows: []ScheduleRowRequest{
		{Number: 1, DueDate: "2024-02-15", OpeningBalance: 10000, Interest: 100, Total: 100, ClosingBalance: 10000},
		{Number: 2, DueDate: "2024-03-15", OpeningBalance: 10000, Interest: 100, Total: 100, ClosingBalance: 10000, Status: domain.RowPaid},
	}}

	rows, err := req.ToDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Status != domain.RowPending || rows[1].Status != domain.RowPaid {
		t.Fatalf("unexpected statuses %s, %s", rows[0].Status, rows[1].Status)
	}

	req.Rows[1].DueDate = ""
	if _, err := req.ToDomain(); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
}

func TestPreviewRequests_ToUseCaseInput(t *testing.T) {
	rate := domain.MustPercent("12")

	amort := &AmortizationPreviewRequest{
		Principal:    domain.MustCents("10000"),
		AnnualRate:   &rate,
		Installments: 12,
		Cadence:      domain.CadenceMonthly,
		StartDate:    "2024-01-15",
	}
	in, err := amort.ToUseCaseInput()
	if err != nil || in.Installments != 12 || in.Cadence != domain.CadenceMonthly {
		t.Fatalf("unexpected amortization input %+v, err %v", in, err)
	}

	amort.AnnualRate = nil
	if _, err := amort.ToUseCaseInput(); !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected missing rate, got %v", err)
	}

	io := &InterestOnlyPreviewRequest{
		Principal:   domain.MustCents("5000"),
		MonthlyRate: &rate,
		Periods:     3,
		Cadence:     domain.CadenceBiweekly,
		StartDate:   "2024-01-15",
	}
	ioIn, err := io.ToUseCaseInput()
	if err != nil || ioIn.Periods != 3 || ioIn.Principal != domain.MustCents("5000") {
		t.Fatalf("unexpected interest-only input %+v, err %v", ioIn, err)
	}
}
