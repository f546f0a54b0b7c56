package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/metrics"
	"github.com/iho/goloan/internal/usecase"
	"github.com/iho/goloan/internal/usecase/fakes"
)

type harness struct {
	store     *fakes.Store
	txManager *fakes.TransactionManager
	loans     *fakes.LoanRepository
	schedule  *fakes.ScheduleRepository
	payments  *fakes.PaymentRepository
	investors *fakes.InvestorRepository
	outbox    *fakes.OutboxRepository
	idGen     *fakes.IDGenerator
	retrier   *fakes.Retrier
	metrics   *metrics.Metrics

	loanUC    *usecase.LoanUseCase
	recalcUC  *usecase.RecalculationUseCase
	paymentUC *usecase.PaymentUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{store: fakes.NewStore()}
	h.txManager = fakes.NewTransactionManager(h.store)
	h.loans = fakes.NewLoanRepository(h.store)
	h.schedule = fakes.NewScheduleRepository(h.store)
	h.payments = fakes.NewPaymentRepository(h.store)
	h.investors = fakes.NewInvestorRepository(h.store)
	h.outbox = fakes.NewOutboxRepository(h.store)
	h.idGen = fakes.NewIDGenerator()
	h.retrier = &fakes.Retrier{MaxAttempts: 1}
	h.metrics = metrics.New(prometheus.NewRegistry())

	h.loanUC = usecase.NewLoanUseCase(h.txManager, h.loans, h.schedule, h.investors, h.outbox,
		h.idGen, h.metrics, zerolog.Nop(), domain.DefaultHorizon)
	h.recalcUC = usecase.NewRecalculationUseCase(h.loans, h.schedule, h.outbox, h.idGen, h.metrics, domain.DefaultHorizon)
	h.paymentUC = usecase.NewPaymentUseCase(h.txManager, h.retrier, h.loans, h.schedule, h.payments,
		h.outbox, h.recalcUC, h.idGen, h.metrics)
	return h
}

// interestOnlyLoan originates 5,000.00 at 5% a month starting 2024-01-15,
// which bills 250.00 on each of the six projected installments.
func (h *harness) interestOnlyLoan(t *testing.T) *domain.Loan {
	t.Helper()
	res, err := h.loanUC.CreateLoan(context.Background(), usecase.CreateLoanInput{
		ClientID:     "client-1",
		Product:      domain.ProductInterestOnly,
		Cadence:      domain.CadenceMonthly,
		InterestRate: domain.MustPercent("5"),
		Amount:       domain.MustCents("5000"),
		StartDate:    domain.Date(2024, time.January, 15),
	})
	require.NoError(t, err)
	return res.Loan
}

// amortizingLoan originates 10,000.00 at 12% a year over 12 monthly
// installments starting 2024-01-15.
func (h *harness) amortizingLoan(t *testing.T) *domain.Loan {
	t.Helper()
	res, err := h.loanUC.CreateLoan(context.Background(), usecase.CreateLoanInput{
		ClientID:     "client-2",
		Product:      domain.ProductAmortizing,
		Cadence:      domain.CadenceMonthly,
		InterestRate: domain.MustPercent("12"),
		Amount:       domain.MustCents("10000"),
		Term:         12,
		StartDate:    domain.Date(2024, time.January, 15),
	})
	require.NoError(t, err)
	return res.Loan
}

func payment(loanID string, number int, principal, interest string) usecase.RegisterPaymentInput {
	p := domain.MustCents(principal)
	i := domain.MustCents(interest)
	return usecase.RegisterPaymentInput{
		LoanID:            loanID,
		InstallmentNumber: number,
		Method:            "cash",
		PaidAt:            domain.Date(2024, time.February, 15),
		Principal:         p,
		Interest:          i,
		Total:             p + i,
	}
}

func eventTypes(events []domain.OutboxEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.EventType)
	}
	return out
}
