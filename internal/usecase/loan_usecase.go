package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/metrics"
)

// LoanUseCase handles loan origination, schedule import and loan reads.
type LoanUseCase struct {
	txManager    TransactionManager
	loanRepo     LoanRepository
	scheduleRepo ScheduleRepository
	investorRepo InvestorRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	horizon      int
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	scheduleRepo ScheduleRepository,
	investorRepo InvestorRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
	horizon int,
) *LoanUseCase {
	if horizon <= 0 {
		horizon = domain.DefaultHorizon
	}
	return &LoanUseCase{
		txManager:    txManager,
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		investorRepo: investorRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		metrics:      metrics,
		logger:       logger,
		horizon:      horizon,
	}
}

// InvestorInput is an investor stake attached at origination.
type InvestorInput struct {
	InvestorID     string
	AmountInvested domain.Cents
	InvestorShare  decimal.Decimal
	AdminShare     decimal.Decimal
}

// CreateLoanInput represents input for originating a loan.
//
// InterestRate is annual for amortizing loans and monthly for interest-only
// loans. Term is the installment count for amortizing loans; for
// interest-only loans a positive Term overrides the projection horizon.
type CreateLoanInput struct {
	StartDate      time.Time
	IntermediaryID *string
	GuarantorID    *string
	ClientID       string
	Product        domain.Product
	Cadence        domain.Cadence
	InterestRate   domain.Rate
	Amount         domain.Cents
	Term           int
	Investors      []InvestorInput
}

// CreateLoanResult is the originated loan with its generated schedule.
type CreateLoanResult struct {
	Loan     *domain.Loan
	Schedule []domain.ScheduleRow
}

func (in CreateLoanInput) validate() error {
	if err := domain.ValidateReference("client_id", in.ClientID); err != nil {
		return err
	}
	for field, ref := range map[string]*string{"intermediary_id": in.IntermediaryID, "guarantor_id": in.GuarantorID} {
		if ref == nil {
			continue
		}
		if err := domain.ValidateReference(field, *ref); err != nil {
			return err
		}
	}
	if !in.Product.IsValid() {
		return domain.ErrInvalidProduct
	}
	if !in.Cadence.IsValid() {
		return domain.ErrInvalidCadence
	}
	if !in.Amount.IsPositive() {
		return domain.ErrInvalidPrincipal
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: start date", domain.ErrMissingField)
	}
	if in.Product == domain.ProductAmortizing && in.Term < 1 {
		return domain.ErrInvalidTerm
	}
	if in.Term < 0 {
		return domain.ErrInvalidTerm
	}
	return nil
}

// CreateLoan originates a loan and stores its generated schedule in one
// transaction.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*CreateLoanResult, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	shares := make([]*domain.InvestorShare, 0, len(input.Investors))
	for _, inv := range input.Investors {
		share := &domain.InvestorShare{
			InvestorID:     inv.InvestorID,
			AmountInvested: inv.AmountInvested,
			InvestorShare:  inv.InvestorShare,
			AdminShare:     inv.AdminShare,
		}
		if err := share.Validate(); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}

	// Schedules are priced with the rate exactly as the loans table stores it.
	rate, err := domain.RateFromFraction(input.InterestRate.Fraction().Round(domain.StoredRatePlaces))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:             uc.idGen.Generate(),
		ClientID:       input.ClientID,
		IntermediaryID: input.IntermediaryID,
		GuarantorID:    input.GuarantorID,
		Product:        input.Product,
		Cadence:        input.Cadence,
		InterestRate:   rate,
		Amount:         input.Amount,
		Balance:        input.Amount,
		Term:           input.Term,
		StartDate:      input.StartDate,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	rows, err := uc.generate(loan)
	if err != nil {
		return nil, err
	}
	stampRows(rows, loan.ID, uc.idGen, now)
	if loan.Product == domain.ProductAmortizing {
		end := rows[len(rows)-1].DueDate
		loan.EndDate = &end
	}

	// Add transaction timeout
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, txFailure("begin", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.loanRepo.Create(txCtx, tx, loan); err != nil {
		return nil, txFailure("insert loan", err)
	}

	for _, share := range shares {
		share.LoanID = loan.ID
		if err := uc.investorRepo.Create(txCtx, tx, share); err != nil {
			return nil, txFailure("insert investor", err)
		}
	}

	if err := uc.scheduleRepo.InsertRows(txCtx, tx, rows); err != nil {
		return nil, txFailure("insert schedule", err)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   loan.ID,
		AggregateType: domain.AggregateTypeLoan,
		EventType:     domain.EventTypeLoanOriginated,
		Payload: map[string]any{
			"loan_id":      loan.ID,
			"client_id":    loan.ClientID,
			"product":      string(loan.Product),
			"amount":       loan.Amount.String(),
			"installments": len(rows),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, txFailure("append event", err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, txFailure("commit", err)
	}

	if uc.metrics != nil {
		uc.metrics.LoansOriginated.WithLabelValues(string(loan.Product)).Inc()
		uc.metrics.LoanAmount.Observe(loan.Amount.Decimal().InexactFloat64())
		uc.metrics.ScheduleRowsGenerated.WithLabelValues(string(loan.Product)).Add(float64(len(rows)))
	}

	return &CreateLoanResult{Loan: loan, Schedule: rows}, nil
}

func (uc *LoanUseCase) generate(loan *domain.Loan) ([]domain.ScheduleRow, error) {
	if loan.IsInterestOnly() {
		periods := uc.horizon
		if loan.Term > 0 {
			periods = loan.Term
		}
		return domain.GenerateInterestOnlySchedule(domain.InterestOnlyParams{
			Principal:   loan.Amount,
			MonthlyRate: loan.InterestRate,
			Periods:     periods,
			Cadence:     loan.Cadence,
			StartDate:   loan.StartDate,
		})
	}

	schedule, err := domain.GenerateAmortizationSchedule(
		loan.Amount, loan.InterestRate, loan.Term, loan.Cadence, loan.StartDate)
	if err != nil {
		return nil, err
	}
	reportDiscrepancy(uc.logger, uc.metrics, loan.ID, schedule)
	return schedule.Rows, nil
}

// reportDiscrepancy warns when an amortization schedule's totals drift more
// than a cent from payment * N. It never fails the caller.
func reportDiscrepancy(logger zerolog.Logger, m *metrics.Metrics, loanID string, schedule *domain.AmortizationSchedule) {
	if !schedule.HasDiscrepancy() {
		return
	}
	logger.Warn().
		Str("loan_id", loanID).
		Str("payment", schedule.Payment.String()).
		Int("installments", len(schedule.Rows)).
		Str("total_paid", schedule.TotalPaid.String()).
		Str("discrepancy", schedule.Discrepancy().String()).
		Msg("amortization schedule rounding discrepancy")
	if m != nil {
		m.RoundingDiscrepancies.Inc()
	}
}

// ImportSchedule stores externally prepared schedule rows for a loan that has
// none yet. Either every row is stored or none is.
func (uc *LoanUseCase) ImportSchedule(ctx context.Context, loanID string, rows []domain.ScheduleRow) ([]domain.ScheduleRow, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", domain.ErrInvalidScheduleRow)
	}
	seen := make(map[int]bool, len(rows))
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return nil, err
		}
		if seen[rows[i].Number] {
			return nil, fmt.Errorf("%w: duplicate installment %d", domain.ErrInvalidScheduleRow, rows[i].Number)
		}
		seen[rows[i].Number] = true
	}

	// Add transaction timeout
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, txFailure("begin", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, loanID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.scheduleRepo.CountByLoan(txCtx, tx, loan.ID)
	if err != nil {
		return nil, txFailure("count rows", err)
	}
	if existing > 0 {
		return nil, domain.ErrScheduleExists
	}

	now := time.Now().UTC()
	stampRows(rows, loan.ID, uc.idGen, now)
	if err := uc.scheduleRepo.InsertRows(txCtx, tx, rows); err != nil {
		return nil, txFailure("insert schedule", err)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   loan.ID,
		AggregateType: domain.AggregateTypeLoan,
		EventType:     domain.EventTypeScheduleImported,
		Payload: map[string]any{
			"loan_id": loan.ID,
			"rows":    len(rows),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, txFailure("append event", err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, txFailure("commit", err)
	}

	if uc.metrics != nil {
		uc.metrics.SchedulesImported.Inc()
	}

	return rows, nil
}

// GetLoan retrieves a loan by ID.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// ListLoans lists loans with pagination.
func (uc *LoanUseCase) ListLoans(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	limit, offset, _ = domain.ValidatePagination(limit, offset)
	return uc.loanRepo.List(ctx, limit, offset)
}

// GetSchedule returns every row of a loan's schedule ordered by number.
func (uc *LoanUseCase) GetSchedule(ctx context.Context, loanID string) ([]domain.ScheduleRow, error) {
	if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return uc.scheduleRepo.ListByLoan(ctx, loanID)
}

// ListInvestors returns the investor shares of a loan.
func (uc *LoanUseCase) ListInvestors(ctx context.Context, loanID string) ([]*domain.InvestorShare, error) {
	if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return uc.investorRepo.ListByLoan(ctx, loanID)
}
