package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/infrastructure/metrics"
)

// PaymentUseCase records payments against loan installments.
type PaymentUseCase struct {
	txManager    TransactionManager
	retrier      Retrier
	loanRepo     LoanRepository
	scheduleRepo ScheduleRepository
	paymentRepo  PaymentRepository
	outboxRepo   OutboxRepository
	recalc       *RecalculationUseCase
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewPaymentUseCase creates a new PaymentUseCase. A nil retrier runs every
// registration exactly once.
func NewPaymentUseCase(
	txManager TransactionManager,
	retrier Retrier,
	loanRepo LoanRepository,
	scheduleRepo ScheduleRepository,
	paymentRepo PaymentRepository,
	outboxRepo OutboxRepository,
	recalc *RecalculationUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:    txManager,
		retrier:      retrier,
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		paymentRepo:  paymentRepo,
		outboxRepo:   outboxRepo,
		recalc:       recalc,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// RegisterPaymentInput represents input for registering a payment.
type RegisterPaymentInput struct {
	PaidAt            time.Time
	LoanID            string
	Method            string
	InstallmentNumber int
	Principal         domain.Cents
	Interest          domain.Cents
	Total             domain.Cents
}

// RegisterPayment records a payment, settles the installment, reduces the
// loan balance and, for interest-only loans that received principal,
// recalculates the remaining schedule. Everything happens in one
// transaction; the whole attempt is retried on serialization failures.
func (uc *PaymentUseCase) RegisterPayment(ctx context.Context, input RegisterPaymentInput) (*domain.Payment, error) {
	start := time.Now()

	candidate := &domain.Payment{
		LoanID:            input.LoanID,
		Method:            input.Method,
		InstallmentNumber: input.InstallmentNumber,
		PaidAt:            input.PaidAt,
		Principal:         input.Principal,
		Interest:          input.Interest,
		Total:             input.Total,
	}
	if err := candidate.Validate(); err != nil {
		uc.recordError(err)
		return nil, err
	}
	if err := domain.ValidatePaymentMethod(input.Method); err != nil {
		uc.recordError(err)
		return nil, err
	}

	var (
		payment *domain.Payment
		product domain.Product
	)
	attempt := func() error {
		var err error
		payment, product, err = uc.register(ctx, input)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, attempt)
	} else {
		err = attempt()
	}
	if err != nil {
		uc.recordError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsRegistered.WithLabelValues(string(product)).Inc()
		uc.metrics.PaymentAmount.Observe(payment.Total.Decimal().InexactFloat64())
		uc.metrics.PaymentDuration.Observe(time.Since(start).Seconds())
	}

	return payment, nil
}

func (uc *PaymentUseCase) register(ctx context.Context, input RegisterPaymentInput) (*domain.Payment, domain.Product, error) {
	// Add transaction timeout
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, "", txFailure("begin", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// 1. Lock the loan and the targeted installment
	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, input.LoanID)
	if err != nil {
		return nil, "", err
	}

	row, err := uc.scheduleRepo.GetByNumberForUpdate(txCtx, tx, loan.ID, input.InstallmentNumber)
	if err != nil {
		return nil, "", err
	}
	if !row.Status.IsOpen() {
		return nil, "", domain.ErrInstallmentSettled
	}
	if loan.IsInterestOnly() && input.Total < row.Interest {
		return nil, "", domain.ErrPaymentBelowInterest
	}

	newBalance, err := loan.ApplyPrincipal(input.Principal)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()

	// 2. Insert the payment
	payment := &domain.Payment{
		ID:                uc.idGen.Generate(),
		LoanID:            loan.ID,
		Method:            input.Method,
		InstallmentNumber: input.InstallmentNumber,
		PaidAt:            input.PaidAt,
		Principal:         input.Principal,
		Interest:          input.Interest,
		Total:             input.Total,
		CreatedAt:         now,
	}
	if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
		return nil, "", txFailure("insert payment", err)
	}

	// 3. Reduce the balance. Interest-only loans also lower the nominal amount.
	if input.Principal > 0 {
		amount := loan.Amount
		if loan.IsInterestOnly() {
			amount -= input.Principal
		}
		if err := uc.loanRepo.UpdateBalance(txCtx, tx, loan.ID, amount, newBalance, now); err != nil {
			return nil, "", txFailure("update balance", err)
		}
	}

	// 4. Settle the installment
	if err := uc.scheduleRepo.Settle(txCtx, tx, row.ID, payment.ID, now); err != nil {
		return nil, "", txFailure("settle installment", err)
	}

	// 5. Re-price the rest of an interest-only schedule
	if loan.IsInterestOnly() && input.Principal > 0 {
		if _, err := uc.recalc.Recalculate(txCtx, tx, loan.ID); err != nil {
			return nil, "", txFailure("recalculate schedule", err)
		}
	}

	// 6. Emit payment registered event
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypePayment,
		EventType:     domain.EventTypePaymentRegistered,
		Payload: map[string]any{
			"payment_id":         payment.ID,
			"loan_id":            loan.ID,
			"installment_number": payment.InstallmentNumber,
			"principal":          payment.Principal.String(),
			"interest":           payment.Interest.String(),
			"total":              payment.Total.String(),
			"balance":            newBalance.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, "", txFailure("append event", err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, "", txFailure("commit", err)
	}

	return payment, loan.Product, nil
}

// GetPayment retrieves a payment by ID.
func (uc *PaymentUseCase) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return uc.paymentRepo.GetByID(ctx, id)
}

// ListPayments lists payments recorded against a loan.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, loanID string, limit, offset int) ([]*domain.Payment, error) {
	if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	limit, offset, _ = domain.ValidatePagination(limit, offset)
	return uc.paymentRepo.ListByLoan(ctx, loanID, limit, offset)
}

func (uc *PaymentUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.PaymentErrors.WithLabelValues(errorType(err)).Inc()
}

// errorType maps an error to its category label.
func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInconsistentState):
		return "inconsistent_state"
	case errors.Is(err, domain.ErrTransactionFailure):
		return "transaction_failure"
	default:
		return "internal"
	}
}
