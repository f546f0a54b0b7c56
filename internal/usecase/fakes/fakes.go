// Package fakes provides in-memory implementations of the usecase ports
// with commit and rollback semantics, for use-case tests.
package fakes

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/iho/goloan/internal/domain"
	"github.com/iho/goloan/internal/usecase"
)

// Store is the shared state behind the fake repositories. Transactions begun
// through its TransactionManager snapshot the store and restore it on
// rollback, so use cases see real commit/rollback behaviour.
type Store struct {
	mu        sync.Mutex
	loans     map[string]domain.Loan
	rows      map[string]domain.ScheduleRow
	payments  map[string]domain.Payment
	investors []domain.InvestorShare
	events    []domain.OutboxEvent
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		loans:    make(map[string]domain.Loan),
		rows:     make(map[string]domain.ScheduleRow),
		payments: make(map[string]domain.Payment),
	}
}

type snapshot struct {
	loans     map[string]domain.Loan
	rows      map[string]domain.ScheduleRow
	payments  map[string]domain.Payment
	investors []domain.InvestorShare
	events    []domain.OutboxEvent
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		loans:     maps.Clone(s.loans),
		rows:      maps.Clone(s.rows),
		payments:  maps.Clone(s.payments),
		investors: slices.Clone(s.investors),
		events:    slices.Clone(s.events),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans = snap.loans
	s.rows = snap.rows
	s.payments = snap.payments
	s.investors = snap.investors
	s.events = snap.events
}

// PutLoan seeds a loan.
func (s *Store) PutLoan(loan domain.Loan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans[loan.ID] = loan
}

// PutRows seeds schedule rows.
func (s *Store) PutRows(rows ...domain.ScheduleRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.rows[r.ID] = r
	}
}

// Loan returns the stored loan.
func (s *Store) Loan(id string) (domain.Loan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loans[id]
	return l, ok
}

// Rows returns a loan's rows ordered by number.
func (s *Store) Rows(loanID string) []domain.ScheduleRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowsLocked(loanID)
}

func (s *Store) rowsLocked(loanID string) []domain.ScheduleRow {
	var out []domain.ScheduleRow
	for _, r := range s.rows {
		if r.LoanID == loanID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Payments returns every stored payment for a loan.
func (s *Store) Payments(loanID string) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Payment
	for _, p := range s.payments {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Events returns every stored outbox event.
func (s *Store) Events() []domain.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

// LoanRepository is an in-memory usecase.LoanRepository.
type LoanRepository struct {
	store *Store

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, amount, balance domain.Cents, updatedAt time.Time) error
}

func NewLoanRepository(store *Store) *LoanRepository {
	return &LoanRepository{store: store}
}

func (m *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, loan)
	}
	m.store.PutLoan(*loan)
	return nil
}

func (m *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	loan, ok := m.store.Loan(id)
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	return &loan, nil
}

func (m *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *LoanRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, amount, balance domain.Cents, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, amount, balance, updatedAt)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	loan, ok := m.store.loans[id]
	if !ok {
		return domain.ErrLoanNotFound
	}
	loan.Amount = amount
	loan.Balance = balance
	loan.Version++
	loan.UpdatedAt = updatedAt
	m.store.loans[id] = loan
	return nil
}

func (m *LoanRepository) List(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	ids := slices.Sorted(maps.Keys(m.store.loans))
	var out []*domain.Loan
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		loan := m.store.loans[id]
		out = append(out, &loan)
	}
	return out, nil
}

// ScheduleRepository is an in-memory usecase.ScheduleRepository.
type ScheduleRepository struct {
	store *Store

	InsertRowsFunc    func(ctx context.Context, tx usecase.Transaction, rows []domain.ScheduleRow) error
	ListOpenFunc   func(ctx context.Context, tx usecase.Transaction, loanID string) ([]domain.ScheduleRow, error)
	PatchRowFunc      func(ctx context.Context, tx usecase.Transaction, id string, patch domain.RowPatch, updatedAt time.Time) error
	CancelOpenFunc func(ctx context.Context, tx usecase.Transaction, loanID string, updatedAt time.Time) (int64, error)
	SettleFunc        func(ctx context.Context, tx usecase.Transaction, id, paymentID string, updatedAt time.Time) error
	MarkOverdueFunc   func(ctx context.Context, asOf, updatedAt time.Time) (int64, error)
}

func NewScheduleRepository(store *Store) *ScheduleRepository {
	return &ScheduleRepository{store: store}
}

func (m *ScheduleRepository) InsertRows(ctx context.Context, tx usecase.Transaction, rows []domain.ScheduleRow) error {
	if m.InsertRowsFunc != nil {
		return m.InsertRowsFunc(ctx, tx, rows)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, r := range rows {
		for _, existing := range m.store.rows {
			if existing.LoanID == r.LoanID && existing.Number == r.Number {
				return fmt.Errorf("duplicate installment %d for loan %s", r.Number, r.LoanID)
			}
		}
		m.store.rows[r.ID] = r
	}
	return nil
}

func (m *ScheduleRepository) ListOpen(ctx context.Context, tx usecase.Transaction, loanID string) ([]domain.ScheduleRow, error) {
	if m.ListOpenFunc != nil {
		return m.ListOpenFunc(ctx, tx, loanID)
	}
	var out []domain.ScheduleRow
	for _, r := range m.store.Rows(loanID) {
		if r.Status.IsOpen() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m *ScheduleRepository) Latest(ctx context.Context, tx usecase.Transaction, loanID string) (*domain.ScheduleRow, error) {
	rows := m.store.Rows(loanID)
	if len(rows) == 0 {
		return nil, domain.ErrInstallmentNotFound
	}
	last := rows[len(rows)-1]
	return &last, nil
}

func (m *ScheduleRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, loanID string, number int) (*domain.ScheduleRow, error) {
	for _, r := range m.store.Rows(loanID) {
		if r.Number == number {
			return &r, nil
		}
	}
	return nil, domain.ErrInstallmentNotFound
}

func (m *ScheduleRepository) CountByLoan(ctx context.Context, tx usecase.Transaction, loanID string) (int64, error) {
	return int64(len(m.store.Rows(loanID))), nil
}

func (m *ScheduleRepository) PatchRow(ctx context.Context, tx usecase.Transaction, id string, patch domain.RowPatch, updatedAt time.Time) error {
	if m.PatchRowFunc != nil {
		return m.PatchRowFunc(ctx, tx, id, patch, updatedAt)
	}
	return m.update(id, func(r *domain.ScheduleRow) {
		r.OpeningBalance = patch.OpeningBalance
		r.Principal = 0
		r.Interest = patch.Interest
		r.Total = patch.Total
		r.ClosingBalance = patch.ClosingBalance
		r.UpdatedAt = updatedAt
	})
}

func (m *ScheduleRepository) CancelOpen(ctx context.Context, tx usecase.Transaction, loanID string, updatedAt time.Time) (int64, error) {
	if m.CancelOpenFunc != nil {
		return m.CancelOpenFunc(ctx, tx, loanID, updatedAt)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var n int64
	for id, r := range m.store.rows {
		if r.LoanID == loanID && r.Status.IsOpen() {
			r.Status = domain.RowCancelled
			r.UpdatedAt = updatedAt
			m.store.rows[id] = r
			n++
		}
	}
	return n, nil
}

func (m *ScheduleRepository) Settle(ctx context.Context, tx usecase.Transaction, id, paymentID string, updatedAt time.Time) error {
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, tx, id, paymentID, updatedAt)
	}
	return m.update(id, func(r *domain.ScheduleRow) {
		r.Status = domain.RowPaid
		r.PaymentID = &paymentID
		r.UpdatedAt = updatedAt
	})
}

func (m *ScheduleRepository) ListByLoan(ctx context.Context, loanID string) ([]domain.ScheduleRow, error) {
	return m.store.Rows(loanID), nil
}

func (m *ScheduleRepository) MarkOverdue(ctx context.Context, asOf, updatedAt time.Time) (int64, error) {
	if m.MarkOverdueFunc != nil {
		return m.MarkOverdueFunc(ctx, asOf, updatedAt)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var n int64
	for id, r := range m.store.rows {
		if r.Status == domain.RowPending && r.DueDate.Before(asOf) {
			r.Status = domain.RowLate
			r.UpdatedAt = updatedAt
			m.store.rows[id] = r
			n++
		}
	}
	return n, nil
}

func (m *ScheduleRepository) update(id string, fn func(*domain.ScheduleRow)) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	r, ok := m.store.rows[id]
	if !ok {
		return domain.ErrInstallmentNotFound
	}
	fn(&r)
	m.store.rows[id] = r
	return nil
}

// PaymentRepository is an in-memory usecase.PaymentRepository.
type PaymentRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
}

func NewPaymentRepository(store *Store) *PaymentRepository {
	return &PaymentRepository{store: store}
}

func (m *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.payments[payment.ID] = *payment
	return nil
}

func (m *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	p, ok := m.store.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return &p, nil
}

func (m *PaymentRepository) ListByLoan(ctx context.Context, loanID string, limit, offset int) ([]*domain.Payment, error) {
	var out []*domain.Payment
	for i, p := range m.store.Payments(loanID) {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, &p)
	}
	return out, nil
}

// InvestorRepository is an in-memory usecase.InvestorRepository.
type InvestorRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, share *domain.InvestorShare) error
}

func NewInvestorRepository(store *Store) *InvestorRepository {
	return &InvestorRepository{store: store}
}

func (m *InvestorRepository) Create(ctx context.Context, tx usecase.Transaction, share *domain.InvestorShare) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, share)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.investors = append(m.store.investors, *share)
	return nil
}

func (m *InvestorRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.InvestorShare, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []*domain.InvestorShare
	for _, s := range m.store.investors {
		if s.LoanID == loanID {
			out = append(out, &s)
		}
	}
	return out, nil
}

// OutboxRepository is an in-memory usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (m *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.events = append(m.store.events, *event)
	return nil
}

func (m *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []*domain.OutboxEvent
	for i := range m.store.events {
		if len(out) == limit {
			break
		}
		if !m.store.events[i].Published {
			e := m.store.events[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

func (m *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for i := range m.store.events {
		if m.store.events[i].ID == id {
			m.store.events[i].Published = true
			m.store.events[i].PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *OutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	var out []*domain.OutboxEvent
	for _, e := range m.store.Events() {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, &e)
		}
	}
	return out, nil
}

func (m *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	kept := m.store.events[:0]
	for _, e := range m.store.events {
		if !e.Published || e.PublishedAt.After(before) {
			kept = append(kept, e)
		}
	}
	m.store.events = kept
	return nil
}

// TransactionManager is an in-memory usecase.TransactionManager.
type TransactionManager struct {
	store *Store

	BeginFunc  func(ctx context.Context) (usecase.Transaction, error)
	CommitFunc func(ctx context.Context) error

	mu         sync.Mutex
	Begun      int
	Committed  int
	RolledBack int
}

// NewTransactionManager creates a transaction manager over store. A nil
// store yields transactions that do nothing on rollback.
func NewTransactionManager(store *Store) *TransactionManager {
	return &TransactionManager{store: store}
}

func (m *TransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	m.Begun++
	m.mu.Unlock()

	tx := &Transaction{manager: m, CommitFunc: m.CommitFunc}
	if m.store != nil {
		snap := m.store.snapshot()
		tx.snap = &snap
	}
	return tx, nil
}

// Transaction is an in-memory usecase.Transaction.
type Transaction struct {
	manager *TransactionManager
	snap    *snapshot
	done    bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *Transaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.done = true
	if m.manager != nil {
		m.manager.mu.Lock()
		m.manager.Committed++
		m.manager.mu.Unlock()
	}
	return nil
}

func (m *Transaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if m.done {
		return nil
	}
	m.done = true
	if m.snap != nil {
		m.manager.store.restore(*m.snap)
	}
	if m.manager != nil {
		m.manager.mu.Lock()
		m.manager.RolledBack++
		m.manager.mu.Unlock()
	}
	return nil
}

// Retrier runs the operation until it succeeds or MaxAttempts is reached.
type Retrier struct {
	MaxAttempts int
	Retryable   func(err error) bool
	Attempts    int
}

func (m *Retrier) Retry(ctx context.Context, operation func() error) error {
	maxAttempts := m.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	var err error
	for i := 0; i < maxAttempts; i++ {
		m.Attempts++
		err = operation()
		if err == nil || m.Retryable == nil || !m.Retryable(err) {
			return err
		}
	}
	return err
}

// IDGenerator is an in-memory usecase.IDGenerator.
type IDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

func (m *IDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// Cache is an in-memory usecase.Cache.
type Cache struct {
	mu   sync.Mutex
	data map[string][]byte

	Gets int
	Sets int
}

func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

func (m *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	v, ok := m.data[key]
	if !ok {
		return nil, usecase.ErrCacheMiss
	}
	return v, nil
}

func (m *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	m.data[key] = value
	return nil
}

func (m *Cache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// IdempotencyStore is an in-memory usecase.IdempotencyStore.
type IdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error

	Released []string
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *IdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Released = append(m.Released, key)
	delete(m.data, key)
	return nil
}
