package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/iho/goloan/internal/usecase"
)

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager implements usecase.TransactionManager. Transactions run at READ
// COMMITTED; concurrent payments on one loan serialize on the loan row lock.
type TxManager struct {
	pool pgxPool
}

// NewTxManager creates a new TxManager. pool is usually a *pgxpool.Pool.
func NewTxManager(pool pgxPool) *TxManager {
	return &TxManager{pool: pool}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction. After Commit it returns
// pgx.ErrTxClosed, which deferred rollbacks ignore.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
