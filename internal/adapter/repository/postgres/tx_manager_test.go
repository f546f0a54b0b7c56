package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManager(t *testing.T) {
	tests := []struct {
		name   string
		expect func(pgxmock.PgxPoolIface)
		finish func(context.Context, *Tx) error
	}{
		{
			name: "commit",
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectBegin()
				m.ExpectExec("UPDATE loans").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				m.ExpectCommit()
			},
			finish: func(ctx context.Context, tx *Tx) error {
				if _, err := tx.PgxTx().Exec(ctx, "UPDATE loans SET balance = 0"); err != nil {
					return err
				}
				return tx.Commit(ctx)
			},
		},
		{
			name: "rollback",
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectBegin()
				m.ExpectRollback()
			},
			finish: func(ctx context.Context, tx *Tx) error {
				return tx.Rollback(ctx)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			tt.expect(mock)

			tx, err := NewTxManager(mock).Begin(context.Background())
			require.NoError(t, err)
			require.IsType(t, &Tx{}, tx)

			require.NoError(t, tt.finish(context.Background(), tx.(*Tx)))
			assertExpectations(t, mock)
		})
	}
}

func TestTxManagerBeginError(t *testing.T) {
	mock := newMockPool(t)
	beginErr := errors.New("too many connections")
	mock.ExpectBegin().WillReturnError(beginErr)

	tx, err := NewTxManager(mock).Begin(context.Background())

	assert.ErrorIs(t, err, beginErr)
	assert.Nil(t, tx)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	require.NoError(t, pool.ExpectationsWereMet())
}
