package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManager_StatementsRunInsideTransaction(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT nextval").
		WillReturnRows(pgxmock.NewRows([]string{"nextval"}).AddRow(int64(41)))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := newTxManagerWithPool(mock).Begin(ctx)
	require.NoError(t, err)

	n, err := newJournalRepository(mock).NextEntryNumber(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, int64(41), n)

	require.NoError(t, tx.Commit(ctx))
	assertExpectations(t, mock)
}

func TestTxManager_BeginError(t *testing.T) {
	mock := newMockPool(t)
	beginErr := errors.New("too many connections")
	mock.ExpectBegin().WillReturnError(beginErr)

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	require.ErrorIs(t, err, beginErr)
	assert.Nil(t, tx)
}

func TestTxManager_RollbackDiscardsWork(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(int64(prefixLockBase + 6)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := newTxManagerWithPool(mock).Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, newAccountRepository(mock).LockPrefix(ctx, tx, 6))
	require.NoError(t, tx.Rollback(ctx))
	assertExpectations(t, mock)
}

func TestTx_PgxTxExposesUnderlyingTransaction(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	require.NoError(t, err)

	pgTx, ok := tx.(*Tx)
	require.True(t, ok)
	assert.NotNil(t, pgTx.PgxTx())

	require.NoError(t, tx.Rollback(context.Background()))
}
