package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/agentledger/internal/usecase"
)

var testTime = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func num(s string) pgtype.Numeric {
	return decimalToNumeric(decimal.RequireFromString(s))
}

// beginMockTx starts a transaction on the mock pool. The caller queues the
// statements expected inside it.
func beginMockTx(t *testing.T, mock pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	require.NoError(t, err)
	return tx
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
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
