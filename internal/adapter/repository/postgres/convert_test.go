package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "-10250", "769.230769230769230769", "1000000000000000"} {
		d := decimal.RequireFromString(s)
		assert.True(t, numericToDecimal(decimalToNumeric(d)).Equal(d), s)
	}

	assert.True(t, numericToDecimal(pgtype.Numeric{}).IsZero())
	assert.Nil(t, numericToNullableDecimal(pgtype.Numeric{}))
	assert.False(t, nullableDecimalToNumeric(nil).Valid)
}

func TestNullableHelpers(t *testing.T) {
	assert.False(t, textOrNull("").Valid)
	assert.Equal(t, pgtype.Text{String: "6001", Valid: true}, textOrNull("6001"))

	n := int64(7)
	assert.Equal(t, &n, nullableInt8(int8OrNull(&n)))
	assert.Nil(t, nullableInt8(int8OrNull(nil)))

	assert.Nil(t, limitOrAll(0))
	assert.Equal(t, 25, limitOrAll(25))

	assert.Nil(t, nullableTime(nullableTimeToPg(nil)))
	assert.Equal(t, testTime, *nullableTime(nullableTimeToPg(&testTime)))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgErrUniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgErrDeadlock}))
	assert.False(t, isUniqueViolation(nil))
}
