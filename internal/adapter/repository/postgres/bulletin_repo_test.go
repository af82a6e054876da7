package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/agentledger/internal/domain"
)

func TestBulletinRepository_Replace(t *testing.T) {
	mock := newMockPool(t)
	date := pgtype.Date{Time: testTime, Valid: true}
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM commission_bulletins").
		WithArgs("agent-1", "IQD", date).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("INSERT INTO commission_bulletins").
		WithArgs("b1", "agent-1", "IQD", pgtype.Text{String: "standard", Valid: true}, date, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO commission_tiers").
		WithArgs(append([]any{"t1", "b1", 0}, anyArgs(7)...)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	to := decimal.NewFromInt(50000)
	b := &domain.Bulletin{
		ID:           "b1",
		AgentID:      "agent-1",
		Currency:     "IQD",
		BulletinType: "standard",
		Date:         testTime,
		CreatedAt:    testTime,
		Tiers: []domain.Tier{{
			ID:         "t1",
			FromAmount: decimal.Zero,
			ToAmount:   &to,
			Percentage: decimal.RequireFromString("2.5"),
			City:       "Baghdad",
			Direction:  domain.DirectionOutgoing,
		}},
	}

	tx := beginMockTx(t, mock)
	require.NoError(t, newBulletinRepository(mock).Replace(context.Background(), tx, b))
	assertExpectations(t, mock)
}

func TestBulletinRepository_ListVersions(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM commission_bulletins").
		WithArgs("agent-1", "IQD").
		WillReturnRows(pgxmock.NewRows([]string{"id", "agent_id", "currency", "bulletin_type", "bulletin_date", "created_at"}).
			AddRow("b1", "agent-1", "IQD", pgtype.Text{}, pgtype.Date{Time: testTime, Valid: true}, testTime))
	mock.ExpectQuery("FROM commission_tiers").
		WithArgs([]string{"b1"}).
		WillReturnRows(pgxmock.NewRows([]string{
			"bulletin_id", "id", "position", "from_amount", "to_amount", "percentage", "city", "country", "currency_type", "direction",
		}).
			AddRow("b1", "t1", 0, num("0"), num("50000"), num("2.5"), "Baghdad", "", "", "outgoing").
			AddRow("b1", "t2", 1, num("0"), pgtype.Numeric{}, num("1"), "all", "all", "", "incoming"))

	bulletins, err := newBulletinRepository(mock).ListVersions(context.Background(), "agent-1", "IQD")
	require.NoError(t, err)
	require.Len(t, bulletins, 1)

	b := bulletins[0]
	assert.Equal(t, testTime, b.Date)
	require.Len(t, b.Tiers, 2)
	require.NotNil(t, b.Tiers[0].ToAmount)
	assert.Equal(t, "50000", b.Tiers[0].ToAmount.String())
	assert.Nil(t, b.Tiers[1].ToAmount)
	assert.Equal(t, domain.DirectionIncoming, b.Tiers[1].Direction)
	assertExpectations(t, mock)
}

func TestBulletinRepository_ListVersionsEmpty(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM commission_bulletins").
		WithArgs("agent-1", "USD").
		WillReturnRows(pgxmock.NewRows([]string{"id", "agent_id", "currency", "bulletin_type", "bulletin_date", "created_at"}))

	bulletins, err := newBulletinRepository(mock).ListVersions(context.Background(), "agent-1", "USD")
	require.NoError(t, err)
	assert.Empty(t, bulletins)
	assertExpectations(t, mock)
}
