package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
	"github.com/iho/agentledger/internal/usecase/gomocks"
)

func TestStatementUseCase_AgentStatement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	day := func(h int) time.Time { return time.Date(2024, 2, 1, h, 0, 0, 0, time.UTC) }
	completedAt := day(11)
	cancelledAt := day(12)

	reader := gomocks.NewMockTransferReader(ctrl)
	reader.EXPECT().ListByAgent(gomock.Any(), "A").Return([]domain.Transfer{
		{ID: "t3", Amount: dec("300"), Currency: "IQD", FromAgentID: "A", ToAgentID: "C", Status: domain.TransferCancelled, CreatedAt: day(11), CompletedAt: &completedAt, CancelledAt: &cancelledAt},
		{ID: "t1", Amount: dec("1000"), Currency: "IQD", FromAgentID: "B", ToAgentID: "A", Status: domain.TransferCompleted, CreatedAt: day(9)},
		{ID: "t2", Amount: dec("400"), Currency: "IQD", FromAgentID: "A", ToAgentID: "B", Status: domain.TransferCompleted, CreatedAt: day(10)},
		{ID: "t4", Amount: dec("50"), Currency: "IQD", FromAgentID: "A", ToAgentID: "B", Status: domain.TransferPending, CreatedAt: day(13)},
		{ID: "t5", Amount: dec("70"), Currency: "IQD", FromAgentID: "C", ToAgentID: "A", Status: domain.TransferCancelled, CreatedAt: day(8), CancelledAt: &cancelledAt},
		{ID: "u1", Amount: dec("20"), Currency: "USD", FromAgentID: "A", ToAgentID: "B", Status: domain.TransferCompleted, CreatedAt: day(9)},
	}, nil)

	uc := usecase.NewStatementUseCase(reader, "IQD")
	statement, err := uc.AgentStatement(context.Background(), " A ", "")
	require.NoError(t, err)
	assert.Equal(t, "IQD", statement.Currency)

	ids := make([]string, 0, len(statement.Lines))
	balances := make([]string, 0, len(statement.Lines))
	for _, l := range statement.Lines {
		ids = append(ids, l.Transfer.ID)
		balances = append(balances, l.Balance.String())
	}
	assert.Equal(t, []string{"t1", "t2", "t3", "t3-reversal"}, ids)
	assert.Equal(t, []string{"1000", "600", "300", "600"}, balances)
	assert.Equal(t, domain.MovementReversal, statement.Lines[3].Kind)

	assert.True(t, statement.Balance().Equal(dec("600")))
	assert.True(t, statement.TotalSent.Equal(dec("700")))
	assert.Equal(t, 2, statement.TotalSentCount)
	assert.True(t, statement.TotalReceived.Equal(dec("1300")))
	assert.Equal(t, 2, statement.TotalReceivedCount)
}

func TestStatementUseCase_SeparatesCurrencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	day := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	reader := gomocks.NewMockTransferReader(ctrl)
	reader.EXPECT().ListByAgent(gomock.Any(), "A").Return([]domain.Transfer{
		{ID: "i1", Amount: dec("100000"), Currency: "IQD", FromAgentID: "B", ToAgentID: "A", Status: domain.TransferCompleted, CreatedAt: day},
		{ID: "u1", Amount: dec("20"), Currency: "USD", FromAgentID: "A", ToAgentID: "B", Status: domain.TransferCompleted, CreatedAt: day.Add(time.Hour)},
		{ID: "u2", Amount: dec("5"), Currency: "USD", FromAgentID: "B", ToAgentID: "A", Status: domain.TransferCompleted, CreatedAt: day.Add(2 * time.Hour)},
	}, nil)

	uc := usecase.NewStatementUseCase(reader, "IQD")
	statement, err := uc.AgentStatement(context.Background(), "A", "usd")
	require.NoError(t, err)

	assert.Equal(t, "USD", statement.Currency)
	require.Len(t, statement.Lines, 2)
	assert.True(t, statement.Balance().Equal(dec("-15")))
	assert.True(t, statement.TotalSent.Equal(dec("20")))
	assert.True(t, statement.TotalReceived.Equal(dec("5")))
}

func TestStatementUseCase_RequiresAgent(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := usecase.NewStatementUseCase(gomocks.NewMockTransferReader(ctrl), "IQD")

	_, err := uc.AgentStatement(context.Background(), "  ", "")
	require.ErrorIs(t, err, usecase.ErrAgentRequired)
}
