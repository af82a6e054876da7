package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
	"github.com/iho/agentledger/internal/usecase/mocks"
)

func newTransferPosting(t *testing.T, bulletins ...*domain.Bulletin) (*ledgerFixture, *usecase.TransferPostingUseCase) {
	t.Helper()

	f := newLedgerFixture(t,
		account("1001", domain.CategoryExchangeCompanies, "IQD"),
		account("1002", domain.CategoryExchangeCompanies, "IQD"),
		account("3001", domain.CategoryProfitLoss, "IQD"),
	)
	repo := mocks.NewMockBulletinRepository()
	for _, b := range bulletins {
		require.NoError(t, repo.Replace(context.Background(), nil, b))
	}
	commission := usecase.NewCommissionUseCase(f.txMgr, repo, nil, f.idGen)
	return f, usecase.NewTransferPostingUseCase(f.uc, commission, "3001", zerolog.Nop())
}

func TestTransferPostingUseCase_PostsCommission(t *testing.T) {
	f, uc := newTransferPosting(t, baghdadBulletin(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	asOf := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	posting, err := uc.PostTransferCompletion(context.Background(), usecase.TransferCompletionInput{
		TransferID:      "tr-7",
		Amount:          dec("10000"),
		Currency:        "IQD",
		FromAgentID:     "agent-1",
		ToAgentID:       "agent-2",
		ToGovernorate:   "Baghdad",
		FromAccountCode: "1001",
		ToAccountCode:   "1002",
		AsOf:            &asOf,
	})
	require.NoError(t, err)

	assert.True(t, posting.Commission.Resolved)
	assert.True(t, posting.Commission.Commission.Amount.Equal(dec("250")))
	require.Len(t, posting.Entry.Lines, 3)
	assert.True(t, posting.Entry.TotalDebit.Equal(dec("10250")))

	assert.True(t, f.balance(t, "1001", "IQD").Equal(dec("-10250")))
	assert.True(t, f.balance(t, "1002", "IQD").Equal(dec("10000")))
	assert.True(t, f.balance(t, "3001", "IQD").Equal(dec("250")))
}

func TestTransferPostingUseCase_RepeatedCompletionIsRejected(t *testing.T) {
	f, uc := newTransferPosting(t)
	ctx := context.Background()
	input := usecase.TransferCompletionInput{
		TransferID:      "tr-7",
		Amount:          dec("10000"),
		Currency:        "IQD",
		FromAgentID:     "agent-1",
		ToAgentID:       "agent-2",
		FromAccountCode: "1001",
		ToAccountCode:   "1002",
	}

	first, err := uc.PostTransferCompletion(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, usecase.TransferSourceRef("tr-7"), first.Entry.SourceRef)

	_, err = uc.PostTransferCompletion(ctx, input)
	require.ErrorIs(t, err, domain.ErrDuplicateSourceRef)

	assert.Equal(t, 1, f.journal.Count())
	assert.True(t, f.balance(t, "1002", "IQD").Equal(dec("10000")))
	assert.True(t, f.balance(t, "1001", "IQD").Equal(dec("-10000")))
}

func TestTransferPostingUseCase_UnresolvedCommissionPostsZero(t *testing.T) {
	f, uc := newTransferPosting(t)

	posting, err := uc.PostTransferCompletion(context.Background(), usecase.TransferCompletionInput{
		TransferID:      "tr-8",
		Amount:          dec("5000"),
		Currency:        "IQD",
		FromAgentID:     "agent-9",
		ToAgentID:       "agent-2",
		FromAccountCode: "1001",
		ToAccountCode:   "1002",
	})
	require.NoError(t, err)

	assert.False(t, posting.Commission.Resolved)
	assert.ErrorIs(t, posting.Commission.Reason, domain.ErrNoBulletin)
	require.Len(t, posting.Entry.Lines, 2)
	assert.True(t, f.balance(t, "1001", "IQD").Equal(dec("-5000")))
	assert.True(t, f.balance(t, "3001", "IQD").IsZero())
}

func TestTransferPostingUseCase_Validation(t *testing.T) {
	_, uc := newTransferPosting(t)

	_, err := uc.PostTransferCompletion(context.Background(), usecase.TransferCompletionInput{Amount: dec("1")})
	require.ErrorIs(t, err, usecase.ErrTransferIDRequired)

	_, err = uc.PostTransferCompletion(context.Background(), usecase.TransferCompletionInput{TransferID: "tr-1", Amount: dec("0")})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}
