package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
	"github.com/iho/agentledger/internal/usecase/mocks"
)

type accountFixture struct {
	repo     *mocks.MockAccountRepository
	cache    *mocks.MockCache
	notifier *mocks.MockNotifier
	uc       *usecase.AccountUseCase
}

func newAccountFixture(accounts ...*domain.Account) *accountFixture {
	f := &accountFixture{
		repo:     mocks.NewMockAccountRepository(),
		cache:    mocks.NewMockCache(),
		notifier: mocks.NewMockNotifier(),
	}
	f.repo.Seed(accounts...)
	f.uc = usecase.NewAccountUseCase(mocks.NewMockTransactionManager(), f.repo, f.cache, f.notifier, mocks.NewMockIDGenerator())
	return f
}

func TestAccountUseCase_CreateAccountAllocatesCodes(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	first, err := f.uc.CreateAccount(ctx, usecase.CreateAccountInput{
		Name:       "Baghdad Exchange",
		Category:   "exchange_companies",
		Currencies: []string{"iqd", "USD", "IQD"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1001", first.Code)
	assert.Equal(t, []string{"IQD", "USD"}, first.Currencies())

	second, err := f.uc.CreateAccount(ctx, usecase.CreateAccountInput{
		Name:       "Erbil Exchange",
		Category:   "exchange_companies",
		ParentCode: first.Code,
		Currencies: []string{"IQD"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1002", second.Code)
	assert.Equal(t, "1001", second.ParentCode)

	bank, err := f.uc.CreateAccount(ctx, usecase.CreateAccountInput{
		Name:       "Rafidain Bank",
		Category:   "banks",
		Currencies: []string{"USD"},
	})
	require.NoError(t, err)
	assert.Equal(t, "5001", bank.Code)

	assert.Equal(t, []string{
		domain.EventTypeAccountCreated,
		domain.EventTypeAccountCreated,
		domain.EventTypeAccountCreated,
	}, f.notifier.Types())
}

func TestAccountUseCase_CreateAccountValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateAccountInput
		wantErr error
	}{
		{name: "empty name", input: usecase.CreateAccountInput{Name: " ", Category: "banks", Currencies: []string{"IQD"}}, wantErr: domain.ErrInvalidAccountName},
		{name: "unknown category", input: usecase.CreateAccountInput{Name: "X", Category: "vaults", Currencies: []string{"IQD"}}, wantErr: domain.ErrInvalidCategory},
		{name: "no currencies", input: usecase.CreateAccountInput{Name: "X", Category: "banks"}, wantErr: domain.ErrInvalidCurrency},
		{name: "missing parent", input: usecase.CreateAccountInput{Name: "X", Category: "banks", ParentCode: "5999", Currencies: []string{"IQD"}}, wantErr: domain.ErrParentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture()
			_, err := f.uc.CreateAccount(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.notifier.Events())
		})
	}
}

func TestAccountUseCase_CreateAccountCodeSpaceExhausted(t *testing.T) {
	f := newAccountFixture()
	for seq := 1; seq <= domain.MaxSequence; seq++ {
		f.repo.Seed(account(fmt.Sprintf("%d", 8000+seq), domain.CategoryLiabilities, "IQD"))
	}

	_, err := f.uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name:       "Overflow",
		Category:   "liabilities",
		Currencies: []string{"IQD"},
	})
	require.ErrorIs(t, err, domain.ErrCodeSpaceExhausted)
}

func TestAccountUseCase_DeleteAccount(t *testing.T) {
	parent := account("2001", domain.CategoryCustomers, "IQD")
	child := account("2002", domain.CategoryCustomers, "IQD")
	child.ParentCode = parent.Code
	f := newAccountFixture(parent, child)
	ctx := context.Background()

	err := f.uc.DeleteAccount(ctx, parent.Code)
	require.ErrorIs(t, err, domain.ErrHasChildren)

	require.NoError(t, f.uc.DeleteAccount(ctx, child.Code))
	require.NoError(t, f.uc.DeleteAccount(ctx, parent.Code))

	_, err = f.uc.GetAccount(ctx, parent.Code)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	err = f.uc.DeleteAccount(ctx, "2999")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	assert.Equal(t, []string{domain.EventTypeAccountDeleted, domain.EventTypeAccountDeleted}, f.notifier.Types())
}

func TestAccountUseCase_GetBalance(t *testing.T) {
	acc := account("6001", domain.CategoryCashBoxes, "IQD")
	acc.Balances["IQD"] = dec("1500.50")
	f := newAccountFixture(acc)

	balance, err := f.uc.GetBalance(context.Background(), "6001", "iqd")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("1500.50")))

	_, err = f.uc.GetBalance(context.Background(), "6001", "USD")
	require.ErrorIs(t, err, domain.ErrCurrencyNotEnabled)
}

func TestAccountUseCase_ListAccountsByCategory(t *testing.T) {
	f := newAccountFixture(
		account("5001", domain.CategoryBanks, "USD"),
		account("2002", domain.CategoryCustomers, "IQD"),
		account("2001", domain.CategoryCustomers, "IQD"),
	)

	accounts, err := f.uc.ListAccounts(context.Background(), usecase.ListAccountsInput{Category: "customers"})
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "2001", accounts[0].Code)
	assert.Equal(t, "2002", accounts[1].Code)

	_, err = f.uc.ListAccounts(context.Background(), usecase.ListAccountsInput{Category: "nope"})
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestAccountUseCase_AccountTreeUsesCache(t *testing.T) {
	root := account("1001", domain.CategoryExchangeCompanies, "IQD")
	child := account("1002", domain.CategoryExchangeCompanies, "IQD")
	child.ParentCode = root.Code
	f := newAccountFixture(root, child)
	ctx := context.Background()

	lists := 0
	f.repo.ListFunc = func(ctx context.Context, filter usecase.AccountFilter) ([]*domain.Account, error) {
		lists++
		return []*domain.Account{root, child}, nil
	}

	tree, err := f.uc.AccountTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "1001", tree[0].Account.Code)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "1002", tree[0].Children[0].Account.Code)
	assert.True(t, f.cache.Has(usecase.AccountTreeCacheKey))

	_, err = f.uc.AccountTree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, lists)

	f.repo.ListFunc = nil
	_, err = f.uc.CreateAccount(ctx, usecase.CreateAccountInput{Name: "New", Category: "exchange_companies", Currencies: []string{"IQD"}})
	require.NoError(t, err)
	assert.False(t, f.cache.Has(usecase.AccountTreeCacheKey))
}

func TestAccountUseCase_WithCacheTTL(t *testing.T) {
	f := newAccountFixture(account("1001", domain.CategoryExchangeCompanies, "IQD"))
	ctx := context.Background()

	_, err := f.uc.AccountTree(ctx)
	require.NoError(t, err)
	assert.Equal(t, usecase.AccountTreeCacheTTL, f.cache.LastTTL)

	require.NoError(t, f.cache.Delete(ctx, usecase.AccountTreeCacheKey))
	f.uc.WithCacheTTL(30 * time.Second)

	_, err = f.uc.AccountTree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, f.cache.LastTTL)
}
