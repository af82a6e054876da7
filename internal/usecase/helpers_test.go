package usecase_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
	"github.com/iho/agentledger/internal/usecase/mocks"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type ledgerFixture struct {
	accounts *mocks.MockAccountRepository
	journal  *mocks.MockJournalRepository
	ledger   *mocks.MockLedgerRepository
	txMgr    *mocks.MockTransactionManager
	retrier  *mocks.MockRetrier
	notifier *mocks.MockNotifier
	idGen    *mocks.MockIDGenerator
	uc       *usecase.JournalUseCase
}

func newLedgerFixture(t *testing.T, accounts ...*domain.Account) *ledgerFixture {
	t.Helper()

	f := &ledgerFixture{
		accounts: mocks.NewMockAccountRepository(),
		journal:  mocks.NewMockJournalRepository(),
		txMgr:    mocks.NewMockTransactionManager(),
		retrier:  &mocks.MockRetrier{},
		notifier: mocks.NewMockNotifier(),
		idGen:    mocks.NewMockIDGenerator(),
	}
	f.ledger = mocks.NewMockLedgerRepository(f.journal)
	f.accounts.Seed(accounts...)
	f.uc = usecase.NewJournalUseCase(f.txMgr, f.accounts, f.journal, f.retrier, f.notifier, f.idGen, zerolog.Nop())
	return f
}

func (f *ledgerFixture) balance(t *testing.T, code, currency string) decimal.Decimal {
	t.Helper()
	acc, err := f.accounts.GetByCode(t.Context(), code)
	if err != nil {
		t.Fatalf("get account %s: %v", code, err)
	}
	b, err := acc.Balance(currency)
	if err != nil {
		t.Fatalf("balance %s %s: %v", code, currency, err)
	}
	return b
}

func account(code string, category domain.Category, currencies ...string) *domain.Account {
	return domain.NewAccount(code, "Account "+code, category, "", currencies, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func transferLines(from, to, amount string) []usecase.LineInput {
	return []usecase.LineInput{
		{AccountCode: from, Debit: dec(amount)},
		{AccountCode: to, Credit: dec(amount)},
	}
}
