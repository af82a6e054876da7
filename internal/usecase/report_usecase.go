package usecase

import (
	"context"
	"time"

	"github.com/iho/agentledger/internal/domain"
)

// ReportUseCase derives read-only views from the journal.
type ReportUseCase struct {
	accountRepo     AccountRepository
	journalRepo     JournalRepository
	defaultCurrency string
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(accountRepo AccountRepository, journalRepo JournalRepository, defaultCurrency string) *ReportUseCase {
	return &ReportUseCase{
		accountRepo:     accountRepo,
		journalRepo:     journalRepo,
		defaultCurrency: defaultCurrency,
	}
}

// TrialBalanceInput represents input for a trial balance.
type TrialBalanceInput struct {
	Currency  string
	StartDate *time.Time
	EndDate   *time.Time
}

// TrialBalance aggregates base amounts per account over entries kept in the
// report currency.
func (uc *ReportUseCase) TrialBalance(ctx context.Context, input TrialBalanceInput) (*domain.TrialBalance, error) {
	currency, err := uc.currencyOrDefault(input.Currency)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	lines, err := uc.journalRepo.ListPostedLines(ctx, LineFilter{
		EntryCurrency: currency,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	accounts, err := uc.accountRepo.List(ctx, AccountFilter{})
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}

	return domain.BuildTrialBalance(currency, input.StartDate, input.EndDate, lines, byCode), nil
}

// AccountLedgerInput represents input for an account ledger.
type AccountLedgerInput struct {
	AccountCode string
	Currency    string
	StartDate   *time.Time
	EndDate     *time.Time
}

// AccountLedger lists an account's postings in one currency with a running balance.
func (uc *ReportUseCase) AccountLedger(ctx context.Context, input AccountLedgerInput) (*domain.AccountLedger, error) {
	if err := domain.ValidateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByCode(ctx, input.AccountCode)
	if err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = uc.defaultCurrency
		if !account.HasCurrency(currency) {
			currency = account.Currencies()[0]
		}
	}
	if currency, err = domain.NormalizeCurrency(currency); err != nil {
		return nil, err
	}
	if _, err := account.Balance(currency); err != nil {
		return nil, err
	}

	// Lines before the window are needed for the opening balance
	lines, err := uc.journalRepo.ListPostedLines(ctx, LineFilter{
		AccountCode: account.Code,
		Currency:    currency,
		EndDate:     input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	return domain.BuildAccountLedger(account, currency, input.StartDate, input.EndDate, lines), nil
}

func (uc *ReportUseCase) currencyOrDefault(currency string) (string, error) {
	if currency == "" {
		currency = uc.defaultCurrency
	}
	return domain.NormalizeCurrency(currency)
}
