package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInconsistentLedger is returned when total debits and credits differ.
var ErrInconsistentLedger = errors.New("ledger inconsistency detected")

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(accountRepo AccountRepository, ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// ReconciliationResult compares one stored balance with its posting history
type ReconciliationResult struct {
	AccountCode       string
	Currency          string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAllAccounts replays credits minus debits for every account currency
// and compares the result with the stored balance.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	accounts, err := uc.accountRepo.List(ctx, AccountFilter{})
	if err != nil {
		return nil, err
	}

	nets, err := uc.ledgerRepo.NetByAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to replay postings: %w", err)
	}

	type key struct{ code, currency string }
	replayed := make(map[key]decimal.Decimal, len(nets))
	for _, n := range nets {
		replayed[key{n.AccountCode, n.Currency}] = n.Net
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	now := time.Now().UTC()
	results := make([]*ReconciliationResult, 0, len(accounts))
	for _, account := range accounts {
		for _, currency := range account.Currencies() {
			recorded := account.Balances[currency]
			calculated := replayed[key{account.Code, currency}]
			diff := recorded.Sub(calculated)
			results = append(results, &ReconciliationResult{
				AccountCode:       account.Code,
				Currency:          currency,
				RecordedBalance:   recorded,
				CalculatedBalance: calculated,
				Difference:        diff,
				IsReconciled:      diff.IsZero(),
				LastChecked:       now,
			})
		}
	}

	return results, nil
}

// CheckLedgerConsistency verifies double-entry bookkeeping consistency
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) error {
	totalDebits, totalCredits, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return err
	}

	if !totalDebits.Equal(totalCredits) {
		return fmt.Errorf(
			"%w: debits=%s credits=%s difference=%s",
			ErrInconsistentLedger,
			totalDebits.String(),
			totalCredits.String(),
			totalDebits.Sub(totalCredits).String(),
		)
	}

	return nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalBalances      int
	ReconciledBalances int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	ledgerErr := uc.CheckLedgerConsistency(ctx)
	if ledgerErr != nil && !errors.Is(ledgerErr, ErrInconsistentLedger) {
		return nil, ledgerErr
	}

	report := &ReconciliationReport{
		TotalBalances:    len(results),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledBalances++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}

// Healthy reports whether the ledger balances and every balance reconciles.
func (r *ReconciliationReport) Healthy() bool {
	return r.LedgerConsistent && len(r.Discrepancies) == 0
}
