package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
)

// AccountUseCase maintains the chart of accounts.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	cache       Cache
	notifier    Notifier
	idGen       IDGenerator
	cacheTTL    time.Duration
}

// NewAccountUseCase creates a new AccountUseCase. cache and notifier may be nil.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	cache Cache,
	notifier Notifier,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		cache:       cache,
		notifier:    notifier,
		idGen:       idGen,
		cacheTTL:    AccountTreeCacheTTL,
	}
}

// WithCacheTTL overrides how long the cached account tree lives.
func (uc *AccountUseCase) WithCacheTTL(ttl time.Duration) *AccountUseCase {
	if ttl > 0 {
		uc.cacheTTL = ttl
	}
	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name       string
	Category   string
	ParentCode string
	Currencies []string
}

// CreateAccount allocates the next code in the category and stores the account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}
	currencies, err := domain.NormalizeCurrencies(input.Currencies)
	if err != nil {
		return nil, err
	}
	parentCode := strings.TrimSpace(input.ParentCode)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if parentCode != "" {
		if _, err := uc.accountRepo.GetByCodeTx(ctx, tx, parentCode); err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil, fmt.Errorf("%w: %s", domain.ErrParentNotFound, parentCode)
			}
			return nil, err
		}
	}

	if err := uc.accountRepo.LockPrefix(ctx, tx, category.Prefix()); err != nil {
		return nil, err
	}

	existing, err := uc.accountRepo.ListCodesByPrefix(ctx, tx, category.Prefix())
	if err != nil {
		return nil, err
	}

	code, err := domain.NextCode(category, existing)
	if err != nil {
		return nil, err
	}
	if parentCode == code {
		return nil, domain.ErrInvalidParent
	}

	if _, err := uc.accountRepo.GetByCodeTx(ctx, tx, code); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateCode, code)
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	account := domain.NewAccount(code, strings.TrimSpace(input.Name), category, parentCode, currencies, time.Now().UTC())
	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateTree(ctx)
	uc.notify(domain.EventTypeAccountCreated, code, domain.AccountCreatedEvent{
		Code:     code,
		Name:     account.Name,
		Category: string(category),
	})

	return account, nil
}

// GetAccount retrieves an account by code.
func (uc *AccountUseCase) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Category string
	Limit    int
	Offset   int
}

// ListAccounts lists accounts ordered by code.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	filter := AccountFilter{Limit: input.Limit, Offset: input.Offset}
	if input.Category != "" {
		category, err := domain.ParseCategory(input.Category)
		if err != nil {
			return nil, err
		}
		filter.Category = category
	}
	filter.Limit, filter.Offset, _ = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.accountRepo.List(ctx, filter)
}

// GetBalance returns an account's balance in one currency.
func (uc *AccountUseCase) GetBalance(ctx context.Context, code, currency string) (decimal.Decimal, error) {
	currency, err := domain.NormalizeCurrency(currency)
	if err != nil {
		return decimal.Zero, err
	}
	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance(currency)
}

// DeleteAccount removes an account that has no children.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, code string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	locked, err := uc.accountRepo.GetByCodesForUpdate(ctx, tx, []string{code})
	if err != nil {
		return err
	}
	if len(locked) == 0 {
		return domain.ErrAccountNotFound
	}

	hasChildren, err := uc.accountRepo.HasChildren(ctx, tx, code)
	if err != nil {
		return err
	}
	if hasChildren {
		return fmt.Errorf("%w: %s", domain.ErrHasChildren, code)
	}

	if err := uc.accountRepo.Delete(ctx, tx, code); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidateTree(ctx)
	uc.notify(domain.EventTypeAccountDeleted, code, domain.AccountDeletedEvent{Code: code})
	return nil
}

// treeRecord is the cached shape of an account. Balances move with every
// posting so only the structure is cached.
type treeRecord struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	ParentCode string   `json:"parent_code,omitempty"`
	Currencies []string `json:"currencies"`
}

// AccountTree returns the chart of accounts as a forest. Balances on the
// returned accounts are zero; read them through GetBalance or ListAccounts.
func (uc *AccountUseCase) AccountTree(ctx context.Context) ([]*domain.AccountNode, error) {
	if records, ok := uc.cachedTree(ctx); ok {
		return domain.BuildHierarchy(recordsToAccounts(records)), nil
	}

	accounts, err := uc.accountRepo.List(ctx, AccountFilter{})
	if err != nil {
		return nil, err
	}

	records := make([]treeRecord, 0, len(accounts))
	for _, a := range accounts {
		records = append(records, treeRecord{
			Code:       a.Code,
			Name:       a.Name,
			Category:   string(a.Category),
			ParentCode: a.ParentCode,
			Currencies: a.Currencies(),
		})
	}
	if uc.cache != nil {
		if data, err := json.Marshal(records); err == nil {
			_ = uc.cache.Set(ctx, AccountTreeCacheKey, data, uc.cacheTTL)
		}
	}

	return domain.BuildHierarchy(recordsToAccounts(records)), nil
}

func (uc *AccountUseCase) cachedTree(ctx context.Context) ([]treeRecord, bool) {
	if uc.cache == nil {
		return nil, false
	}
	data, err := uc.cache.Get(ctx, AccountTreeCacheKey)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var records []treeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false
	}
	return records, true
}

func recordsToAccounts(records []treeRecord) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(records))
	for _, r := range records {
		accounts = append(accounts, domain.NewAccount(r.Code, r.Name, domain.Category(r.Category), r.ParentCode, r.Currencies, time.Time{}))
	}
	return accounts
}

func (uc *AccountUseCase) invalidateTree(ctx context.Context) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, AccountTreeCacheKey)
	}
}

func (uc *AccountUseCase) notify(eventType, aggregateID string, payload any) {
	if uc.notifier == nil {
		return
	}
	uc.notifier.Notify(domain.Event{
		ID:          uc.idGen.Generate(),
		Type:        eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	})
}
