package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
)

// AccountFilter narrows account listings. A zero Limit lists every account.
type AccountFilter struct {
	Category domain.Category
	Limit    int
	Offset   int
}

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	GetByCodeTx(ctx context.Context, tx Transaction, code string) (*domain.Account, error)
	// GetByCodesForUpdate locks the rows in the order given. Missing codes are skipped.
	GetByCodesForUpdate(ctx context.Context, tx Transaction, codes []string) ([]*domain.Account, error)
	// LockPrefix serializes code allocation within one category prefix.
	LockPrefix(ctx context.Context, tx Transaction, prefix int) error
	// ListCodesByPrefix includes codes of deleted accounts that still have postings.
	ListCodesByPrefix(ctx context.Context, tx Transaction, prefix int) ([]string, error)
	HasChildren(ctx context.Context, tx Transaction, code string) (bool, error)
	Delete(ctx context.Context, tx Transaction, code string) error
	UpdateBalance(ctx context.Context, tx Transaction, code, currency string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
}

// EntryFilter narrows journal entry listings by entry date.
type EntryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// LineFilter narrows posted line reads. Empty fields match everything.
type LineFilter struct {
	AccountCode   string
	Currency      string
	EntryCurrency string
	StartDate     *time.Time
	EndDate       *time.Time
}

// JournalRepository defines data access for the append-mostly journal.
type JournalRepository interface {
	NextEntryNumber(ctx context.Context, tx Transaction) (int64, error)
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByNumber(ctx context.Context, number int64) (*domain.JournalEntry, error)
	GetByNumberForUpdate(ctx context.Context, tx Transaction, number int64) (*domain.JournalEntry, error)
	MarkCancelled(ctx context.Context, tx Transaction, number, reversedBy int64, cancelledAt time.Time) error
	List(ctx context.Context, filter EntryFilter) ([]*domain.JournalEntry, error)
	ListPostedLines(ctx context.Context, filter LineFilter) ([]domain.PostedLine, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	// CheckConsistency sums base amounts of all debit and all credit lines.
	CheckConsistency(ctx context.Context) (totalDebits, totalCredits decimal.Decimal, err error)
	// NetByAccount replays credit minus debit per account currency.
	NetByAccount(ctx context.Context) ([]domain.AccountNet, error)
}

// BulletinRepository is a versioned store keyed by (agent, currency, date).
type BulletinRepository interface {
	// Replace deletes any bulletin with the same key and stores b with its tiers.
	Replace(ctx context.Context, tx Transaction, b *domain.Bulletin) error
	// ListVersions returns every bulletin for the agent and currency.
	ListVersions(ctx context.Context, agentID, currency string) ([]*domain.Bulletin, error)
}

// TransferReader reads transfers owned by the transfer service.
type TransferReader interface {
	ListByAgent(ctx context.Context, agentID string) ([]domain.Transfer, error)
}

// RevaluationRepository defines data access for revaluation records.
type RevaluationRepository interface {
	Create(ctx context.Context, tx Transaction, r *domain.CurrencyRevaluation) error
	List(ctx context.Context, accountCode string, limit, offset int) ([]*domain.CurrencyRevaluation, error)
}

// Notifier hands events to a best-effort side channel. It must not block.
type Notifier interface {
	Notify(event domain.Event)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so the client can retry.
	Release(ctx context.Context, key string) error
}
