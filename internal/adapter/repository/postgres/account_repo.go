package postgres

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// prefixLockBase keeps code allocation advisory locks apart from other users
// of pg_advisory_xact_lock.
const prefixLockBase = 7_340_000

const selectAccounts = `
SELECT a.code, a.name, a.category, a.parent_code, a.version, a.created_at, a.updated_at,
       b.currency, b.balance
FROM accounts a
JOIN account_balances b ON b.account_code = a.code`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db querier
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db querier) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts an account with a zero balance row per enabled currency.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx, `
INSERT INTO accounts (code, name, category, parent_code, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.Code,
		account.Name,
		string(account.Category),
		textOrNull(account.ParentCode),
		account.Version,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, account.Code)
		}
		return err
	}

	for _, currency := range account.Currencies() {
		if _, err := q.Exec(ctx, `
INSERT INTO account_balances (account_code, currency, balance)
VALUES ($1, $2, $3)`,
			account.Code, currency, decimalToNumeric(account.Balances[currency]),
		); err != nil {
			return err
		}
	}

	return nil
}

// GetByCode retrieves an account by code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	return getAccount(ctx, r.db, code)
}

// GetByCodeTx retrieves an account by code inside tx.
func (r *AccountRepository) GetByCodeTx(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error) {
	return getAccount(ctx, txQuerier(tx), code)
}

func getAccount(ctx context.Context, q querier, code string) (*domain.Account, error) {
	rows, err := q.Query(ctx, selectAccounts+`
WHERE a.code = $1
ORDER BY b.currency`, code)
	if err != nil {
		return nil, err
	}

	accounts, err := scanAccounts(rows)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, domain.ErrAccountNotFound
	}

	return accounts[0], nil
}

// GetByCodesForUpdate locks the account rows and their balances in code order.
func (r *AccountRepository) GetByCodesForUpdate(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error) {
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)

	rows, err := txQuerier(tx).Query(ctx, selectAccounts+`
WHERE a.code = ANY($1)
ORDER BY a.code, b.currency
FOR UPDATE OF a, b`, sorted)
	if err != nil {
		return nil, err
	}

	return scanAccounts(rows)
}

// LockPrefix takes a transaction scoped advisory lock on the category prefix.
func (r *AccountRepository) LockPrefix(ctx context.Context, tx usecase.Transaction, prefix int) error {
	_, err := txQuerier(tx).Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(prefixLockBase+prefix))
	return err
}

// ListCodesByPrefix lists every code starting with prefix that is held by an
// account or still referenced by journal lines of a deleted one.
func (r *AccountRepository) ListCodesByPrefix(ctx context.Context, tx usecase.Transaction, prefix int) ([]string, error) {
	rows, err := txQuerier(tx).Query(ctx, `
SELECT code FROM accounts
WHERE code LIKE $1
UNION
SELECT account_code FROM journal_lines
WHERE account_code LIKE $1
ORDER BY 1`, strconv.Itoa(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	return codes, rows.Err()
}

// HasChildren reports whether any account names code as its parent.
func (r *AccountRepository) HasChildren(ctx context.Context, tx usecase.Transaction, code string) (bool, error) {
	var exists bool
	err := txQuerier(tx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE parent_code = $1)`, code).Scan(&exists)
	return exists, err
}

// Delete removes an account. Balance rows cascade.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, code string) error {
	tag, err := txQuerier(tx).Exec(ctx, `DELETE FROM accounts WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// UpdateBalance stores one currency balance and bumps the account version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, code, currency string, balance decimal.Decimal, updatedAt time.Time) error {
	q := txQuerier(tx)

	tag, err := q.Exec(ctx, `
UPDATE account_balances SET balance = $3
WHERE account_code = $1 AND currency = $2`,
		code, currency, decimalToNumeric(balance),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s on %s", domain.ErrCurrencyNotEnabled, currency, code)
	}

	_, err = q.Exec(ctx, `
UPDATE accounts SET version = version + 1, updated_at = $2
WHERE code = $1`,
		code, timeToPgTimestamptz(updatedAt),
	)
	return err
}

// List lists accounts ordered by code. Pagination applies to accounts, not balance rows.
func (r *AccountRepository) List(ctx context.Context, filter usecase.AccountFilter) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, `
WITH page AS (
    SELECT code FROM accounts
    WHERE $1 = '' OR category = $1
    ORDER BY code
    LIMIT $2 OFFSET $3
)`+selectAccounts+`
JOIN page p ON p.code = a.code
ORDER BY a.code, b.currency`,
		string(filter.Category), limitOrAll(filter.Limit), filter.Offset,
	)
	if err != nil {
		return nil, err
	}

	return scanAccounts(rows)
}

// scanAccounts folds consecutive balance rows of the same account together.
func scanAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	defer rows.Close()

	var accounts []*domain.Account
	var current *domain.Account
	for rows.Next() {
		var (
			code, name, category string
			parent, currency     pgtype.Text
			version              int64
			createdAt, updatedAt time.Time
			balance              pgtype.Numeric
		)
		if err := rows.Scan(&code, &name, &category, &parent, &version, &createdAt, &updatedAt, &currency, &balance); err != nil {
			return nil, err
		}

		if current == nil || current.Code != code {
			current = &domain.Account{
				Code:       code,
				Name:       name,
				Category:   domain.Category(category),
				ParentCode: parent.String,
				Balances:   make(map[string]decimal.Decimal),
				Version:    version,
				CreatedAt:  createdAt,
				UpdatedAt:  updatedAt,
			}
			accounts = append(accounts, current)
		}
		if currency.Valid {
			current.Balances[currency.String] = numericToDecimal(balance)
		}
	}

	return accounts, rows.Err()
}
