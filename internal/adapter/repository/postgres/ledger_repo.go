package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db querier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db querier) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CheckConsistency sums the base amounts of every debit and every credit line.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (totalDebits decimal.Decimal, totalCredits decimal.Decimal, err error) {
	var debits, credits pgtype.Numeric

	err = r.db.QueryRow(ctx, `
SELECT COALESCE(SUM(base_amount) FILTER (WHERE debit > 0), 0),
       COALESCE(SUM(base_amount) FILTER (WHERE credit > 0), 0)
FROM journal_lines`).Scan(&debits, &credits)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(debits), numericToDecimal(credits), nil
}

// NetByAccount replays credit minus debit per account currency.
func (r *LedgerRepository) NetByAccount(ctx context.Context) ([]domain.AccountNet, error) {
	rows, err := r.db.Query(ctx, `
SELECT account_code, currency, SUM(credit - debit)
FROM journal_lines
GROUP BY account_code, currency
ORDER BY account_code, currency`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nets []domain.AccountNet
	for rows.Next() {
		var (
			n   domain.AccountNet
			net pgtype.Numeric
		)
		if err := rows.Scan(&n.AccountCode, &n.Currency, &net); err != nil {
			return nil, err
		}
		n.Net = numericToDecimal(net)
		nets = append(nets, n)
	}

	return nets, rows.Err()
}
