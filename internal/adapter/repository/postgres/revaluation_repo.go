package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// RevaluationRepository implements usecase.RevaluationRepository.
type RevaluationRepository struct {
	db querier
}

// NewRevaluationRepository creates a new RevaluationRepository.
func NewRevaluationRepository(pool *pgxpool.Pool) *RevaluationRepository {
	return newRevaluationRepository(pool)
}

func newRevaluationRepository(db querier) *RevaluationRepository {
	return &RevaluationRepository{db: db}
}

// Create stores a revaluation record. The equivalent is kept at full precision.
func (r *RevaluationRepository) Create(ctx context.Context, tx usecase.Transaction, reval *domain.CurrencyRevaluation) error {
	_, err := txQuerier(tx).Exec(ctx, `
INSERT INTO currency_revaluations (id, account_code, amount, currency, exchange_rate, operation_type,
                                   direction, equivalent_amount, entry_number, notes, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		reval.ID,
		reval.AccountCode,
		decimalToNumeric(reval.Amount),
		reval.Currency,
		decimalToNumeric(reval.ExchangeRate),
		string(reval.OperationType),
		string(reval.Direction),
		decimalToNumeric(reval.EquivalentAmount),
		reval.EntryNumber,
		textOrNull(reval.Notes),
		reval.CreatedBy,
		timeToPgTimestamptz(reval.CreatedAt),
	)
	return err
}

// List lists revaluations newest first, optionally for one account.
func (r *RevaluationRepository) List(ctx context.Context, accountCode string, limit, offset int) ([]*domain.CurrencyRevaluation, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, account_code, amount, currency, exchange_rate, operation_type, direction,
       equivalent_amount, entry_number, notes, created_by, created_at
FROM currency_revaluations
WHERE $1 = '' OR account_code = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`, accountCode, limitOrAll(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.CurrencyRevaluation
	for rows.Next() {
		var (
			rv                       domain.CurrencyRevaluation
			amount, rate, equivalent pgtype.Numeric
			operation, direction     string
			notes                    pgtype.Text
			createdAt                time.Time
		)
		if err := rows.Scan(&rv.ID, &rv.AccountCode, &amount, &rv.Currency, &rate, &operation, &direction,
			&equivalent, &rv.EntryNumber, &notes, &rv.CreatedBy, &createdAt); err != nil {
			return nil, err
		}
		rv.Amount = numericToDecimal(amount)
		rv.ExchangeRate = numericToDecimal(rate)
		rv.EquivalentAmount = numericToDecimal(equivalent)
		rv.OperationType = domain.OperationType(operation)
		rv.Direction = domain.RevaluationDirection(direction)
		rv.Notes = notes.String
		rv.CreatedAt = createdAt
		out = append(out, &rv)
	}

	return out, rows.Err()
}
