package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/agentledger/internal/domain"
)

// TransferRepository implements usecase.TransferReader over the transfers
// table kept by the transfer service.
type TransferRepository struct {
	db querier
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return newTransferRepository(pool)
}

func newTransferRepository(db querier) *TransferRepository {
	return &TransferRepository{db: db}
}

// ListByAgent lists every transfer the agent sent or received.
func (r *TransferRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.Transfer, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, amount, currency, from_agent_id, to_agent_id, to_governorate, status,
       commission_percentage, commission_amount, created_at, completed_at, cancelled_at
FROM transfers
WHERE from_agent_id = $1 OR to_agent_id = $1
ORDER BY created_at, id`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		var (
			t                           domain.Transfer
			status                      string
			governorate                 pgtype.Text
			amount, percent, commission pgtype.Numeric
			createdAt                   time.Time
			completedAt, cancelledAt    pgtype.Timestamptz
		)
		if err := rows.Scan(&t.ID, &amount, &t.Currency, &t.FromAgentID, &t.ToAgentID, &governorate, &status,
			&percent, &commission, &createdAt, &completedAt, &cancelledAt); err != nil {
			return nil, err
		}
		t.Amount = numericToDecimal(amount)
		t.ToGovernorate = governorate.String
		t.Status = domain.TransferStatus(status)
		t.CommissionPercentage = numericToDecimal(percent)
		t.CommissionAmount = numericToDecimal(commission)
		t.CreatedAt = createdAt
		t.CompletedAt = nullableTime(completedAt)
		t.CancelledAt = nullableTime(cancelledAt)
		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}
