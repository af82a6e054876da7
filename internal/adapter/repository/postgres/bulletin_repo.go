package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// BulletinRepository implements usecase.BulletinRepository.
type BulletinRepository struct {
	db querier
}

// NewBulletinRepository creates a new BulletinRepository.
func NewBulletinRepository(pool *pgxpool.Pool) *BulletinRepository {
	return newBulletinRepository(pool)
}

func newBulletinRepository(db querier) *BulletinRepository {
	return &BulletinRepository{db: db}
}

// Replace drops the bulletin stored under the same key, tiers included, and
// inserts b.
func (r *BulletinRepository) Replace(ctx context.Context, tx usecase.Transaction, b *domain.Bulletin) error {
	q := txQuerier(tx)

	if _, err := q.Exec(ctx, `
DELETE FROM commission_bulletins
WHERE agent_id = $1 AND currency = $2 AND bulletin_date = $3`,
		b.AgentID, b.Currency, pgtype.Date{Time: b.Date, Valid: true},
	); err != nil {
		return fmt.Errorf("delete bulletin: %w", err)
	}

	if _, err := q.Exec(ctx, `
INSERT INTO commission_bulletins (id, agent_id, currency, bulletin_type, bulletin_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.AgentID, b.Currency, textOrNull(b.BulletinType),
		pgtype.Date{Time: b.Date, Valid: true},
		timeToPgTimestamptz(b.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert bulletin: %w", err)
	}

	for _, t := range b.Tiers {
		if _, err := q.Exec(ctx, `
INSERT INTO commission_tiers (id, bulletin_id, position, from_amount, to_amount, percentage,
                              city, country, currency_type, direction)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, b.ID, t.Position,
			decimalToNumeric(t.FromAmount),
			nullableDecimalToNumeric(t.ToAmount),
			decimalToNumeric(t.Percentage),
			t.City, t.Country, t.CurrencyType, string(t.Direction),
		); err != nil {
			return fmt.Errorf("insert tier %d: %w", t.Position, err)
		}
	}

	return nil
}

// ListVersions returns every bulletin for the agent and currency by date.
func (r *BulletinRepository) ListVersions(ctx context.Context, agentID, currency string) ([]*domain.Bulletin, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, agent_id, currency, bulletin_type, bulletin_date, created_at
FROM commission_bulletins
WHERE agent_id = $1 AND currency = $2
ORDER BY bulletin_date, created_at`, agentID, currency)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		bulletins []*domain.Bulletin
		ids       []string
	)
	byID := make(map[string]*domain.Bulletin)
	for rows.Next() {
		var (
			b            domain.Bulletin
			bulletinType pgtype.Text
			date         pgtype.Date
			createdAt    time.Time
		)
		if err := rows.Scan(&b.ID, &b.AgentID, &b.Currency, &bulletinType, &date, &createdAt); err != nil {
			return nil, err
		}
		b.BulletinType = bulletinType.String
		b.Date = date.Time
		b.CreatedAt = createdAt
		bulletins = append(bulletins, &b)
		byID[b.ID] = &b
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bulletins) == 0 {
		return nil, nil
	}

	tierRows, err := r.db.Query(ctx, `
SELECT bulletin_id, id, position, from_amount, to_amount, percentage, city, country, currency_type, direction
FROM commission_tiers
WHERE bulletin_id = ANY($1)
ORDER BY bulletin_id, position`, ids)
	if err != nil {
		return nil, err
	}
	defer tierRows.Close()

	for tierRows.Next() {
		var (
			bulletinID, direction         string
			t                             domain.Tier
			fromAmount, toAmount, percent pgtype.Numeric
		)
		if err := tierRows.Scan(&bulletinID, &t.ID, &t.Position, &fromAmount, &toAmount, &percent,
			&t.City, &t.Country, &t.CurrencyType, &direction); err != nil {
			return nil, err
		}
		t.FromAmount = numericToDecimal(fromAmount)
		t.ToAmount = numericToNullableDecimal(toAmount)
		t.Percentage = numericToDecimal(percent)
		t.Direction = domain.Direction(direction)

		if b := byID[bulletinID]; b != nil {
			b.Tiers = append(b.Tiers, t)
		}
	}

	return bulletins, tierRows.Err()
}
