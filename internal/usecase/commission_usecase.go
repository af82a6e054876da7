package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
)

// CommissionUseCase stores rate bulletins and resolves commission tiers.
type CommissionUseCase struct {
	txManager    TransactionManager
	bulletinRepo BulletinRepository
	notifier     Notifier
	idGen        IDGenerator
}

// NewCommissionUseCase creates a new CommissionUseCase. notifier may be nil.
func NewCommissionUseCase(
	txManager TransactionManager,
	bulletinRepo BulletinRepository,
	notifier Notifier,
	idGen IDGenerator,
) *CommissionUseCase {
	return &CommissionUseCase{
		txManager:    txManager,
		bulletinRepo: bulletinRepo,
		notifier:     notifier,
		idGen:        idGen,
	}
}

// TierInput is one requested bulletin row.
type TierInput struct {
	FromAmount   decimal.Decimal
	ToAmount     *decimal.Decimal
	Percentage   decimal.Decimal
	City         string
	Country      string
	CurrencyType string
	Direction    string
}

// ReplaceBulletinInput represents a full bulletin submission.
type ReplaceBulletinInput struct {
	AgentID      string
	Currency     string
	BulletinType string
	Date         time.Time
	Tiers        []TierInput
}

// ReplaceBulletin stores a bulletin, replacing any bulletin with the same
// agent, currency and date wholesale.
func (uc *CommissionUseCase) ReplaceBulletin(ctx context.Context, input ReplaceBulletinInput) (*domain.Bulletin, error) {
	currency, err := domain.NormalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	y, m, d := input.Date.UTC().Date()
	bulletin := &domain.Bulletin{
		ID:           uc.idGen.Generate(),
		AgentID:      strings.TrimSpace(input.AgentID),
		Currency:     currency,
		BulletinType: input.BulletinType,
		Date:         time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Tiers:        make([]domain.Tier, 0, len(input.Tiers)),
		CreatedAt:    time.Now().UTC(),
	}

	for i, t := range input.Tiers {
		direction, err := domain.ParseDirection(t.Direction)
		if err != nil {
			return nil, err
		}
		bulletin.Tiers = append(bulletin.Tiers, domain.Tier{
			ID:           uc.idGen.Generate(),
			FromAmount:   t.FromAmount,
			ToAmount:     t.ToAmount,
			Percentage:   t.Percentage,
			City:         strings.TrimSpace(t.City),
			Country:      strings.TrimSpace(t.Country),
			CurrencyType: t.CurrencyType,
			Direction:    direction,
			Position:     i,
		})
	}

	if err := bulletin.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.bulletinRepo.Replace(ctx, tx, bulletin); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		uc.notifier.Notify(domain.Event{
			ID:          uc.idGen.Generate(),
			Type:        domain.EventTypeBulletinReplaced,
			AggregateID: bulletin.ID,
			Payload: domain.BulletinReplacedEvent{
				BulletinID: bulletin.ID,
				AgentID:    bulletin.AgentID,
				Currency:   bulletin.Currency,
				Date:       bulletin.Date.Format(time.DateOnly),
				Tiers:      len(bulletin.Tiers),
			},
			OccurredAt: time.Now().UTC(),
		})
	}

	return bulletin, nil
}

// LatestBulletin returns the bulletin in force for the agent and currency at asOf.
func (uc *CommissionUseCase) LatestBulletin(ctx context.Context, agentID, currency string, asOf time.Time) (*domain.Bulletin, error) {
	currency, err := domain.NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	versions, err := uc.bulletinRepo.ListVersions(ctx, agentID, currency)
	if err != nil {
		return nil, err
	}
	return domain.LatestBulletin(versions, asOf)
}

// ResolveInput describes the transfer to resolve a commission for.
type ResolveInput struct {
	AgentID   string
	Currency  string
	Amount    decimal.Decimal
	Direction string
	City      string
	Country   string
	AsOf      *time.Time
}

// Resolve returns the commission for the transfer. It fails with
// ErrNoBulletin or ErrNoMatchingTier when no rate applies.
func (uc *CommissionUseCase) Resolve(ctx context.Context, input ResolveInput) (*domain.Commission, error) {
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	direction, err := domain.ParseDirection(input.Direction)
	if err != nil {
		return nil, err
	}

	asOf := time.Now().UTC()
	if input.AsOf != nil {
		asOf = *input.AsOf
	}

	bulletin, err := uc.LatestBulletin(ctx, input.AgentID, input.Currency, asOf)
	if err != nil {
		return nil, err
	}

	tier, err := bulletin.SelectTier(domain.TierQuery{
		Amount:    input.Amount,
		Direction: direction,
		City:      input.City,
		Country:   input.Country,
	})
	if err != nil {
		return nil, err
	}

	return &domain.Commission{
		Percentage:   tier.Percentage,
		Amount:       domain.ComputeCommission(input.Amount, tier.Percentage),
		BulletinID:   bulletin.ID,
		TierID:       tier.ID,
		CurrencyType: tier.CurrencyType,
	}, nil
}

// Preview resolves a commission and turns missing bulletins or tiers into an
// explicit Unresolved result with a zero commission. Other errors are returned.
func (uc *CommissionUseCase) Preview(ctx context.Context, input ResolveInput) (domain.Resolution, error) {
	commission, err := uc.Resolve(ctx, input)
	switch {
	case err == nil:
		return domain.ResolvedCommission(*commission), nil
	case errors.Is(err, domain.ErrNoBulletin), errors.Is(err, domain.ErrNoMatchingTier):
		return domain.UnresolvedCommission(err), nil
	default:
		return domain.Resolution{}, err
	}
}
