package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
)

// RevaluationUseCase moves value between the IQD and USD balances of one account.
type RevaluationUseCase struct {
	txManager TransactionManager
	journal   *JournalUseCase
	revalRepo RevaluationRepository
	retrier   Retrier
	notifier  Notifier
	idGen     IDGenerator
	logger    zerolog.Logger
}

// NewRevaluationUseCase creates a new RevaluationUseCase. notifier may be nil.
func NewRevaluationUseCase(
	txManager TransactionManager,
	journal *JournalUseCase,
	revalRepo RevaluationRepository,
	retrier Retrier,
	notifier Notifier,
	idGen IDGenerator,
	logger zerolog.Logger,
) *RevaluationUseCase {
	return &RevaluationUseCase{
		txManager: txManager,
		journal:   journal,
		revalRepo: revalRepo,
		retrier:   retrier,
		notifier:  notifier,
		idGen:     idGen,
		logger:    logger.With().Str("component", "revaluation").Logger(),
	}
}

// RevalueInput represents a revaluation request.
type RevalueInput struct {
	AccountCode   string
	Amount        decimal.Decimal
	Currency      string
	ExchangeRate  decimal.Decimal
	OperationType string
	Direction     string
	Notes         string
	CreatedBy     string
}

// Revalue posts the paired entry and stores the revaluation record in the
// same transaction.
func (uc *RevaluationUseCase) Revalue(ctx context.Context, input RevalueInput) (*domain.CurrencyRevaluation, error) {
	direction, err := domain.ParseRevaluationDirection(input.Direction)
	if err != nil {
		return nil, err
	}
	operation, err := domain.ParseOperationType(input.OperationType)
	if err != nil {
		return nil, err
	}
	currency, err := domain.NormalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	createdBy := input.CreatedBy
	if createdBy == "" {
		createdBy = SystemUser
	}

	reval := &domain.CurrencyRevaluation{
		AccountCode:   strings.TrimSpace(input.AccountCode),
		Amount:        input.Amount,
		Currency:      currency,
		ExchangeRate:  input.ExchangeRate,
		OperationType: operation,
		Direction:     direction,
		Notes:         strings.TrimSpace(input.Notes),
		CreatedBy:     createdBy,
	}
	if err := reval.Prepare(); err != nil {
		return nil, err
	}

	var entry *domain.JournalEntry
	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		now := time.Now().UTC()
		entry, err = uc.journal.PostTx(ctx, tx, reval.Entry(now))
		if err != nil {
			return err
		}

		reval.ID = uc.idGen.Generate()
		reval.EntryNumber = entry.Number
		reval.CreatedAt = now

		if err := uc.revalRepo.Create(ctx, tx, reval); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("revaluation_id", reval.ID).
		Str("account_code", reval.AccountCode).
		Str("direction", string(reval.Direction)).
		Str("amount", reval.Amount.String()).
		Str("equivalent", reval.DisplayEquivalent().String()).
		Int64("entry_number", reval.EntryNumber).
		Msg("currency revaluation posted")

	uc.journal.notifyPosted(entry)
	if uc.notifier != nil {
		uc.notifier.Notify(domain.Event{
			ID:          uc.idGen.Generate(),
			Type:        domain.EventTypeRevaluationCreated,
			AggregateID: reval.ID,
			Payload: domain.RevaluationCreatedEvent{
				RevaluationID:    reval.ID,
				AccountCode:      reval.AccountCode,
				Direction:        string(reval.Direction),
				Amount:           reval.Amount.String(),
				EquivalentAmount: reval.DisplayEquivalent().String(),
				EntryNumber:      reval.EntryNumber,
			},
			OccurredAt: time.Now().UTC(),
		})
	}

	return reval, nil
}

// ListRevaluationsInput represents input for listing revaluations.
type ListRevaluationsInput struct {
	AccountCode string
	Limit       int
	Offset      int
}

// List returns revaluations, newest first, optionally for a single account.
func (uc *RevaluationUseCase) List(ctx context.Context, input ListRevaluationsInput) ([]*domain.CurrencyRevaluation, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.revalRepo.List(ctx, strings.TrimSpace(input.AccountCode), limit, offset)
}
