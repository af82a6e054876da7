package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
)

// JournalUseCase posts and reverses balanced journal entries.
type JournalUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	journalRepo JournalRepository
	retrier     Retrier
	notifier    Notifier
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewJournalUseCase creates a new JournalUseCase. notifier may be nil.
func NewJournalUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	retrier Retrier,
	notifier Notifier,
	idGen IDGenerator,
	logger zerolog.Logger,
) *JournalUseCase {
	return &JournalUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		retrier:     retrier,
		notifier:    notifier,
		idGen:       idGen,
		logger:      logger.With().Str("component", "journal").Logger(),
	}
}

// LineInput is one requested journal line.
type LineInput struct {
	AccountCode string
	Currency    string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	BaseAmount  decimal.Decimal
}

// PostEntryInput represents input for posting a journal entry.
type PostEntryInput struct {
	Date        *time.Time
	Description string
	CreatedBy   string
	Currency    string
	Lines       []LineInput
	SourceRef   string
}

func (in PostEntryInput) toEntry(now time.Time) *domain.JournalEntry {
	date := now
	if in.Date != nil {
		date = in.Date.UTC()
	}
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = SystemUser
	}
	lines := make([]domain.JournalLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, domain.JournalLine{
			AccountCode: l.AccountCode,
			Currency:    l.Currency,
			Debit:       l.Debit,
			Credit:      l.Credit,
			BaseAmount:  l.BaseAmount,
		})
	}
	return &domain.JournalEntry{
		Date:        date,
		Description: in.Description,
		CreatedBy:   createdBy,
		Currency:    in.Currency,
		Lines:       lines,
		SourceRef:   in.SourceRef,
	}
}

// PostEntry validates and posts an entry in its own transaction.
func (uc *JournalUseCase) PostEntry(ctx context.Context, input PostEntryInput) (*domain.JournalEntry, error) {
	// Validate before touching storage
	draft := input.toEntry(time.Now().UTC())
	if err := draft.Normalize(); err != nil {
		return nil, err
	}

	var posted *domain.JournalEntry
	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		posted, err = uc.PostTx(ctx, tx, cloneEntry(draft))
		if err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Int64("entry_number", posted.Number).
		Int("lines", len(posted.Lines)).
		Str("currency", posted.Currency).
		Str("total", posted.TotalDebit.String()).
		Msg("journal entry posted")
	uc.notifyPosted(posted)

	return posted, nil
}

// PostTx posts entry inside tx. Touched accounts are locked in code order,
// every line is applied to its account currency balance (credit adds, debit
// subtracts) and the entry is stored with the next entry number.
func (uc *JournalUseCase) PostTx(ctx context.Context, tx Transaction, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := entry.Normalize(); err != nil {
		return nil, err
	}

	// Sorted lock order prevents deadlocks between concurrent postings
	codes := entry.AccountCodes()
	locked, err := uc.accountRepo.GetByCodesForUpdate(ctx, tx, codes)
	if err != nil {
		return nil, err
	}

	working := make(map[string]*domain.Account, len(locked))
	for _, a := range locked {
		balances := make(map[string]decimal.Decimal, len(a.Balances))
		for c, b := range a.Balances {
			balances[c] = b
		}
		working[a.Code] = &domain.Account{Code: a.Code, Balances: balances}
	}

	for _, code := range codes {
		if working[code] == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAccount, code)
		}
	}

	type balanceKey struct{ code, currency string }
	touched := make(map[balanceKey]bool)

	for i := range entry.Lines {
		l := &entry.Lines[i]
		acc := working[l.AccountCode]
		if !acc.HasCurrency(l.Currency) {
			return nil, fmt.Errorf("%w: %s on %s", domain.ErrCurrencyNotEnabled, l.Currency, l.AccountCode)
		}

		l.PreviousBalance = acc.Balances[l.Currency]
		if l.IsDebit() {
			l.CurrentBalance = acc.ApplyDebit(l.Currency, l.Debit)
		} else {
			l.CurrentBalance = acc.ApplyCredit(l.Currency, l.Credit)
		}
		acc.Balances[l.Currency] = l.CurrentBalance
		touched[balanceKey{l.AccountCode, l.Currency}] = true
	}

	keys := make([]balanceKey, 0, len(touched))
	for k := range touched {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].code != keys[j].code {
			return keys[i].code < keys[j].code
		}
		return keys[i].currency < keys[j].currency
	})

	now := time.Now().UTC()
	for _, k := range keys {
		balance := working[k.code].Balances[k.currency]
		if err := uc.accountRepo.UpdateBalance(ctx, tx, k.code, k.currency, balance, now); err != nil {
			return nil, err
		}
	}

	number, err := uc.journalRepo.NextEntryNumber(ctx, tx)
	if err != nil {
		return nil, err
	}
	entry.Number = number
	entry.CreatedAt = now

	if err := uc.journalRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// CancelEntryInput represents input for cancelling an entry.
type CancelEntryInput struct {
	Number    int64
	CreatedBy string
}

// CancelEntry posts the inverse of an entry and marks the original cancelled.
// It returns the reversal entry.
func (uc *JournalUseCase) CancelEntry(ctx context.Context, input CancelEntryInput) (*domain.JournalEntry, error) {
	createdBy := input.CreatedBy
	if createdBy == "" {
		createdBy = SystemUser
	}

	var reversal *domain.JournalEntry
	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		original, err := uc.journalRepo.GetByNumberForUpdate(ctx, tx, input.Number)
		if err != nil {
			return err
		}
		if original.IsReversal() {
			return fmt.Errorf("%w: entry #%d reverses #%d", domain.ErrReversalNotCancellable, original.Number, *original.ReversalOf)
		}
		if original.IsCancelled() {
			return fmt.Errorf("%w: entry #%d", domain.ErrAlreadyCancelled, original.Number)
		}

		now := time.Now().UTC()
		reversal, err = uc.PostTx(ctx, tx, original.Inverse(createdBy, now))
		if err != nil {
			return err
		}

		if err := uc.journalRepo.MarkCancelled(ctx, tx, original.Number, reversal.Number, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Int64("entry_number", input.Number).
		Int64("reversal_number", reversal.Number).
		Msg("journal entry cancelled")
	uc.notifyPosted(reversal)
	uc.notify(domain.EventTypeEntryCancelled, strconv.FormatInt(input.Number, 10), domain.EntryCancelledEvent{
		EntryNumber:    input.Number,
		ReversalNumber: reversal.Number,
	})

	return reversal, nil
}

// GetEntry retrieves an entry by number.
func (uc *JournalUseCase) GetEntry(ctx context.Context, number int64) (*domain.JournalEntry, error) {
	return uc.journalRepo.GetByNumber(ctx, number)
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// ListEntries lists entries ordered by number within an optional date window.
func (uc *JournalUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.JournalEntry, error) {
	if err := domain.ValidateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.journalRepo.List(ctx, EntryFilter{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Limit:     limit,
		Offset:    offset,
	})
}

func (uc *JournalUseCase) notifyPosted(e *domain.JournalEntry) {
	uc.notify(domain.EventTypeEntryPosted, strconv.FormatInt(e.Number, 10), domain.EntryPostedEvent{
		EntryNumber: e.Number,
		Description: e.Description,
		Currency:    e.Currency,
		TotalDebit:  e.TotalDebit.String(),
		TotalCredit: e.TotalCredit.String(),
		Lines:       len(e.Lines),
		ReversalOf:  e.ReversalOf,
	})
}

func (uc *JournalUseCase) notify(eventType, aggregateID string, payload any) {
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

func cloneEntry(e *domain.JournalEntry) *domain.JournalEntry {
	c := *e
	c.Lines = make([]domain.JournalLine, len(e.Lines))
	copy(c.Lines, e.Lines)
	return &c
}
