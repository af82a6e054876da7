package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// JournalLine moves value on one account in one currency.
// Exactly one of Debit and Credit is nonzero.
type JournalLine struct {
	AccountCode string
	Currency    string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	// BaseAmount is the line's value in the entry currency.
	BaseAmount decimal.Decimal

	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
}

// IsDebit reports whether the line debits its account.
func (l JournalLine) IsDebit() bool {
	return !l.Debit.IsZero()
}

// Amount returns the nonzero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// Signed returns the line's effect on the account balance: credit minus debit.
func (l JournalLine) Signed() decimal.Decimal {
	return l.Credit.Sub(l.Debit)
}

// JournalEntry is a balanced, immutable set of lines. SourceRef, when set,
// names the external event the entry books and is unique across the journal.
type JournalEntry struct {
	Number      int64
	Date        time.Time
	Description string
	CreatedBy   string
	Currency    string
	Lines       []JournalLine
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	ReversalOf  *int64
	ReversedBy  *int64
	CancelledAt *time.Time
	CreatedAt   time.Time
	SourceRef   string
}

// IsCancelled reports whether a reversal has been posted for the entry.
func (e *JournalEntry) IsCancelled() bool {
	return e.CancelledAt != nil
}

// IsReversal reports whether the entry reverses another entry.
func (e *JournalEntry) IsReversal() bool {
	return e.ReversalOf != nil
}

// Normalize fills line currencies and base amounts, validates every line and
// checks the double-entry law on base amounts. No tolerance is applied.
func (e *JournalEntry) Normalize() error {
	currency, err := NormalizeCurrency(e.Currency)
	if err != nil {
		return err
	}
	e.Currency = currency
	if len(e.Lines) < 2 {
		return fmt.Errorf("%w: entry needs at least two lines", ErrInvalidLine)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i := range e.Lines {
		l := &e.Lines[i]
		l.AccountCode = strings.TrimSpace(l.AccountCode)
		if strings.TrimSpace(l.Currency) == "" {
			l.Currency = e.Currency
		} else if l.Currency, err = NormalizeCurrency(l.Currency); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}

		if l.AccountCode == "" {
			return fmt.Errorf("%w: line %d has no account", ErrInvalidLine, i+1)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", ErrInvalidLine, i+1)
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			return fmt.Errorf("%w: line %d must have exactly one of debit or credit", ErrInvalidLine, i+1)
		}

		if l.Currency == e.Currency {
			l.BaseAmount = l.Amount()
		} else if !l.BaseAmount.IsPositive() {
			return fmt.Errorf("%w: line %d in %s needs a base amount in %s", ErrInvalidLine, i+1, l.Currency, e.Currency)
		}

		if l.IsDebit() {
			totalDebit = totalDebit.Add(l.BaseAmount)
		} else {
			totalCredit = totalCredit.Add(l.BaseAmount)
		}
	}

	e.TotalDebit = totalDebit
	e.TotalCredit = totalCredit

	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debit %s != credit %s", ErrUnbalancedEntry, totalDebit, totalCredit)
	}
	return nil
}

// AccountCodes returns the distinct account codes touched, sorted.
func (e *JournalEntry) AccountCodes() []string {
	seen := make(map[string]bool, len(e.Lines))
	codes := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if !seen[l.AccountCode] {
			seen[l.AccountCode] = true
			codes = append(codes, l.AccountCode)
		}
	}
	sort.Strings(codes)
	return codes
}

// Inverse returns an unposted entry that swaps debit and credit on every line.
func (e *JournalEntry) Inverse(createdBy string, date time.Time) *JournalEntry {
	number := e.Number
	lines := make([]JournalLine, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLine{
			AccountCode: l.AccountCode,
			Currency:    l.Currency,
			Debit:       l.Credit,
			Credit:      l.Debit,
			BaseAmount:  l.BaseAmount,
		}
	}
	return &JournalEntry{
		Date:        date,
		Description: fmt.Sprintf("Reversal of entry #%d", e.Number),
		CreatedBy:   createdBy,
		Currency:    e.Currency,
		Lines:       lines,
		ReversalOf:  &number,
	}
}

// PostedLine is a journal line together with the header fields of its entry.
type PostedLine struct {
	EntryNumber   int64
	EntryDate     time.Time
	Description   string
	EntryCurrency string
	Line          JournalLine
}

// AccountNet is the replayed net effect of all postings on one account balance.
type AccountNet struct {
	AccountCode string
	Currency    string
	Net         decimal.Decimal
}
