package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CurrencyIQD = "IQD"
	CurrencyUSD = "USD"
)

// DisplayPrecision is the number of decimals shown for converted amounts.
const DisplayPrecision = 2

// RevaluationDirection names the pair and the way the rate is applied.
type RevaluationDirection string

const (
	IQDToUSD RevaluationDirection = "iqd_to_usd"
	USDToIQD RevaluationDirection = "usd_to_iqd"
)

// ParseRevaluationDirection validates a direction name.
func ParseRevaluationDirection(s string) (RevaluationDirection, error) {
	switch d := RevaluationDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case IQDToUSD, USDToIQD:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// SourceCurrency is the currency the amount is expressed in.
func (d RevaluationDirection) SourceCurrency() string {
	if d == IQDToUSD {
		return CurrencyIQD
	}
	return CurrencyUSD
}

// TargetCurrency is the currency the equivalent is expressed in.
func (d RevaluationDirection) TargetCurrency() string {
	if d == IQDToUSD {
		return CurrencyUSD
	}
	return CurrencyIQD
}

// Convert returns the equivalent at full precision. The exchange rate is IQD per USD.
func (d RevaluationDirection) Convert(amount, rate decimal.Decimal) decimal.Decimal {
	if d == IQDToUSD {
		return amount.Div(rate)
	}
	return amount.Mul(rate)
}

// OperationType decides which side of the pair is debited.
type OperationType string

const (
	OperationDebit  OperationType = "debit"
	OperationCredit OperationType = "credit"
)

// ParseOperationType validates an operation type.
func ParseOperationType(s string) (OperationType, error) {
	switch o := OperationType(strings.ToLower(strings.TrimSpace(s))); o {
	case OperationDebit, OperationCredit:
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOperation, s)
}

// CurrencyRevaluation moves value between two currency balances of one account.
type CurrencyRevaluation struct {
	ID               string
	AccountCode      string
	Amount           decimal.Decimal
	Currency         string
	ExchangeRate     decimal.Decimal
	OperationType    OperationType
	Direction        RevaluationDirection
	EquivalentAmount decimal.Decimal
	EntryNumber      int64
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
}

// Prepare validates the request and computes the equivalent amount.
func (r *CurrencyRevaluation) Prepare() error {
	if !r.ExchangeRate.IsPositive() {
		return ErrInvalidRate
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if r.Currency != r.Direction.SourceCurrency() {
		return fmt.Errorf("%w: %s requires %s, got %s", ErrCurrencyMismatch, r.Direction, r.Direction.SourceCurrency(), r.Currency)
	}
	r.EquivalentAmount = r.Direction.Convert(r.Amount, r.ExchangeRate)
	return nil
}

// DisplayEquivalent rounds the equivalent to the target currency's display precision.
func (r *CurrencyRevaluation) DisplayEquivalent() decimal.Decimal {
	return r.EquivalentAmount.Round(DisplayPrecision)
}

// Entry builds the paired entry on the revalued account. The base currency is
// the source currency, so both lines carry the source amount as base value.
func (r *CurrencyRevaluation) Entry(date time.Time) *JournalEntry {
	source := JournalLine{AccountCode: r.AccountCode, Currency: r.Currency, BaseAmount: r.Amount}
	target := JournalLine{AccountCode: r.AccountCode, Currency: r.Direction.TargetCurrency(), BaseAmount: r.Amount}

	if r.OperationType == OperationDebit {
		source.Debit = r.Amount
		target.Credit = r.EquivalentAmount
	} else {
		source.Credit = r.Amount
		target.Debit = r.EquivalentAmount
	}

	description := fmt.Sprintf("Currency revaluation %s %s %s at %s", r.AccountCode, r.Amount, r.Currency, r.ExchangeRate)
	if r.Notes != "" {
		description += ": " + r.Notes
	}

	return &JournalEntry{
		Date:        date,
		Description: description,
		CreatedBy:   r.CreatedBy,
		Currency:    r.Currency,
		Lines:       []JournalLine{source, target},
	}
}
