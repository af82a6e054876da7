package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidDateRange   = errors.New("start date is after end date")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxAmount            = "1000000000000000" // one quadrillion, IQD scale
)

// Currencies the agent network settles in.
var validCurrencies = map[string]bool{
	"IQD": true, "USD": true, "EUR": true, "TRY": true,
	"IRR": true, "AED": true, "SAR": true, "JOD": true,
	"GBP": true, "KWD": true, "SYP": true, "LBP": true,
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// NormalizeCurrency upper-cases a currency code and validates it.
func NormalizeCurrency(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}

	return currency, nil
}

// NormalizeCurrencies validates a non-empty currency set and removes duplicates.
func NormalizeCurrencies(currencies []string) ([]string, error) {
	if len(currencies) == 0 {
		return nil, fmt.Errorf("%w: at least one currency is required", ErrInvalidCurrency)
	}

	seen := make(map[string]bool, len(currencies))
	out := make([]string, 0, len(currencies))
	for _, c := range currencies {
		norm, err := NormalizeCurrency(c)
		if err != nil {
			return nil, err
		}
		if !seen[norm] {
			seen[norm] = true
			out = append(out, norm)
		}
	}
	return out, nil
}

// ValidateAmount validates a transfer or revaluation amount
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateDateRange rejects a window whose start is after its end.
func ValidateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return ErrInvalidDateRange
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
