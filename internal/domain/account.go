package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a node in the chart of accounts holding one balance per enabled currency.
type Account struct {
	Code       string
	Name       string
	Category   Category
	ParentCode string
	Balances   map[string]decimal.Decimal
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewAccount builds an account with a zero balance in every currency.
func NewAccount(code, name string, category Category, parentCode string, currencies []string, now time.Time) *Account {
	balances := make(map[string]decimal.Decimal, len(currencies))
	for _, c := range currencies {
		balances[c] = decimal.Zero
	}
	return &Account{
		Code:       code,
		Name:       name,
		Category:   category,
		ParentCode: parentCode,
		Balances:   balances,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsRoot reports whether the account has no declared parent.
func (a *Account) IsRoot() bool {
	return a.ParentCode == ""
}

// Currencies returns the enabled currencies in sorted order.
func (a *Account) Currencies() []string {
	out := make([]string, 0, len(a.Balances))
	for c := range a.Balances {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// HasCurrency reports whether the currency is enabled on the account.
func (a *Account) HasCurrency(currency string) bool {
	_, ok := a.Balances[currency]
	return ok
}

// Balance returns the balance held in currency.
func (a *Account) Balance(currency string) (decimal.Decimal, error) {
	b, ok := a.Balances[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s on %s", ErrCurrencyNotEnabled, currency, a.Code)
	}
	return b, nil
}

// ApplyDebit returns the balance in currency after a debit.
func (a *Account) ApplyDebit(currency string, amount decimal.Decimal) decimal.Decimal {
	return a.Balances[currency].Sub(amount)
}

// ApplyCredit returns the balance in currency after a credit.
func (a *Account) ApplyCredit(currency string, amount decimal.Decimal) decimal.Decimal {
	return a.Balances[currency].Add(amount)
}
