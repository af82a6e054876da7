package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Category classifies an account and fixes the numeric prefix of its code.
type Category string

const (
	CategoryExchangeCompanies Category = "exchange_companies"
	CategoryCustomers         Category = "customers"
	CategoryProfitLoss        Category = "profit_loss"
	CategoryExpenses          Category = "expenses"
	CategoryBanks             Category = "banks"
	CategoryCashBoxes         Category = "cash_boxes"
	CategoryAssets            Category = "assets"
	CategoryLiabilities       Category = "liabilities"
)

// CodesPerPrefix is the width of the code range owned by one category.
const CodesPerPrefix = 1000

// MaxSequence is the last sequence number usable within a prefix.
const MaxSequence = CodesPerPrefix - 1

var categoryPrefixes = map[Category]int{
	CategoryExchangeCompanies: 1,
	CategoryCustomers:         2,
	CategoryProfitLoss:        3,
	CategoryExpenses:          4,
	CategoryBanks:             5,
	CategoryCashBoxes:         6,
	CategoryAssets:            7,
	CategoryLiabilities:       8,
}

// Categories returns every known category ordered by prefix.
func Categories() []Category {
	return []Category{
		CategoryExchangeCompanies,
		CategoryCustomers,
		CategoryProfitLoss,
		CategoryExpenses,
		CategoryBanks,
		CategoryCashBoxes,
		CategoryAssets,
		CategoryLiabilities,
	}
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryPrefixes[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Prefix returns the numeric code prefix for the category, or 0 if unknown.
func (c Category) Prefix() int {
	return categoryPrefixes[c]
}

// NextCode allocates prefix*1000 + (max used sequence + 1).
// Codes outside the category's range are ignored.
func NextCode(c Category, existing []string) (string, error) {
	prefix := c.Prefix()
	if prefix == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
	}

	maxSeq := 0
	for _, code := range existing {
		n, err := strconv.Atoi(code)
		if err != nil || n/CodesPerPrefix != prefix {
			continue
		}
		if seq := n % CodesPerPrefix; seq > maxSeq {
			maxSeq = seq
		}
	}

	if maxSeq >= MaxSequence {
		return "", fmt.Errorf("%w: %s", ErrCodeSpaceExhausted, c)
	}

	return strconv.Itoa(prefix*CodesPerPrefix + maxSeq + 1), nil
}
