package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCategory    = errors.New("invalid account category")
	ErrDuplicateCode      = errors.New("account code already exists")
	ErrHasChildren        = errors.New("account has child accounts")
	ErrCurrencyNotEnabled = errors.New("currency is not enabled for account")
	ErrParentNotFound     = errors.New("parent account not found")
	ErrInvalidParent      = errors.New("account cannot be its own parent")
	ErrCodeSpaceExhausted = errors.New("no free account codes left in category")

	// Journal errors
	ErrUnbalancedEntry        = errors.New("journal entry is not balanced")
	ErrUnknownAccount         = errors.New("journal entry references unknown account")
	ErrInvalidLine            = errors.New("invalid journal line")
	ErrEntryNotFound          = errors.New("journal entry not found")
	ErrAlreadyCancelled       = errors.New("journal entry already cancelled")
	ErrReversalNotCancellable = errors.New("reversal entries cannot be cancelled")
	ErrDuplicateSourceRef     = errors.New("source event already posted")

	// Commission errors
	ErrNoBulletin       = errors.New("no commission bulletin for agent and currency")
	ErrNoMatchingTier   = errors.New("no commission tier matches amount")
	ErrInvalidTier      = errors.New("invalid commission tier")
	ErrOverlappingTiers = errors.New("commission tiers overlap")
	ErrInvalidDirection = errors.New("invalid transfer direction")

	// Revaluation errors
	ErrInvalidRate      = errors.New("exchange rate must be positive")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidOperation = errors.New("invalid revaluation operation type")
	ErrCurrencyMismatch = errors.New("currency does not match revaluation direction")
)
