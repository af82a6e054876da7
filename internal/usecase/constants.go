package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// AccountTreeCacheKey holds the serialized chart of accounts tree.
	AccountTreeCacheKey = "accounts:tree"

	// AccountTreeCacheTTL bounds staleness if an invalidation is lost.
	AccountTreeCacheTTL = 5 * time.Minute

	// SystemUser is recorded as creator when the caller does not name one.
	SystemUser = "system"
)
