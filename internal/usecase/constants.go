package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// BalanceCacheTTL bounds staleness if an invalidation is lost.
	BalanceCacheTTL = 5 * time.Minute

	// MaxParentDepth bounds the ancestor walk during cycle detection.
	MaxParentDepth = 100
)
