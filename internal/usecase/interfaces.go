package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	// Delete removes an account. Accounts still referenced by entries or
	// child accounts yield domain.ErrAccountProtected.
	Delete(ctx context.Context, code string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByType(ctx context.Context, accountType domain.AccountType) ([]*domain.Account, error)
	// SumPostedEntries returns the debit and credit totals of posted entries
	// against the account, optionally bounded by posting time.
	SumPostedEntries(ctx context.Context, code string, asOf *time.Time) (debitTotal, creditTotal decimal.Decimal, err error)
}

// ListTransactionsFilter narrows transaction listings.
type ListTransactionsFilter struct {
	Status *domain.TransactionStatus
	Limit  int
	Offset int
}

// TransactionRepository defines data access for transactions and their
// entries. Entries are written and replaced only as part of their parent
// transaction.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	// GetByReferenceForUpdate loads the transaction and its entries under a
	// row lock so concurrent writers on the same transaction serialize.
	GetByReferenceForUpdate(ctx context.Context, tx Transaction, reference string) (*domain.Transaction, error)
	// ReplaceEntries swaps the whole entry set in one step.
	ReplaceEntries(ctx context.Context, tx Transaction, transactionID string, entries []*domain.Entry) error
	// UpdateStatus performs a conditional status change: the write applies
	// only if the stored status still equals from, otherwise
	// domain.ErrInvalidState is returned.
	UpdateStatus(ctx context.Context, tx Transaction, transactionID string, from, to domain.TransactionStatus, postedBy *string, postedAt *time.Time, updatedAt time.Time) error
	List(ctx context.Context, filter ListTransactionsFilter) ([]*domain.Transaction, error)
}

// TypeTotals aggregates active accounts of one type.
type TypeTotals struct {
	Type         domain.AccountType
	AccountCount int64
	DebitTotal   decimal.Decimal
	CreditTotal  decimal.Decimal
}

// LedgerRepository defines ledger-wide aggregate queries.
type LedgerRepository interface {
	// TypeTotals sums posted entries across active accounts, grouped by
	// account type.
	TypeTotals(ctx context.Context) ([]TypeTotals, error)
	PostedCountSince(ctx context.Context, since time.Time) (int64, error)
	// UnbalancedPostedCount counts posted transactions whose debit and
	// credit totals differ. Anything above zero means corruption.
	UnbalancedPostedCount(ctx context.Context) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation that failed with a transient storage error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for derived balances.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
