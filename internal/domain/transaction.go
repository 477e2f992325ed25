package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusDraft     TransactionStatus = "draft"
	StatusPending   TransactionStatus = "pending"
	StatusPosted    TransactionStatus = "posted"
	StatusCancelled TransactionStatus = "cancelled"
)

// IsValid reports whether s is a known transaction status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPosted, StatusCancelled:
		return true
	}

	return false
}

// Terminal reports whether no transition exists out of s.
func (s TransactionStatus) Terminal() bool {
	return s == StatusPosted || s == StatusCancelled
}

// legalTransitions encodes the transaction state machine. posted and
// cancelled have no outgoing edges.
var legalTransitions = map[TransactionStatus][]TransactionStatus{
	StatusDraft:   {StatusPending, StatusCancelled},
	StatusPending: {StatusPosted, StatusCancelled},
}

// CanTransitionTo reports whether the transition s -> to is legal.
func (s TransactionStatus) CanTransitionTo(to TransactionStatus) bool {
	for _, next := range legalTransitions[s] {
		if next == to {
			return true
		}
	}

	return false
}

// Transaction is a set of balanced debit/credit entries identified by a
// unique reference. Entries are owned by the transaction and are deleted
// with it.
type Transaction struct {
	ID          string
	Reference   string
	Date        time.Time
	Description string
	Status      TransactionStatus
	TotalAmount decimal.Decimal
	Entries     []*Entry
	CreatedBy   string
	PostedBy    *string
	PostedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DebitTotal returns the exact sum of all debit entry amounts.
func (t *Transaction) DebitTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range t.Entries {
		if e.Type == EntryTypeDebit {
			sum = sum.Add(e.Amount)
		}
	}

	return sum
}

// CreditTotal returns the exact sum of all credit entry amounts.
func (t *Transaction) CreditTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range t.Entries {
		if e.Type == EntryTypeCredit {
			sum = sum.Add(e.Amount)
		}
	}

	return sum
}

// AccountCodes returns the distinct account codes touched by the entry
// set, in first-seen order.
func (t *Transaction) AccountCodes() []string {
	seen := make(map[string]bool)

	var codes []string
	for _, e := range t.Entries {
		if !seen[e.AccountCode] {
			seen[e.AccountCode] = true
			codes = append(codes, e.AccountCode)
		}
	}

	return codes
}

// Mutable reports whether the entry set may still be replaced.
func (t *Transaction) Mutable() bool {
	return t.Status == StatusDraft || t.Status == StatusPending
}

// CheckTransition validates the transition to the given status.
func (t *Transaction) CheckTransition(to TransactionStatus) error {
	if !t.Status.CanTransitionTo(to) {
		return &InvalidTransitionError{
			TransactionID: t.ID,
			Reference:     t.Reference,
			From:          t.Status,
			To:            to,
		}
	}

	return nil
}

// CheckBalanced verifies the core ledger invariant for posting: the debit
// and credit totals must be exactly equal, the transaction must carry at
// least one entry on each side, and the declared total amount must match
// the debit side. Exact decimal comparison, no tolerance.
func (t *Transaction) CheckBalanced() error {
	var debits, credits int

	for _, e := range t.Entries {
		if e.Type == EntryTypeDebit {
			debits++
		} else {
			credits++
		}
	}

	if debits == 0 || credits == 0 {
		return &UnbalancedError{
			TransactionID: t.ID,
			Reference:     t.Reference,
			DebitTotal:    t.DebitTotal(),
			CreditTotal:   t.CreditTotal(),
			Reason:        "transaction requires at least one debit and one credit entry",
		}
	}

	debitTotal := t.DebitTotal()
	creditTotal := t.CreditTotal()

	if !debitTotal.Equal(creditTotal) {
		return &UnbalancedError{
			TransactionID: t.ID,
			Reference:     t.Reference,
			DebitTotal:    debitTotal,
			CreditTotal:   creditTotal,
			Reason:        "debit and credit totals must be equal",
		}
	}

	if !t.TotalAmount.IsZero() && !t.TotalAmount.Equal(debitTotal) {
		return &UnbalancedError{
			TransactionID: t.ID,
			Reference:     t.Reference,
			DebitTotal:    debitTotal,
			CreditTotal:   creditTotal,
			Reason:        "declared total amount does not match entry totals",
		}
	}

	return nil
}
