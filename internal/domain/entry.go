package domain

import (
	"github.com/shopspring/decimal"
)

// EntryType is the side of a double-entry line.
type EntryType string

const (
	EntryTypeDebit  EntryType = "debit"
	EntryTypeCredit EntryType = "credit"
)

// IsValid reports whether t is a known entry type.
func (t EntryType) IsValid() bool {
	return t == EntryTypeDebit || t == EntryTypeCredit
}

// Entry is a single debit or credit line of a transaction. An entry never
// exists outside its parent transaction.
type Entry struct {
	ID            string
	TransactionID string
	AccountCode   string
	Type          EntryType
	Amount        decimal.Decimal
	Description   string
}

// Validate checks entry fields. Amounts are strictly positive with a
// minimum of 0.01.
func (e *Entry) Validate() error {
	if e.AccountCode == "" {
		return ErrInvalidEntryAccount
	}

	if !e.Type.IsValid() {
		return ErrInvalidEntryType
	}

	return ValidateAmount(e.Amount)
}
