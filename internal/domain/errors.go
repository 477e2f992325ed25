package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateCode      = errors.New("account code already exists")
	ErrAccountInactive    = errors.New("account is not active")
	ErrAccountProtected   = errors.New("account is still referenced and cannot be deleted")
	ErrInvalidAccountType = errors.New("invalid account type")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateReference  = errors.New("transaction reference already exists")
	ErrInvalidState        = errors.New("illegal transaction state transition")
	ErrUnbalanced          = errors.New("transaction debits do not equal credits")
	ErrInvalidParent       = errors.New("invalid parent account")

	// Entry errors
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidEntryType    = errors.New("entry type must be debit or credit")
	ErrInvalidEntryAccount = errors.New("entry requires an account code")
)

// InvalidTransitionError reports an illegal state machine transition with
// enough context for the caller to act on. It matches ErrInvalidState.
type InvalidTransitionError struct {
	TransactionID string
	Reference     string
	From          TransactionStatus
	To            TransactionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transaction %s: cannot transition from %s to %s", e.Reference, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidState
}

// UnbalancedError reports a failed posting balance check including the
// computed totals. It matches ErrUnbalanced.
type UnbalancedError struct {
	TransactionID string
	Reference     string
	DebitTotal    decimal.Decimal
	CreditTotal   decimal.Decimal
	Reason        string
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("transaction %s: %s (debits=%s credits=%s)",
		e.Reference, e.Reason, e.DebitTotal.StringFixed(2), e.CreditTotal.StringFixed(2))
}

func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalanced
}

// InvalidParentError reports a rejected parent account reference. It
// matches ErrInvalidParent.
type InvalidParentError struct {
	Code       string
	ParentCode string
	Reason     string
}

func (e *InvalidParentError) Error() string {
	return fmt.Sprintf("account %s: parent %s rejected: %s", e.Code, e.ParentCode, e.Reason)
}

func (e *InvalidParentError) Unwrap() error {
	return ErrInvalidParent
}
