package domain

import (
	"time"
)

// AccountType classifies an account within the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists all account types in reporting order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}

	return false
}

// DebitNormal reports whether debit entries increase the balance for this
// account type. Assets and expenses are debit-normal; liabilities, equity
// and revenue are credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account represents one node in the chart of accounts. Balance is derived
// from posted entries and is never stored on the account itself.
type Account struct {
	ID          string
	Code        string
	Name        string
	Type        AccountType
	ParentCode  *string
	Description string
	Active      bool
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks account fields for structural validity.
func (a *Account) Validate() error {
	if err := ValidateAccountCode(a.Code); err != nil {
		return err
	}

	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}

	if !a.Type.IsValid() {
		return ErrInvalidAccountType
	}

	if a.ParentCode != nil && *a.ParentCode == a.Code {
		return &InvalidParentError{Code: a.Code, ParentCode: *a.ParentCode, Reason: "account cannot be its own parent"}
	}

	return nil
}
