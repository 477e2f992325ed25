package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccountBalance_Polarity(t *testing.T) {
	entries := []*Entry{
		{AccountCode: "X", Type: EntryTypeDebit, Amount: decimal.RequireFromString("150.00")},
		{AccountCode: "X", Type: EntryTypeCredit, Amount: decimal.RequireFromString("50.00")},
		{AccountCode: "other", Type: EntryTypeDebit, Amount: decimal.RequireFromString("999.99")},
	}

	tests := []struct {
		accountType AccountType
		want        string
	}{
		{AccountTypeAsset, "100.00"},
		{AccountTypeExpense, "100.00"},
		{AccountTypeLiability, "-100.00"},
		{AccountTypeEquity, "-100.00"},
		{AccountTypeRevenue, "-100.00"},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			account := &Account{Code: "X", Type: tt.accountType}

			got := AccountBalance(account, entries)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("AccountBalance(%s) = %s, want %s", tt.accountType, got, tt.want)
			}
		})
	}
}

func TestAccountBalance_EmptyEntries(t *testing.T) {
	account := &Account{Code: "1000", Type: AccountTypeAsset}

	got := AccountBalance(account, nil)
	if !got.IsZero() {
		t.Errorf("expected zero balance, got %s", got)
	}
}

func TestAccountBalance_Deterministic(t *testing.T) {
	account := &Account{Code: "1000", Type: AccountTypeAsset}
	entries := []*Entry{
		{AccountCode: "1000", Type: EntryTypeDebit, Amount: decimal.RequireFromString("0.10")},
		{AccountCode: "1000", Type: EntryTypeDebit, Amount: decimal.RequireFromString("0.20")},
		{AccountCode: "1000", Type: EntryTypeCredit, Amount: decimal.RequireFromString("0.30")},
	}

	first := AccountBalance(account, entries)
	second := AccountBalance(account, entries)

	if !first.Equal(second) {
		t.Errorf("balance not deterministic: %s vs %s", first, second)
	}

	// 0.10 + 0.20 - 0.30 must be exactly zero, not a float approximation.
	if !first.IsZero() {
		t.Errorf("expected exact zero, got %s", first)
	}
}

func TestSignedBalance(t *testing.T) {
	debit := decimal.RequireFromString("70.00")
	credit := decimal.RequireFromString("30.00")

	if got := SignedBalance(AccountTypeAsset, debit, credit); !got.Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("asset balance = %s, want 40.00", got)
	}

	if got := SignedBalance(AccountTypeRevenue, debit, credit); !got.Equal(decimal.RequireFromString("-40.00")) {
		t.Errorf("revenue balance = %s, want -40.00", got)
	}
}
