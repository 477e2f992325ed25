package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		expectError bool
	}{
		{"minimum amount", "0.01", false},
		{"typical amount", "100.00", false},
		{"zero", "0", true},
		{"negative", "-1.00", true},
		{"below minimum", "0.001", true},
		{"sub-cent precision", "1.005", true},
		{"large amount", "9999999999999", false},
		{"too large", "10000000000000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateAccountCode(t *testing.T) {
	valid := []string{"1000", "1000.10", "EXP-TRAVEL", "a1"}
	for _, code := range valid {
		if err := ValidateAccountCode(code); err != nil {
			t.Errorf("ValidateAccountCode(%q) = %v, want nil", code, err)
		}
	}

	invalid := []string{"", "10 00", ".hidden", "code;drop", "123456789012345678901"}
	for _, code := range invalid {
		if err := ValidateAccountCode(code); err == nil {
			t.Errorf("ValidateAccountCode(%q) = nil, want error", code)
		}
	}
}

func TestValidateReference(t *testing.T) {
	if err := ValidateReference("T-2024-0001"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateReference(""); err == nil {
		t.Error("expected error for empty reference")
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name        string
		entry       Entry
		expectError bool
	}{
		{
			name:        "valid debit",
			entry:       Entry{AccountCode: "1000", Type: EntryTypeDebit, Amount: decimal.RequireFromString("10.00")},
			expectError: false,
		},
		{
			name:        "valid credit",
			entry:       Entry{AccountCode: "4000", Type: EntryTypeCredit, Amount: decimal.RequireFromString("10.00")},
			expectError: false,
		},
		{
			name:        "missing account",
			entry:       Entry{Type: EntryTypeDebit, Amount: decimal.RequireFromString("10.00")},
			expectError: true,
		},
		{
			name:        "bad entry type",
			entry:       Entry{AccountCode: "1000", Type: "both", Amount: decimal.RequireFromString("10.00")},
			expectError: true,
		},
		{
			name:        "zero amount",
			entry:       Entry{AccountCode: "1000", Type: EntryTypeDebit, Amount: decimal.Zero},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
