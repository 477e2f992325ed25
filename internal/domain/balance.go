package domain

import (
	"github.com/shopspring/decimal"
)

// AccountBalance derives the signed balance of an account from a snapshot
// of its posted entries. Entries against other accounts are ignored. The
// result follows account-type polarity: debit-normal types return
// debits - credits, credit-normal types return credits - debits.
//
// Pure function: same snapshot, same result. Intermediate sums are exact
// decimals and are never rounded.
func AccountBalance(account *Account, entries []*Entry) decimal.Decimal {
	debitTotal := decimal.Zero
	creditTotal := decimal.Zero

	for _, e := range entries {
		if e.AccountCode != account.Code {
			continue
		}

		switch e.Type {
		case EntryTypeDebit:
			debitTotal = debitTotal.Add(e.Amount)
		case EntryTypeCredit:
			creditTotal = creditTotal.Add(e.Amount)
		}
	}

	return SignedBalance(account.Type, debitTotal, creditTotal)
}

// SignedBalance applies account-type polarity to pre-computed debit and
// credit totals. Repositories that aggregate in SQL use this to convert
// their sums into a signed balance.
func SignedBalance(accountType AccountType, debitTotal, creditTotal decimal.Decimal) decimal.Decimal {
	if accountType.DebitNormal() {
		return debitTotal.Sub(creditTotal)
	}

	return creditTotal.Sub(debitTotal)
}
