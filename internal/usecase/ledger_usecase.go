package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when a posted transaction violates
	// the debit==credit invariant. This should never happen.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: posted transaction with unequal debits and credits")
)

// LedgerUseCase handles ledger-wide reporting and consistency checks.
type LedgerUseCase struct {
	ledgerRepo  LedgerRepository
	accountRepo AccountRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, accountRepo AccountRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

// DashboardMetrics aggregates balances across active accounts per type.
type DashboardMetrics struct {
	TotalsByType       map[domain.AccountType]decimal.Decimal
	NetIncome          decimal.Decimal
	RecentTransactions int64
}

// Dashboard computes per-type totals over active accounts, net income
// (revenue minus expense) and the posted-transaction count for the
// current month.
func (uc *LedgerUseCase) Dashboard(ctx context.Context) (*DashboardMetrics, error) {
	totals, err := uc.ledgerRepo.TypeTotals(ctx)
	if err != nil {
		return nil, err
	}

	byType := make(map[domain.AccountType]decimal.Decimal, len(domain.AccountTypes))
	for _, at := range domain.AccountTypes {
		byType[at] = decimal.Zero
	}

	for _, tt := range totals {
		byType[tt.Type] = domain.SignedBalance(tt.Type, tt.DebitTotal, tt.CreditTotal)
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	recent, err := uc.ledgerRepo.PostedCountSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	return &DashboardMetrics{
		TotalsByType:       byType,
		NetIncome:          byType[domain.AccountTypeRevenue].Sub(byType[domain.AccountTypeExpense]),
		RecentTransactions: recent,
	}, nil
}

// ChartSummary describes the chart of accounts.
type ChartSummary struct {
	TotalAccounts int64
	CountByType   map[domain.AccountType]int64
	TotalsByType  map[domain.AccountType]decimal.Decimal
}

// Summary returns account counts and total balances per type over active
// accounts.
func (uc *LedgerUseCase) Summary(ctx context.Context) (*ChartSummary, error) {
	totals, err := uc.ledgerRepo.TypeTotals(ctx)
	if err != nil {
		return nil, err
	}

	summary := &ChartSummary{
		CountByType:  make(map[domain.AccountType]int64, len(domain.AccountTypes)),
		TotalsByType: make(map[domain.AccountType]decimal.Decimal, len(domain.AccountTypes)),
	}

	for _, at := range domain.AccountTypes {
		summary.CountByType[at] = 0
		summary.TotalsByType[at] = decimal.Zero
	}

	for _, tt := range totals {
		summary.TotalAccounts += tt.AccountCount
		summary.CountByType[tt.Type] = tt.AccountCount
		summary.TotalsByType[tt.Type] = domain.SignedBalance(tt.Type, tt.DebitTotal, tt.CreditTotal)
	}

	return summary, nil
}

// CheckConsistency verifies that every posted transaction is balanced.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	unbalanced, err := uc.ledgerRepo.UnbalancedPostedCount(ctx)
	if err != nil {
		return false, err
	}

	if unbalanced > 0 {
		return false, ErrInconsistentLedger
	}

	return true, nil
}
