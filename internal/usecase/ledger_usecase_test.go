package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
	"github.com/iho/bookkeeper/internal/usecase/mocks"
)

func TestLedgerUseCase_Dashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockLedgerRepository(ctrl)
	repo.EXPECT().TypeTotals(gomock.Any()).Return([]usecase.TypeTotals{
		{Type: domain.AccountTypeAsset, AccountCount: 2, DebitTotal: decimal.RequireFromString("500.00"), CreditTotal: decimal.RequireFromString("100.00")},
		{Type: domain.AccountTypeRevenue, AccountCount: 1, DebitTotal: decimal.Zero, CreditTotal: decimal.RequireFromString("300.00")},
		{Type: domain.AccountTypeExpense, AccountCount: 1, DebitTotal: decimal.RequireFromString("120.00"), CreditTotal: decimal.Zero},
	}, nil)
	repo.EXPECT().PostedCountSince(gomock.Any(), gomock.Any()).Return(int64(7), nil)

	uc := usecase.NewLedgerUseCase(repo, mocks.NewMockAccountRepository())

	dashboard, err := uc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.True(t, dashboard.TotalsByType[domain.AccountTypeAsset].Equal(decimal.RequireFromString("400.00")),
		"asset total = %s, want 400.00", dashboard.TotalsByType[domain.AccountTypeAsset])
	assert.True(t, dashboard.TotalsByType[domain.AccountTypeRevenue].Equal(decimal.RequireFromString("300.00")),
		"revenue total = %s, want 300.00", dashboard.TotalsByType[domain.AccountTypeRevenue])

	// Types without totals still appear, at zero.
	assert.True(t, dashboard.TotalsByType[domain.AccountTypeLiability].IsZero(),
		"liability total = %s, want 0", dashboard.TotalsByType[domain.AccountTypeLiability])

	assert.True(t, dashboard.NetIncome.Equal(decimal.RequireFromString("180.00")),
		"net income = %s, want 180.00", dashboard.NetIncome)
	assert.Equal(t, int64(7), dashboard.RecentTransactions)
}

func TestLedgerUseCase_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockLedgerRepository(ctrl)
	repo.EXPECT().TypeTotals(gomock.Any()).Return([]usecase.TypeTotals{
		{Type: domain.AccountTypeAsset, AccountCount: 3, DebitTotal: decimal.RequireFromString("50.00"), CreditTotal: decimal.Zero},
		{Type: domain.AccountTypeLiability, AccountCount: 2, DebitTotal: decimal.Zero, CreditTotal: decimal.RequireFromString("50.00")},
	}, nil)

	uc := usecase.NewLedgerUseCase(repo, mocks.NewMockAccountRepository())

	summary, err := uc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), summary.TotalAccounts)
	assert.Equal(t, int64(3), summary.CountByType[domain.AccountTypeAsset])
	assert.True(t, summary.TotalsByType[domain.AccountTypeLiability].Equal(decimal.RequireFromString("50.00")),
		"liability total = %s, want 50.00", summary.TotalsByType[domain.AccountTypeLiability])
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name        string
		unbalanced  int64
		repoErr     error
		want        bool
		expectError error
	}{
		{name: "consistent ledger", unbalanced: 0, want: true},
		{name: "inconsistent ledger", unbalanced: 2, expectError: usecase.ErrInconsistentLedger},
		{name: "repository failure", repoErr: errors.New("connection lost"), expectError: errors.New("connection lost")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockLedgerRepository(ctrl)
			repo.EXPECT().UnbalancedPostedCount(gomock.Any()).Return(tt.unbalanced, tt.repoErr)

			uc := usecase.NewLedgerUseCase(repo, mocks.NewMockAccountRepository())

			ok, err := uc.CheckConsistency(context.Background())

			if tt.expectError != nil {
				require.Error(t, err)
				assert.EqualError(t, err, tt.expectError.Error())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
