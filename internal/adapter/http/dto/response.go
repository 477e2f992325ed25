package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	ParentCode  *string   `json:"parent_code,omitempty"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        string(a.Type),
		ParentCode:  a.ParentCode,
		Description: a.Description,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse represents a derived account balance.
type BalanceResponse struct {
	Code    string          `json:"code"`
	Balance decimal.Decimal `json:"balance"`
	AsOf    *time.Time      `json:"as_of,omitempty"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID          string          `json:"id"`
	AccountCode string          `json:"account_code"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &EntryResponse{
			ID:          e.ID,
			AccountCode: e.AccountCode,
			Type:        string(e.Type),
			Amount:      e.Amount,
			Description: e.Description,
		}
	}
	return result
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string           `json:"id"`
	Reference   string           `json:"reference"`
	Date        time.Time        `json:"date"`
	Description string           `json:"description,omitempty"`
	Status      string           `json:"status"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	DebitTotal  decimal.Decimal  `json:"debit_total"`
	CreditTotal decimal.Decimal  `json:"credit_total"`
	Entries     []*EntryResponse `json:"entries"`
	CreatedBy   string           `json:"created_by"`
	PostedBy    *string          `json:"posted_by,omitempty"`
	PostedAt    *time.Time       `json:"posted_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		Reference:   t.Reference,
		Date:        t.Date,
		Description: t.Description,
		Status:      string(t.Status),
		TotalAmount: t.TotalAmount,
		DebitTotal:  t.DebitTotal(),
		CreditTotal: t.CreditTotal(),
		Entries:     EntriesFromDomain(t.Entries),
		CreatedBy:   t.CreatedBy,
		PostedBy:    t.PostedBy,
		PostedAt:    t.PostedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse wraps a transaction listing.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// DashboardResponse represents ledger-wide dashboard metrics.
type DashboardResponse struct {
	TotalsByType       map[string]decimal.Decimal `json:"totals_by_type"`
	NetIncome          decimal.Decimal            `json:"net_income"`
	RecentTransactions int64                      `json:"recent_transactions"`
}

// DashboardFromUseCase converts dashboard metrics to a response.
func DashboardFromUseCase(m *usecase.DashboardMetrics) *DashboardResponse {
	totals := make(map[string]decimal.Decimal, len(m.TotalsByType))
	for at, total := range m.TotalsByType {
		totals[string(at)] = total
	}

	return &DashboardResponse{
		TotalsByType:       totals,
		NetIncome:          m.NetIncome,
		RecentTransactions: m.RecentTransactions,
	}
}

// ChartSummaryResponse describes the chart of accounts.
type ChartSummaryResponse struct {
	TotalAccounts int64                      `json:"total_accounts"`
	CountByType   map[string]int64           `json:"count_by_type"`
	TotalsByType  map[string]decimal.Decimal `json:"totals_by_type"`
}

// ChartSummaryFromUseCase converts a chart summary to a response.
func ChartSummaryFromUseCase(s *usecase.ChartSummary) *ChartSummaryResponse {
	counts := make(map[string]int64, len(s.CountByType))
	for at, count := range s.CountByType {
		counts[string(at)] = count
	}

	totals := make(map[string]decimal.Decimal, len(s.TotalsByType))
	for at, total := range s.TotalsByType {
		totals[string(at)] = total
	}

	return &ChartSummaryResponse{
		TotalAccounts: s.TotalAccounts,
		CountByType:   counts,
		TotalsByType:  totals,
	}
}

// ConsistencyResponse reports the outcome of a ledger consistency check.
type ConsistencyResponse struct {
	Consistent bool   `json:"consistent"`
	Detail     string `json:"detail,omitempty"`
}

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       l.Status,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
