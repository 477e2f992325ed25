package domain

import "time"

// Event types
const (
	EventTypeAccountCreated       = "account.created"
	EventTypeAccountDeactivated   = "account.deactivated"
	EventTypeTransactionPosted    = "transaction.posted"
	EventTypeTransactionCancelled = "transaction.cancelled"
)

// Aggregate types
const (
	AggregateTypeAccount     = "account"
	AggregateTypeTransaction = "transaction"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionPostedEvent payload
type TransactionPostedEvent struct {
	TransactionID string   `json:"transaction_id"`
	Reference     string   `json:"reference"`
	DebitTotal    string   `json:"debit_total"`
	CreditTotal   string   `json:"credit_total"`
	PostedBy      string   `json:"posted_by"`
	AccountCodes  []string `json:"account_codes"`
}

// TransactionCancelledEvent payload
type TransactionCancelledEvent struct {
	TransactionID string   `json:"transaction_id"`
	Reference     string   `json:"reference"`
	AccountCodes  []string `json:"account_codes"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}
