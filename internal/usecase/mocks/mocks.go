package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	// entries feeds SumPostedEntries; tests append posted entries here.
	entries []*domain.Entry

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByCodeFunc        func(ctx context.Context, code string) (*domain.Account, error)
	UpdateFunc           func(ctx context.Context, account *domain.Account) error
	DeleteFunc           func(ctx context.Context, code string) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByTypeFunc       func(ctx context.Context, accountType domain.AccountType) ([]*domain.Account, error)
	SumPostedEntriesFunc func(ctx context.Context, code string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Code]; ok {
		return domain.ErrDuplicateCode
	}
	m.accounts[account.Code] = account
	return nil
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[code]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Code]; !ok {
		return domain.ErrAccountNotFound
	}
	m.accounts[account.Code] = account
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, code string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[code]; !ok {
		return domain.ErrAccountNotFound
	}
	for _, e := range m.entries {
		if e.AccountCode == code {
			return domain.ErrAccountProtected
		}
	}
	for _, acc := range m.accounts {
		if acc.ParentCode != nil && *acc.ParentCode == code {
			return domain.ErrAccountProtected
		}
	}
	delete(m.accounts, code)
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (m *MockAccountRepository) ListByType(ctx context.Context, accountType domain.AccountType) ([]*domain.Account, error) {
	if m.ListByTypeFunc != nil {
		return m.ListByTypeFunc(ctx, accountType)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.Type == accountType {
			accounts = append(accounts, acc)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (m *MockAccountRepository) SumPostedEntries(ctx context.Context, code string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumPostedEntriesFunc != nil {
		return m.SumPostedEntriesFunc(ctx, code, asOf)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for _, e := range m.entries {
		if e.AccountCode != code {
			continue
		}
		if e.Type == domain.EntryTypeDebit {
			debitTotal = debitTotal.Add(e.Amount)
		} else {
			creditTotal = creditTotal.Add(e.Amount)
		}
	}
	return debitTotal, creditTotal, nil
}

// AddPostedEntry seeds an entry that SumPostedEntries will see.
func (m *MockAccountRepository) AddPostedEntry(entry *domain.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

// MockTransactionRepository is a mock implementation of
// TransactionRepository. Status updates use compare-and-set semantics so
// concurrency tests observe the same at-most-one-writer behavior as the
// real storage layer.
type MockTransactionRepository struct {
	mu           sync.Mutex
	transactions map[string]*domain.Transaction // keyed by reference
	refByID      map[string]string

	CreateFunc                  func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByReferenceFunc          func(ctx context.Context, reference string) (*domain.Transaction, error)
	GetByReferenceForUpdateFunc func(ctx context.Context, tx usecase.Transaction, reference string) (*domain.Transaction, error)
	ReplaceEntriesFunc          func(ctx context.Context, tx usecase.Transaction, transactionID string, entries []*domain.Entry) error
	UpdateStatusFunc            func(ctx context.Context, tx usecase.Transaction, transactionID string, from, to domain.TransactionStatus, postedBy *string, postedAt *time.Time, updatedAt time.Time) error
	ListFunc                    func(ctx context.Context, filter usecase.ListTransactionsFilter) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
		refByID:      make(map[string]string),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[txn.Reference]; ok {
		return domain.ErrDuplicateReference
	}
	m.transactions[txn.Reference] = copyTransaction(txn)
	m.refByID[txn.ID] = txn.Reference
	return nil
}

func (m *MockTransactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	if m.GetByReferenceFunc != nil {
		return m.GetByReferenceFunc(ctx, reference)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[reference]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return copyTransaction(txn), nil
}

func (m *MockTransactionRepository) GetByReferenceForUpdate(ctx context.Context, tx usecase.Transaction, reference string) (*domain.Transaction, error) {
	if m.GetByReferenceForUpdateFunc != nil {
		return m.GetByReferenceForUpdateFunc(ctx, tx, reference)
	}
	return m.GetByReference(ctx, reference)
}

func (m *MockTransactionRepository) ReplaceEntries(ctx context.Context, tx usecase.Transaction, transactionID string, entries []*domain.Entry) error {
	if m.ReplaceEntriesFunc != nil {
		return m.ReplaceEntriesFunc(ctx, tx, transactionID, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ref, ok := m.refByID[transactionID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	m.transactions[ref].Entries = entries
	return nil
}

func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, transactionID string, from, to domain.TransactionStatus, postedBy *string, postedAt *time.Time, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, transactionID, from, to, postedBy, postedAt, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ref, ok := m.refByID[transactionID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn := m.transactions[ref]
	if txn.Status != from {
		return &domain.InvalidTransitionError{
			TransactionID: txn.ID,
			Reference:     txn.Reference,
			From:          txn.Status,
			To:            to,
		}
	}
	txn.Status = to
	txn.PostedBy = postedBy
	txn.PostedAt = postedAt
	txn.UpdatedAt = updatedAt
	return nil
}

func (m *MockTransactionRepository) List(ctx context.Context, filter usecase.ListTransactionsFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		if filter.Status != nil && txn.Status != *filter.Status {
			continue
		}
		txns = append(txns, copyTransaction(txn))
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].Reference < txns[j].Reference })
	return txns, nil
}

func copyTransaction(txn *domain.Transaction) *domain.Transaction {
	cp := *txn
	cp.Entries = make([]*domain.Entry, len(txn.Entries))
	copy(cp.Entries, txn.Entries)
	return &cp
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.Mutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var unpublished []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			unpublished = append(unpublished, e)
		}
		if len(unpublished) == limit {
			break
		}
	}
	return unpublished, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

// Events returns a snapshot of recorded events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.Mutex
	logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out, nil
}

// MockTransaction is a no-op database transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return ulid.Make().String()
}

// MockCache is a map-backed mock implementation of Cache.
type MockCache struct {
	mu     sync.Mutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

var errCacheMiss = errors.New("cache miss")

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", errCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Has reports whether a key is cached.
func (m *MockCache) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}
