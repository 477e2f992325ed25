package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/infrastructure/metrics"
)

// TransactionUseCase owns the transaction lifecycle. Every mutating
// operation runs inside one storage transaction with the transaction row
// locked, so concurrent writers on the same transaction serialize and
// exactly one of two concurrent posts can succeed.
type TransactionUseCase struct {
	txManager       TransactionManager
	transactionRepo TransactionRepository
	accountRepo     AccountRepository
	outboxRepo      OutboxRepository
	auditRepo       AuditRepository
	cache           Cache
	idGen           IDGenerator
	metrics         *metrics.Metrics
	retrier         Retrier
}

// NewTransactionUseCase creates a new TransactionUseCase. outboxRepo,
// auditRepo, cache and metrics are optional.
func NewTransactionUseCase(
	txManager TransactionManager,
	transactionRepo TransactionRepository,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		outboxRepo:      outboxRepo,
		auditRepo:       auditRepo,
		cache:           cache,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// WithRetrier makes state transitions retry on transient storage errors
// such as deadlocks and serialization failures.
func (uc *TransactionUseCase) WithRetrier(retrier Retrier) *TransactionUseCase {
	uc.retrier = retrier
	return uc
}

// EntryInput represents one entry line in a request.
type EntryInput struct {
	AccountCode string
	Type        domain.EntryType
	Amount      decimal.Decimal
	Description string
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	Reference   string
	Date        time.Time
	Description string
	TotalAmount decimal.Decimal
	Entries     []EntryInput
}

// CreateTransaction creates a transaction in draft state. The entry set
// may be empty or unbalanced; balance is enforced at posting time only.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateReference(input.Reference); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		Reference:   input.Reference,
		Date:        input.Date,
		Description: input.Description,
		Status:      domain.StatusDraft,
		TotalAmount: input.TotalAmount,
		CreatedBy:   actorID(ctx),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	entries, err := uc.buildEntries(txn.ID, input.Entries)
	if err != nil {
		return nil, err
	}

	txn.Entries = entries

	if err := uc.checkAccounts(ctx, txn); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.transactionRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionTransactionCreate, txn.ID, nil, domain.MarshalState(txn))

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.Inc()
	}

	return txn, nil
}

// ReplaceEntries atomically swaps the entry set of a draft or pending
// transaction. No concurrent reader ever observes a partial replacement.
func (uc *TransactionUseCase) ReplaceEntries(ctx context.Context, reference string, inputs []EntryInput) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.transactionRepo.GetByReferenceForUpdate(txCtx, tx, reference)
	if err != nil {
		return nil, err
	}

	if !txn.Mutable() {
		return nil, fmt.Errorf("%w: entries of a %s transaction cannot be replaced", domain.ErrInvalidState, txn.Status)
	}

	before := domain.MarshalState(txn)

	entries, err := uc.buildEntries(txn.ID, inputs)
	if err != nil {
		return nil, err
	}

	txn.Entries = entries

	if err := uc.checkAccounts(ctx, txn); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.ReplaceEntries(txCtx, tx, txn.ID, entries); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	txn.UpdatedAt = time.Now().UTC()

	uc.audit(ctx, domain.AuditActionTransactionUpdate, txn.ID, before, domain.MarshalState(txn))

	return txn, nil
}

// SubmitForPosting moves a draft transaction to pending. The pending state
// is observable in its own right so the approval step leaves a trace.
func (uc *TransactionUseCase) SubmitForPosting(ctx context.Context, reference string) (*domain.Transaction, error) {
	txn, err := uc.transition(ctx, reference, domain.StatusPending, nil)
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionTransactionSubmit, txn.ID, nil, domain.MarshalState(txn))

	return txn, nil
}

// PostTransaction finalizes a pending transaction. The entry totals are
// recomputed from the locked entry set and must match exactly; on success
// the transaction becomes immutable and its entries start counting toward
// account balances. This is where money becomes real.
func (uc *TransactionUseCase) PostTransaction(ctx context.Context, reference string) (*domain.Transaction, error) {
	start := time.Now()

	txn, err := uc.transition(ctx, reference, domain.StatusPosted, func(txn *domain.Transaction) error {
		return txn.CheckBalanced()
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.PostingRejected.WithLabelValues(errorLabel(err)).Inc()
		}

		return nil, err
	}

	uc.audit(ctx, domain.AuditActionTransactionPost, txn.ID, nil, domain.MarshalState(txn))

	if uc.metrics != nil {
		uc.metrics.TransactionsPosted.Inc()
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}

	return txn, nil
}

// CancelTransaction moves a draft or pending transaction to cancelled.
// Entries are retained for audit but never count toward balances. Posted
// transactions cannot be cancelled.
func (uc *TransactionUseCase) CancelTransaction(ctx context.Context, reference string) (*domain.Transaction, error) {
	txn, err := uc.transition(ctx, reference, domain.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionTransactionCancel, txn.ID, nil, domain.MarshalState(txn))

	if uc.metrics != nil {
		uc.metrics.TransactionsCancelled.Inc()
	}

	return txn, nil
}

// GetTransaction retrieves a transaction with its entries by reference.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, reference string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByReference(ctx, reference)
}

// ListTransactions lists transactions, optionally filtered by status.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, filter ListTransactionsFilter) ([]*domain.Transaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	if filter.Limit > 500 {
		filter.Limit = 500
	}

	return uc.transactionRepo.List(ctx, filter)
}

// transition performs one state machine step under the transaction row
// lock: load for update, validate the transition, run the optional check
// against the locked entry set, then conditionally write the new status.
func (uc *TransactionUseCase) transition(
	ctx context.Context,
	reference string,
	to domain.TransactionStatus,
	check func(*domain.Transaction) error,
) (*domain.Transaction, error) {
	if uc.retrier == nil {
		return uc.transitionOnce(ctx, reference, to, check)
	}

	var txn *domain.Transaction

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		txn, err = uc.transitionOnce(ctx, reference, to, check)
		return err
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

func (uc *TransactionUseCase) transitionOnce(
	ctx context.Context,
	reference string,
	to domain.TransactionStatus,
	check func(*domain.Transaction) error,
) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.transactionRepo.GetByReferenceForUpdate(txCtx, tx, reference)
	if err != nil {
		return nil, err
	}

	if err := txn.CheckTransition(to); err != nil {
		return nil, err
	}

	if check != nil {
		if err := check(txn); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	var postedBy *string
	var postedAt *time.Time

	if to == domain.StatusPosted {
		actor := actorID(ctx)
		postedBy = &actor
		postedAt = &now
	}

	from := txn.Status
	if err := uc.transactionRepo.UpdateStatus(txCtx, tx, txn.ID, from, to, postedBy, postedAt, now); err != nil {
		return nil, err
	}

	if event := uc.transitionEvent(txn, to, now); event != nil && uc.outboxRepo != nil {
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	txn.Status = to
	txn.PostedBy = postedBy
	txn.PostedAt = postedAt
	txn.UpdatedAt = now

	// Posted entries change derived balances; drop stale cached values.
	if to == domain.StatusPosted || to == domain.StatusCancelled {
		uc.invalidateBalances(ctx, txn)
	}

	return txn, nil
}

func (uc *TransactionUseCase) transitionEvent(txn *domain.Transaction, to domain.TransactionStatus, now time.Time) *domain.OutboxEvent {
	var eventType string

	switch to {
	case domain.StatusPosted:
		eventType = domain.EventTypeTransactionPosted
	case domain.StatusCancelled:
		eventType = domain.EventTypeTransactionCancelled
	default:
		return nil
	}

	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     eventType,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"reference":      txn.Reference,
			"debit_total":    txn.DebitTotal().String(),
			"credit_total":   txn.CreditTotal().String(),
			"account_codes":  txn.AccountCodes(),
		},
		CreatedAt: now,
		Published: false,
	}
}

func (uc *TransactionUseCase) invalidateBalances(ctx context.Context, txn *domain.Transaction) {
	if uc.cache == nil {
		return
	}

	for _, code := range txn.AccountCodes() {
		_ = uc.cache.Delete(ctx, balanceCacheKey(code))
	}
}

// checkAccounts verifies every account referenced by the entry set exists
// and is active. Deactivated accounts keep their history but stop
// accepting new entries.
func (uc *TransactionUseCase) checkAccounts(ctx context.Context, txn *domain.Transaction) error {
	for _, code := range txn.AccountCodes() {
		account, err := uc.accountRepo.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return fmt.Errorf("%w: account %q does not exist", domain.ErrInvalidEntryAccount, code)
			}

			return err
		}

		if !account.Active {
			return fmt.Errorf("%w: account %q", domain.ErrAccountInactive, code)
		}
	}

	return nil
}

func (uc *TransactionUseCase) buildEntries(transactionID string, inputs []EntryInput) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0, len(inputs))

	for _, in := range inputs {
		entry := &domain.Entry{
			ID:            uc.idGen.Generate(),
			TransactionID: transactionID,
			AccountCode:   in.AccountCode,
			Type:          in.Type,
			Amount:        in.Amount,
			Description:   in.Description,
		}

		if err := entry.Validate(); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (uc *TransactionUseCase) audit(ctx context.Context, action domain.AuditAction, resourceID string, before, after domain.JSON) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actorID(ctx),
		Action:       string(action),
		ResourceType: domain.AggregateTypeTransaction,
		ResourceID:   resourceID,
		BeforeState:  before,
		AfterState:   after,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}
