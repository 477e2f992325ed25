package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
	"github.com/iho/bookkeeper/internal/usecase/mocks"
)

type transactionFixture struct {
	uc       *usecase.TransactionUseCase
	accounts *mocks.MockAccountRepository
	txns     *mocks.MockTransactionRepository
	outbox   *mocks.MockOutboxRepository
	audit    *mocks.MockAuditRepository
	cache    *mocks.MockCache
}

func newTransactionFixture(t *testing.T) *transactionFixture {
	t.Helper()

	f := &transactionFixture{
		accounts: mocks.NewMockAccountRepository(),
		txns:     mocks.NewMockTransactionRepository(),
		outbox:   mocks.NewMockOutboxRepository(),
		audit:    mocks.NewMockAuditRepository(),
		cache:    mocks.NewMockCache(),
	}

	f.uc = usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		f.txns,
		f.accounts,
		f.outbox,
		f.audit,
		f.cache,
		mocks.NewMockIDGenerator(),
		nil,
	)

	for _, acc := range []*domain.Account{
		{Code: "1000", Name: "Cash", Type: domain.AccountTypeAsset, Active: true},
		{Code: "4000", Name: "Sales", Type: domain.AccountTypeRevenue, Active: true},
		{Code: "5000", Name: "Rent", Type: domain.AccountTypeExpense, Active: true},
		{Code: "1900", Name: "Old Bank", Type: domain.AccountTypeAsset, Active: false},
	} {
		if err := f.accounts.Create(context.Background(), acc); err != nil {
			t.Fatalf("seed account %s: %v", acc.Code, err)
		}
	}

	return f
}

func balancedEntries(amount string) []usecase.EntryInput {
	return []usecase.EntryInput{
		{AccountCode: "1000", Type: domain.EntryTypeDebit, Amount: decimal.RequireFromString(amount)},
		{AccountCode: "4000", Type: domain.EntryTypeCredit, Amount: decimal.RequireFromString(amount)},
	}
}

func (f *transactionFixture) mustCreate(t *testing.T, reference string, entries []usecase.EntryInput) *domain.Transaction {
	t.Helper()

	txn, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		Reference: reference,
		Date:      time.Now().UTC(),
		Entries:   entries,
	})
	if err != nil {
		t.Fatalf("create %s: %v", reference, err)
	}

	return txn
}

func (f *transactionFixture) mustSubmit(t *testing.T, reference string) {
	t.Helper()

	if _, err := f.uc.SubmitForPosting(context.Background(), reference); err != nil {
		t.Fatalf("submit %s: %v", reference, err)
	}
}

func TestTransactionUseCase_CreateTransaction(t *testing.T) {
	tests := []struct {
		name        string
		reference   string
		entries     []usecase.EntryInput
		expectError error
	}{
		{
			name:      "balanced draft",
			reference: "TXN-001",
			entries:   balancedEntries("150.00"),
		},
		{
			name:      "unbalanced draft is allowed",
			reference: "TXN-002",
			entries: []usecase.EntryInput{
				{AccountCode: "1000", Type: domain.EntryTypeDebit, Amount: decimal.RequireFromString("150.00")},
			},
		},
		{
			name:      "empty draft is allowed",
			reference: "TXN-003",
		},
		{
			name:        "empty reference",
			reference:   "",
			entries:     balancedEntries("10.00"),
			expectError: domain.ErrInvalidReference,
		},
		{
			name:      "zero amount entry",
			reference: "TXN-004",
			entries: []usecase.EntryInput{
				{AccountCode: "1000", Type: domain.EntryTypeDebit, Amount: decimal.Zero},
				{AccountCode: "4000", Type: domain.EntryTypeCredit, Amount: decimal.Zero},
			},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:      "unknown account",
			reference: "TXN-005",
			entries: []usecase.EntryInput{
				{AccountCode: "1000", Type: domain.EntryTypeDebit, Amount: decimal.RequireFromString("10.00")},
				{AccountCode: "8888", Type: domain.EntryTypeCredit, Amount: decimal.RequireFromString("10.00")},
			},
			expectError: domain.ErrInvalidEntryAccount,
		},
		{
			name:      "inactive account",
			reference: "TXN-006",
			entries: []usecase.EntryInput{
				{AccountCode: "1900", Type: domain.EntryTypeDebit, Amount: decimal.RequireFromString("10.00")},
				{AccountCode: "4000", Type: domain.EntryTypeCredit, Amount: decimal.RequireFromString("10.00")},
			},
			expectError: domain.ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransactionFixture(t)

			txn, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
				Reference: tt.reference,
				Date:      time.Now().UTC(),
				Entries:   tt.entries,
			})

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if txn.Status != domain.StatusDraft {
				t.Errorf("new transactions start as draft, got %s", txn.Status)
			}

			if len(txn.Entries) != len(tt.entries) {
				t.Errorf("expected %d entries, got %d", len(tt.entries), len(txn.Entries))
			}

			if events := f.outbox.Events(); len(events) != 0 {
				t.Errorf("draft creation must not emit events, got %d", len(events))
			}
		})
	}
}

func TestTransactionUseCase_CreateTransaction_DuplicateReference(t *testing.T) {
	f := newTransactionFixture(t)

	f.mustCreate(t, "TXN-001", balancedEntries("10.00"))

	_, err := f.uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		Reference: "TXN-001",
		Date:      time.Now().UTC(),
	})
	if !errors.Is(err, domain.ErrDuplicateReference) {
		t.Fatalf("expected ErrDuplicateReference, got %v", err)
	}
}

func TestTransactionUseCase_ReplaceEntries(t *testing.T) {
	t.Run("draft entries are replaceable", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", balancedEntries("10.00"))

		txn, err := f.uc.ReplaceEntries(context.Background(), "TXN-001", balancedEntries("75.50"))
		if err != nil {
			t.Fatalf("replace: %v", err)
		}

		if !txn.DebitTotal().Equal(decimal.RequireFromString("75.50")) {
			t.Errorf("debit total = %s, want 75.50", txn.DebitTotal())
		}

		stored, err := f.uc.GetTransaction(context.Background(), "TXN-001")
		if err != nil {
			t.Fatalf("get: %v", err)
		}

		if len(stored.Entries) != 2 || !stored.DebitTotal().Equal(decimal.RequireFromString("75.50")) {
			t.Errorf("replacement was not persisted atomically: %d entries, debit %s", len(stored.Entries), stored.DebitTotal())
		}
	})

	t.Run("pending entries are replaceable", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", balancedEntries("10.00"))
		f.mustSubmit(t, "TXN-001")

		if _, err := f.uc.ReplaceEntries(context.Background(), "TXN-001", balancedEntries("20.00")); err != nil {
			t.Fatalf("replace: %v", err)
		}
	})

	t.Run("replacement is audited with before and after state", func(t *testing.T) {
		f := newTransactionFixture(t)
		txn := f.mustCreate(t, "TXN-001", balancedEntries("10.00"))

		if _, err := f.uc.ReplaceEntries(context.Background(), "TXN-001", balancedEntries("75.50")); err != nil {
			t.Fatalf("replace: %v", err)
		}

		logs, err := f.audit.List(context.Background(), domain.AuditFilter{})
		if err != nil {
			t.Fatalf("audit list: %v", err)
		}

		var updates []*domain.AuditLog
		for _, l := range logs {
			if l.Action == string(domain.AuditActionTransactionUpdate) {
				updates = append(updates, l)
			}
		}

		if len(updates) != 1 {
			t.Fatalf("expected one update audit record, got %d", len(updates))
		}

		if updates[0].ResourceID != txn.ID {
			t.Errorf("audit resource = %s, want %s", updates[0].ResourceID, txn.ID)
		}

		if updates[0].BeforeState == nil || updates[0].AfterState == nil {
			t.Error("entry replacement must record before and after state")
		}
	})

	t.Run("posted entries are frozen", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", balancedEntries("10.00"))
		f.mustSubmit(t, "TXN-001")

		if _, err := f.uc.PostTransaction(context.Background(), "TXN-001"); err != nil {
			t.Fatalf("post: %v", err)
		}

		_, err := f.uc.ReplaceEntries(context.Background(), "TXN-001", balancedEntries("20.00"))
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})
}

func TestTransactionUseCase_SubmitForPosting(t *testing.T) {
	f := newTransactionFixture(t)
	f.mustCreate(t, "TXN-001", balancedEntries("10.00"))

	txn, err := f.uc.SubmitForPosting(context.Background(), "TXN-001")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if txn.Status != domain.StatusPending {
		t.Errorf("expected pending, got %s", txn.Status)
	}

	// Submitting again is not a legal transition.
	if _, err := f.uc.SubmitForPosting(context.Background(), "TXN-001"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState on second submit, got %v", err)
	}
}

func TestTransactionUseCase_PostTransaction(t *testing.T) {
	t.Run("balanced pending transaction posts", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", balancedEntries("100.00"))
		f.mustSubmit(t, "TXN-001")

		txn, err := f.uc.PostTransaction(context.Background(), "TXN-001")
		if err != nil {
			t.Fatalf("post: %v", err)
		}

		if txn.Status != domain.StatusPosted {
			t.Errorf("expected posted, got %s", txn.Status)
		}

		if txn.PostedBy == nil || txn.PostedAt == nil {
			t.Error("posting must record who and when")
		}

		events := f.outbox.Events()
		if len(events) != 1 || events[0].EventType != domain.EventTypeTransactionPosted {
			t.Fatalf("expected one transaction.posted event, got %+v", events)
		}
	})

	t.Run("unbalanced entries are rejected with totals", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", []usecase.EntryInput{
			{AccountCode: "1000", Type: domain.EntryTypeDebit, Amount: decimal.RequireFromString("100.00")},
			{AccountCode: "4000", Type: domain.EntryTypeCredit, Amount: decimal.RequireFromString("99.99")},
		})
		f.mustSubmit(t, "TXN-001")

		_, err := f.uc.PostTransaction(context.Background(), "TXN-001")
		if !errors.Is(err, domain.ErrUnbalanced) {
			t.Fatalf("expected ErrUnbalanced, got %v", err)
		}

		var unbalanced *domain.UnbalancedError
		if !errors.As(err, &unbalanced) {
			t.Fatalf("expected *UnbalancedError, got %T", err)
		}

		if !unbalanced.DebitTotal.Equal(decimal.RequireFromString("100.00")) ||
			!unbalanced.CreditTotal.Equal(decimal.RequireFromString("99.99")) {
			t.Errorf("error totals = %s/%s, want 100.00/99.99", unbalanced.DebitTotal, unbalanced.CreditTotal)
		}

		// The failed attempt must leave the transaction pending.
		stored, err := f.uc.GetTransaction(context.Background(), "TXN-001")
		if err != nil {
			t.Fatalf("get: %v", err)
		}

		if stored.Status != domain.StatusPending {
			t.Errorf("expected transaction to stay pending, got %s", stored.Status)
		}

		if events := f.outbox.Events(); len(events) != 0 {
			t.Errorf("rejected posting must not emit events, got %d", len(events))
		}
	})

	t.Run("draft cannot be posted directly", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", balancedEntries("10.00"))

		if _, err := f.uc.PostTransaction(context.Background(), "TXN-001"); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("single-sided entry set cannot post", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", []usecase.EntryInput{
			{AccountCode: "1000", Type: domain.EntryTypeDebit, Amount: decimal.RequireFromString("50.00")},
		})
		f.mustSubmit(t, "TXN-001")

		if _, err := f.uc.PostTransaction(context.Background(), "TXN-001"); !errors.Is(err, domain.ErrUnbalanced) {
			t.Fatalf("expected ErrUnbalanced, got %v", err)
		}
	})

	t.Run("posting invalidates cached balances", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", balancedEntries("100.00"))
		f.mustSubmit(t, "TXN-001")

		ctx := context.Background()
		_ = f.cache.Set(ctx, "balance:1000", "0", time.Minute)
		_ = f.cache.Set(ctx, "balance:4000", "0", time.Minute)
		_ = f.cache.Set(ctx, "balance:5000", "0", time.Minute)

		if _, err := f.uc.PostTransaction(ctx, "TXN-001"); err != nil {
			t.Fatalf("post: %v", err)
		}

		if f.cache.Has("balance:1000") || f.cache.Has("balance:4000") {
			t.Error("balances of touched accounts must be invalidated")
		}

		if !f.cache.Has("balance:5000") {
			t.Error("balances of untouched accounts must be kept")
		}
	})
}

func TestTransactionUseCase_CancelTransaction(t *testing.T) {
	t.Run("draft can be cancelled", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", balancedEntries("10.00"))

		txn, err := f.uc.CancelTransaction(context.Background(), "TXN-001")
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}

		if txn.Status != domain.StatusCancelled {
			t.Errorf("expected cancelled, got %s", txn.Status)
		}

		// Entries survive cancellation for audit.
		if len(txn.Entries) != 2 {
			t.Errorf("expected entries to be retained, got %d", len(txn.Entries))
		}
	})

	t.Run("pending can be cancelled", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", balancedEntries("10.00"))
		f.mustSubmit(t, "TXN-001")

		if _, err := f.uc.CancelTransaction(context.Background(), "TXN-001"); err != nil {
			t.Fatalf("cancel: %v", err)
		}
	})

	t.Run("posted cannot be cancelled", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", balancedEntries("10.00"))
		f.mustSubmit(t, "TXN-001")

		if _, err := f.uc.PostTransaction(context.Background(), "TXN-001"); err != nil {
			t.Fatalf("post: %v", err)
		}

		if _, err := f.uc.CancelTransaction(context.Background(), "TXN-001"); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})

	t.Run("cancelling twice fails the second time", func(t *testing.T) {
		f := newTransactionFixture(t)
		f.mustCreate(t, "TXN-001", balancedEntries("10.00"))

		if _, err := f.uc.CancelTransaction(context.Background(), "TXN-001"); err != nil {
			t.Fatalf("first cancel: %v", err)
		}

		if _, err := f.uc.CancelTransaction(context.Background(), "TXN-001"); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("expected ErrInvalidState, got %v", err)
		}
	})
}

func TestTransactionUseCase_ConcurrentPosting(t *testing.T) {
	const attempts = 8

	f := newTransactionFixture(t)
	f.mustCreate(t, "TXN-001", balancedEntries("500.00"))
	f.mustSubmit(t, "TXN-001")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		losers  []error
	)

	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			_, err := f.uc.PostTransaction(context.Background(), "TXN-001")

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
			} else {
				losers = append(losers, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if success != 1 {
		t.Fatalf("expected exactly one successful post, got %d", success)
	}

	for _, err := range losers {
		if !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("losing attempt must observe ErrInvalidState, got %v", err)
		}
	}

	if events := f.outbox.Events(); len(events) != 1 {
		t.Errorf("expected exactly one posted event, got %d", len(events))
	}
}

func TestTransactionUseCase_ListTransactions(t *testing.T) {
	f := newTransactionFixture(t)
	f.mustCreate(t, "TXN-001", balancedEntries("10.00"))
	f.mustCreate(t, "TXN-002", balancedEntries("20.00"))
	f.mustSubmit(t, "TXN-002")

	pending := domain.StatusPending
	txns, err := f.uc.ListTransactions(context.Background(), usecase.ListTransactionsFilter{Status: &pending})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(txns) != 1 || txns[0].Reference != "TXN-002" {
		t.Fatalf("expected only TXN-002 pending, got %+v", txns)
	}

	all, err := f.uc.ListTransactions(context.Background(), usecase.ListTransactionsFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(all))
	}
}
