package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

type transactionServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	replaceFn func(ctx context.Context, reference string, entries []usecase.EntryInput) (*domain.Transaction, error)
	submitFn  func(ctx context.Context, reference string) (*domain.Transaction, error)
	postFn    func(ctx context.Context, reference string) (*domain.Transaction, error)
	cancelFn  func(ctx context.Context, reference string) (*domain.Transaction, error)
	getFn     func(ctx context.Context, reference string) (*domain.Transaction, error)
	listFn    func(ctx context.Context, filter usecase.ListTransactionsFilter) ([]*domain.Transaction, error)
}

func (s *transactionServiceStub) CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
	return s.createFn(ctx, input)
}

func (s *transactionServiceStub) ReplaceEntries(ctx context.Context, reference string, entries []usecase.EntryInput) (*domain.Transaction, error) {
	return s.replaceFn(ctx, reference, entries)
}

func (s *transactionServiceStub) SubmitForPosting(ctx context.Context, reference string) (*domain.Transaction, error) {
	return s.submitFn(ctx, reference)
}

func (s *transactionServiceStub) PostTransaction(ctx context.Context, reference string) (*domain.Transaction, error) {
	return s.postFn(ctx, reference)
}

func (s *transactionServiceStub) CancelTransaction(ctx context.Context, reference string) (*domain.Transaction, error) {
	return s.cancelFn(ctx, reference)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, reference string) (*domain.Transaction, error) {
	return s.getFn(ctx, reference)
}

func (s *transactionServiceStub) ListTransactions(ctx context.Context, filter usecase.ListTransactionsFilter) ([]*domain.Transaction, error) {
	return s.listFn(ctx, filter)
}

func draftTransaction(reference string) *domain.Transaction {
	return &domain.Transaction{
		ID:        "txn-1",
		Reference: reference,
		Date:      time.Now().UTC(),
		Status:    domain.StatusDraft,
		Entries: []*domain.Entry{
			{ID: "e-1", AccountCode: "1000", Type: domain.EntryTypeDebit, Amount: decimal.RequireFromString("10.00")},
			{ID: "e-2", AccountCode: "4000", Type: domain.EntryTypeCredit, Amount: decimal.RequireFromString("10.00")},
		},
	}
}

func TestTransactionHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateTransactionInput
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			captured = input
			return draftTransaction(input.Reference), nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		Reference: "TXN-001",
		Date:      time.Now().UTC(),
		Entries: []dto.EntryRequest{
			{AccountCode: "1000", Type: "debit", Amount: decimal.RequireFromString("10.00")},
			{AccountCode: "4000", Type: "credit", Amount: decimal.RequireFromString("10.00")},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Reference != "TXN-001" || len(captured.Entries) != 2 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "draft" {
		t.Fatalf("expected draft status, got %s", resp.Status)
	}
	if !resp.DebitTotal.Equal(resp.CreditTotal) {
		t.Fatalf("expected matching totals, got %s/%s", resp.DebitTotal, resp.CreditTotal)
	}
}

func TestTransactionHandler_Create_MissingReference(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			t.Fatal("CreateTransaction should not be called for invalid payload")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{Date: time.Now().UTC()})
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Post_Unbalanced(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		postFn: func(ctx context.Context, reference string) (*domain.Transaction, error) {
			return nil, &domain.UnbalancedError{
				Reference:   reference,
				DebitTotal:  decimal.RequireFromString("100.00"),
				CreditTotal: decimal.RequireFromString("99.99"),
				Reason:      "debit and credit totals differ",
			}
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions/TXN-001/post", nil)
	req = setChiURLParam(req, "reference", "TXN-001")
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTransactionHandler_Post_InvalidState(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		postFn: func(ctx context.Context, reference string) (*domain.Transaction, error) {
			return nil, &domain.InvalidTransitionError{
				Reference: reference,
				From:      domain.StatusPosted,
				To:        domain.StatusPosted,
			}
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions/TXN-001/post", nil)
	req = setChiURLParam(req, "reference", "TXN-001")
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestTransactionHandler_Submit(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		submitFn: func(ctx context.Context, reference string) (*domain.Transaction, error) {
			txn := draftTransaction(reference)
			txn.Status = domain.StatusPending
			return txn, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions/TXN-001/submit", nil)
	req = setChiURLParam(req, "reference", "TXN-001")
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "pending" {
		t.Fatalf("expected pending, got %s", resp.Status)
	}
}

func TestTransactionHandler_Cancel_NotFound(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		cancelFn: func(ctx context.Context, reference string) (*domain.Transaction, error) {
			return nil, domain.ErrTransactionNotFound
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions/TXN-404/cancel", nil)
	req = setChiURLParam(req, "reference", "TXN-404")
	rec := httptest.NewRecorder()

	handler.Cancel(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransactionHandler_ReplaceEntries_Frozen(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		replaceFn: func(ctx context.Context, reference string, entries []usecase.EntryInput) (*domain.Transaction, error) {
			return nil, domain.ErrInvalidState
		},
	})

	body, _ := json.Marshal(dto.ReplaceEntriesRequest{
		Entries: []dto.EntryRequest{
			{AccountCode: "1000", Type: "debit", Amount: decimal.RequireFromString("10.00")},
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/transactions/TXN-001/entries", bytes.NewReader(body))
	req = setChiURLParam(req, "reference", "TXN-001")
	rec := httptest.NewRecorder()

	handler.ReplaceEntries(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestTransactionHandler_List_StatusFilter(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, filter usecase.ListTransactionsFilter) ([]*domain.Transaction, error) {
			if filter.Status == nil || *filter.Status != domain.StatusPosted {
				t.Fatalf("expected posted filter, got %+v", filter)
			}
			return []*domain.Transaction{draftTransaction("TXN-001")}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/transactions?status=posted", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
