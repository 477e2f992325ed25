package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	ReplaceEntries(ctx context.Context, reference string, entries []usecase.EntryInput) (*domain.Transaction, error)
	SubmitForPosting(ctx context.Context, reference string) (*domain.Transaction, error)
	PostTransaction(ctx context.Context, reference string) (*domain.Transaction, error)
	CancelTransaction(ctx context.Context, reference string) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, reference string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter usecase.ListTransactionsFilter) ([]*domain.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Create creates a transaction in draft state.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	txn, err := h.transactionUC.CreateTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transaction by reference.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		writeError(w, http.StatusBadRequest, "missing transaction reference", "")
		return
	}

	txn, err := h.transactionUC.GetTransaction(r.Context(), reference)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// List lists transactions, optionally filtered by status.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.ListTransactionsFilter{
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.TransactionStatus(status)
		filter.Status = &s
	}

	txns, err := h.transactionUC.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        int64(len(txns)),
	})
}

// ReplaceEntries swaps the entry set of a draft or pending transaction.
func (h *TransactionHandler) ReplaceEntries(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	var req dto.ReplaceEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	txn, err := h.transactionUC.ReplaceEntries(r.Context(), reference, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to replace entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Submit moves a draft transaction to pending.
func (h *TransactionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.transactionUC.SubmitForPosting, "failed to submit transaction")
}

// Post finalizes a pending transaction. After this the transaction is
// immutable and its entries count toward balances.
func (h *TransactionHandler) Post(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.transactionUC.PostTransaction, "failed to post transaction")
}

// Cancel moves a draft or pending transaction to cancelled.
func (h *TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.transactionUC.CancelTransaction, "failed to cancel transaction")
}

func (h *TransactionHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, reference string) (*domain.Transaction, error),
	message string,
) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		writeError(w, http.StatusBadRequest, "missing transaction reference", "")
		return
	}

	txn, err := op(r.Context(), reference)
	if err != nil {
		writeError(w, mapDomainError(err), message, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}
