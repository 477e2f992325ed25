package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Dashboard(ctx context.Context) (*usecase.DashboardMetrics, error)
	Summary(ctx context.Context) (*usecase.ChartSummary, error)
	CheckConsistency(ctx context.Context) (bool, error)
}

// LedgerHandler handles ledger-wide reporting requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Dashboard returns per-type totals, net income and recent activity.
func (h *LedgerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.ledgerUC.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute dashboard", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromUseCase(metrics))
}

// Summary describes the chart of accounts.
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledgerUC.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ChartSummaryFromUseCase(summary))
}

// Consistency verifies that every posted transaction balances.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	ok, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) {
			writeJSON(w, http.StatusOK, dto.ConsistencyResponse{
				Consistent: false,
				Detail:     err.Error(),
			})

			return
		}

		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{Consistent: ok})
}
