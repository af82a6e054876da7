package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/agentledger/internal/adapter/http/dto"
	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	TrialBalance(ctx context.Context, input usecase.TrialBalanceInput) (*domain.TrialBalance, error)
	AccountLedger(ctx context.Context, input usecase.AccountLedgerInput) (*domain.AccountLedger, error)
}

// ConsistencyChecker produces a reconciliation report.
type ConsistencyChecker interface {
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReportHandler serves ledger reports.
type ReportHandler struct {
	reportUC      ReportService
	consistencyUC ConsistencyChecker
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService, consistencyUC ConsistencyChecker) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, consistencyUC: consistencyUC}
}

// TrialBalance aggregates entries of one currency per account.
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	tb, err := h.reportUC.TrialBalance(r.Context(), usecase.TrialBalanceInput{
		Currency:  r.URL.Query().Get("currency"),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeDomainError(w, "failed to build trial balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromDomain(tb))
}

// Ledger lists the lines of one account currency with a running balance.
func (h *ReportHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	ledger, err := h.reportUC.AccountLedger(r.Context(), usecase.AccountLedgerInput{
		AccountCode: chi.URLParam(r, "code"),
		Currency:    r.URL.Query().Get("currency"),
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		writeDomainError(w, "failed to build account ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountLedgerFromDomain(ledger))
}

// Consistency replays balances from the journal. An unhealthy ledger is
// reported with 409.
func (h *ReportHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.consistencyUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusConflict
	}
	writeJSON(w, status, dto.ConsistencyFromReport(report))
}
