package handler

import (
	"context"
	"net/http"

	"github.com/iho/agentledger/internal/adapter/http/dto"
	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// RevaluationService defines the behavior needed by RevaluationHandler.
type RevaluationService interface {
	Revalue(ctx context.Context, input usecase.RevalueInput) (*domain.CurrencyRevaluation, error)
	List(ctx context.Context, input usecase.ListRevaluationsInput) ([]*domain.CurrencyRevaluation, error)
}

// RevaluationHandler handles currency revaluation requests.
type RevaluationHandler struct {
	revaluationUC RevaluationService
}

// NewRevaluationHandler creates a new RevaluationHandler.
func NewRevaluationHandler(revaluationUC RevaluationService) *RevaluationHandler {
	return &RevaluationHandler{revaluationUC: revaluationUC}
}

// Create converts an amount on one account and posts the paired entry.
func (h *RevaluationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RevaluationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	revaluation, err := h.revaluationUC.Revalue(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to revalue", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RevaluationFromDomain(revaluation))
}

// List lists revaluations, newest first.
func (h *RevaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	revaluations, err := h.revaluationUC.List(r.Context(), usecase.ListRevaluationsInput{
		AccountCode: r.URL.Query().Get("account_code"),
		Limit:       parseIntQuery(r, "limit", 100),
		Offset:      parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list revaluations", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RevaluationsFromDomain(revaluations))
}
