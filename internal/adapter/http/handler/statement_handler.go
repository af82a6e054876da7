package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/agentledger/internal/adapter/http/dto"
	"github.com/iho/agentledger/internal/domain"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	AgentStatement(ctx context.Context, agentID, currency string) (*domain.Statement, error)
}

// StatementHandler serves agent statements.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Get reconstructs the running balance of an agent's transfers in the
// currency given by the optional currency query parameter.
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "id")
	if agentID == "" {
		writeError(w, http.StatusBadRequest, "missing agent ID", "")
		return
	}

	statement, err := h.statementUC.AgentStatement(r.Context(), agentID, r.URL.Query().Get("currency"))
	if err != nil {
		writeDomainError(w, "failed to build statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))
}
