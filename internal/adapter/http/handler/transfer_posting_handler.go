package handler

import (
	"context"
	"net/http"

	"github.com/iho/agentledger/internal/adapter/http/dto"
	"github.com/iho/agentledger/internal/usecase"
)

// TransferPostingService defines the behavior needed by TransferPostingHandler.
type TransferPostingService interface {
	PostTransferCompletion(ctx context.Context, input usecase.TransferCompletionInput) (*usecase.TransferPosting, error)
}

// TransferPostingHandler posts completed transfers to the journal.
type TransferPostingHandler struct {
	postingUC TransferPostingService
}

// NewTransferPostingHandler creates a new TransferPostingHandler.
func NewTransferPostingHandler(postingUC TransferPostingService) *TransferPostingHandler {
	return &TransferPostingHandler{postingUC: postingUC}
}

// Create posts the entry for one completed transfer.
func (h *TransferPostingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferPostingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	posting, err := h.postingUC.PostTransferCompletion(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to post transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferPostingFromDomain(posting))
}
