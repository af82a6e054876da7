package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/agentledger/internal/adapter/http/dto"
	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// JournalService defines the behavior needed by JournalHandler.
type JournalService interface {
	PostEntry(ctx context.Context, input usecase.PostEntryInput) (*domain.JournalEntry, error)
	GetEntry(ctx context.Context, number int64) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.JournalEntry, error)
	CancelEntry(ctx context.Context, input usecase.CancelEntryInput) (*domain.JournalEntry, error)
}

// JournalHandler handles journal entry requests.
type JournalHandler struct {
	journalUC JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalUC JournalService) *JournalHandler {
	return &JournalHandler{journalUC: journalUC}
}

// Post posts a balanced journal entry.
func (h *JournalHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.journalUC.PostEntry(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to post entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get retrieves an entry by number.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	number, ok := entryNumber(w, r)
	if !ok {
		return
	}

	entry, err := h.journalUC.GetEntry(r.Context(), number)
	if err != nil {
		writeDomainError(w, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List lists entries within an optional date window.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	entries, err := h.journalUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		StartDate: start,
		EndDate:   end,
		Limit:     parseIntQuery(r, "limit", 100),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Cancel posts the inverse of an entry and returns the reversal.
func (h *JournalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	number, ok := entryNumber(w, r)
	if !ok {
		return
	}

	reversal, err := h.journalUC.CancelEntry(r.Context(), usecase.CancelEntryInput{
		Number:    number,
		CreatedBy: r.URL.Query().Get("created_by"),
	})
	if err != nil {
		writeDomainError(w, "failed to cancel entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(reversal))
}

func entryNumber(w http.ResponseWriter, r *http.Request) (int64, bool) {
	number, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "invalid entry number", chi.URLParam(r, "id"))
		return 0, false
	}
	return number, true
}
