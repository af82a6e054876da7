package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/adapter/http/dto"
	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// CommissionService defines the behavior needed by CommissionHandler.
type CommissionService interface {
	ReplaceBulletin(ctx context.Context, input usecase.ReplaceBulletinInput) (*domain.Bulletin, error)
	LatestBulletin(ctx context.Context, agentID, currency string, asOf time.Time) (*domain.Bulletin, error)
	Preview(ctx context.Context, input usecase.ResolveInput) (domain.Resolution, error)
}

// CommissionHandler handles commission bulletin requests.
type CommissionHandler struct {
	commissionUC CommissionService
}

// NewCommissionHandler creates a new CommissionHandler.
func NewCommissionHandler(commissionUC CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionUC: commissionUC}
}

// ReplaceBulletin stores a bulletin, replacing any with the same agent,
// currency and date.
func (h *CommissionHandler) ReplaceBulletin(w http.ResponseWriter, r *http.Request) {
	var req dto.ReplaceBulletinRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bulletin_date", err.Error())
		return
	}

	bulletin, err := h.commissionUC.ReplaceBulletin(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to replace bulletin", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BulletinFromDomain(bulletin))
}

// Latest returns the bulletin in force at as_of, now by default.
func (h *CommissionHandler) Latest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("agent_id") == "" || q.Get("currency") == "" {
		writeError(w, http.StatusBadRequest, "agent_id and currency are required", "")
		return
	}

	asOf, err := parseTimeQuery(r, "as_of", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of", err.Error())
		return
	}
	at := time.Now().UTC()
	if asOf != nil {
		at = *asOf
	}

	bulletin, err := h.commissionUC.LatestBulletin(r.Context(), q.Get("agent_id"), q.Get("currency"), at)
	if err != nil {
		writeDomainError(w, "failed to find bulletin", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BulletinFromDomain(bulletin))
}

// AgentIDHeader carries the calling agent when the session layer in front of
// the API has already identified it.
const AgentIDHeader = "X-Agent-ID"

// Preview resolves the commission for a prospective transfer. A missing
// bulletin or tier, or an unknown caller, is reported as unresolved with a
// zero commission.
func (h *CommissionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("currency") == "" {
		writeError(w, http.StatusBadRequest, "currency is required", "")
		return
	}

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	asOf, err := parseTimeQuery(r, "as_of", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of", err.Error())
		return
	}

	direction := q.Get("direction")
	if direction == "" {
		direction = string(domain.DirectionOutgoing)
	}

	agentID := q.Get("agent_id")
	if agentID == "" {
		agentID = r.Header.Get(AgentIDHeader)
	}
	if agentID == "" {
		writeJSON(w, http.StatusOK, dto.CommissionFromDomain(domain.UnresolvedCommission(usecase.ErrAgentRequired)))
		return
	}

	city := q.Get("to_governorate")
	if city == "" {
		city = q.Get("city")
	}

	resolution, err := h.commissionUC.Preview(r.Context(), usecase.ResolveInput{
		AgentID:   agentID,
		Currency:  q.Get("currency"),
		Amount:    amount,
		Direction: direction,
		City:      city,
		Country:   q.Get("country"),
		AsOf:      asOf,
	})
	if err != nil {
		writeDomainError(w, "failed to preview commission", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CommissionFromDomain(resolution))
}
