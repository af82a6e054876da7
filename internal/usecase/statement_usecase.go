package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/iho/agentledger/internal/domain"
)

// ErrAgentRequired is returned when a statement is requested without an agent.
var ErrAgentRequired = errors.New("agent id is required")

// StatementUseCase builds agent statements from transfer history.
type StatementUseCase struct {
	transfers       TransferReader
	defaultCurrency string
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(transfers TransferReader, defaultCurrency string) *StatementUseCase {
	return &StatementUseCase{transfers: transfers, defaultCurrency: defaultCurrency}
}

// AgentStatement replays the agent's transfers in one currency into a
// running-balance statement. An empty currency selects the default one.
func (uc *StatementUseCase) AgentStatement(ctx context.Context, agentID, currency string) (*domain.Statement, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return nil, ErrAgentRequired
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = uc.defaultCurrency
	}

	transfers, err := uc.transfers.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	transfers = domain.FilterCurrency(transfers, currency)
	lines := domain.Reconstruct(agentID, domain.ExpandCancellations(agentID, transfers))

	return &domain.Statement{
		AgentID:         agentID,
		Currency:        currency,
		Lines:           lines,
		StatementTotals: domain.SummarizeStatement(lines),
	}, nil
}
