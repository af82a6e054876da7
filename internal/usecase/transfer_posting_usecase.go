package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
)

// ErrTransferIDRequired is returned when a completion has no transfer id.
var ErrTransferIDRequired = errors.New("transfer id is required")

// TransferSourceRef is the journal source reference of a transfer completion.
func TransferSourceRef(transferID string) string {
	return "transfer:" + transferID
}

// TransferPostingUseCase books completed transfers into the journal.
type TransferPostingUseCase struct {
	journal               *JournalUseCase
	commission            *CommissionUseCase
	commissionAccountCode string
	logger                zerolog.Logger
}

// NewTransferPostingUseCase creates a new TransferPostingUseCase.
func NewTransferPostingUseCase(
	journal *JournalUseCase,
	commission *CommissionUseCase,
	commissionAccountCode string,
	logger zerolog.Logger,
) *TransferPostingUseCase {
	return &TransferPostingUseCase{
		journal:               journal,
		commission:            commission,
		commissionAccountCode: commissionAccountCode,
		logger:                logger.With().Str("component", "transfer_posting").Logger(),
	}
}

// TransferCompletionInput describes a completed transfer to book.
type TransferCompletionInput struct {
	TransferID      string
	Amount          decimal.Decimal
	Currency        string
	FromAgentID     string
	ToAgentID       string
	ToGovernorate   string
	Country         string
	FromAccountCode string
	ToAccountCode   string
	AsOf            *time.Time
	CreatedBy       string
}

// TransferPosting is the booked entry and the commission it carried.
type TransferPosting struct {
	Entry      *domain.JournalEntry
	Commission domain.Resolution
}

// PostTransferCompletion resolves the sender's outgoing commission, falling
// back to zero when no rate applies, and posts one balanced entry. A transfer
// is booked at most once; a repeat fails with domain.ErrDuplicateSourceRef.
func (uc *TransferPostingUseCase) PostTransferCompletion(ctx context.Context, input TransferCompletionInput) (*TransferPosting, error) {
	transferID := strings.TrimSpace(input.TransferID)
	if transferID == "" {
		return nil, ErrTransferIDRequired
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	resolution, err := uc.commission.Preview(ctx, ResolveInput{
		AgentID:   input.FromAgentID,
		Currency:  input.Currency,
		Amount:    input.Amount,
		Direction: string(domain.DirectionOutgoing),
		City:      input.ToGovernorate,
		Country:   input.Country,
		AsOf:      input.AsOf,
	})
	if err != nil {
		return nil, err
	}
	if !resolution.Resolved {
		uc.logger.Warn().
			Str("transfer_id", transferID).
			Str("agent_id", input.FromAgentID).
			Msg(resolution.Warning())
	}

	fee := resolution.Commission.Amount
	lines := []LineInput{
		{AccountCode: input.FromAccountCode, Currency: input.Currency, Debit: input.Amount.Add(fee)},
		{AccountCode: input.ToAccountCode, Currency: input.Currency, Credit: input.Amount},
	}
	if fee.IsPositive() {
		lines = append(lines, LineInput{AccountCode: uc.commissionAccountCode, Currency: input.Currency, Credit: fee})
	}

	entry, err := uc.journal.PostEntry(ctx, PostEntryInput{
		Date:        input.AsOf,
		Description: fmt.Sprintf("Transfer %s from %s to %s", transferID, input.FromAgentID, input.ToAgentID),
		CreatedBy:   input.CreatedBy,
		Currency:    input.Currency,
		Lines:       lines,
		SourceRef:   TransferSourceRef(transferID),
	})
	if err != nil {
		return nil, err
	}

	return &TransferPosting{Entry: entry, Commission: resolution}, nil
}
