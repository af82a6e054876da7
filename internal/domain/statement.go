package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is owned by the transfer service; the ledger only reads it.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// Transfer is a cash transfer between two agents.
type Transfer struct {
	ID                   string
	Amount               decimal.Decimal
	Currency             string
	FromAgentID          string
	ToAgentID            string
	ToGovernorate        string
	Status               TransferStatus
	CommissionPercentage decimal.Decimal
	CommissionAmount     decimal.Decimal
	CreatedAt            time.Time
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	IsReversal           bool
}

// EffectiveAt is the statement position of the transfer. Reversals sit at their cancellation time.
func (t Transfer) EffectiveAt() time.Time {
	if t.IsReversal && t.CancelledAt != nil {
		return *t.CancelledAt
	}
	return t.CreatedAt
}

// MovementKind classifies a statement row from the agent's point of view.
type MovementKind string

const (
	MovementOutgoing MovementKind = "outgoing"
	MovementIncoming MovementKind = "incoming"
	MovementReversal MovementKind = "reversal"
)

// Classify tells how t moves the agent's balance.
func (t Transfer) Classify(agentID string) MovementKind {
	switch {
	case t.IsReversal:
		return MovementReversal
	case t.FromAgentID == agentID:
		return MovementOutgoing
	default:
		return MovementIncoming
	}
}

// StatementLine is a transfer annotated with the running balance after it.
type StatementLine struct {
	Transfer Transfer
	Kind     MovementKind
	Balance  decimal.Decimal
}

// ExpandCancellations turns every cancelled transfer the agent sent after it
// had completed into the original completed movement plus a reversal at its
// cancellation time. A transfer cancelled while still pending never moved
// funds and is left as is, as are cancelled transfers received by the agent.
func ExpandCancellations(agentID string, transfers []Transfer) []Transfer {
	out := make([]Transfer, 0, len(transfers))
	for _, t := range transfers {
		if t.Status != TransferCancelled || t.IsReversal || t.CancelledAt == nil || t.CompletedAt == nil || t.FromAgentID != agentID {
			out = append(out, t)
			continue
		}

		original := t
		original.Status = TransferCompleted
		original.CancelledAt = nil

		reversal := t
		reversal.ID = t.ID + "-reversal"
		reversal.IsReversal = true

		out = append(out, original, reversal)
	}
	return out
}

// FilterCurrency keeps the transfers made in currency.
func FilterCurrency(transfers []Transfer, currency string) []Transfer {
	out := make([]Transfer, 0, len(transfers))
	for _, t := range transfers {
		if t.Currency == currency {
			out = append(out, t)
		}
	}
	return out
}

// Reconstruct replays the agent's completed and reversal transfers in
// chronological order starting from a zero balance.
func Reconstruct(agentID string, transfers []Transfer) []StatementLine {
	rows := make([]Transfer, 0, len(transfers))
	for _, t := range transfers {
		if t.Status == TransferCompleted || t.IsReversal {
			rows = append(rows, t)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].EffectiveAt().Before(rows[j].EffectiveAt())
	})

	balance := decimal.Zero
	lines := make([]StatementLine, 0, len(rows))
	for _, t := range rows {
		kind := t.Classify(agentID)
		if kind == MovementOutgoing {
			balance = balance.Sub(t.Amount)
		} else {
			balance = balance.Add(t.Amount)
		}
		lines = append(lines, StatementLine{Transfer: t, Kind: kind, Balance: balance})
	}
	return lines
}

// StatementTotals are summed independently of the running balance.
type StatementTotals struct {
	TotalSent          decimal.Decimal
	TotalReceived      decimal.Decimal
	TotalSentCount     int
	TotalReceivedCount int
}

// Net returns received minus sent.
func (s StatementTotals) Net() decimal.Decimal {
	return s.TotalReceived.Sub(s.TotalSent)
}

// SummarizeStatement totals the rows of a reconstructed statement.
// Reversals count as received funds.
func SummarizeStatement(lines []StatementLine) StatementTotals {
	totals := StatementTotals{TotalSent: decimal.Zero, TotalReceived: decimal.Zero}
	for _, l := range lines {
		if l.Kind == MovementOutgoing {
			totals.TotalSent = totals.TotalSent.Add(l.Transfer.Amount)
			totals.TotalSentCount++
			continue
		}
		totals.TotalReceived = totals.TotalReceived.Add(l.Transfer.Amount)
		totals.TotalReceivedCount++
	}
	return totals
}

// Statement is the printable view of an agent's transfer history in one currency.
type Statement struct {
	AgentID  string
	Currency string
	Lines    []StatementLine
	StatementTotals
}

// Balance is the running balance after the last row.
func (s *Statement) Balance() decimal.Decimal {
	if len(s.Lines) == 0 {
		return decimal.Zero
	}
	return s.Lines[len(s.Lines)-1].Balance
}
