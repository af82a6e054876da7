package domain

import "time"

// Event types
const (
	EventTypeEntryPosted        = "entry.posted"
	EventTypeEntryCancelled     = "entry.cancelled"
	EventTypeRevaluationCreated = "revaluation.created"
	EventTypeAccountCreated     = "account.created"
	EventTypeAccountDeleted     = "account.deleted"
	EventTypeBulletinReplaced   = "bulletin.replaced"
)

// Event is a best-effort notification emitted after a commit.
type Event struct {
	ID          string
	Type        string
	AggregateID string
	Payload     any
	OccurredAt  time.Time
}

// EntryPostedEvent payload
type EntryPostedEvent struct {
	EntryNumber int64  `json:"entry_number"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
	Lines       int    `json:"lines"`
	ReversalOf  *int64 `json:"reversal_of,omitempty"`
}

// EntryCancelledEvent payload
type EntryCancelledEvent struct {
	EntryNumber    int64 `json:"entry_number"`
	ReversalNumber int64 `json:"reversal_number"`
}

// RevaluationCreatedEvent payload
type RevaluationCreatedEvent struct {
	RevaluationID    string `json:"revaluation_id"`
	AccountCode      string `json:"account_code"`
	Direction        string `json:"direction"`
	Amount           string `json:"amount"`
	EquivalentAmount string `json:"equivalent_amount"`
	EntryNumber      int64  `json:"entry_number"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// AccountDeletedEvent payload
type AccountDeletedEvent struct {
	Code string `json:"code"`
}

// BulletinReplacedEvent payload
type BulletinReplacedEvent struct {
	BulletinID string `json:"bulletin_id"`
	AgentID    string `json:"agent_id"`
	Currency   string `json:"currency"`
	Date       string `json:"date"`
	Tiers      int    `json:"tiers"`
}
