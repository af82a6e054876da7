package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name       string   `json:"name" validate:"required,max=255"`
	Category   string   `json:"category" validate:"required"`
	ParentCode string   `json:"parent_code,omitempty" validate:"omitempty,numeric"`
	Currencies []string `json:"currencies" validate:"required,min=1,dive,len=3"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:       r.Name,
		Category:   r.Category,
		ParentCode: r.ParentCode,
		Currencies: r.Currencies,
	}
}

// LineRequest is one journal line. Only one of debit and credit may be set.
type LineRequest struct {
	AccountCode string          `json:"account_code" validate:"required"`
	Currency    string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
}

// PostEntryRequest represents a request to post a journal entry.
type PostEntryRequest struct {
	Date        *time.Time    `json:"date,omitempty"`
	Description string        `json:"description" validate:"max=1000"`
	CreatedBy   string        `json:"created_by"`
	Currency    string        `json:"currency" validate:"required,len=3"`
	Lines       []LineRequest `json:"lines" validate:"required,min=2,dive"`
}

// ToUseCaseInput converts to use case input.
func (r *PostEntryRequest) ToUseCaseInput() usecase.PostEntryInput {
	lines := make([]usecase.LineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.LineInput{
			AccountCode: l.AccountCode,
			Currency:    l.Currency,
			Debit:       l.Debit,
			Credit:      l.Credit,
			BaseAmount:  l.BaseAmount,
		}
	}

	return usecase.PostEntryInput{
		Date:        r.Date,
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
		Currency:    r.Currency,
		Lines:       lines,
	}
}

// TransferPostingRequest posts the ledger side of a completed transfer.
type TransferPostingRequest struct {
	TransferID      string          `json:"transfer_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency" validate:"required,len=3"`
	FromAgentID     string          `json:"from_agent_id" validate:"required"`
	ToAgentID       string          `json:"to_agent_id" validate:"required"`
	ToGovernorate   string          `json:"to_governorate,omitempty"`
	Country         string          `json:"country,omitempty"`
	FromAccountCode string          `json:"from_account_code" validate:"required"`
	ToAccountCode   string          `json:"to_account_code" validate:"required,nefield=FromAccountCode"`
	AsOf            *time.Time      `json:"as_of,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferPostingRequest) ToUseCaseInput() usecase.TransferCompletionInput {
	return usecase.TransferCompletionInput{
		TransferID:      r.TransferID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		FromAgentID:     r.FromAgentID,
		ToAgentID:       r.ToAgentID,
		ToGovernorate:   r.ToGovernorate,
		Country:         r.Country,
		FromAccountCode: r.FromAccountCode,
		ToAccountCode:   r.ToAccountCode,
		AsOf:            r.AsOf,
		CreatedBy:       r.CreatedBy,
	}
}

// TierRequest is one commission tier. A missing to_amount is open ended.
type TierRequest struct {
	FromAmount   decimal.Decimal  `json:"from_amount" yaml:"from_amount"`
	ToAmount     *decimal.Decimal `json:"to_amount,omitempty" yaml:"to_amount,omitempty"`
	Percentage   decimal.Decimal  `json:"percentage" yaml:"percentage"`
	City         string           `json:"city,omitempty" yaml:"city,omitempty"`
	Country      string           `json:"country,omitempty" yaml:"country,omitempty"`
	CurrencyType string           `json:"currency_type,omitempty" yaml:"currency_type,omitempty"`
	Direction    string           `json:"direction" yaml:"direction" validate:"required,oneof=incoming outgoing"`
}

// ReplaceBulletinRequest replaces the bulletin of an agent for one date.
type ReplaceBulletinRequest struct {
	AgentID      string        `json:"agent_id" yaml:"agent_id" validate:"required"`
	Currency     string        `json:"currency" yaml:"currency" validate:"required,len=3"`
	BulletinType string        `json:"bulletin_type,omitempty" yaml:"bulletin_type,omitempty"`
	Date         string        `json:"bulletin_date" yaml:"bulletin_date" validate:"required,datetime=2006-01-02"`
	Tiers        []TierRequest `json:"tiers" yaml:"tiers" validate:"required,min=1,dive"`
}

// ToUseCaseInput converts to use case input.
func (r *ReplaceBulletinRequest) ToUseCaseInput() (usecase.ReplaceBulletinInput, error) {
	date, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return usecase.ReplaceBulletinInput{}, err
	}

	tiers := make([]usecase.TierInput, len(r.Tiers))
	for i, t := range r.Tiers {
		tiers[i] = usecase.TierInput{
			FromAmount:   t.FromAmount,
			ToAmount:     t.ToAmount,
			Percentage:   t.Percentage,
			City:         t.City,
			Country:      t.Country,
			CurrencyType: t.CurrencyType,
			Direction:    t.Direction,
		}
	}

	return usecase.ReplaceBulletinInput{
		AgentID:      r.AgentID,
		Currency:     r.Currency,
		BulletinType: r.BulletinType,
		Date:         date,
		Tiers:        tiers,
	}, nil
}

// RevaluationRequest converts an amount between IQD and USD on one account.
type RevaluationRequest struct {
	AccountCode   string          `json:"account_code" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	OperationType string          `json:"operation_type" validate:"required,oneof=debit credit"`
	Direction     string          `json:"direction" validate:"required,oneof=iqd_to_usd usd_to_iqd"`
	Notes         string          `json:"notes,omitempty" validate:"max=1000"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RevaluationRequest) ToUseCaseInput() usecase.RevalueInput {
	return usecase.RevalueInput{
		AccountCode:   r.AccountCode,
		Amount:        r.Amount,
		Currency:      r.Currency,
		ExchangeRate:  r.ExchangeRate,
		OperationType: r.OperationType,
		Direction:     r.Direction,
		Notes:         r.Notes,
		CreatedBy:     r.CreatedBy,
	}
}
