package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	Code       string                     `json:"code"`
	Name       string                     `json:"name"`
	Category   string                     `json:"category"`
	ParentCode string                     `json:"parent_code,omitempty"`
	Balances   map[string]decimal.Decimal `json:"balances"`
	Version    int64                      `json:"version"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	balances := make(map[string]decimal.Decimal, len(a.Balances))
	for currency, balance := range a.Balances {
		balances[currency] = balance
	}

	return &AccountResponse{
		Code:       a.Code,
		Name:       a.Name,
		Category:   string(a.Category),
		ParentCode: a.ParentCode,
		Balances:   balances,
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int                `json:"total"`
}

// AccountNodeResponse is one node of the chart of accounts tree.
type AccountNodeResponse struct {
	*AccountResponse
	Children []*AccountNodeResponse `json:"children"`
}

// TreeFromDomain converts a forest of account nodes.
func TreeFromDomain(forest []*domain.AccountNode) []*AccountNodeResponse {
	result := make([]*AccountNodeResponse, len(forest))
	for i, n := range forest {
		result[i] = &AccountNodeResponse{
			AccountResponse: AccountFromDomain(n.Account),
			Children:        TreeFromDomain(n.Children),
		}
	}
	return result
}

// BalanceResponse is one currency balance of an account.
type BalanceResponse struct {
	AccountCode string          `json:"account_code"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
}

// LineResponse represents a stored journal line.
type LineResponse struct {
	AccountCode     string          `json:"account_code"`
	Currency        string          `json:"currency"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	BaseAmount      decimal.Decimal `json:"base_amount"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	Number      int64           `json:"number"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	CreatedBy   string          `json:"created_by"`
	Currency    string          `json:"currency"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	ReversalOf  *int64          `json:"reversal_of,omitempty"`
	ReversedBy  *int64          `json:"reversed_by,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	SourceRef   string          `json:"source_ref,omitempty"`
	Lines       []LineResponse  `json:"lines"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.JournalEntry) *EntryResponse {
	lines := make([]LineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = LineResponse{
			AccountCode:     l.AccountCode,
			Currency:        l.Currency,
			Debit:           l.Debit,
			Credit:          l.Credit,
			BaseAmount:      l.BaseAmount,
			PreviousBalance: l.PreviousBalance,
			CurrentBalance:  l.CurrentBalance,
		}
	}

	return &EntryResponse{
		Number:      e.Number,
		Date:        e.Date,
		Description: e.Description,
		CreatedBy:   e.CreatedBy,
		Currency:    e.Currency,
		TotalDebit:  e.TotalDebit,
		TotalCredit: e.TotalCredit,
		ReversalOf:  e.ReversalOf,
		ReversedBy:  e.ReversedBy,
		CancelledAt: e.CancelledAt,
		SourceRef:   e.SourceRef,
		Lines:       lines,
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.JournalEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// CommissionResponse describes a commission lookup. Resolved is false when
// no bulletin or tier applied and the commission fell back to zero.
type CommissionResponse struct {
	Resolved     bool            `json:"resolved"`
	Percentage   decimal.Decimal `json:"commission_percentage"`
	Amount       decimal.Decimal `json:"commission_amount"`
	BulletinID   string          `json:"bulletin_id,omitempty"`
	TierID       string          `json:"tier_id,omitempty"`
	CurrencyType string          `json:"currency_type,omitempty"`
	Warning      string          `json:"warning,omitempty"`
}

// CommissionFromDomain converts a resolution to response.
func CommissionFromDomain(r domain.Resolution) *CommissionResponse {
	return &CommissionResponse{
		Resolved:     r.Resolved,
		Percentage:   r.Commission.Percentage,
		Amount:       r.Commission.Amount,
		BulletinID:   r.Commission.BulletinID,
		TierID:       r.Commission.TierID,
		CurrencyType: r.Commission.CurrencyType,
		Warning:      r.Warning(),
	}
}

// TransferPostingResponse is the entry posted for a completed transfer.
type TransferPostingResponse struct {
	Entry      *EntryResponse      `json:"entry"`
	Commission *CommissionResponse `json:"commission"`
}

// TransferPostingFromDomain converts a transfer posting to response.
func TransferPostingFromDomain(p *usecase.TransferPosting) *TransferPostingResponse {
	return &TransferPostingResponse{
		Entry:      EntryFromDomain(p.Entry),
		Commission: CommissionFromDomain(p.Commission),
	}
}

// TrialBalanceRowResponse is one account row of a trial balance.
type TrialBalanceRowResponse struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Balance  decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse represents a trial balance report.
type TrialBalanceResponse struct {
	Currency    string                    `json:"currency"`
	StartDate   *time.Time                `json:"start_date,omitempty"`
	EndDate     *time.Time                `json:"end_date,omitempty"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"total_debit"`
	TotalCredit decimal.Decimal           `json:"total_credit"`
	IsBalanced  bool                      `json:"is_balanced"`
}

// TrialBalanceFromDomain converts a trial balance to response.
func TrialBalanceFromDomain(tb *domain.TrialBalance) *TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			Code:     r.Code,
			Name:     r.Name,
			Category: string(r.Category),
			Debit:    r.Debit,
			Credit:   r.Credit,
			Balance:  r.Balance,
		}
	}

	return &TrialBalanceResponse{
		Currency:    tb.Currency,
		StartDate:   tb.StartDate,
		EndDate:     tb.EndDate,
		Rows:        rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		IsBalanced:  tb.IsBalanced,
	}
}

// LedgerEntryResponse is one posting in an account ledger.
type LedgerEntryResponse struct {
	Date        time.Time       `json:"date"`
	EntryNumber int64           `json:"entry_number"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// AccountLedgerResponse represents the ledger of one account currency.
type AccountLedgerResponse struct {
	Account           *AccountResponse      `json:"account"`
	EnabledCurrencies []string              `json:"enabled_currencies"`
	Currency          string                `json:"currency"`
	StartDate         *time.Time            `json:"start_date,omitempty"`
	EndDate           *time.Time            `json:"end_date,omitempty"`
	OpeningBalance    decimal.Decimal       `json:"opening_balance"`
	ClosingBalance    decimal.Decimal       `json:"closing_balance"`
	Entries           []LedgerEntryResponse `json:"entries"`
}

// AccountLedgerFromDomain converts an account ledger to response.
func AccountLedgerFromDomain(l *domain.AccountLedger) *AccountLedgerResponse {
	entries := make([]LedgerEntryResponse, len(l.Lines))
	for i, ll := range l.Lines {
		currency := ll.Currency
		if currency == "" {
			currency = l.Currency
		}
		entries[i] = LedgerEntryResponse{
			Date:        ll.Date,
			EntryNumber: ll.EntryNumber,
			Description: ll.Description,
			Currency:    currency,
			Debit:       ll.Debit,
			Credit:      ll.Credit,
			Balance:     ll.Balance,
		}
	}

	var account *AccountResponse
	currencies := []string{}
	if l.Account != nil {
		account = AccountFromDomain(l.Account)
		currencies = l.Account.Currencies()
	}

	return &AccountLedgerResponse{
		Account:           account,
		EnabledCurrencies: currencies,
		Currency:          l.Currency,
		StartDate:         l.StartDate,
		EndDate:           l.EndDate,
		OpeningBalance:    l.OpeningBalance,
		ClosingBalance:    l.ClosingBalance,
		Entries:           entries,
	}
}

// DiscrepancyResponse is one balance that disagrees with its postings.
type DiscrepancyResponse struct {
	AccountCode       string          `json:"account_code"`
	Currency          string          `json:"currency"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
}

// ConsistencyResponse represents a reconciliation report.
type ConsistencyResponse struct {
	Healthy            bool                  `json:"healthy"`
	LedgerConsistent   bool                  `json:"ledger_consistent"`
	TotalBalances      int                   `json:"total_balances"`
	ReconciledBalances int                   `json:"reconciled_balances"`
	Discrepancies      []DiscrepancyResponse `json:"discrepancies"`
	CheckedAt          time.Time             `json:"checked_at"`
}

// ConsistencyFromReport converts a reconciliation report to response.
func ConsistencyFromReport(r *usecase.ReconciliationReport) *ConsistencyResponse {
	discrepancies := make([]DiscrepancyResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = DiscrepancyResponse{
			AccountCode:       d.AccountCode,
			Currency:          d.Currency,
			RecordedBalance:   d.RecordedBalance,
			CalculatedBalance: d.CalculatedBalance,
			Difference:        d.Difference,
		}
	}

	return &ConsistencyResponse{
		Healthy:            r.Healthy(),
		LedgerConsistent:   r.LedgerConsistent,
		TotalBalances:      r.TotalBalances,
		ReconciledBalances: r.ReconciledBalances,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}

// TierResponse represents a commission tier.
type TierResponse struct {
	ID           string           `json:"id"`
	FromAmount   decimal.Decimal  `json:"from_amount"`
	ToAmount     *decimal.Decimal `json:"to_amount"`
	Percentage   decimal.Decimal  `json:"percentage"`
	City         string           `json:"city,omitempty"`
	Country      string           `json:"country,omitempty"`
	CurrencyType string           `json:"currency_type,omitempty"`
	Direction    string           `json:"direction"`
}

// BulletinResponse represents a commission bulletin.
type BulletinResponse struct {
	ID           string         `json:"id"`
	AgentID      string         `json:"agent_id"`
	Currency     string         `json:"currency"`
	BulletinType string         `json:"bulletin_type,omitempty"`
	Date         string         `json:"bulletin_date"`
	Tiers        []TierResponse `json:"tiers"`
	CreatedAt    time.Time      `json:"created_at"`
}

// BulletinFromDomain converts a bulletin to response.
func BulletinFromDomain(b *domain.Bulletin) *BulletinResponse {
	tiers := make([]TierResponse, len(b.Tiers))
	for i, t := range b.Tiers {
		tiers[i] = TierResponse{
			ID:           t.ID,
			FromAmount:   t.FromAmount,
			ToAmount:     t.ToAmount,
			Percentage:   t.Percentage,
			City:         t.City,
			Country:      t.Country,
			CurrencyType: t.CurrencyType,
			Direction:    string(t.Direction),
		}
	}

	return &BulletinResponse{
		ID:           b.ID,
		AgentID:      b.AgentID,
		Currency:     b.Currency,
		BulletinType: b.BulletinType,
		Date:         b.Date.Format(DateLayout),
		Tiers:        tiers,
		CreatedAt:    b.CreatedAt,
	}
}

// RevaluationResponse represents a currency revaluation. The equivalent
// amount is shown at display precision; the ledger keeps full precision.
type RevaluationResponse struct {
	ID               string          `json:"id"`
	AccountCode      string          `json:"account_code"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	ExchangeRate     decimal.Decimal `json:"exchange_rate"`
	OperationType    string          `json:"operation_type"`
	Direction        string          `json:"direction"`
	EquivalentAmount decimal.Decimal `json:"equivalent_amount"`
	EntryNumber      int64           `json:"entry_number"`
	Notes            string          `json:"notes,omitempty"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// RevaluationFromDomain converts a revaluation to response.
func RevaluationFromDomain(r *domain.CurrencyRevaluation) *RevaluationResponse {
	return &RevaluationResponse{
		ID:               r.ID,
		AccountCode:      r.AccountCode,
		Amount:           r.Amount,
		Currency:         r.Currency,
		ExchangeRate:     r.ExchangeRate,
		OperationType:    string(r.OperationType),
		Direction:        string(r.Direction),
		EquivalentAmount: r.DisplayEquivalent(),
		EntryNumber:      r.EntryNumber,
		Notes:            r.Notes,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
	}
}

// RevaluationsFromDomain converts revaluations to responses.
func RevaluationsFromDomain(rs []*domain.CurrencyRevaluation) []*RevaluationResponse {
	result := make([]*RevaluationResponse, len(rs))
	for i, r := range rs {
		result[i] = RevaluationFromDomain(r)
	}
	return result
}

// StatementLineResponse is one row of an agent statement.
type StatementLineResponse struct {
	TransferID  string          `json:"transfer_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	FromAgentID string          `json:"from_agent_id"`
	ToAgentID   string          `json:"to_agent_id"`
	Status      string          `json:"status"`
	EffectiveAt time.Time       `json:"effective_at"`
	Balance     decimal.Decimal `json:"balance"`
}

// StatementResponse represents an agent statement.
type StatementResponse struct {
	AgentID            string                  `json:"agent_id"`
	Currency           string                  `json:"currency"`
	Lines              []StatementLineResponse `json:"lines"`
	TotalSent          decimal.Decimal         `json:"total_sent"`
	TotalReceived      decimal.Decimal         `json:"total_received"`
	TotalSentCount     int                     `json:"total_sent_count"`
	TotalReceivedCount int                     `json:"total_received_count"`
	Net                decimal.Decimal         `json:"net"`
	Balance            decimal.Decimal         `json:"balance"`
}

// StatementFromDomain converts a statement to response.
func StatementFromDomain(s *domain.Statement) *StatementResponse {
	lines := make([]StatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = StatementLineResponse{
			TransferID:  l.Transfer.ID,
			Kind:        string(l.Kind),
			Amount:      l.Transfer.Amount,
			Currency:    l.Transfer.Currency,
			FromAgentID: l.Transfer.FromAgentID,
			ToAgentID:   l.Transfer.ToAgentID,
			Status:      string(l.Transfer.Status),
			EffectiveAt: l.Transfer.EffectiveAt(),
			Balance:     l.Balance,
		}
	}

	return &StatementResponse{
		AgentID:            s.AgentID,
		Currency:           s.Currency,
		Lines:              lines,
		TotalSent:          s.TotalSent,
		TotalReceived:      s.TotalReceived,
		TotalSentCount:     s.TotalSentCount,
		TotalReceivedCount: s.TotalReceivedCount,
		Net:                s.Net(),
		Balance:            s.Balance(),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
