package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow aggregates one account's base amounts over a period.
type TrialBalanceRow struct {
	Code     string
	Name     string
	Category Category
	Debit    decimal.Decimal
	Credit   decimal.Decimal
	Balance  decimal.Decimal
}

// TrialBalance lists every account active in the period.
type TrialBalance struct {
	Currency    string
	StartDate   *time.Time
	EndDate     *time.Time
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	IsBalanced  bool
}

// BuildTrialBalance aggregates lines of entries kept in currency, per account.
// Accounts that no longer exist keep their code with an empty name.
func BuildTrialBalance(currency string, start, end *time.Time, lines []PostedLine, accounts map[string]*Account) *TrialBalance {
	rows := make(map[string]*TrialBalanceRow)
	for _, pl := range lines {
		if pl.EntryCurrency != currency {
			continue
		}
		code := pl.Line.AccountCode
		row, ok := rows[code]
		if !ok {
			row = &TrialBalanceRow{Code: code, Debit: decimal.Zero, Credit: decimal.Zero}
			if acc := accounts[code]; acc != nil {
				row.Name = acc.Name
				row.Category = acc.Category
			}
			rows[code] = row
		}
		if pl.Line.IsDebit() {
			row.Debit = row.Debit.Add(pl.Line.BaseAmount)
		} else {
			row.Credit = row.Credit.Add(pl.Line.BaseAmount)
		}
	}

	tb := &TrialBalance{
		Currency:    currency,
		StartDate:   start,
		EndDate:     end,
		Rows:        make([]TrialBalanceRow, 0, len(rows)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, row := range rows {
		row.Balance = row.Credit.Sub(row.Debit)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.Rows = append(tb.Rows, *row)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].Code < tb.Rows[j].Code })
	tb.IsBalanced = tb.TotalDebit.Equal(tb.TotalCredit)
	return tb
}

// LedgerLine is one posting on an account ledger with the balance after it.
type LedgerLine struct {
	Date        time.Time
	EntryNumber int64
	Description string
	Currency    string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// AccountLedger is the chronological posting history of one account currency.
type AccountLedger struct {
	Account        *Account
	Currency       string
	StartDate      *time.Time
	EndDate        *time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	Lines          []LedgerLine
}

// BuildAccountLedger replays lines ordered by date and entry number. Lines
// dated before start only contribute to the opening balance.
func BuildAccountLedger(account *Account, currency string, start, end *time.Time, lines []PostedLine) *AccountLedger {
	sorted := make([]PostedLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].EntryDate.Equal(sorted[j].EntryDate) {
			return sorted[i].EntryDate.Before(sorted[j].EntryDate)
		}
		return sorted[i].EntryNumber < sorted[j].EntryNumber
	})

	ledger := &AccountLedger{
		Account:        account,
		Currency:       currency,
		StartDate:      start,
		EndDate:        end,
		OpeningBalance: decimal.Zero,
		Lines:          []LedgerLine{},
	}

	balance := decimal.Zero
	for _, pl := range sorted {
		if pl.Line.AccountCode != account.Code || pl.Line.Currency != currency {
			continue
		}
		if end != nil && pl.EntryDate.After(*end) {
			continue
		}
		balance = balance.Add(pl.Line.Signed())
		if start != nil && pl.EntryDate.Before(*start) {
			ledger.OpeningBalance = balance
			continue
		}
		ledger.Lines = append(ledger.Lines, LedgerLine{
			Date:        pl.EntryDate,
			EntryNumber: pl.EntryNumber,
			Description: pl.Description,
			Currency:    pl.Line.Currency,
			Debit:       pl.Line.Debit,
			Credit:      pl.Line.Credit,
			Balance:     balance,
		})
	}
	ledger.ClosingBalance = balance
	return ledger
}

// ReplayBalances sums credit minus debit per account and currency.
func ReplayBalances(lines []PostedLine) []AccountNet {
	type key struct{ code, currency string }
	sums := make(map[key]decimal.Decimal)
	for _, pl := range lines {
		k := key{pl.Line.AccountCode, pl.Line.Currency}
		sums[k] = sums[k].Add(pl.Line.Signed())
	}
	out := make([]AccountNet, 0, len(sums))
	for k, v := range sums {
		out = append(out, AccountNet{AccountCode: k.code, Currency: k.currency, Net: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AccountCode != out[j].AccountCode {
			return out[i].AccountCode < out[j].AccountCode
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}
