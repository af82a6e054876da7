package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

var (
	entryColumns = []string{
		"number", "entry_date", "description", "created_by", "currency", "total_debit", "total_credit",
		"reversal_of", "reversed_by", "cancelled_at", "created_at", "source_ref",
	}
	lineColumns = []string{
		"entry_number", "account_code", "currency", "debit", "credit", "base_amount", "previous_balance", "current_balance",
	}
)

func TestJournalRepository_NextEntryNumber(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectQuery("nextval").WillReturnRows(pgxmock.NewRows([]string{"nextval"}).AddRow(int64(42)))

	tx := beginMockTx(t, mock)
	n, err := newJournalRepository(mock).NextEntryNumber(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assertExpectations(t, mock)
}

func TestJournalRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO journal_entries").
		WithArgs(append([]any{int64(7)}, anyArgs(9)...)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO journal_lines").
		WithArgs(append([]any{int64(7), 1, "6001", "IQD"}, anyArgs(5)...)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO journal_lines").
		WithArgs(append([]any{int64(7), 2, "2001", "IQD"}, anyArgs(5)...)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	amount := decimal.NewFromInt(1000)
	entry := &domain.JournalEntry{
		Number:   7,
		Date:     testTime,
		Currency: "IQD",
		Lines: []domain.JournalLine{
			{AccountCode: "6001", Currency: "IQD", Debit: amount, BaseAmount: amount},
			{AccountCode: "2001", Currency: "IQD", Credit: amount, BaseAmount: amount},
		},
		TotalDebit:  amount,
		TotalCredit: amount,
		CreatedAt:   testTime,
	}

	tx := beginMockTx(t, mock)
	require.NoError(t, newJournalRepository(mock).Create(context.Background(), tx, entry))
	assertExpectations(t, mock)
}

func TestJournalRepository_CreateDuplicateSourceRef(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO journal_entries").
		WithArgs(append(append([]any{int64(8)}, anyArgs(8)...), pgtype.Text{String: "transfer:tr-7", Valid: true})...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "journal_entries_source_ref_key"})

	entry := &domain.JournalEntry{
		Number:    8,
		Date:      testTime,
		Currency:  "IQD",
		CreatedAt: testTime,
		SourceRef: "transfer:tr-7",
	}

	tx := beginMockTx(t, mock)
	err := newJournalRepository(mock).Create(context.Background(), tx, entry)
	require.ErrorIs(t, err, domain.ErrDuplicateSourceRef)
	assertExpectations(t, mock)
}

func TestJournalRepository_GetByNumber(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM journal_entries").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(entryColumns).AddRow(
			int64(7), testTime, "Cash in", "teller", "IQD", num("1000"), num("1000"),
			pgtype.Int8{}, pgtype.Int8{Int64: 8, Valid: true}, pgtype.Timestamptz{Time: testTime, Valid: true}, testTime,
			pgtype.Text{String: "transfer:tr-7", Valid: true},
		))
	mock.ExpectQuery("FROM journal_lines").
		WithArgs([]int64{7}).
		WillReturnRows(pgxmock.NewRows(lineColumns).
			AddRow(int64(7), "6001", "IQD", num("1000"), num("0"), num("1000"), num("0"), num("-1000")).
			AddRow(int64(7), "2001", "IQD", num("0"), num("1000"), num("1000"), num("0"), num("1000")))

	entry, err := newJournalRepository(mock).GetByNumber(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, entry.IsCancelled())
	assert.False(t, entry.IsReversal())
	assert.Equal(t, "transfer:tr-7", entry.SourceRef)
	require.NotNil(t, entry.ReversedBy)
	assert.Equal(t, int64(8), *entry.ReversedBy)
	require.Len(t, entry.Lines, 2)
	assert.True(t, entry.Lines[0].IsDebit())
	assert.Equal(t, "-1000", entry.Lines[0].CurrentBalance.String())
	assert.Equal(t, "1000", entry.Lines[1].Credit.String())
	assertExpectations(t, mock)
}

func TestJournalRepository_GetByNumberNotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM journal_entries").WithArgs(int64(99)).WillReturnRows(pgxmock.NewRows(entryColumns))

	_, err := newJournalRepository(mock).GetByNumber(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
	assertExpectations(t, mock)
}

func TestJournalRepository_MarkCancelledTwice(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE journal_entries").
		WithArgs(int64(7), int64(8), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE journal_entries").
		WithArgs(int64(7), int64(9), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx := beginMockTx(t, mock)
	repo := newJournalRepository(mock)

	require.NoError(t, repo.MarkCancelled(context.Background(), tx, 7, 8, testTime))
	require.ErrorIs(t, repo.MarkCancelled(context.Background(), tx, 7, 9, testTime), domain.ErrAlreadyCancelled)
	assertExpectations(t, mock)
}

func TestJournalRepository_ListPostedLinesBuildsFilter(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.account_code = $1 AND e.currency = $2")).
		WithArgs("2001", "IQD").
		WillReturnRows(pgxmock.NewRows([]string{
			"number", "entry_date", "description", "currency",
			"account_code", "currency", "debit", "credit", "base_amount", "previous_balance", "current_balance",
		}).AddRow(int64(1), testTime, "Cash in", "IQD", "2001", "IQD", num("0"), num("1000"), num("1000"), num("0"), num("1000")))

	lines, err := newJournalRepository(mock).ListPostedLines(context.Background(), usecase.LineFilter{
		AccountCode:   "2001",
		EntryCurrency: "IQD",
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].EntryNumber)
	assert.Equal(t, "1000", lines[0].Line.Signed().String())
	assertExpectations(t, mock)
}

func TestJournalRepository_ListWithoutEntries(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("ORDER BY entry_date, number").
		WithArgs(anyArgs(4)...).
		WillReturnRows(pgxmock.NewRows(entryColumns))

	entries, err := newJournalRepository(mock).List(context.Background(), usecase.EntryFilter{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assertExpectations(t, mock)
}
