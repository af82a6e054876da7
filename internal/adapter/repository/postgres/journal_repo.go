package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

const selectEntries = `
SELECT number, entry_date, description, created_by, currency, total_debit, total_credit,
       reversal_of, reversed_by, cancelled_at, created_at, source_ref
FROM journal_entries`

const selectLines = `
SELECT entry_number, account_code, currency, debit, credit, base_amount, previous_balance, current_balance
FROM journal_lines`

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	db querier
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return newJournalRepository(pool)
}

func newJournalRepository(db querier) *JournalRepository {
	return &JournalRepository{db: db}
}

// NextEntryNumber draws from a sequence; numbers consumed by rolled back
// transactions are not reused.
func (r *JournalRepository) NextEntryNumber(ctx context.Context, tx usecase.Transaction) (int64, error) {
	var n int64
	err := txQuerier(tx).QueryRow(ctx, `SELECT nextval('journal_entry_number_seq')`).Scan(&n)
	return n, err
}

// Create inserts an entry header and its lines.
func (r *JournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx, `
INSERT INTO journal_entries (number, entry_date, description, created_by, currency,
                             total_debit, total_credit, reversal_of, created_at, source_ref)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.Number,
		timeToPgTimestamptz(entry.Date),
		entry.Description,
		entry.CreatedBy,
		entry.Currency,
		decimalToNumeric(entry.TotalDebit),
		decimalToNumeric(entry.TotalCredit),
		int8OrNull(entry.ReversalOf),
		timeToPgTimestamptz(entry.CreatedAt),
		textOrNull(entry.SourceRef),
	)
	if err != nil {
		if isUniqueViolation(err) && entry.SourceRef != "" {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateSourceRef, entry.SourceRef)
		}
		return fmt.Errorf("insert entry %d: %w", entry.Number, err)
	}

	for i, l := range entry.Lines {
		if _, err := q.Exec(ctx, `
INSERT INTO journal_lines (entry_number, line_no, account_code, currency, debit, credit,
                           base_amount, previous_balance, current_balance)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			entry.Number, i+1, l.AccountCode, l.Currency,
			decimalToNumeric(l.Debit),
			decimalToNumeric(l.Credit),
			decimalToNumeric(l.BaseAmount),
			decimalToNumeric(l.PreviousBalance),
			decimalToNumeric(l.CurrentBalance),
		); err != nil {
			return fmt.Errorf("insert line %d of entry %d: %w", i+1, entry.Number, err)
		}
	}

	return nil
}

// GetByNumber retrieves an entry with its lines.
func (r *JournalRepository) GetByNumber(ctx context.Context, number int64) (*domain.JournalEntry, error) {
	return getEntry(ctx, r.db, number, "")
}

// GetByNumberForUpdate retrieves and locks an entry header.
func (r *JournalRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number int64) (*domain.JournalEntry, error) {
	return getEntry(ctx, txQuerier(tx), number, " FOR UPDATE")
}

func getEntry(ctx context.Context, q querier, number int64, lock string) (*domain.JournalEntry, error) {
	entry, err := scanEntry(q.QueryRow(ctx, selectEntries+`
WHERE number = $1`+lock, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	if err := attachLines(ctx, q, []*domain.JournalEntry{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

// MarkCancelled links the entry to its reversal. It fails if the entry was
// cancelled concurrently.
func (r *JournalRepository) MarkCancelled(ctx context.Context, tx usecase.Transaction, number, reversedBy int64, cancelledAt time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx, `
UPDATE journal_entries SET reversed_by = $2, cancelled_at = $3
WHERE number = $1 AND cancelled_at IS NULL`,
		number, reversedBy, timeToPgTimestamptz(cancelledAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: #%d", domain.ErrAlreadyCancelled, number)
	}
	return nil
}

// List lists entries by date and number.
func (r *JournalRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.JournalEntry, error) {
	rows, err := r.db.Query(ctx, selectEntries+`
WHERE ($1::timestamptz IS NULL OR entry_date >= $1)
  AND ($2::timestamptz IS NULL OR entry_date <= $2)
ORDER BY entry_date, number
LIMIT $3 OFFSET $4`,
		nullableTimeToPg(filter.StartDate),
		nullableTimeToPg(filter.EndDate),
		limitOrAll(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachLines(ctx, r.db, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListPostedLines reads lines joined with their entry header.
func (r *JournalRepository) ListPostedLines(ctx context.Context, filter usecase.LineFilter) ([]domain.PostedLine, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.AccountCode != "" {
		add("l.account_code = $%d", filter.AccountCode)
	}
	if filter.Currency != "" {
		add("l.currency = $%d", filter.Currency)
	}
	if filter.EntryCurrency != "" {
		add("e.currency = $%d", filter.EntryCurrency)
	}
	if filter.StartDate != nil {
		add("e.entry_date >= $%d", timeToPgTimestamptz(*filter.StartDate))
	}
	if filter.EndDate != nil {
		add("e.entry_date <= $%d", timeToPgTimestamptz(*filter.EndDate))
	}

	sql := `
SELECT e.number, e.entry_date, e.description, e.currency,
       l.account_code, l.currency, l.debit, l.credit, l.base_amount, l.previous_balance, l.current_balance
FROM journal_lines l
JOIN journal_entries e ON e.number = l.entry_number`
	if len(conds) > 0 {
		sql += "\nWHERE " + strings.Join(conds, " AND ")
	}
	sql += "\nORDER BY e.entry_date, e.number, l.line_no"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.PostedLine
	for rows.Next() {
		var (
			pl                                   domain.PostedLine
			entryDate                            time.Time
			debit, credit, base, previous, after pgtype.Numeric
		)
		if err := rows.Scan(
			&pl.EntryNumber, &entryDate, &pl.Description, &pl.EntryCurrency,
			&pl.Line.AccountCode, &pl.Line.Currency, &debit, &credit, &base, &previous, &after,
		); err != nil {
			return nil, err
		}
		pl.EntryDate = entryDate
		pl.Line.Debit = numericToDecimal(debit)
		pl.Line.Credit = numericToDecimal(credit)
		pl.Line.BaseAmount = numericToDecimal(base)
		pl.Line.PreviousBalance = numericToDecimal(previous)
		pl.Line.CurrentBalance = numericToDecimal(after)
		lines = append(lines, pl)
	}

	return lines, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var (
		e                       domain.JournalEntry
		totalDebit, totalCredit pgtype.Numeric
		reversalOf, reversedBy  pgtype.Int8
		cancelledAt             pgtype.Timestamptz
		sourceRef               pgtype.Text
	)
	if err := row.Scan(
		&e.Number, &e.Date, &e.Description, &e.CreatedBy, &e.Currency,
		&totalDebit, &totalCredit, &reversalOf, &reversedBy, &cancelledAt, &e.CreatedAt, &sourceRef,
	); err != nil {
		return nil, err
	}

	e.TotalDebit = numericToDecimal(totalDebit)
	e.TotalCredit = numericToDecimal(totalCredit)
	e.ReversalOf = nullableInt8(reversalOf)
	e.ReversedBy = nullableInt8(reversedBy)
	e.CancelledAt = nullableTime(cancelledAt)
	e.SourceRef = sourceRef.String

	return &e, nil
}

// attachLines loads the lines of every entry with one query.
func attachLines(ctx context.Context, q querier, entries []*domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	byNumber := make(map[int64]*domain.JournalEntry, len(entries))
	numbers := make([]int64, 0, len(entries))
	for _, e := range entries {
		byNumber[e.Number] = e
		numbers = append(numbers, e.Number)
	}

	rows, err := q.Query(ctx, selectLines+`
WHERE entry_number = ANY($1)
ORDER BY entry_number, line_no`, numbers)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			number                               int64
			l                                    domain.JournalLine
			debit, credit, base, previous, after pgtype.Numeric
		)
		if err := rows.Scan(&number, &l.AccountCode, &l.Currency, &debit, &credit, &base, &previous, &after); err != nil {
			return err
		}
		l.Debit = numericToDecimal(debit)
		l.Credit = numericToDecimal(credit)
		l.BaseAmount = numericToDecimal(base)
		l.PreviousBalance = numericToDecimal(previous)
		l.CurrentBalance = numericToDecimal(after)

		if e := byNumber[number]; e != nil {
			e.Lines = append(e.Lines, l)
		}
	}

	return rows.Err()
}
