package mocks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/agentledger/internal/domain"
	"github.com/iho/agentledger/internal/usecase"
)

// applyOrStage runs fn on Commit when tx is a *MockTransaction, and right away
// otherwise. Reads inside a transaction see committed state only.
func applyOrStage(tx usecase.Transaction, fn func()) {
	if mt, ok := tx.(*MockTransaction); ok && mt != nil {
		mt.stage(fn)
		return
	}
	fn()
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	c.Balances = make(map[string]decimal.Decimal, len(a.Balances))
	for k, v := range a.Balances {
		c.Balances[k] = v
	}
	return &c
}

// MockAccountRepository is an in-memory AccountRepository. Codes that ever
// had a balance posted stay allocated after Delete, like journal history.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	posted   map[string]struct{}

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByCodeFunc           func(ctx context.Context, code string) (*domain.Account, error)
	GetByCodesForUpdateFunc func(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error)
	UpdateBalanceFunc       func(ctx context.Context, tx usecase.Transaction, code, currency string, balance decimal.Decimal, updatedAt time.Time) error
	DeleteFunc              func(ctx context.Context, tx usecase.Transaction, code string) error
	ListFunc                func(ctx context.Context, filter usecase.AccountFilter) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
		posted:   make(map[string]struct{}),
	}
}

// MarkPosted records that codes have journal lines.
func (m *MockAccountRepository) MarkPosted(codes ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, code := range codes {
		m.posted[code] = struct{}{}
	}
}

// Seed stores accounts directly, outside any transaction.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.Code] = cloneAccount(a)
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	stored := cloneAccount(account)
	applyOrStage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.accounts[stored.Code] = stored
	})
	return nil
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[code]; ok {
		return cloneAccount(acc), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByCodeTx(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error) {
	return m.GetByCode(ctx, code)
}

func (m *MockAccountRepository) GetByCodesForUpdate(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error) {
	if m.GetByCodesForUpdateFunc != nil {
		return m.GetByCodesForUpdateFunc(ctx, tx, codes)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, code := range codes {
		if acc, ok := m.accounts[code]; ok {
			accounts = append(accounts, cloneAccount(acc))
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) LockPrefix(ctx context.Context, tx usecase.Transaction, prefix int) error {
	return nil
}

func (m *MockAccountRepository) ListCodesByPrefix(ctx context.Context, tx usecase.Transaction, prefix int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := strconv.Itoa(prefix)
	var codes []string
	for code := range m.accounts {
		if strings.HasPrefix(code, p) {
			codes = append(codes, code)
		}
	}
	for code := range m.posted {
		if _, live := m.accounts[code]; !live && strings.HasPrefix(code, p) {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, tx usecase.Transaction, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.ParentCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, tx usecase.Transaction, code string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, code)
	}
	applyOrStage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.accounts, code)
	})
	return nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, code, currency string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, code, currency, balance, updatedAt)
	}
	applyOrStage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if acc, ok := m.accounts[code]; ok {
			acc.Balances[currency] = balance
			acc.Version++
			acc.UpdatedAt = updatedAt
			m.posted[code] = struct{}{}
		}
	})
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, filter usecase.AccountFilter) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if filter.Category != "" && acc.Category != filter.Category {
			continue
		}
		accounts = append(accounts, cloneAccount(acc))
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return page(accounts, filter.Limit, filter.Offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneEntry(e *domain.JournalEntry) *domain.JournalEntry {
	c := *e
	c.Lines = make([]domain.JournalLine, len(e.Lines))
	copy(c.Lines, e.Lines)
	return &c
}

// MockJournalRepository is an in-memory JournalRepository. Entry numbers behave
// like a database sequence: they are not returned on rollback.
type MockJournalRepository struct {
	mu      sync.RWMutex
	entries map[int64]*domain.JournalEntry
	seq     int64

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	MarkCancelledFunc   func(ctx context.Context, tx usecase.Transaction, number, reversedBy int64, cancelledAt time.Time) error
	ListPostedLinesFunc func(ctx context.Context, filter usecase.LineFilter) ([]domain.PostedLine, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{
		entries: make(map[int64]*domain.JournalEntry),
	}
}

func (m *MockJournalRepository) NextEntryNumber(ctx context.Context, tx usecase.Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return m.seq, nil
}

func (m *MockJournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	if entry.SourceRef != "" {
		m.mu.RLock()
		for _, e := range m.entries {
			if e.SourceRef == entry.SourceRef {
				m.mu.RUnlock()
				return fmt.Errorf("%w: %s", domain.ErrDuplicateSourceRef, entry.SourceRef)
			}
		}
		m.mu.RUnlock()
	}
	stored := cloneEntry(entry)
	applyOrStage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.entries[stored.Number] = stored
	})
	return nil
}

func (m *MockJournalRepository) GetByNumber(ctx context.Context, number int64) (*domain.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[number]; ok {
		return cloneEntry(e), nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockJournalRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number int64) (*domain.JournalEntry, error) {
	return m.GetByNumber(ctx, number)
}

func (m *MockJournalRepository) MarkCancelled(ctx context.Context, tx usecase.Transaction, number, reversedBy int64, cancelledAt time.Time) error {
	if m.MarkCancelledFunc != nil {
		return m.MarkCancelledFunc(ctx, tx, number, reversedBy, cancelledAt)
	}
	applyOrStage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if e, ok := m.entries[number]; ok {
			rb := reversedBy
			at := cancelledAt
			e.ReversedBy = &rb
			e.CancelledAt = &at
		}
	})
	return nil
}

func (m *MockJournalRepository) sorted() []*domain.JournalEntry {
	entries := make([]*domain.JournalEntry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Number < entries[j].Number })
	return entries
}

func inWindow(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

func (m *MockJournalRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, e := range m.sorted() {
		if inWindow(e.Date, filter.StartDate, filter.EndDate) {
			entries = append(entries, cloneEntry(e))
		}
	}
	return page(entries, filter.Limit, filter.Offset), nil
}

func (m *MockJournalRepository) ListPostedLines(ctx context.Context, filter usecase.LineFilter) ([]domain.PostedLine, error) {
	if m.ListPostedLinesFunc != nil {
		return m.ListPostedLinesFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var lines []domain.PostedLine
	for _, e := range m.sorted() {
		if filter.EntryCurrency != "" && e.Currency != filter.EntryCurrency {
			continue
		}
		if !inWindow(e.Date, filter.StartDate, filter.EndDate) {
			continue
		}
		for _, l := range e.Lines {
			if filter.AccountCode != "" && l.AccountCode != filter.AccountCode {
				continue
			}
			if filter.Currency != "" && l.Currency != filter.Currency {
				continue
			}
			lines = append(lines, domain.PostedLine{
				EntryNumber:   e.Number,
				EntryDate:     e.Date,
				Description:   e.Description,
				EntryCurrency: e.Currency,
				Line:          l,
			})
		}
	}
	return lines, nil
}

// Count returns the number of committed entries.
func (m *MockJournalRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// MockLedgerRepository computes ledger-wide checks over a MockJournalRepository.
type MockLedgerRepository struct {
	Journal *MockJournalRepository

	CheckConsistencyFunc func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
	NetByAccountFunc     func(ctx context.Context) ([]domain.AccountNet, error)
}

func NewMockLedgerRepository(journal *MockJournalRepository) *MockLedgerRepository {
	return &MockLedgerRepository{Journal: journal}
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	lines, err := m.Journal.ListPostedLines(ctx, usecase.LineFilter{})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if l.Line.IsDebit() {
			debits = debits.Add(l.Line.BaseAmount)
		} else {
			credits = credits.Add(l.Line.BaseAmount)
		}
	}
	return debits, credits, nil
}

func (m *MockLedgerRepository) NetByAccount(ctx context.Context) ([]domain.AccountNet, error) {
	if m.NetByAccountFunc != nil {
		return m.NetByAccountFunc(ctx)
	}
	lines, err := m.Journal.ListPostedLines(ctx, usecase.LineFilter{})
	if err != nil {
		return nil, err
	}
	return domain.ReplayBalances(lines), nil
}

// MockBulletinRepository is an in-memory BulletinRepository.
type MockBulletinRepository struct {
	mu        sync.RWMutex
	bulletins map[string]*domain.Bulletin

	ReplaceFunc      func(ctx context.Context, tx usecase.Transaction, b *domain.Bulletin) error
	ListVersionsFunc func(ctx context.Context, agentID, currency string) ([]*domain.Bulletin, error)
}

func NewMockBulletinRepository() *MockBulletinRepository {
	return &MockBulletinRepository{
		bulletins: make(map[string]*domain.Bulletin),
	}
}

func bulletinKey(b *domain.Bulletin) string {
	return b.AgentID + "|" + b.Currency + "|" + b.Date.Format(time.DateOnly)
}

func (m *MockBulletinRepository) Replace(ctx context.Context, tx usecase.Transaction, b *domain.Bulletin) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, tx, b)
	}
	stored := *b
	stored.Tiers = append([]domain.Tier(nil), b.Tiers...)
	applyOrStage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.bulletins[bulletinKey(&stored)] = &stored
	})
	return nil
}

func (m *MockBulletinRepository) ListVersions(ctx context.Context, agentID, currency string) ([]*domain.Bulletin, error) {
	if m.ListVersionsFunc != nil {
		return m.ListVersionsFunc(ctx, agentID, currency)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Bulletin
	for _, b := range m.bulletins {
		if b.AgentID == agentID && b.Currency == currency {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// MockTransferReader serves a fixed transfer list.
type MockTransferReader struct {
	mu        sync.RWMutex
	transfers []domain.Transfer

	ListByAgentFunc func(ctx context.Context, agentID string) ([]domain.Transfer, error)
}

func NewMockTransferReader(transfers ...domain.Transfer) *MockTransferReader {
	return &MockTransferReader{transfers: transfers}
}

func (m *MockTransferReader) ListByAgent(ctx context.Context, agentID string) ([]domain.Transfer, error) {
	if m.ListByAgentFunc != nil {
		return m.ListByAgentFunc(ctx, agentID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Transfer
	for _, t := range m.transfers {
		if t.FromAgentID == agentID || t.ToAgentID == agentID {
			out = append(out, t)
		}
	}
	return out, nil
}

// MockRevaluationRepository is an in-memory RevaluationRepository.
type MockRevaluationRepository struct {
	mu    sync.RWMutex
	items []*domain.CurrencyRevaluation

	CreateFunc func(ctx context.Context, tx usecase.Transaction, r *domain.CurrencyRevaluation) error
}

func NewMockRevaluationRepository() *MockRevaluationRepository {
	return &MockRevaluationRepository{}
}

func (m *MockRevaluationRepository) Create(ctx context.Context, tx usecase.Transaction, r *domain.CurrencyRevaluation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, r)
	}
	stored := *r
	applyOrStage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.items = append(m.items, &stored)
	})
	return nil
}

func (m *MockRevaluationRepository) List(ctx context.Context, accountCode string, limit, offset int) ([]*domain.CurrencyRevaluation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CurrencyRevaluation
	for i := len(m.items) - 1; i >= 0; i-- {
		if accountCode == "" || m.items[i].AccountCode == accountCode {
			c := *m.items[i]
			out = append(out, &c)
		}
	}
	return page(out, limit, offset), nil
}

// MockTransactionManager hands out MockTransactions one at a time, which
// serializes concurrent use cases the way row locks would.
type MockTransactionManager struct {
	mu sync.Mutex

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	return &MockTransaction{release: m.mu.Unlock}, nil
}

// MockTransaction buffers writes until Commit.
type MockTransaction struct {
	mu         sync.Mutex
	pending    []func()
	done       bool
	release    func()
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) stage(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, fn)
}

func (m *MockTransaction) finish() {
	m.done = true
	m.pending = nil
	if m.release != nil {
		m.release()
		m.release = nil
	}
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return fmt.Errorf("transaction already closed")
	}
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	for _, fn := range m.pending {
		fn()
	}
	m.Committed = true
	m.finish()
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return nil
	}
	if m.RollbackFunc != nil {
		if err := m.RollbackFunc(ctx); err != nil {
			return err
		}
	}
	m.RolledBack = true
	m.finish()
	return nil
}

// MockRetrier runs the operation once unless RetryFunc is set.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockNotifier records events.
type MockNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(event domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of the recorded events.
func (m *MockNotifier) Events() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Event(nil), m.events...)
}

// Types returns the recorded event types in order.
func (m *MockNotifier) Types() []string {
	events := m.Events()
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	Gets    int
	LastTTL time.Duration
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	m.Gets++
	m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.LastTTL = ttl
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Has reports whether key is cached.
func (m *MockCache) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var (
	_ usecase.AccountRepository     = (*MockAccountRepository)(nil)
	_ usecase.JournalRepository     = (*MockJournalRepository)(nil)
	_ usecase.LedgerRepository      = (*MockLedgerRepository)(nil)
	_ usecase.BulletinRepository    = (*MockBulletinRepository)(nil)
	_ usecase.TransferReader        = (*MockTransferReader)(nil)
	_ usecase.RevaluationRepository = (*MockRevaluationRepository)(nil)
	_ usecase.TransactionManager    = (*MockTransactionManager)(nil)
	_ usecase.Retrier               = (*MockRetrier)(nil)
	_ usecase.Notifier              = (*MockNotifier)(nil)
	_ usecase.Cache                 = (*MockCache)(nil)
	_ usecase.IdempotencyStore      = (*MockIdempotencyStore)(nil)
)
