// Package memory keeps the ledger in process memory. It backs the service
// tests and local runs without PostgreSQL.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
)

type counterKey struct {
	tenantID    string
	year, month int
}

type txKey struct{}

// Store holds every table. Units of work run one at a time; a failed unit
// restores the tables as they were when it started.
type Store struct {
	unitMu sync.Mutex
	mu     sync.RWMutex

	accounts     map[string]domain.Account
	periods      map[string]domain.FinancialPeriod
	transactions map[string]domain.Transaction
	rules        map[string]domain.TransactionRule
	entries      map[string]domain.JournalEntry
	counters     map[counterKey]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		periods:      make(map[string]domain.FinancialPeriod),
		transactions: make(map[string]domain.Transaction),
		rules:        make(map[string]domain.TransactionRule),
		entries:      make(map[string]domain.JournalEntry),
		counters:     make(map[counterKey]int),
	}
}

type snapshot struct {
	accounts     map[string]domain.Account
	periods      map[string]domain.FinancialPeriod
	transactions map[string]domain.Transaction
	rules        map[string]domain.TransactionRule
	entries      map[string]domain.JournalEntry
	counters     map[counterKey]int
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		accounts:     maps.Clone(s.accounts),
		periods:      maps.Clone(s.periods),
		transactions: maps.Clone(s.transactions),
		rules:        maps.Clone(s.rules),
		entries:      maps.Clone(s.entries),
		counters:     maps.Clone(s.counters),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = snap.accounts
	s.periods = snap.periods
	s.transactions = snap.transactions
	s.rules = snap.rules
	s.entries = snap.entries
	s.counters = snap.counters
}

// TxManager implements portsrepo.TransactionManager over a Store.
type TxManager struct {
	store *Store
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.unitMu.Lock()
	defer m.store.unitMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// write applies fn under the write lock, inside the caller's unit of work or a new one.
func (s *Store) write(ctx context.Context, fn func() error) error {
	return (&TxManager{store: s}).WithinTx(ctx, func(context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn()
	})
}

// NewRepositoryProvider wires every memory repository to store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       &TxManager{store: store},
		AccountRepo:     &AccountRepository{store: store},
		PeriodRepo:      &PeriodRepository{store: store},
		TransactionRepo: &TransactionRepository{store: store},
		RuleRepo:        &RuleRepository{store: store},
		JournalRepo:     &JournalRepository{store: store},
		EntryNumberRepo: &EntryNumberRepository{store: store},
		ReportingRepo:   &ReportingRepository{store: store},
	}
}
