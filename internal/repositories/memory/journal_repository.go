package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/building_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// JournalRepository stores entries together with their lines.
type JournalRepository struct {
	store *Store
}

var _ portsrepo.JournalRepositoryFacade = (*JournalRepository)(nil)

func cloneEntry(e domain.JournalEntry) domain.JournalEntry {
	e.Lines = slices.Clone(e.Lines)
	sort.SliceStable(e.Lines, func(i, j int) bool { return e.Lines[i].LineOrder < e.Lines[j].LineOrder })
	return e
}

func (r *JournalRepository) FindJournalEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	e, ok := r.store.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	e = cloneEntry(e)
	return &e, nil
}

func (r *JournalRepository) FindJournalEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.FindJournalEntryByID(ctx, entryID)
}

func (r *JournalRepository) ListJournalEntries(_ context.Context, tenantID string, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.EntryCursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeEntryCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	r.store.mu.RLock()
	var matched []domain.JournalEntry
	for _, e := range r.store.entries {
		if e.TenantID != tenantID || !inFilter(e, filter) {
			continue
		}
		if cursor != nil && !cursor.After(e.EntryDate, e.EntryNumber) {
			continue
		}
		e.Lines = nil
		matched = append(matched, e)
	}
	r.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].EntryDate.Equal(matched[j].EntryDate) {
			return matched[i].EntryDate.After(matched[j].EntryDate)
		}
		return matched[i].EntryNumber > matched[j].EntryNumber
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeEntryCursor(pagination.EntryCursor{EntryDate: last.EntryDate, EntryNumber: last.EntryNumber})
	return page, &token, nil
}

func inFilter(e domain.JournalEntry, f domain.JournalEntryFilter) bool {
	if f.From != nil && e.EntryDate.Before(domain.DateOnly(*f.From)) {
		return false
	}
	if f.To != nil && e.EntryDate.After(domain.DateOnly(*f.To)) {
		return false
	}
	return f.Status == nil || e.Status == *f.Status
}

func (r *JournalRepository) CountLinesByAccount(_ context.Context, accountID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n := 0
	for _, e := range r.store.entries {
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				n++
			}
		}
	}
	return n, nil
}

func (r *JournalRepository) CountUnpostedEntries(_ context.Context, tenantID string, from, to time.Time) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n := 0
	for _, e := range r.store.entries {
		if e.TenantID != tenantID || !dateIn(e.EntryDate, from, to) {
			continue
		}
		switch e.Status {
		case domain.Draft, domain.Pending, domain.Approved:
			n++
		}
	}
	return n, nil
}

func (r *JournalRepository) FindUnbalancedEntryIDs(_ context.Context, tenantID string, from, to time.Time) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var ids []string
	for _, e := range r.store.entries {
		if e.TenantID == tenantID && dateIn(e.EntryDate, from, to) && !e.IsBalanced() {
			ids = append(ids, e.EntryID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func dateIn(d, from, to time.Time) bool {
	return !d.Before(domain.DateOnly(from)) && !d.After(domain.DateOnly(to))
}

func (r *JournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.entries[entry.EntryID]; ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
		}
		for _, e := range r.store.entries {
			if e.TenantID == entry.TenantID && e.EntryNumber == entry.EntryNumber {
				return fmt.Errorf("%w: %s", apperrors.ErrDuplicateNumber, entry.EntryNumber)
			}
		}
		r.store.entries[entry.EntryID] = cloneEntry(entry)
		return nil
	})
}

func (r *JournalRepository) UpdateJournalEntryStatus(ctx context.Context, entry domain.JournalEntry) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.entries[entry.EntryID]
		if !ok {
			return apperrors.ErrNotFound
		}
		current.Status = entry.Status
		current.ApprovedBy = entry.ApprovedBy
		current.ApprovedAt = entry.ApprovedAt
		current.PostedAt = entry.PostedAt
		current.ReversedAt = entry.ReversedAt
		current.ReversalReason = entry.ReversalReason
		current.ReversalEntryID = entry.ReversalEntryID
		current.LastUpdatedAt = entry.LastUpdatedAt
		current.LastUpdatedBy = entry.LastUpdatedBy
		r.store.entries[entry.EntryID] = current
		return nil
	})
}

// EntryNumberRepository is the per (tenant, year, month) counter.
type EntryNumberRepository struct {
	store *Store
}

var _ portsrepo.EntryNumberRepository = (*EntryNumberRepository)(nil)

func (r *EntryNumberRepository) NextSequence(ctx context.Context, tenantID string, year, month int) (int, error) {
	var seq int
	err := r.store.write(ctx, func() error {
		key := counterKey{tenantID: tenantID, year: year, month: month}
		last, ok := r.store.counters[key]
		if !ok {
			last = r.highestSequence(tenantID, year, month)
		}
		seq = last + 1
		r.store.counters[key] = seq
		return nil
	})
	return seq, err
}

// highestSequence seeds a fresh counter from numbers already stored. Caller holds the lock.
func (r *EntryNumberRepository) highestSequence(tenantID string, year, month int) int {
	prefix := domain.EntryNumberPrefix(year, month)
	highest := 0
	for _, e := range r.store.entries {
		if e.TenantID != tenantID || !strings.HasPrefix(e.EntryNumber, prefix) {
			continue
		}
		if _, _, seq, err := domain.ParseEntryNumber(e.EntryNumber); err == nil && seq > highest {
			highest = seq
		}
	}
	return highest
}

// ReportingRepository aggregates posted lines.
type ReportingRepository struct {
	store *Store
}

var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

func reachedPosting(status domain.JournalStatus) bool {
	return status == domain.Posted || status == domain.Reversed
}

func (r *ReportingRepository) GetTrialBalanceData(_ context.Context, tenantID string, from, to time.Time) ([]domain.TrialBalanceRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byAccount := make(map[string]*domain.TrialBalanceRow)
	for _, e := range r.store.entries {
		if e.TenantID != tenantID || !reachedPosting(e.Status) || !dateIn(e.EntryDate, from, to) {
			continue
		}
		for _, l := range e.Lines {
			row, ok := byAccount[l.AccountID]
			if !ok {
				account, found := r.store.accounts[l.AccountID]
				if !found {
					return nil, fmt.Errorf("line account %s: %w", l.AccountID, apperrors.ErrNotFound)
				}
				row = &domain.TrialBalanceRow{
					AccountID:   account.AccountID,
					AccountCode: account.Code,
					AccountName: account.Name,
					AccountType: account.AccountType,
					TotalDebit:  decimal.Zero,
					TotalCredit: decimal.Zero,
				}
				byAccount[l.AccountID] = row
			}
			row.TotalDebit = row.TotalDebit.Add(l.DebitAmount)
			row.TotalCredit = row.TotalCredit.Add(l.CreditAmount)
		}
	}

	rows := make([]domain.TrialBalanceRow, 0, len(byAccount))
	for _, row := range byAccount {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountCode < rows[j].AccountCode })
	return rows, nil
}

func (r *ReportingRepository) GetPostedTotals(_ context.Context, tenantID string) (decimal.Decimal, decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range r.store.entries {
		if e.TenantID != tenantID || !reachedPosting(e.Status) {
			continue
		}
		debit = debit.Add(e.TotalDebit())
		credit = credit.Add(e.TotalCredit())
	}
	return debit, credit, nil
}
