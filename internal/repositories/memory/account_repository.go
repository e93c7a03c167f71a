package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
)

// AccountRepository stores the chart of accounts.
type AccountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := r.store.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r *AccountRepository) FindAccountByCode(_ context.Context, tenantID, code string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, a := range r.store.accounts {
		if a.TenantID == tenantID && a.Code == code {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *AccountRepository) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := r.store.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (r *AccountRepository) ListActiveAccountsByType(_ context.Context, tenantID string, accountType domain.AccountType) ([]domain.Account, error) {
	return r.list(tenantID, func(a domain.Account) bool { return a.IsActive && a.AccountType == accountType }), nil
}

func (r *AccountRepository) ListAccounts(_ context.Context, tenantID string) ([]domain.Account, error) {
	return r.list(tenantID, func(domain.Account) bool { return true }), nil
}

func (r *AccountRepository) list(tenantID string, keep func(domain.Account) bool) []domain.Account {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Account
	for _, a := range r.store.accounts {
		if a.TenantID == tenantID && keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.accounts[account.AccountID]; ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		for _, a := range r.store.accounts {
			if a.TenantID == account.TenantID && a.Code == account.Code {
				return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
			}
		}
		r.store.accounts[account.AccountID] = account
		return nil
	})
}

func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.accounts[account.AccountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		current.Name = account.Name
		current.Description = account.Description
		current.IsActive = account.IsActive
		current.LastUpdatedAt = account.LastUpdatedAt
		current.LastUpdatedBy = account.LastUpdatedBy
		r.store.accounts[account.AccountID] = current
		return nil
	})
}

// PeriodRepository stores financial periods.
type PeriodRepository struct {
	store *Store
}

var _ portsrepo.PeriodRepositoryFacade = (*PeriodRepository)(nil)

func (r *PeriodRepository) FindPeriodForDate(_ context.Context, tenantID string, date time.Time) (*domain.FinancialPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.periods {
		if p.TenantID == tenantID && p.Contains(date) {
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *PeriodRepository) FindPeriod(_ context.Context, tenantID string, fiscalYear, periodNumber int) (*domain.FinancialPeriod, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.periods {
		if p.TenantID == tenantID && p.FiscalYear == fiscalYear && p.PeriodNumber == periodNumber {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: period %d-%02d", apperrors.ErrNotFound, fiscalYear, periodNumber)
}

// FindPeriodForDateForShare needs no row lock: units of work already run one at a time.
func (r *PeriodRepository) FindPeriodForDateForShare(ctx context.Context, tenantID string, date time.Time) (*domain.FinancialPeriod, error) {
	return r.FindPeriodForDate(ctx, tenantID, date)
}

func (r *PeriodRepository) FindPeriodForUpdate(ctx context.Context, tenantID string, fiscalYear, periodNumber int) (*domain.FinancialPeriod, error) {
	return r.FindPeriod(ctx, tenantID, fiscalYear, periodNumber)
}

func (r *PeriodRepository) SavePeriod(ctx context.Context, period domain.FinancialPeriod) error {
	return r.store.write(ctx, func() error {
		for _, p := range r.store.periods {
			if p.TenantID == period.TenantID && p.FiscalYear == period.FiscalYear && p.PeriodNumber == period.PeriodNumber {
				return fmt.Errorf("%w: period %d-%02d", apperrors.ErrDuplicate, period.FiscalYear, period.PeriodNumber)
			}
		}
		r.store.periods[period.PeriodID] = period
		return nil
	})
}

func (r *PeriodRepository) UpdatePeriodStatus(ctx context.Context, period domain.FinancialPeriod) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.periods[period.PeriodID]
		if !ok {
			return apperrors.ErrNotFound
		}
		current.Status = period.Status
		current.ClosedAt = period.ClosedAt
		current.ClosedBy = period.ClosedBy
		current.LastUpdatedAt = period.LastUpdatedAt
		current.LastUpdatedBy = period.LastUpdatedBy
		r.store.periods[period.PeriodID] = current
		return nil
	})
}
