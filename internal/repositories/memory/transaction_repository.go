package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
)

// TransactionRepository stores raw transactions.
type TransactionRepository struct {
	store *Store
}

var _ portsrepo.TransactionRepositoryFacade = (*TransactionRepository)(nil)

func (r *TransactionRepository) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

// FindTransactionByIDForUpdate needs no extra locking: units of work never overlap.
func (r *TransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.FindTransactionByID(ctx, transactionID)
}

func (r *TransactionRepository) ListTransactions(_ context.Context, tenantID string, status *domain.TransactionStatus, limit int) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Transaction
	for _, t := range r.store.transactions {
		if t.TenantID != tenantID || (status != nil && t.Status != *status) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.After(out[j].TransactionDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *TransactionRepository) CountSimilarApprovals(_ context.Context, q domain.SimilarTransactionQuery) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, t := range r.store.transactions {
		if t.TenantID != q.TenantID || t.Direction != q.Direction {
			continue
		}
		if t.Status != domain.TransactionApproved && t.Status != domain.TransactionProcessed {
			continue
		}
		if !t.Corrected {
			continue
		}
		if t.ApprovedAccountID == nil || *t.ApprovedAccountID != q.ApprovedAccountID {
			continue
		}
		if t.ApprovedAt == nil || t.ApprovedAt.Before(q.Since) {
			continue
		}
		if q.Counterparty != nil && strings.TrimSpace(*q.Counterparty) != "" {
			if t.Counterparty == nil || !strings.EqualFold(strings.TrimSpace(*t.Counterparty), strings.TrimSpace(*q.Counterparty)) {
				continue
			}
		} else if t.Category != q.Category {
			continue
		}
		count++
	}
	return count, nil
}

func (r *TransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.transactions[txn.TransactionID]; ok {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		r.store.transactions[txn.TransactionID] = txn
		return nil
	})
}

func (r *TransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.transactions[txn.TransactionID]; !ok {
			return apperrors.ErrNotFound
		}
		r.store.transactions[txn.TransactionID] = txn
		return nil
	})
}

// RuleRepository stores classification rules.
type RuleRepository struct {
	store *Store
}

var _ portsrepo.RuleRepositoryFacade = (*RuleRepository)(nil)

func (r *RuleRepository) FindRuleByID(_ context.Context, ruleID string) (*domain.TransactionRule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rule, ok := r.store.rules[ruleID]
	if !ok {
		return nil, fmt.Errorf("%w: rule %s", apperrors.ErrNotFound, ruleID)
	}
	return &rule, nil
}

func (r *RuleRepository) FindRuleByName(_ context.Context, tenantID, name string) (*domain.TransactionRule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, rule := range r.store.rules {
		if rule.TenantID == tenantID && rule.Name == name {
			return &rule, nil
		}
	}
	return nil, fmt.Errorf("%w: rule %q", apperrors.ErrNotFound, name)
}

func (r *RuleRepository) ListActiveRules(_ context.Context, tenantID string) ([]domain.TransactionRule, error) {
	return r.list(tenantID, true), nil
}

func (r *RuleRepository) ListRules(_ context.Context, tenantID string) ([]domain.TransactionRule, error) {
	return r.list(tenantID, false), nil
}

func (r *RuleRepository) list(tenantID string, activeOnly bool) []domain.TransactionRule {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.TransactionRule
	for _, rule := range r.store.rules {
		if rule.TenantID != tenantID || (activeOnly && !rule.IsActive) {
			continue
		}
		out = append(out, rule)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (r *RuleRepository) SaveRule(ctx context.Context, rule domain.TransactionRule) error {
	return r.store.write(ctx, func() error {
		for _, existing := range r.store.rules {
			if existing.TenantID == rule.TenantID && existing.Name == rule.Name {
				return fmt.Errorf("%w: rule %q", apperrors.ErrDuplicate, rule.Name)
			}
		}
		r.store.rules[rule.RuleID] = rule
		return nil
	})
}

func (r *RuleRepository) UpdateRule(ctx context.Context, rule domain.TransactionRule) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.rules[rule.RuleID]; !ok {
			return apperrors.ErrNotFound
		}
		r.store.rules[rule.RuleID] = rule
		return nil
	})
}

func (r *RuleRepository) IncrementUsage(ctx context.Context, ruleID string) error {
	return r.bump(ctx, ruleID, func(rule *domain.TransactionRule) { rule.UsageCount++ })
}

func (r *RuleRepository) IncrementSuccess(ctx context.Context, ruleID string) error {
	return r.bump(ctx, ruleID, func(rule *domain.TransactionRule) { rule.SuccessCount++ })
}

func (r *RuleRepository) bump(ctx context.Context, ruleID string, apply func(*domain.TransactionRule)) error {
	return r.store.write(ctx, func() error {
		rule, ok := r.store.rules[ruleID]
		if !ok {
			return apperrors.ErrNotFound
		}
		apply(&rule)
		r.store.rules[ruleID] = rule
		return nil
	})
}
