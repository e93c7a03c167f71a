package repositories

import (
	"context"

	"github.com/SscSPs/building_ledger/internal/core/domain"
)

// RuleReader defines read operations for classification rules
type RuleReader interface {
	FindRuleByID(ctx context.Context, ruleID string) (*domain.TransactionRule, error)

	// FindRuleByName returns apperrors.ErrNotFound when the tenant has no rule of that name.
	FindRuleByName(ctx context.Context, tenantID, name string) (*domain.TransactionRule, error)

	// ListActiveRules returns active rules ordered by priority, then creation time.
	ListActiveRules(ctx context.Context, tenantID string) ([]domain.TransactionRule, error)

	// ListRules returns every rule of the tenant in evaluation order.
	ListRules(ctx context.Context, tenantID string) ([]domain.TransactionRule, error)
}

// RuleWriter defines write operations for classification rules
type RuleWriter interface {
	SaveRule(ctx context.Context, rule domain.TransactionRule) error
	UpdateRule(ctx context.Context, rule domain.TransactionRule) error

	// IncrementUsage and IncrementSuccess bump the counters atomically in storage.
	IncrementUsage(ctx context.Context, ruleID string) error
	IncrementSuccess(ctx context.Context, ruleID string) error
}

// RuleRepositoryFacade combines all rule-related repository interfaces
type RuleRepositoryFacade interface {
	RuleReader
	RuleWriter
}
