package pgsql

import (
	"context"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/building_ledger/internal/models"
	"github.com/SscSPs/building_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ruleColumns = `rule_id, tenant_id, name, direction, category, counterparty_pattern,
	description_pattern, amount_min, amount_max, target_account_id, confidence, priority,
	usage_count, success_count, is_active, is_auto_generated,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRuleRepository struct {
	BaseRepository
}

func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryFacade {
	return &PgxRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)

func (r *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.TransactionRule) error {
	m := mapping.ToModelRule(rule)
	query := `
		INSERT INTO transaction_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.RuleID, m.TenantID, m.Name, m.Direction, m.Category, m.CounterpartyPattern,
		m.DescriptionPattern, m.AmountMin, m.AmountMax, m.TargetAccountID, m.Confidence, m.Priority,
		m.UsageCount, m.SuccessCount, m.IsActive, m.IsAutoGenerated,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapError(err, "failed to insert rule %q", m.Name)
}

// UpdateRule rewrites the definition. Counters are only moved by the Increment methods.
func (r *PgxRuleRepository) UpdateRule(ctx context.Context, rule domain.TransactionRule) error {
	m := mapping.ToModelRule(rule)
	query := `
		UPDATE transaction_rules
		SET name = $2, direction = $3, category = $4, counterparty_pattern = $5, description_pattern = $6,
			amount_min = $7, amount_max = $8, target_account_id = $9, confidence = $10, priority = $11,
			is_active = $12, last_updated_at = $13, last_updated_by = $14
		WHERE rule_id = $1;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.RuleID, m.Name, m.Direction, m.Category, m.CounterpartyPattern, m.DescriptionPattern,
		m.AmountMin, m.AmountMax, m.TargetAccountID, m.Confidence, m.Priority,
		m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "failed to update rule %s", m.RuleID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "rule %s", m.RuleID)
	}
	return nil
}

func (r *PgxRuleRepository) IncrementUsage(ctx context.Context, ruleID string) error {
	return r.bump(ctx, `UPDATE transaction_rules SET usage_count = usage_count + 1 WHERE rule_id = $1`, ruleID)
}

func (r *PgxRuleRepository) IncrementSuccess(ctx context.Context, ruleID string) error {
	return r.bump(ctx, `UPDATE transaction_rules SET success_count = success_count + 1 WHERE rule_id = $1`, ruleID)
}

func (r *PgxRuleRepository) bump(ctx context.Context, query, ruleID string) error {
	tag, err := r.db(ctx).Exec(ctx, query, ruleID)
	if err != nil {
		return mapError(err, "failed to update counters of rule %s", ruleID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "rule %s", ruleID)
	}
	return nil
}

func (r *PgxRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.TransactionRule, error) {
	return r.findOne(ctx, `SELECT `+ruleColumns+` FROM transaction_rules WHERE rule_id = $1`, ruleID)
}

func (r *PgxRuleRepository) FindRuleByName(ctx context.Context, tenantID, name string) (*domain.TransactionRule, error) {
	return r.findOne(ctx, `SELECT `+ruleColumns+` FROM transaction_rules WHERE tenant_id = $1 AND name = $2`, tenantID, name)
}

func (r *PgxRuleRepository) findOne(ctx context.Context, query string, args ...any) (*domain.TransactionRule, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query rule")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.TransactionRule])
	if err != nil {
		return nil, mapError(err, "rule %v", args)
	}
	rule := mapping.ToDomainRule(m)
	return &rule, nil
}

// ListActiveRules returns active rules ordered by priority, then creation time.
func (r *PgxRuleRepository) ListActiveRules(ctx context.Context, tenantID string) ([]domain.TransactionRule, error) {
	return r.list(ctx, `SELECT `+ruleColumns+` FROM transaction_rules
		WHERE tenant_id = $1 AND is_active
		ORDER BY priority, created_at`, tenantID)
}

func (r *PgxRuleRepository) ListRules(ctx context.Context, tenantID string) ([]domain.TransactionRule, error) {
	return r.list(ctx, `SELECT `+ruleColumns+` FROM transaction_rules
		WHERE tenant_id = $1
		ORDER BY priority, created_at`, tenantID)
}

func (r *PgxRuleRepository) list(ctx context.Context, query, tenantID string) ([]domain.TransactionRule, error) {
	rows, err := r.db(ctx).Query(ctx, query, tenantID)
	if err != nil {
		return nil, mapError(err, "failed to query rules")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TransactionRule])
	if err != nil {
		return nil, mapError(err, "failed to scan rules")
	}
	return mapping.ToDomainRuleSlice(ms), nil
}
