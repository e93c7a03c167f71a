package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const patternTopN = 5

// LearningPolicy controls when repeated manual corrections turn into a rule.
type LearningPolicy struct {
	Threshold int
	Lookback  time.Duration
}

// classificationService implements the ClassificationSvcFacade interface
type classificationService struct {
	BaseService
	ruleRepo    portsrepo.RuleRepositoryFacade
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
	fallbacks   []domain.FallbackRule
	policy      LearningPolicy
}

// NewClassificationService creates the classification engine.
// fallbacks is consulted in order when no rule matches.
func NewClassificationService(
	ruleRepo portsrepo.RuleRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	txnRepo portsrepo.TransactionReader,
	fallbacks []domain.FallbackRule,
	policy LearningPolicy,
	options ...ServiceOption,
) portssvc.ClassificationSvcFacade {
	o := applyOptions(options)
	if policy.Threshold < 1 {
		policy.Threshold = 3
	}
	if policy.Lookback <= 0 {
		policy.Lookback = 90 * 24 * time.Hour
	}
	return &classificationService{
		BaseService: BaseService{Clock: o.clock},
		ruleRepo:    ruleRepo,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		fallbacks:   fallbacks,
		policy:      policy,
	}
}

var _ portssvc.ClassificationSvcFacade = (*classificationService)(nil)

func (s *classificationService) Suggest(ctx context.Context, txn domain.Transaction) *domain.ClassificationSuggestion {
	logger := s.GetLogger(ctx).With(
		slog.String("tenant_id", txn.TenantID),
		slog.String("transaction_id", txn.TransactionID))

	rules, err := s.ruleRepo.ListActiveRules(ctx, txn.TenantID)
	if err != nil {
		logger.Error("Failed to load classification rules", slog.String("error", err.Error()))
		return nil
	}
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Less(rules[j]) })

	for _, rule := range rules {
		if !domain.CompileRule(rule).Matches(txn) {
			continue
		}
		if err := s.ruleRepo.IncrementUsage(ctx, rule.RuleID); err != nil {
			logger.Error("Failed to record rule usage",
				slog.String("rule_id", rule.RuleID),
				slog.String("error", err.Error()))
			return nil
		}
		ruleID := rule.RuleID
		logger.Debug("Transaction matched rule", slog.String("rule_id", ruleID), slog.String("rule", rule.Name))
		return &domain.ClassificationSuggestion{
			AccountID:  rule.TargetAccountID,
			Confidence: rule.Confidence,
			RuleID:     &ruleID,
		}
	}

	return s.suggestFromFallback(ctx, logger, txn)
}

func (s *classificationService) suggestFromFallback(ctx context.Context, logger *slog.Logger, txn domain.Transaction) *domain.ClassificationSuggestion {
	for _, fb := range s.fallbacks {
		if !fb.Matches(txn) {
			continue
		}
		account, err := s.accountRepo.FindAccountByCode(ctx, txn.TenantID, fb.AccountCode)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				logger.Error("Failed to resolve fallback account",
					slog.String("code", fb.AccountCode),
					slog.String("error", err.Error()))
			}
			return nil
		}
		if !account.IsActive {
			return nil
		}
		return &domain.ClassificationSuggestion{
			AccountID:  account.AccountID,
			Confidence: domain.FallbackConfidence,
		}
	}
	logger.Debug("No classification for transaction")
	return nil
}

func (s *classificationService) LearnFromApproval(ctx context.Context, txn domain.Transaction, approvedAccountID string) error {
	if txn.SuggestionMatches(approvedAccountID) {
		if txn.SuggestedRuleID == nil {
			return nil
		}
		if err := s.ruleRepo.IncrementSuccess(ctx, *txn.SuggestedRuleID); err != nil {
			return fmt.Errorf("failed to record rule success: %w", err)
		}
		return nil
	}

	q := domain.SimilarTransactionQuery{
		TenantID:          txn.TenantID,
		Direction:         txn.Direction,
		Counterparty:      txn.Counterparty,
		Category:          txn.Category,
		ApprovedAccountID: approvedAccountID,
		Since:             s.now().Add(-s.policy.Lookback),
	}
	similar, err := s.txnRepo.CountSimilarApprovals(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to count similar approvals: %w", err)
	}
	if similar < s.policy.Threshold {
		return nil
	}

	name := domain.LearnedRuleName(txn)
	if _, err := s.ruleRepo.FindRuleByName(ctx, txn.TenantID, name); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to look up rule %q: %w", name, err)
	}

	rule := domain.TransactionRule{
		RuleID:          uuid.NewString(),
		TenantID:        txn.TenantID,
		Name:            name,
		Direction:       txn.Direction,
		TargetAccountID: approvedAccountID,
		Confidence:      domain.LearnedRuleConfidence,
		Priority:        domain.LearnedRulePriority,
		IsActive:        true,
		IsAutoGenerated: true,
		AuditFields:     domain.NewAuditFields(actorOf(txn), s.now()),
	}
	category := txn.Category
	rule.Category = &category
	if txn.Counterparty != nil && strings.TrimSpace(*txn.Counterparty) != "" {
		pattern := "^" + regexp.QuoteMeta(strings.TrimSpace(*txn.Counterparty)) + "$"
		rule.CounterpartyPattern = &pattern
	}

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to save learned rule: %w", err)
	}
	s.LogInfo(ctx, "Learned classification rule",
		slog.String("tenant_id", txn.TenantID),
		slog.String("rule_id", rule.RuleID),
		slog.String("rule", rule.Name),
		slog.Int("similar_approvals", similar))
	return nil
}

func actorOf(txn domain.Transaction) string {
	if txn.ApprovedBy != nil {
		return *txn.ApprovedBy
	}
	return txn.LastUpdatedBy
}

func (s *classificationService) CreateRule(ctx context.Context, tenantID string, req dto.CreateRuleRequest, actorID string) (*domain.TransactionRule, error) {
	if err := dto.Validate("rule", req); err != nil {
		return nil, err
	}
	vErr := apperrors.NewValidationError("rule")
	if req.CounterpartyPattern != nil && !domain.ValidPattern(*req.CounterpartyPattern) {
		vErr.Add("pattern", 0, "counterparty pattern %q is not a valid expression", *req.CounterpartyPattern)
	}
	if req.DescriptionPattern != nil && !domain.ValidPattern(*req.DescriptionPattern) {
		vErr.Add("pattern", 0, "description pattern %q is not a valid expression", *req.DescriptionPattern)
	}
	if req.AmountMin != nil && req.AmountMax != nil && req.AmountMin.GreaterThan(*req.AmountMax) {
		vErr.Add("amount_range", 0, "amount min %s exceeds max %s", req.AmountMin, req.AmountMax)
	}
	if vErr.HasIssues() {
		return nil, vErr
	}

	target, err := s.accountRepo.FindAccountByID(ctx, req.TargetAccountID)
	if err != nil {
		return nil, err
	}
	if err := ensureTenant("account", target.AccountID, target.TenantID, tenantID); err != nil {
		return nil, err
	}

	confidence := req.Confidence
	if confidence.IsZero() {
		confidence = domain.DefaultRuleConfidence
	}
	priority := req.Priority
	if priority == 0 {
		priority = domain.DefaultRulePriority
	}

	rule := domain.TransactionRule{
		RuleID:              uuid.NewString(),
		TenantID:            tenantID,
		Name:                req.Name,
		Direction:           req.Direction,
		Category:            req.Category,
		CounterpartyPattern: req.CounterpartyPattern,
		DescriptionPattern:  req.DescriptionPattern,
		AmountMin:           req.AmountMin,
		AmountMax:           req.AmountMax,
		TargetAccountID:     target.AccountID,
		Confidence:          confidence,
		Priority:            priority,
		IsActive:            true,
		AuditFields:         domain.NewAuditFields(actorID, s.now()),
	}
	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: rule %q already exists", apperrors.ErrDuplicate, req.Name)
		}
		s.LogError(ctx, err, "Failed to save rule", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}
	return &rule, nil
}

func (s *classificationService) ListRules(ctx context.Context, tenantID string) ([]domain.TransactionRule, error) {
	return s.ruleRepo.ListRules(ctx, tenantID)
}

func (s *classificationService) DeactivateRule(ctx context.Context, tenantID, ruleID, actorID string) (*domain.TransactionRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if err := ensureTenant("rule", ruleID, rule.TenantID, tenantID); err != nil {
		return nil, err
	}
	if !rule.IsActive {
		return rule, nil
	}
	rule.IsActive = false
	rule.Touch(actorID, s.now())
	if err := s.ruleRepo.UpdateRule(ctx, *rule); err != nil {
		return nil, fmt.Errorf("failed to deactivate rule: %w", err)
	}
	return rule, nil
}

func (s *classificationService) AnalyzePatterns(ctx context.Context, tenantID string) (*domain.RulePatternAnalysis, error) {
	rules, err := s.ruleRepo.ListRules(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	analysis := &domain.RulePatternAnalysis{
		TenantID:           tenantID,
		TotalRules:         len(rules),
		AverageSuccessRate: decimal.Zero,
	}
	used := make([]domain.TransactionRule, 0, len(rules))
	var totalUsage, totalSuccess int64
	for _, r := range rules {
		if r.IsActive {
			analysis.ActiveRules++
		}
		if r.IsAutoGenerated {
			analysis.AutoGeneratedRules++
		}
		if r.UsageCount > 0 {
			used = append(used, r)
		}
		totalUsage += int64(r.UsageCount)
		totalSuccess += int64(r.SuccessCount)
	}
	analysis.TotalUsage, analysis.TotalSuccess = totalUsage, totalSuccess
	if totalUsage > 0 {
		analysis.AverageSuccessRate = decimal.NewFromInt(totalSuccess).DivRound(decimal.NewFromInt(totalUsage), 4)
	}

	byRate := append([]domain.TransactionRule(nil), used...)
	sort.SliceStable(byRate, func(i, j int) bool {
		return byRate[i].SuccessRate().GreaterThan(byRate[j].SuccessRate())
	})
	analysis.TopPerforming = ruleStats(byRate, patternTopN)

	byUsage := append([]domain.TransactionRule(nil), used...)
	sort.SliceStable(byUsage, func(i, j int) bool {
		return byUsage[i].UsageCount > byUsage[j].UsageCount
	})
	analysis.MostUsed = ruleStats(byUsage, patternTopN)

	return analysis, nil
}

func ruleStats(rules []domain.TransactionRule, limit int) []domain.RuleStat {
	if len(rules) > limit {
		rules = rules[:limit]
	}
	stats := make([]domain.RuleStat, 0, len(rules))
	for _, r := range rules {
		stats = append(stats, domain.RuleStat{
			RuleID:       r.RuleID,
			Name:         r.Name,
			UsageCount:   r.UsageCount,
			SuccessCount: r.SuccessCount,
			SuccessRate:  r.SuccessRate(),
		})
	}
	return stats
}
