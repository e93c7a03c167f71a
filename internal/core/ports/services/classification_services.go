package services

import (
	"context"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/SscSPs/building_ledger/internal/dto"
)

// Classifier suggests and learns account assignments for raw transactions.
type Classifier interface {
	// Suggest never fails: no match, or a storage problem, yields nil.
	Suggest(ctx context.Context, txn domain.Transaction) *domain.ClassificationSuggestion

	// LearnFromApproval updates rule statistics or synthesizes a rule after repeated corrections.
	LearnFromApproval(ctx context.Context, txn domain.Transaction, approvedAccountID string) error
}

// RuleManagerSvc manages classification rules
type RuleManagerSvc interface {
	CreateRule(ctx context.Context, tenantID string, req dto.CreateRuleRequest, actorID string) (*domain.TransactionRule, error)
	ListRules(ctx context.Context, tenantID string) ([]domain.TransactionRule, error)
	DeactivateRule(ctx context.Context, tenantID, ruleID, actorID string) (*domain.TransactionRule, error)
	AnalyzePatterns(ctx context.Context, tenantID string) (*domain.RulePatternAnalysis, error)
}

// ClassificationSvcFacade combines all classification-related service interfaces
type ClassificationSvcFacade interface {
	Classifier
	RuleManagerSvc
}
