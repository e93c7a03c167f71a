package mapping

import (
	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/SscSPs/building_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:      d.TransactionID,
		TenantID:           d.TenantID,
		TransactionDate:    d.TransactionDate,
		Direction:          string(d.Direction),
		Category:           string(d.Category),
		Amount:             d.Amount,
		Counterparty:       d.Counterparty,
		Description:        d.Description,
		SuggestedAccountID: d.SuggestedAccountID,
		SuggestedRuleID:    d.SuggestedRuleID,
		ConfidenceScore:    d.ConfidenceScore,
		ApprovedAccountID:  d.ApprovedAccountID,
		Corrected:          d.Corrected,
		Status:             string(d.Status),
		ApprovedBy:         d.ApprovedBy,
		ApprovedAt:         d.ApprovedAt,
		ApprovalNotes:      d.ApprovalNotes,
		RejectionReason:    d.RejectionReason,
		JournalEntryID:     d.JournalEntryID,
		ProcessedAt:        d.ProcessedAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:      m.TransactionID,
		TenantID:           m.TenantID,
		TransactionDate:    domain.DateOnly(m.TransactionDate),
		Direction:          domain.Direction(m.Direction),
		Category:           domain.Category(m.Category),
		Amount:             m.Amount,
		Counterparty:       m.Counterparty,
		Description:        m.Description,
		SuggestedAccountID: m.SuggestedAccountID,
		SuggestedRuleID:    m.SuggestedRuleID,
		ConfidenceScore:    m.ConfidenceScore,
		ApprovedAccountID:  m.ApprovedAccountID,
		Corrected:          m.Corrected,
		Status:             domain.TransactionStatus(m.Status),
		ApprovedBy:         m.ApprovedBy,
		ApprovedAt:         m.ApprovedAt,
		ApprovalNotes:      m.ApprovalNotes,
		RejectionReason:    m.RejectionReason,
		JournalEntryID:     m.JournalEntryID,
		ProcessedAt:        m.ProcessedAt,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelRule converts a domain TransactionRule to a model TransactionRule
func ToModelRule(d domain.TransactionRule) models.TransactionRule {
	var category *string
	if d.Category != nil {
		c := string(*d.Category)
		category = &c
	}
	return models.TransactionRule{
		RuleID:              d.RuleID,
		TenantID:            d.TenantID,
		Name:                d.Name,
		Direction:           string(d.Direction),
		Category:            category,
		CounterpartyPattern: d.CounterpartyPattern,
		DescriptionPattern:  d.DescriptionPattern,
		AmountMin:           d.AmountMin,
		AmountMax:           d.AmountMax,
		TargetAccountID:     d.TargetAccountID,
		Confidence:          d.Confidence,
		Priority:            d.Priority,
		UsageCount:          d.UsageCount,
		SuccessCount:        d.SuccessCount,
		IsActive:            d.IsActive,
		IsAutoGenerated:     d.IsAutoGenerated,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRule converts a model TransactionRule to a domain TransactionRule
func ToDomainRule(m models.TransactionRule) domain.TransactionRule {
	var category *domain.Category
	if m.Category != nil {
		c := domain.Category(*m.Category)
		category = &c
	}
	return domain.TransactionRule{
		RuleID:              m.RuleID,
		TenantID:            m.TenantID,
		Name:                m.Name,
		Direction:           domain.Direction(m.Direction),
		Category:            category,
		CounterpartyPattern: m.CounterpartyPattern,
		DescriptionPattern:  m.DescriptionPattern,
		AmountMin:           m.AmountMin,
		AmountMax:           m.AmountMax,
		TargetAccountID:     m.TargetAccountID,
		Confidence:          m.Confidence,
		Priority:            m.Priority,
		UsageCount:          m.UsageCount,
		SuccessCount:        m.SuccessCount,
		IsActive:            m.IsActive,
		IsAutoGenerated:     m.IsAutoGenerated,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRuleSlice converts a slice of model rules to domain rules
func ToDomainRuleSlice(ms []models.TransactionRule) []domain.TransactionRule {
	ds := make([]domain.TransactionRule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRule(m)
	}
	return ds
}
