package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table: a raw income or expense event.
type Transaction struct {
	TransactionID      string           `db:"transaction_id"`
	TenantID           string           `db:"tenant_id"`
	TransactionDate    time.Time        `db:"transaction_date"`
	Direction          string           `db:"direction"`
	Category           string           `db:"category"`
	Amount             decimal.Decimal  `db:"amount"`
	Counterparty       *string          `db:"counterparty"`
	Description        string           `db:"description"`
	SuggestedAccountID *string          `db:"suggested_account_id"`
	SuggestedRuleID    *string          `db:"suggested_rule_id"`
	ConfidenceScore    *decimal.Decimal `db:"confidence_score"`
	ApprovedAccountID  *string          `db:"approved_account_id"`
	Corrected          bool             `db:"corrected"`
	Status             string           `db:"status"`
	ApprovedBy         *string          `db:"approved_by"`
	ApprovedAt         *time.Time       `db:"approved_at"`
	ApprovalNotes      *string          `db:"approval_notes"`
	RejectionReason    *string          `db:"rejection_reason"`
	JournalEntryID     *string          `db:"journal_entry_id"`
	ProcessedAt        *time.Time       `db:"processed_at"`
	AuditFields
}

// TransactionRule is a row of the transaction_rules table.
type TransactionRule struct {
	RuleID              string           `db:"rule_id"`
	TenantID            string           `db:"tenant_id"`
	Name                string           `db:"name"`
	Direction           string           `db:"direction"`
	Category            *string          `db:"category"`
	CounterpartyPattern *string          `db:"counterparty_pattern"`
	DescriptionPattern  *string          `db:"description_pattern"`
	AmountMin           *decimal.Decimal `db:"amount_min"`
	AmountMax           *decimal.Decimal `db:"amount_max"`
	TargetAccountID     string           `db:"target_account_id"`
	Confidence          decimal.Decimal  `db:"confidence"`
	Priority            int              `db:"priority"`
	UsageCount          int              `db:"usage_count"`
	SuccessCount        int              `db:"success_count"`
	IsActive            bool             `db:"is_active"`
	IsAutoGenerated     bool             `db:"is_auto_generated"`
	AuditFields
}
