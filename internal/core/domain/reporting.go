package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalance is the per-account summary of posted activity in a date range.
type TrialBalance struct {
	TenantID    string            `json:"tenantID"`
	From        time.Time         `json:"from"`
	To          time.Time         `json:"to"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// PeriodCloseReport lists what blocks a period from being closed.
type PeriodCloseReport struct {
	TenantID      string          `json:"tenantID"`
	FiscalYear    int             `json:"fiscalYear"`
	PeriodNumber  int             `json:"periodNumber"`
	UnpostedCount int             `json:"unpostedCount"`
	UnbalancedIDs []string        `json:"unbalancedIDs"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	Issues        []string        `json:"issues"`
}

// CanClose is true when nothing blocks the close.
func (r PeriodCloseReport) CanClose() bool {
	return len(r.Issues) == 0
}

// RuleStat is a compact view of one rule's track record.
type RuleStat struct {
	RuleID       string          `json:"ruleID"`
	Name         string          `json:"name"`
	UsageCount   int             `json:"usageCount"`
	SuccessCount int             `json:"successCount"`
	SuccessRate  decimal.Decimal `json:"successRate"`
}

// RulePatternAnalysis summarizes how the classification rules perform.
type RulePatternAnalysis struct {
	TenantID           string          `json:"tenantID"`
	TotalRules         int             `json:"totalRules"`
	ActiveRules        int             `json:"activeRules"`
	AutoGeneratedRules int             `json:"autoGeneratedRules"`
	TotalUsage         int64           `json:"totalUsage"`
	TotalSuccess       int64           `json:"totalSuccess"`
	AverageSuccessRate decimal.Decimal `json:"averageSuccessRate"`
	TopPerforming      []RuleStat      `json:"topPerforming"`
	MostUsed           []RuleStat      `json:"mostUsed"`
}

// JournalEntryFilter narrows ListJournalEntries. Zero values mean "any".
type JournalEntryFilter struct {
	From   *time.Time
	To     *time.Time
	Status *JournalStatus
}
