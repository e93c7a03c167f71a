package models

import "time"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account is a row of the accounts table.
type Account struct {
	AccountID       string      `db:"account_id"`
	TenantID        string      `db:"tenant_id"`
	Code            string      `db:"code"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	ParentAccountID *string     `db:"parent_account_id"` // Nullable
	Level           int         `db:"level"`
	Description     string      `db:"description"`
	IsActive        bool        `db:"is_active"`
	AuditFields
}

// FinancialPeriod is a row of the financial_periods table.
type FinancialPeriod struct {
	PeriodID     string     `db:"period_id"`
	TenantID     string     `db:"tenant_id"`
	FiscalYear   int        `db:"fiscal_year"`
	PeriodNumber int        `db:"period_number"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      time.Time  `db:"end_date"`
	Status       string     `db:"status"`
	ClosedAt     *time.Time `db:"closed_at"`
	ClosedBy     *string    `db:"closed_by"`
	AuditFields
}
