package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

// JournalEntry is a row of the journal_entries table. Lines are stored separately.
type JournalEntry struct {
	EntryID         string          `db:"entry_id"`
	TenantID        string          `db:"tenant_id"`
	EntryNumber     string          `db:"entry_number"`
	EntryDate       time.Time       `db:"entry_date"`
	EntryType       string          `db:"entry_type"`
	ReferenceType   *string         `db:"reference_type"`
	ReferenceID     *string         `db:"reference_id"`
	Description     string          `db:"description"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Status          JournalStatus   `db:"status"`
	ApprovedBy      *string         `db:"approved_by"`
	ApprovedAt      *time.Time      `db:"approved_at"`
	PostedAt        *time.Time      `db:"posted_at"`
	ReversedAt      *time.Time      `db:"reversed_at"`
	ReversalReason  *string         `db:"reversal_reason"`
	ReversalEntryID *string         `db:"reversal_entry_id"`
	AuditFields
}

// JournalEntryLine is a row of the journal_entry_lines table.
type JournalEntryLine struct {
	LineID        string          `db:"line_id"`
	EntryID       string          `db:"entry_id"`
	AccountID     string          `db:"account_id"`
	DebitAmount   decimal.Decimal `db:"debit_amount"`
	CreditAmount  decimal.Decimal `db:"credit_amount"`
	Description   string          `db:"description"`
	ReferenceType *string         `db:"reference_type"`
	ReferenceID   *string         `db:"reference_id"`
	LineOrder     int             `db:"line_order"`
}
