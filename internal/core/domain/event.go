package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEventType names what happened.
type LedgerEventType string

const (
	EventEntryPosted          LedgerEventType = "journal_entry.posted"
	EventEntryReversed        LedgerEventType = "journal_entry.reversed"
	EventTransactionProcessed LedgerEventType = "transaction.processed"
)

// LedgerEvent is published after a ledger write commits.
type LedgerEvent struct {
	EventID     string          `json:"eventID"`
	Type        LedgerEventType `json:"type"`
	TenantID    string          `json:"tenantID"`
	AggregateID string          `json:"aggregateID"`
	EntryNumber string          `json:"entryNumber,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurredAt"`
}
