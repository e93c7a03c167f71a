package dto

import (
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalEntryLineRequest is one line of a new entry.
// Side rules (exactly one positive amount) are checked by the ledger validator, not here.
type CreateJournalEntryLineRequest struct {
	AccountID     string          `json:"accountID" validate:"required"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Description   string          `json:"description" validate:"max=500"`
	ReferenceType *string         `json:"referenceType" validate:"omitempty,max=50"`
	ReferenceID   *string         `json:"referenceID"`
	LineOrder     int             `json:"lineOrder" validate:"gte=1"`
}

// CreateJournalEntryRequest defines the data needed to create a journal entry.
type CreateJournalEntryRequest struct {
	EntryDate     time.Time                       `json:"entryDate" validate:"required"`
	EntryType     domain.EntryType                `json:"entryType" validate:"required,oneof=MANUAL AUTO ADJUSTMENT"`
	ReferenceType *string                         `json:"referenceType" validate:"omitempty,max=50"`
	ReferenceID   *string                         `json:"referenceID"`
	Description   string                          `json:"description" validate:"required,max=500"`
	Lines         []CreateJournalEntryLineRequest `json:"lines" validate:"required,dive"`
}

// ReverseJournalEntryRequest carries the reason recorded on the reversed entry.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ListJournalEntriesParams defines the query parameters for listing entries.
type ListJournalEntriesParams struct {
	From      *time.Time            `json:"from"`
	To        *time.Time            `json:"to"`
	Status    *domain.JournalStatus `json:"status" validate:"omitempty,oneof=DRAFT PENDING APPROVED POSTED REVERSED"`
	Limit     int                   `json:"limit" validate:"gte=0,lte=500"`
	NextToken *string               `json:"nextToken"`
}

// ListJournalEntriesResponse is one page of entries.
type ListJournalEntriesResponse struct {
	Entries   []domain.JournalEntry `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}
