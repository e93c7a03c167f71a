package mapping

import (
	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/SscSPs/building_ledger/internal/models"
)

// ToModelJournalEntry converts the header of a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		TenantID:        d.TenantID,
		EntryNumber:     d.EntryNumber,
		EntryDate:       d.EntryDate,
		EntryType:       string(d.EntryType),
		ReferenceType:   d.ReferenceType,
		ReferenceID:     d.ReferenceID,
		Description:     d.Description,
		TotalAmount:     d.TotalAmount,
		Status:          models.JournalStatus(d.Status),
		ApprovedBy:      d.ApprovedBy,
		ApprovedAt:      d.ApprovedAt,
		PostedAt:        d.PostedAt,
		ReversedAt:      d.ReversedAt,
		ReversalReason:  d.ReversalReason,
		ReversalEntryID: d.ReversalEntryID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalEntryLine) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:         m.EntryID,
		TenantID:        m.TenantID,
		EntryNumber:     m.EntryNumber,
		EntryDate:       domain.DateOnly(m.EntryDate),
		EntryType:       domain.EntryType(m.EntryType),
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		Description:     m.Description,
		TotalAmount:     m.TotalAmount,
		Status:          domain.JournalStatus(m.Status),
		ApprovedBy:      m.ApprovedBy,
		ApprovedAt:      m.ApprovedAt,
		PostedAt:        m.PostedAt,
		ReversedAt:      m.ReversedAt,
		ReversalReason:  m.ReversalReason,
		ReversalEntryID: m.ReversalEntryID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if lines != nil {
		d.Lines = make([]domain.JournalEntryLine, len(lines))
		for i, l := range lines {
			d.Lines[i] = ToDomainJournalEntryLine(l)
		}
	}
	return d
}

// ToModelJournalEntryLine converts a domain JournalEntryLine to a model JournalEntryLine
func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:        d.LineID,
		EntryID:       d.EntryID,
		AccountID:     d.AccountID,
		DebitAmount:   d.DebitAmount,
		CreditAmount:  d.CreditAmount,
		Description:   d.Description,
		ReferenceType: d.ReferenceType,
		ReferenceID:   d.ReferenceID,
		LineOrder:     d.LineOrder,
	}
}

// ToDomainJournalEntryLine converts a model JournalEntryLine to a domain JournalEntryLine
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:        m.LineID,
		EntryID:       m.EntryID,
		AccountID:     m.AccountID,
		DebitAmount:   m.DebitAmount,
		CreditAmount:  m.CreditAmount,
		Description:   m.Description,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		LineOrder:     m.LineOrder,
	}
}
