package services

import (
	"context"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/SscSPs/building_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	GetJournalEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)
	ListJournalEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc drives the entry state machine
type JournalWriterSvc interface {
	// CreateJournalEntry validates, numbers and stores a new DRAFT entry.
	CreateJournalEntry(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)
	SubmitJournalEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error)
	RevertToDraft(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error)
	ApproveJournalEntry(ctx context.Context, tenantID, entryID, approverID string) (*domain.JournalEntry, error)
	PostJournalEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error)

	// ReverseJournalEntry posts a mirrored entry and marks the original REVERSED. It returns the mirror.
	ReverseJournalEntry(ctx context.Context, tenantID, entryID string, req dto.ReverseJournalEntryRequest, actorID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
