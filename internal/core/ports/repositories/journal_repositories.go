package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindJournalEntryByID retrieves an entry with its lines in line order.
	FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindJournalEntryByIDForUpdate is FindJournalEntryByID plus a row lock held by the unit of work.
	FindJournalEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of entries (newest first, without lines) using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListJournalEntries(ctx context.Context, tenantID string, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// CountLinesByAccount tells how many lines reference an account.
	CountLinesByAccount(ctx context.Context, accountID string) (int, error)

	// CountUnpostedEntries counts DRAFT, PENDING and APPROVED entries dated in [from, to].
	CountUnpostedEntries(ctx context.Context, tenantID string, from, to time.Time) (int, error)

	// FindUnbalancedEntryIDs lists entries dated in [from, to] whose debits and credits differ.
	FindUnbalancedEntryIDs(ctx context.Context, tenantID string, from, to time.Time) ([]string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveJournalEntry inserts the header and all lines as one write.
	// A taken entry number yields apperrors.ErrDuplicateNumber.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateJournalEntryStatus persists the status, approval, posting and reversal fields.
	// Lines are never rewritten.
	UpdateJournalEntryStatus(ctx context.Context, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
