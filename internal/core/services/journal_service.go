package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/dto"
)

const defaultJournalPageSize = 50

// journalService drives journal entries through their status table.
type journalService struct {
	BaseService
	unit        ledgerUnit
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	numbering   portssvc.EntryNumberingSvc
	periods     portssvc.PeriodGate
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	txManager portsrepo.TransactionManager,
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	numbering portssvc.EntryNumberingSvc,
	periods portssvc.PeriodGate,
	options ...ServiceOption,
) portssvc.JournalSvcFacade {
	o := applyOptions(options)
	s := &journalService{
		BaseService: BaseService{Clock: o.clock},
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		numbering:   numbering,
		periods:     periods,
	}
	s.unit = ledgerUnit{base: &s.BaseService, txManager: txManager, publisher: o.publisher}
	return s
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) GetJournalEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		return nil, s.wrapFindError(ctx, err, entryID)
	}
	if err := ensureTenant("journal entry", entryID, entry.TenantID, tenantID); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *journalService) wrapFindError(ctx context.Context, err error, entryID string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	s.LogError(ctx, err, "Failed to load journal entry", slog.String("entry_id", entryID))
	return fmt.Errorf("failed to get journal entry: %w", err)
}

func (s *journalService) ListJournalEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	if err := dto.Validate("journal entry query", params); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit == 0 {
		limit = defaultJournalPageSize
	}
	filter := domain.JournalEntryFilter{From: params.From, To: params.To, Status: params.Status}

	entries, nextToken, err := s.journalRepo.ListJournalEntries(ctx, tenantID, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return &dto.ListJournalEntriesResponse{Entries: entries, NextToken: nextToken}, nil
}

func (s *journalService) CreateJournalEntry(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	if err := dto.Validate("journal entry", req); err != nil {
		return nil, err
	}
	entryDate := domain.DateOnly(req.EntryDate)
	if err := s.periods.EnsureWritable(ctx, tenantID, entryDate); err != nil {
		return nil, err
	}

	now := s.now()
	entry := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		TenantID:      tenantID,
		EntryDate:     entryDate,
		EntryType:     req.EntryType,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Description:   req.Description,
		Status:        domain.Draft,
		Lines:         make([]domain.JournalEntryLine, 0, len(req.Lines)),
		AuditFields:   domain.NewAuditFields(actorID, now),
	}
	for _, l := range req.Lines {
		entry.Lines = append(entry.Lines, domain.JournalEntryLine{
			LineID:        uuid.NewString(),
			EntryID:       entry.EntryID,
			AccountID:     l.AccountID,
			DebitAmount:   l.DebitAmount,
			CreditAmount:  l.CreditAmount,
			Description:   l.Description,
			ReferenceType: l.ReferenceType,
			ReferenceID:   l.ReferenceID,
			LineOrder:     l.LineOrder,
		})
	}
	entry.TotalAmount = entry.TotalDebit()

	if vErr := domain.ValidateEntry(&entry); vErr != nil {
		return nil, vErr
	}

	err := s.unit.run(ctx, "create journal entry", func(ctx context.Context) error {
		return s.insertEntry(ctx, &entry)
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "create journal entry", entry.EntryID)
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("tenant_id", tenantID))
	return &entry, nil
}

// insertEntry checks the period and accounts, numbers the entry and stores it in the current unit of work.
func (s *journalService) insertEntry(ctx context.Context, entry *domain.JournalEntry) error {
	if err := s.periods.LockWritable(ctx, entry.TenantID, entry.EntryDate); err != nil {
		return err
	}
	if err := s.checkAccounts(ctx, entry); err != nil {
		return err
	}
	number, err := s.numbering.Next(ctx, entry.TenantID, entry.EntryDate)
	if err != nil {
		return err
	}
	entry.EntryNumber = number
	return s.journalRepo.SaveJournalEntry(ctx, *entry)
}

// checkAccounts requires every line account to exist, belong to the tenant and be active.
func (s *journalService) checkAccounts(ctx context.Context, entry *domain.JournalEntry) error {
	ids := entry.AccountIDs()
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load line accounts: %w", err)
	}
	inactive := apperrors.NewValidationError("journal entry")
	for _, l := range entry.Lines {
		account, ok := accounts[l.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s on line %d", apperrors.ErrNotFound, l.AccountID, l.LineOrder)
		}
		if err := ensureTenant("account", l.AccountID, account.TenantID, entry.TenantID); err != nil {
			return err
		}
		if !account.IsActive {
			inactive.Add("inactive_account", l.LineOrder, "account %s is archived", account.Code)
		}
	}
	if inactive.HasIssues() {
		return inactive
	}
	return nil
}

func (s *journalService) SubmitJournalEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error) {
	return s.transition(ctx, tenantID, entryID, "submit journal entry", func(e *domain.JournalEntry, now time.Time) error {
		return e.Submit(actorID, now)
	})
}

func (s *journalService) RevertToDraft(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error) {
	return s.transition(ctx, tenantID, entryID, "revert journal entry", func(e *domain.JournalEntry, now time.Time) error {
		return e.RevertToDraft(actorID, now)
	})
}

func (s *journalService) ApproveJournalEntry(ctx context.Context, tenantID, entryID, approverID string) (*domain.JournalEntry, error) {
	if approverID == "" {
		return nil, apperrors.NewValidationError("journal entry", apperrors.Issue{Rule: "approver", Message: "approver is required"})
	}
	return s.transition(ctx, tenantID, entryID, "approve journal entry", func(e *domain.JournalEntry, now time.Time) error {
		if err := e.Approve(approverID, now); err != nil {
			return err
		}
		if vErr := domain.ValidateEntry(e); vErr != nil {
			return vErr
		}
		return nil
	})
}

func (s *journalService) PostJournalEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error) {
	return s.transition(ctx, tenantID, entryID, "post journal entry", func(e *domain.JournalEntry, now time.Time) error {
		if err := e.Post(actorID, now); err != nil {
			return err
		}
		if vErr := domain.ValidateEntry(e); vErr != nil {
			return vErr
		}
		return nil
	})
}

// transition gates on the entry's period, then applies change to a locked copy and persists it.
func (s *journalService) transition(ctx context.Context, tenantID, entryID, op string, change func(e *domain.JournalEntry, now time.Time) error) (*domain.JournalEntry, error) {
	current, err := s.GetJournalEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.periods.EnsureWritable(ctx, tenantID, current.EntryDate); err != nil {
		return nil, err
	}

	var updated *domain.JournalEntry
	err = s.unit.run(ctx, op, func(ctx context.Context) error {
		entry, err := s.journalRepo.FindJournalEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return s.wrapFindError(ctx, err, entryID)
		}
		if err := ensureTenant("journal entry", entryID, entry.TenantID, tenantID); err != nil {
			return err
		}
		if err := s.periods.LockWritable(ctx, tenantID, entry.EntryDate); err != nil {
			return err
		}
		if err := change(entry, s.now()); err != nil {
			return err
		}
		if err := s.journalRepo.UpdateJournalEntryStatus(ctx, *entry); err != nil {
			return fmt.Errorf("failed to update journal entry: %w", err)
		}
		if entry.Status == domain.Posted {
			record(ctx, newEvent(domain.EventEntryPosted, entry, entry.EntryID))
		}
		updated = entry
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, op, entryID)
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry status changed",
		slog.String("operation", op),
		slog.String("entry_id", entryID),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

func (s *journalService) ReverseJournalEntry(ctx context.Context, tenantID, entryID string, req dto.ReverseJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	if err := dto.Validate("reversal", req); err != nil {
		return nil, err
	}
	original, err := s.GetJournalEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	today := domain.DateOnly(s.now())
	if err := s.periods.EnsureWritable(ctx, tenantID, original.EntryDate); err != nil {
		return nil, err
	}
	if err := s.periods.EnsureWritable(ctx, tenantID, today); err != nil {
		return nil, err
	}

	var mirror *domain.JournalEntry
	err = s.unit.run(ctx, "reverse journal entry", func(ctx context.Context) error {
		original, err := s.journalRepo.FindJournalEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return s.wrapFindError(ctx, err, entryID)
		}
		if err := ensureTenant("journal entry", entryID, original.TenantID, tenantID); err != nil {
			return err
		}
		if err := s.periods.LockWritable(ctx, tenantID, original.EntryDate); err != nil {
			return err
		}

		now := s.now()
		mirrorID := uuid.NewString()
		if err := original.MarkReversed(mirrorID, req.Reason, actorID, now); err != nil {
			return err
		}

		m, err := s.buildMirror(original, mirrorID, req.Reason, actorID, today, now)
		if err != nil {
			return err
		}
		if err := s.insertEntry(ctx, m); err != nil {
			return err
		}
		if err := s.journalRepo.UpdateJournalEntryStatus(ctx, *original); err != nil {
			return fmt.Errorf("failed to mark journal entry reversed: %w", err)
		}

		record(ctx,
			newEvent(domain.EventEntryReversed, original, original.EntryID),
			newEvent(domain.EventEntryPosted, m, m.EntryID))
		mirror = m
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "reverse journal entry", entryID)
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", mirror.EntryID),
		slog.String("reversal_entry_number", mirror.EntryNumber))
	return mirror, nil
}

// buildMirror creates the posted adjustment that cancels original line for line.
func (s *journalService) buildMirror(original *domain.JournalEntry, mirrorID, reason, actorID string, entryDate, now time.Time) (*domain.JournalEntry, error) {
	refType, refID := domain.ReferenceReversal, original.EntryID
	mirror := &domain.JournalEntry{
		EntryID:       mirrorID,
		TenantID:      original.TenantID,
		EntryDate:     entryDate,
		EntryType:     domain.EntryAdjustment,
		ReferenceType: &refType,
		ReferenceID:   &refID,
		Description:   fmt.Sprintf("Reversal: %s - %s", original.Description, reason),
		Status:        domain.Draft,
		Lines:         domain.SwappedLines(original.Lines),
		AuditFields:   domain.NewAuditFields(actorID, now),
	}
	for i := range mirror.Lines {
		mirror.Lines[i].LineID = uuid.NewString()
		mirror.Lines[i].EntryID = mirrorID
	}
	mirror.TotalAmount = mirror.TotalDebit()

	if vErr := domain.ValidateEntry(mirror); vErr != nil {
		return nil, vErr
	}
	for _, step := range []func() error{
		func() error { return mirror.Submit(actorID, now) },
		func() error { return mirror.Approve(actorID, now) },
		func() error { return mirror.Post(actorID, now) },
	} {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return mirror, nil
}

func (s *journalService) logWriteFailure(ctx context.Context, err error, op, entryID string) {
	if isRejection(err) {
		s.LogDebug(ctx, "Journal write rejected",
			slog.String("operation", op),
			slog.String("entry_id", entryID),
			slog.String("reason", err.Error()))
		return
	}
	s.LogError(ctx, err, "Journal write failed",
		slog.String("operation", op),
		slog.String("entry_id", entryID))
}
