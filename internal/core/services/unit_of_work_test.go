package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/core/services"
	"github.com/SscSPs/building_ledger/internal/dto"
	"github.com/SscSPs/building_ledger/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type journalFixture struct {
	repos     portsrepo.RepositoryProvider
	journal   portssvc.JournalSvcFacade
	colliding *collidingJournalRepo
	tenantID  string
	cashID    string
	rentID    string
}

// newJournalFixture wires a journal service whose first saves collide on the entry number.
func newJournalFixture(t *testing.T, collisions int, options ...services.ServiceOption) journalFixture {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	options = append(options, services.WithClock(func() time.Time { return now }))

	f := journalFixture{repos: memory.NewRepositoryProvider(memory.NewStore()), tenantID: uuid.NewString()}
	for code, accountType := range map[string]domain.AccountType{"1100": domain.Asset, "4100": domain.Revenue} {
		a := domain.Account{
			AccountID:   uuid.NewString(),
			TenantID:    f.tenantID,
			Code:        code,
			Name:        code,
			AccountType: accountType,
			Level:       1,
			IsActive:    true,
		}
		require.NoError(t, f.repos.AccountRepo.SaveAccount(ctx, a))
		if code == "1100" {
			f.cashID = a.AccountID
		} else {
			f.rentID = a.AccountID
		}
	}

	f.colliding = &collidingJournalRepo{JournalRepositoryFacade: f.repos.JournalRepo, collisions: collisions}
	numbering := services.NewEntryNumberingService(f.repos.EntryNumberRepo, options...)
	periods := services.NewPeriodService(f.repos.TxManager, f.repos.PeriodRepo, f.repos.JournalRepo, f.repos.ReportingRepo, false, options...)
	f.journal = services.NewJournalService(f.repos.TxManager, f.colliding, f.repos.AccountRepo, numbering, periods, options...)
	return f
}

func (f journalFixture) request() dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		EntryType:   domain.EntryManual,
		Description: "rent",
		Lines: []dto.CreateJournalEntryLineRequest{
			{AccountID: f.cashID, DebitAmount: decimal.NewFromInt(10), LineOrder: 1},
			{AccountID: f.rentID, CreditAmount: decimal.NewFromInt(10), LineOrder: 2},
		},
	}
}

func TestJournal_RetriesOneNumberCollision(t *testing.T) {
	f := newJournalFixture(t, 1)

	entry, err := f.journal.CreateJournalEntry(context.Background(), f.tenantID, f.request(), "clerk")
	require.NoError(t, err)
	assert.Equal(t, "JE2025030001", entry.EntryNumber, "the failed attempt leaves no gap")
	assert.Zero(t, f.colliding.collisions)
}

func TestJournal_SecondCollisionIsTransient(t *testing.T) {
	f := newJournalFixture(t, 2)

	_, err := f.journal.CreateJournalEntry(context.Background(), f.tenantID, f.request(), "clerk")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransient)

	page, err := f.journal.ListJournalEntries(context.Background(), f.tenantID, dto.ListJournalEntriesParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Entries)
}

func TestJournal_PublishFailureKeepsCommittedWrite(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	f := newJournalFixture(t, 0, services.WithEventPublisher(publisher))
	ctx := context.Background()

	entry, err := f.journal.CreateJournalEntry(ctx, f.tenantID, f.request(), "clerk")
	require.NoError(t, err)
	_, err = f.journal.SubmitJournalEntry(ctx, f.tenantID, entry.EntryID, "clerk")
	require.NoError(t, err)
	_, err = f.journal.ApproveJournalEntry(ctx, f.tenantID, entry.EntryID, "manager")
	require.NoError(t, err)

	posted, err := f.journal.PostJournalEntry(ctx, f.tenantID, entry.EntryID, "clerk")
	require.NoError(t, err)
	assert.Equal(t, domain.Posted, posted.Status)

	events := publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventEntryPosted, events[0].Type)
	assert.Equal(t, entry.EntryNumber, events[0].EntryNumber)
	assert.True(t, events[0].Amount.Equal(decimal.NewFromInt(10)))
	publisher.AssertExpectations(t)
}

func TestJournal_RejectedWriteDoesNotPublish(t *testing.T) {
	publisher := new(MockEventPublisher)
	f := newJournalFixture(t, 0, services.WithEventPublisher(publisher))
	ctx := context.Background()

	entry, err := f.journal.CreateJournalEntry(ctx, f.tenantID, f.request(), "clerk")
	require.NoError(t, err)
	_, err = f.journal.PostJournalEntry(ctx, f.tenantID, entry.EntryID, "clerk")
	require.ErrorIs(t, err, apperrors.ErrInvalidState)

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestJournal_NoPeriodAllowedWhenNotRequired(t *testing.T) {
	f := newJournalFixture(t, 0)
	req := f.request()
	req.EntryDate = time.Date(2031, 7, 1, 0, 0, 0, 0, time.UTC)

	entry, err := f.journal.CreateJournalEntry(context.Background(), f.tenantID, req, "clerk")
	require.NoError(t, err)
	assert.Equal(t, "JE2031070001", entry.EntryNumber)
}
