package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closingGate lets the early check pass, then closes the period before the write starts.
type closingGate struct {
	portssvc.PeriodSvcFacade
}

func (g closingGate) EnsureWritable(ctx context.Context, tenantID string, date time.Time) error {
	if err := g.PeriodSvcFacade.EnsureWritable(ctx, tenantID, date); err != nil {
		return err
	}
	_, err := g.ClosePeriod(ctx, tenantID, date.Year(), int(date.Month()), "controller")
	return err
}

func TestJournal_PeriodClosedAfterEarlyCheckBlocksWrite(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	clock := services.WithClock(func() time.Time { return now })
	f := newJournalFixture(t, 0)

	periods := services.NewPeriodService(f.repos.TxManager, f.repos.PeriodRepo, f.repos.JournalRepo, f.repos.ReportingRepo, true, clock)
	_, err := periods.OpenPeriod(ctx, f.tenantID, 2025, 3, "controller")
	require.NoError(t, err)

	numbering := services.NewEntryNumberingService(f.repos.EntryNumberRepo, clock)
	journal := services.NewJournalService(f.repos.TxManager, f.repos.JournalRepo, f.repos.AccountRepo, numbering, closingGate{periods}, clock)

	_, err = journal.CreateJournalEntry(ctx, f.tenantID, f.request(), "clerk")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPeriodLocked)

	count, err := f.repos.JournalRepo.CountUnpostedEntries(ctx, f.tenantID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, count, "no draft written into the closed period")

	period, err := periods.FindPeriodForDate(ctx, f.tenantID, f.request().EntryDate)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodClosed, period.Status)
}
