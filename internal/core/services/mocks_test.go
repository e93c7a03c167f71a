package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerEventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

var _ portssvc.LedgerEventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, events ...domain.LedgerEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// published flattens every event handed to Publish, in call order.
func (m *MockEventPublisher) published() []domain.LedgerEvent {
	var out []domain.LedgerEvent
	for _, call := range m.Calls {
		if call.Method == "Publish" {
			out = append(out, call.Arguments.Get(1).([]domain.LedgerEvent)...)
		}
	}
	return out
}

// --- Mock EntryNumberRepository ---
type MockEntryNumberRepository struct {
	mock.Mock
}

var _ portsrepo.EntryNumberRepository = (*MockEntryNumberRepository)(nil)

func (m *MockEntryNumberRepository) NextSequence(ctx context.Context, tenantID string, year, month int) (int, error) {
	args := m.Called(ctx, tenantID, year, month)
	return args.Int(0), args.Error(1)
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, tenantID string, from, to time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetPostedTotals(ctx context.Context, tenantID string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// collidingJournalRepo fails the first saves with a numbering collision.
type collidingJournalRepo struct {
	portsrepo.JournalRepositoryFacade
	collisions int
}

func (r *collidingJournalRepo) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	if r.collisions > 0 {
		r.collisions--
		return apperrors.ErrDuplicateNumber
	}
	return r.JournalRepositoryFacade.SaveJournalEntry(ctx, entry)
}
