package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

func (m *MockPeriodService) FindPeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.FinancialPeriod, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialPeriod), args.Error(1)
}

func (m *MockPeriodService) EnsureWritable(ctx context.Context, tenantID string, date time.Time) error {
	args := m.Called(ctx, tenantID, date)
	return args.Error(0)
}

func (m *MockPeriodService) LockWritable(ctx context.Context, tenantID string, date time.Time) error {
	args := m.Called(ctx, tenantID, date)
	return args.Error(0)
}

func (m *MockPeriodService) OpenPeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int, actorID string) (*domain.FinancialPeriod, error) {
	return m.period(m.Called(ctx, tenantID, fiscalYear, periodNumber, actorID))
}

func (m *MockPeriodService) ClosePeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int, actorID string) (*domain.FinancialPeriod, error) {
	return m.period(m.Called(ctx, tenantID, fiscalYear, periodNumber, actorID))
}

func (m *MockPeriodService) LockPeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int, actorID string) (*domain.FinancialPeriod, error) {
	return m.period(m.Called(ctx, tenantID, fiscalYear, periodNumber, actorID))
}

func (m *MockPeriodService) ValidatePeriodClose(ctx context.Context, tenantID string, fiscalYear, periodNumber int) (*domain.PeriodCloseReport, error) {
	args := m.Called(ctx, tenantID, fiscalYear, periodNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodCloseReport), args.Error(1)
}

func (m *MockPeriodService) period(args mock.Arguments) (*domain.FinancialPeriod, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialPeriod), args.Error(1)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func (m *MockReportingService) TrialBalance(ctx context.Context, tenantID string, from, to time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}
