package services

import (
	"context"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
)

// PeriodGate is the write gate every ledger mutation passes first.
type PeriodGate interface {
	// FindPeriodForDate returns the tenant's period covering date.
	FindPeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.FinancialPeriod, error)

	// EnsureWritable fails with ErrPeriodLocked when date falls in a closed or locked period.
	EnsureWritable(ctx context.Context, tenantID string, date time.Time) error

	// LockWritable repeats EnsureWritable inside the caller's storage transaction and
	// keeps the period row share-locked until commit, so a close cannot slip in between.
	LockWritable(ctx context.Context, tenantID string, date time.Time) error
}

// PeriodSvcFacade manages the financial period calendar
type PeriodSvcFacade interface {
	PeriodGate

	OpenPeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int, actorID string) (*domain.FinancialPeriod, error)
	ValidatePeriodClose(ctx context.Context, tenantID string, fiscalYear, periodNumber int) (*domain.PeriodCloseReport, error)
	ClosePeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int, actorID string) (*domain.FinancialPeriod, error)
	LockPeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int, actorID string) (*domain.FinancialPeriod, error)
}
