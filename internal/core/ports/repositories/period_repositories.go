package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
)

// PeriodReader defines read operations for financial periods
type PeriodReader interface {
	// FindPeriodForDate returns the period covering date, or apperrors.ErrNotFound.
	FindPeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.FinancialPeriod, error)

	// FindPeriod returns a period by fiscal year and number.
	FindPeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int) (*domain.FinancialPeriod, error)

	// FindPeriodForDateForShare is FindPeriodForDate holding a share lock on the row
	// until the current transaction ends. Closing the period waits for it.
	FindPeriodForDateForShare(ctx context.Context, tenantID string, date time.Time) (*domain.FinancialPeriod, error)

	// FindPeriodForUpdate is FindPeriod holding an exclusive row lock.
	FindPeriodForUpdate(ctx context.Context, tenantID string, fiscalYear, periodNumber int) (*domain.FinancialPeriod, error)
}

// PeriodWriter defines write operations for financial periods
type PeriodWriter interface {
	SavePeriod(ctx context.Context, period domain.FinancialPeriod) error

	// UpdatePeriodStatus persists Status, ClosedAt, ClosedBy and the audit fields.
	UpdatePeriodStatus(ctx context.Context, period domain.FinancialPeriod) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
