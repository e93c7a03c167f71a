package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines operations for retrieving ledger report data
type ReportingRepository interface {
	// GetTrialBalanceData returns raw debit/credit sums per account for posted lines
	// (entries in POSTED or REVERSED status) dated in [from, to]. Balance is left zero.
	GetTrialBalanceData(ctx context.Context, tenantID string, from, to time.Time) ([]domain.TrialBalanceRow, error)

	// GetPostedTotals returns the tenant-wide posted debit and credit totals.
	GetPostedTotals(ctx context.Context, tenantID string) (decimal.Decimal, decimal.Decimal, error)
}
