package services

import (
	"context"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
)

// ReportingService defines operations for generating ledger reports
type ReportingService interface {
	// TrialBalance aggregates posted lines dated in [from, to] per account.
	TrialBalance(ctx context.Context, tenantID string, from, to time.Time) (*domain.TrialBalance, error)
}
