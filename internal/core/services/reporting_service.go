package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/utils/accounting"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ServiceOption) portssvc.ReportingService {
	o := applyOptions(options)
	return &reportingService{
		BaseService:   BaseService{Clock: o.clock},
		reportingRepo: repo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance report for entry dates in [from, to]
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, from, to time.Time) (*domain.TrialBalance, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if to.Before(from) {
		return nil, apperrors.NewValidationError("trial balance", apperrors.Issue{
			Rule:    "date_range",
			Message: fmt.Sprintf("end %s is before start %s", to.Format(time.DateOnly), from.Format(time.DateOnly)),
		})
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, tenantID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("tenant_id", tenantID),
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	// zero-activity accounts never reach the report
	active := rows[:0]
	for _, r := range rows {
		if r.TotalDebit.IsZero() && r.TotalCredit.IsZero() {
			continue
		}
		active = append(active, r)
	}

	totalDebit, totalCredit, err := accounting.ApplyBalances(active)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balances: %w", err)
	}

	report := &domain.TrialBalance{
		TenantID:    tenantID,
		From:        from,
		To:          to,
		Rows:        active,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		IsBalanced:  totalDebit.Equal(totalCredit),
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.Int("row_count", len(active)),
		slog.Bool("balanced", report.IsBalanced))
	return report, nil
}
