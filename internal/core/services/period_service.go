package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/google/uuid"
)

// periodService implements the PeriodSvcFacade interface
type periodService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	periodRepo    portsrepo.PeriodRepositoryFacade
	journalRepo   portsrepo.JournalReader
	reportingRepo portsrepo.ReportingRepository
	// requirePeriod turns a missing period into ErrNotFound instead of allowing the write.
	requirePeriod bool
}

// NewPeriodService creates a new period service.
func NewPeriodService(
	txManager portsrepo.TransactionManager,
	periodRepo portsrepo.PeriodRepositoryFacade,
	journalRepo portsrepo.JournalReader,
	reportingRepo portsrepo.ReportingRepository,
	requirePeriod bool,
	options ...ServiceOption,
) portssvc.PeriodSvcFacade {
	o := applyOptions(options)
	return &periodService{
		BaseService:   BaseService{Clock: o.clock},
		txManager:     txManager,
		periodRepo:    periodRepo,
		journalRepo:   journalRepo,
		reportingRepo: reportingRepo,
		requirePeriod: requirePeriod,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) FindPeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.FinancialPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, tenantID, domain.DateOnly(date))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no financial period covers %s", apperrors.ErrNotFound, date.Format(time.DateOnly))
		}
		s.LogError(ctx, err, "Failed to look up financial period",
			slog.String("tenant_id", tenantID),
			slog.Time("date", date))
		return nil, fmt.Errorf("failed to find financial period: %w", err)
	}
	return period, nil
}

func (s *periodService) EnsureWritable(ctx context.Context, tenantID string, date time.Time) error {
	return s.checkWritable(ctx, tenantID, date, s.periodRepo.FindPeriodForDate)
}

func (s *periodService) LockWritable(ctx context.Context, tenantID string, date time.Time) error {
	return s.checkWritable(ctx, tenantID, date, s.periodRepo.FindPeriodForDateForShare)
}

type periodLookup func(ctx context.Context, tenantID string, date time.Time) (*domain.FinancialPeriod, error)

func (s *periodService) checkWritable(ctx context.Context, tenantID string, date time.Time, lookup periodLookup) error {
	period, err := lookup(ctx, tenantID, domain.DateOnly(date))
	if errors.Is(err, apperrors.ErrNotFound) {
		if !s.requirePeriod {
			s.LogDebug(ctx, "No financial period for date, allowing write",
				slog.String("tenant_id", tenantID),
				slog.Time("date", date))
			return nil
		}
		return fmt.Errorf("%w: no financial period covers %s", apperrors.ErrNotFound, date.Format(time.DateOnly))
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to look up financial period",
			slog.String("tenant_id", tenantID),
			slog.Time("date", date))
		return fmt.Errorf("failed to find financial period: %w", err)
	}
	if !period.IsWritable() {
		return fmt.Errorf("%w: period %d-%02d is %s", apperrors.ErrPeriodLocked, period.FiscalYear, period.PeriodNumber, period.Status)
	}
	return nil
}

func (s *periodService) OpenPeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int, actorID string) (*domain.FinancialPeriod, error) {
	start, end, err := domain.MonthBounds(fiscalYear, periodNumber)
	if err != nil {
		return nil, apperrors.NewValidationError("financial period", apperrors.Issue{Rule: "period_number", Message: err.Error()})
	}

	if existing, err := s.periodRepo.FindPeriod(ctx, tenantID, fiscalYear, periodNumber); err == nil {
		return nil, fmt.Errorf("%w: period %d-%02d already exists with status %s", apperrors.ErrDuplicate, fiscalYear, periodNumber, existing.Status)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing period: %w", err)
	}

	period := domain.FinancialPeriod{
		PeriodID:     uuid.NewString(),
		TenantID:     tenantID,
		FiscalYear:   fiscalYear,
		PeriodNumber: periodNumber,
		StartDate:    start,
		EndDate:      end,
		Status:       domain.PeriodOpen,
		AuditFields:  domain.NewAuditFields(actorID, s.now()),
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		s.LogError(ctx, err, "Failed to save financial period",
			slog.String("tenant_id", tenantID),
			slog.Int("fiscal_year", fiscalYear),
			slog.Int("period_number", periodNumber))
		return nil, fmt.Errorf("failed to open period: %w", err)
	}
	s.LogInfo(ctx, "Financial period opened",
		slog.String("tenant_id", tenantID),
		slog.String("period_id", period.PeriodID))
	return &period, nil
}

func (s *periodService) ValidatePeriodClose(ctx context.Context, tenantID string, fiscalYear, periodNumber int) (*domain.PeriodCloseReport, error) {
	period, err := s.periodRepo.FindPeriod(ctx, tenantID, fiscalYear, periodNumber)
	if err != nil {
		return nil, err
	}
	return s.buildCloseReport(ctx, *period)
}

func (s *periodService) buildCloseReport(ctx context.Context, period domain.FinancialPeriod) (*domain.PeriodCloseReport, error) {
	report := &domain.PeriodCloseReport{
		TenantID:     period.TenantID,
		FiscalYear:   period.FiscalYear,
		PeriodNumber: period.PeriodNumber,
	}

	unposted, err := s.journalRepo.CountUnpostedEntries(ctx, period.TenantID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count unposted entries: %w", err)
	}
	report.UnpostedCount = unposted
	if unposted > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("%d journal entries are not posted", unposted))
	}

	debit, credit, err := s.reportingRepo.GetPostedTotals(ctx, period.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum posted lines: %w", err)
	}
	report.TotalDebit, report.TotalCredit = debit, credit
	if !debit.Equal(credit) {
		report.Issues = append(report.Issues, fmt.Sprintf("ledger is out of balance: debits %s, credits %s", debit.StringFixed(2), credit.StringFixed(2)))
	}

	unbalanced, err := s.journalRepo.FindUnbalancedEntryIDs(ctx, period.TenantID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to find unbalanced entries: %w", err)
	}
	report.UnbalancedIDs = unbalanced
	for _, id := range unbalanced {
		report.Issues = append(report.Issues, fmt.Sprintf("journal entry %s is unbalanced", id))
	}
	return report, nil
}

func (s *periodService) ClosePeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int, actorID string) (*domain.FinancialPeriod, error) {
	var closed *domain.FinancialPeriod
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		period, err := s.periodRepo.FindPeriodForUpdate(ctx, tenantID, fiscalYear, periodNumber)
		if err != nil {
			return err
		}
		if period.Status != domain.PeriodOpen {
			return fmt.Errorf("%w: period %d-%02d is %s, cannot close", apperrors.ErrInvalidState, fiscalYear, periodNumber, period.Status)
		}

		report, err := s.buildCloseReport(ctx, *period)
		if err != nil {
			return err
		}
		if !report.CanClose() {
			vErr := apperrors.NewValidationError("period close")
			for _, issue := range report.Issues {
				vErr.Add("period_close", 0, "%s", issue)
			}
			return vErr
		}

		now := s.now()
		period.Status = domain.PeriodClosed
		period.ClosedAt = &now
		period.ClosedBy = &actorID
		period.Touch(actorID, now)
		if err := s.periodRepo.UpdatePeriodStatus(ctx, *period); err != nil {
			return fmt.Errorf("failed to close period: %w", err)
		}
		closed = period
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Period close refused",
			slog.String("tenant_id", tenantID),
			slog.Int("fiscal_year", fiscalYear),
			slog.Int("period_number", periodNumber))
		return nil, err
	}
	s.LogInfo(ctx, "Financial period closed",
		slog.String("tenant_id", tenantID),
		slog.String("period_id", closed.PeriodID))
	return closed, nil
}

func (s *periodService) LockPeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int, actorID string) (*domain.FinancialPeriod, error) {
	var locked *domain.FinancialPeriod
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		period, err := s.periodRepo.FindPeriodForUpdate(ctx, tenantID, fiscalYear, periodNumber)
		if err != nil {
			return err
		}
		if period.Status != domain.PeriodClosed {
			return fmt.Errorf("%w: period %d-%02d is %s, cannot lock", apperrors.ErrInvalidState, fiscalYear, periodNumber, period.Status)
		}
		period.Status = domain.PeriodLocked
		period.Touch(actorID, s.now())
		if err := s.periodRepo.UpdatePeriodStatus(ctx, *period); err != nil {
			return fmt.Errorf("failed to lock period: %w", err)
		}
		locked = period
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locked, nil
}
