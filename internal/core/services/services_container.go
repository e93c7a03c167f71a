package services

import (
	"fmt"

	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/platform/config"
	"github.com/SscSPs/building_ledger/internal/seed"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) (*portssvc.ServiceContainer, error) {
	fallbacks, err := seed.DefaultFallbacks()
	if err != nil {
		return nil, fmt.Errorf("failed to load classification fallbacks: %w", err)
	}

	container := &portssvc.ServiceContainer{}

	// Leaves first: accounts and periods are read by everything else
	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo, repos.JournalRepo, options...)
	container.Period = NewPeriodService(repos.TxManager, repos.PeriodRepo, repos.JournalRepo, repos.ReportingRepo,
		cfg.RequireFinancialPeriod, options...)
	container.Numbering = NewEntryNumberingService(repos.EntryNumberRepo, options...)

	container.Classification = NewClassificationService(repos.RuleRepo, repos.AccountRepo, repos.TransactionRepo, fallbacks,
		LearningPolicy{Threshold: cfg.LearningThreshold, Lookback: cfg.LearningLookback}, options...)

	container.Journal = NewJournalService(repos.TxManager, repos.JournalRepo, repos.AccountRepo,
		container.Numbering, container.Period, options...)

	container.Transaction = NewTransactionService(repos.TxManager, repos.TransactionRepo, container.Account,
		container.Classification, container.Journal, container.Period, cfg.CashAccountCode, options...)

	container.Reporting = NewReportingService(repos.ReportingRepo, options...)

	return container, nil
}
