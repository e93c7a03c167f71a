package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used by the command handlers.
type ServiceContainer struct {
	Account        AccountSvcFacade
	Period         PeriodSvcFacade
	Classification ClassificationSvcFacade
	Transaction    TransactionSvcFacade
	Journal        JournalSvcFacade
	Numbering      EntryNumberingSvc
	Reporting      ReportingService
}
