package pgsql

import (
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       &TxManager{BaseRepository: BaseRepository{Pool: dbPool}},
		AccountRepo:     newPgxAccountRepository(dbPool),
		PeriodRepo:      newPgxPeriodRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		RuleRepo:        newPgxRuleRepository(dbPool),
		JournalRepo:     newPgxJournalRepository(dbPool),
		EntryNumberRepo: newPgxEntryNumberRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
	}
}
