package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/building_ledger/internal/models"
	"github.com/SscSPs/building_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, tenant_id, code, name, account_type, parent_account_id, level,
	description, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.AccountID, m.TenantID, m.Code, m.Name, m.AccountType, m.ParentAccountID, m.Level,
		m.Description, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapError(err, "failed to insert account %s", m.Code)
}

// UpdateAccount updates name, description and the active flag.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, description = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1;
	`
	tag, err := r.db(ctx).Exec(ctx, query, m.AccountID, m.Name, m.Description, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "failed to update account %s", m.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "account %s", m.AccountID)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID)
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE tenant_id = $1 AND code = $2`, tenantID, code)
}

func (r *PgxAccountRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query account")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, "account %v", args)
	}
	a := mapping.ToDomainAccount(m)
	return &a, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are simply absent.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}
	accounts, err := r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1)`, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		result[a.AccountID] = a
	}
	return result, nil
}

func (r *PgxAccountRepository) ListActiveAccountsByType(ctx context.Context, tenantID string, accountType domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE tenant_id = $1 AND account_type = $2 AND is_active
		ORDER BY code`
	return r.list(ctx, query, tenantID, string(accountType))
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE tenant_id = $1 ORDER BY code`, tenantID)
}

func (r *PgxAccountRepository) list(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, "failed to scan accounts")
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

const periodColumns = `period_id, tenant_id, fiscal_year, period_number, start_date, end_date, status,
	closed_at, closed_by, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.FinancialPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		INSERT INTO financial_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.PeriodID, m.TenantID, m.FiscalYear, m.PeriodNumber, m.StartDate, m.EndDate, m.Status,
		m.ClosedAt, m.ClosedBy, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapError(err, "failed to insert period %d/%d", m.FiscalYear, m.PeriodNumber)
}

func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, period domain.FinancialPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		UPDATE financial_periods
		SET status = $2, closed_at = $3, closed_by = $4, last_updated_at = $5, last_updated_by = $6
		WHERE period_id = $1;
	`
	tag, err := r.db(ctx).Exec(ctx, query, m.PeriodID, m.Status, m.ClosedAt, m.ClosedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "failed to update period %s", m.PeriodID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "period %s", m.PeriodID)
	}
	return nil
}

func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods
		WHERE tenant_id = $1 AND $2::date BETWEEN start_date AND end_date`
	return r.findOne(ctx, query, tenantID, domain.DateOnly(date))
}

func (r *PgxPeriodRepository) FindPeriod(ctx context.Context, tenantID string, fiscalYear, periodNumber int) (*domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods
		WHERE tenant_id = $1 AND fiscal_year = $2 AND period_number = $3`
	return r.findOne(ctx, query, tenantID, fiscalYear, periodNumber)
}

func (r *PgxPeriodRepository) FindPeriodForDateForShare(ctx context.Context, tenantID string, date time.Time) (*domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods
		WHERE tenant_id = $1 AND $2::date BETWEEN start_date AND end_date
		FOR SHARE`
	return r.findOne(ctx, query, tenantID, domain.DateOnly(date))
}

func (r *PgxPeriodRepository) FindPeriodForUpdate(ctx context.Context, tenantID string, fiscalYear, periodNumber int) (*domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods
		WHERE tenant_id = $1 AND fiscal_year = $2 AND period_number = $3
		FOR UPDATE`
	return r.findOne(ctx, query, tenantID, fiscalYear, periodNumber)
}

func (r *PgxPeriodRepository) findOne(ctx context.Context, query string, args ...any) (*domain.FinancialPeriod, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query financial period")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.FinancialPeriod])
	if err != nil {
		return nil, mapError(err, "financial period %v", args)
	}
	p := mapping.ToDomainPeriod(m)
	return &p, nil
}
