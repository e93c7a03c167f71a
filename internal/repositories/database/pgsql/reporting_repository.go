package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetTrialBalanceData sums posted lines per account over an inclusive date range.
// Reversed entries still count; their mirror entry cancels them.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, tenantID string, from, to time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code AS account_code,
			a.name AS account_name,
			a.account_type,
			SUM(l.debit_amount) AS total_debit,
			SUM(l.credit_amount) AS total_credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		JOIN accounts a ON l.account_id = a.account_id
		WHERE e.tenant_id = $1
			AND e.entry_date BETWEEN $2::date AND $3::date
			AND e.status IN ('POSTED', 'REVERSED')
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, mapError(err, "error querying trial balance data")
	}
	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TrialBalanceRow, error) {
		var tb domain.TrialBalanceRow
		var accountType string
		if err := row.Scan(&tb.AccountID, &tb.AccountCode, &tb.AccountName, &accountType, &tb.TotalDebit, &tb.TotalCredit); err != nil {
			return tb, err
		}
		tb.AccountType = domain.AccountType(accountType)
		return tb, nil
	})
	if err != nil {
		return nil, mapError(err, "error scanning trial balance row")
	}
	return result, nil
}

func (r *reportingRepository) GetPostedTotals(ctx context.Context, tenantID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.tenant_id = $1 AND e.status IN ('POSTED', 'REVERSED')
	`
	var debit, credit decimal.Decimal
	if err := r.db(ctx).QueryRow(ctx, query, tenantID).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, mapError(err, "error querying posted totals")
	}
	return debit, credit, nil
}
