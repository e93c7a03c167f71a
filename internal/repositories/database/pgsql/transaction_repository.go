package pgsql

import (
	"context"
	"strings"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/building_ledger/internal/models"
	"github.com/SscSPs/building_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, tenant_id, transaction_date, direction, category, amount,
	counterparty, description, suggested_account_id, suggested_rule_id, confidence_score,
	approved_account_id, corrected, status, approved_by, approved_at, approval_notes, rejection_reason,
	journal_entry_id, processed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.TransactionID, m.TenantID, m.TransactionDate, m.Direction, m.Category, m.Amount,
		m.Counterparty, m.Description, m.SuggestedAccountID, m.SuggestedRuleID, m.ConfidenceScore,
		m.ApprovedAccountID, m.Corrected, m.Status, m.ApprovedBy, m.ApprovedAt, m.ApprovalNotes, m.RejectionReason,
		m.JournalEntryID, m.ProcessedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapError(err, "failed to insert transaction %s", m.TransactionID)
}

// UpdateTransaction persists every mutable field (suggestion, approval, status, links).
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET suggested_account_id = $2, suggested_rule_id = $3, confidence_score = $4,
			approved_account_id = $5, status = $6, approved_by = $7, approved_at = $8,
			approval_notes = $9, rejection_reason = $10, journal_entry_id = $11, processed_at = $12,
			last_updated_at = $13, last_updated_by = $14, corrected = $15
		WHERE transaction_id = $1;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.TransactionID, m.SuggestedAccountID, m.SuggestedRuleID, m.ConfidenceScore,
		m.ApprovedAccountID, m.Status, m.ApprovedBy, m.ApprovedAt,
		m.ApprovalNotes, m.RejectionReason, m.JournalEntryID, m.ProcessedAt,
		m.LastUpdatedAt, m.LastUpdatedBy, m.Corrected,
	)
	if err != nil {
		return mapError(err, "failed to update transaction %s", m.TransactionID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "transaction %s", m.TransactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1`, transactionID)
}

func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1 FOR UPDATE`, transactionID)
}

func (r *PgxTransactionRepository) findOne(ctx context.Context, query, transactionID string) (*domain.Transaction, error) {
	rows, err := r.db(ctx).Query(ctx, query, transactionID)
	if err != nil {
		return nil, mapError(err, "failed to query transaction %s", transactionID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, mapError(err, "transaction %s", transactionID)
	}
	t := mapping.ToDomainTransaction(m)
	return &t, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, tenantID string, status *domain.TransactionStatus, limit int) ([]domain.Transaction, error) {
	var statusFilter *string
	if status != nil {
		s := string(*status)
		statusFilter = &s
	}
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE tenant_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $3`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, statusFilter, limitArg)
	if err != nil {
		return nil, mapError(err, "failed to query transactions")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, mapError(err, "failed to scan transactions")
	}
	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainTransaction(m)
	}
	return out, nil
}

// CountSimilarApprovals counts corrected approvals, matching on counterparty when one is given, otherwise on category.
func (r *PgxTransactionRepository) CountSimilarApprovals(ctx context.Context, q domain.SimilarTransactionQuery) (int, error) {
	var counterparty *string
	if q.Counterparty != nil && strings.TrimSpace(*q.Counterparty) != "" {
		cp := strings.TrimSpace(*q.Counterparty)
		counterparty = &cp
	}
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE tenant_id = $1
			AND direction = $2
			AND status IN ('APPROVED', 'PROCESSED')
			AND corrected
			AND approved_account_id = $3
			AND approved_at >= $4
			AND CASE WHEN $5::text IS NOT NULL
				THEN lower(trim(counterparty)) = lower($5)
				ELSE category = $6
			END
	`
	var count int
	err := r.db(ctx).QueryRow(ctx, query,
		q.TenantID, string(q.Direction), q.ApprovedAccountID, q.Since, counterparty, string(q.Category),
	).Scan(&count)
	if err != nil {
		return 0, mapError(err, "failed to count similar approvals")
	}
	return count, nil
}
