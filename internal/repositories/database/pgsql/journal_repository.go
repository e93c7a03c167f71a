package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/building_ledger/internal/models"
	"github.com/SscSPs/building_ledger/internal/utils/mapping"
	"github.com/SscSPs/building_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	entryColumns = `entry_id, tenant_id, entry_number, entry_date, entry_type, reference_type, reference_id,
	description, total_amount, status, approved_by, approved_at, posted_at, reversed_at, reversal_reason,
	reversal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

	lineColumns = `line_id, entry_id, account_id, debit_amount, credit_amount, description,
	reference_type, reference_id, line_order`
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveJournalEntry inserts the header and then all lines in one batch, inside the caller's
// transaction or a new one.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	tm := &TxManager{BaseRepository: r.BaseRepository}
	return tm.WithinTx(ctx, func(ctx context.Context) error {
		m := mapping.ToModelJournalEntry(entry)
		query := `
			INSERT INTO journal_entries (` + entryColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
		`
		_, err := r.db(ctx).Exec(ctx, query,
			m.EntryID, m.TenantID, m.EntryNumber, m.EntryDate, m.EntryType, m.ReferenceType, m.ReferenceID,
			m.Description, m.TotalAmount, m.Status, m.ApprovedBy, m.ApprovedAt, m.PostedAt, m.ReversedAt, m.ReversalReason,
			m.ReversalEntryID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return mapError(err, "failed to insert journal entry %s", m.EntryNumber)
		}

		batch := &pgx.Batch{}
		lineQuery := `
			INSERT INTO journal_entry_lines (` + lineColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`
		for _, line := range entry.Lines {
			l := mapping.ToModelJournalEntryLine(line)
			batch.Queue(lineQuery,
				l.LineID, l.EntryID, l.AccountID, l.DebitAmount, l.CreditAmount, l.Description,
				l.ReferenceType, l.ReferenceID, l.LineOrder,
			)
		}
		br := r.db(ctx).SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return mapError(err, "failed to insert lines of journal entry %s", m.EntryNumber)
		}
		return nil
	})
}

// UpdateJournalEntryStatus persists the status, approval, posting and reversal fields.
func (r *PgxJournalRepository) UpdateJournalEntryStatus(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET status = $2, approved_by = $3, approved_at = $4, posted_at = $5, reversed_at = $6,
			reversal_reason = $7, reversal_entry_id = $8, last_updated_at = $9, last_updated_by = $10
		WHERE entry_id = $1;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.EntryID, m.Status, m.ApprovedBy, m.ApprovedAt, m.PostedAt, m.ReversedAt,
		m.ReversalReason, m.ReversalEntryID, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "failed to update journal entry %s", m.EntryID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "journal entry %s", m.EntryID)
	}
	return nil
}

func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.find(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1`, entryID)
}

// FindJournalEntryByIDForUpdate locks the header row; lines are immutable once saved.
func (r *PgxJournalRepository) FindJournalEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.find(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1 FOR UPDATE`, entryID)
}

func (r *PgxJournalRepository) find(ctx context.Context, query, entryID string) (*domain.JournalEntry, error) {
	rows, err := r.db(ctx).Query(ctx, query, entryID)
	if err != nil {
		return nil, mapError(err, "failed to query journal entry %s", entryID)
	}
	header, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, "journal entry %s", entryID)
	}

	rows, err = r.db(ctx).Query(ctx, `SELECT `+lineColumns+` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_order`, entryID)
	if err != nil {
		return nil, mapError(err, "failed to query lines of journal entry %s", entryID)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntryLine])
	if err != nil {
		return nil, mapError(err, "failed to scan lines of journal entry %s", entryID)
	}
	entry := mapping.ToDomainJournalEntry(header, lines)
	return &entry, nil
}

// ListJournalEntries pages by (entry_date, entry_number) descending. One extra row is read
// to tell whether another page exists.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, tenantID string, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var cursorDate *time.Time
	var cursorNumber *string
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeEntryCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursorDate, cursorNumber = &c.EntryDate, &c.EntryNumber
	}
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries
		WHERE tenant_id = $1
			AND ($2::date IS NULL OR entry_date >= $2)
			AND ($3::date IS NULL OR entry_date <= $3)
			AND ($4::text IS NULL OR status = $4)
			AND ($5::date IS NULL OR (entry_date, entry_number) < ($5::date, $6::text))
		ORDER BY entry_date DESC, entry_number DESC
		LIMIT $7`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, filter.From, filter.To, status, cursorDate, cursorNumber, limit+1)
	if err != nil {
		return nil, nil, mapError(err, "failed to query journal entries")
	}
	headers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, nil, mapError(err, "failed to scan journal entries")
	}

	var token *string
	if len(headers) > limit {
		headers = headers[:limit]
		last := headers[len(headers)-1]
		t := pagination.EncodeEntryCursor(pagination.EntryCursor{EntryDate: last.EntryDate, EntryNumber: last.EntryNumber})
		token = &t
	}
	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, nil)
	}
	return entries, token, nil
}

func (r *PgxJournalRepository) CountLinesByAccount(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.db(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM journal_entry_lines WHERE account_id = $1`, accountID).Scan(&n)
	if err != nil {
		return 0, mapError(err, "failed to count lines of account %s", accountID)
	}
	return n, nil
}

func (r *PgxJournalRepository) CountUnpostedEntries(ctx context.Context, tenantID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM journal_entries
		WHERE tenant_id = $1
			AND entry_date BETWEEN $2::date AND $3::date
			AND status IN ('DRAFT', 'PENDING', 'APPROVED')
	`
	var n int
	if err := r.db(ctx).QueryRow(ctx, query, tenantID, domain.DateOnly(from), domain.DateOnly(to)).Scan(&n); err != nil {
		return 0, mapError(err, "failed to count unposted entries")
	}
	return n, nil
}

func (r *PgxJournalRepository) FindUnbalancedEntryIDs(ctx context.Context, tenantID string, from, to time.Time) ([]string, error) {
	query := `
		SELECT e.entry_id
		FROM journal_entries e
		LEFT JOIN journal_entry_lines l ON l.entry_id = e.entry_id
		WHERE e.tenant_id = $1
			AND e.entry_date BETWEEN $2::date AND $3::date
		GROUP BY e.entry_id
		HAVING COALESCE(SUM(l.debit_amount), 0) <> COALESCE(SUM(l.credit_amount), 0)
		ORDER BY e.entry_id
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, mapError(err, "failed to query unbalanced entries")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, "failed to scan unbalanced entries")
	}
	return ids, nil
}
