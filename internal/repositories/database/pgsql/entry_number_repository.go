package pgsql

import (
	"context"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/building_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEntryNumberRepository struct {
	BaseRepository
}

func newPgxEntryNumberRepository(pool *pgxpool.Pool) portsrepo.EntryNumberRepository {
	return &PgxEntryNumberRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryNumberRepository = (*PgxEntryNumberRepository)(nil)

// NextSequence upserts the counter row. The row lock taken by the upsert is held until
// the surrounding transaction ends, so concurrent units for the same month queue up.
// A new row starts after the highest sequence already used by stored entries.
func (r *PgxEntryNumberRepository) NextSequence(ctx context.Context, tenantID string, year, month int) (int, error) {
	query := `
		INSERT INTO entry_number_counters (tenant_id, year, month, last_seq)
		VALUES ($1, $2, $3, 1 + COALESCE((
			SELECT MAX(CAST(SUBSTRING(entry_number FROM 9) AS INTEGER))
			FROM journal_entries
			WHERE tenant_id = $1 AND entry_number LIKE $4
		), 0))
		ON CONFLICT (tenant_id, year, month)
		DO UPDATE SET last_seq = entry_number_counters.last_seq + 1
		RETURNING last_seq;
	`
	var seq int
	err := r.db(ctx).QueryRow(ctx, query, tenantID, year, month, domain.EntryNumberPrefix(year, month)+"%").Scan(&seq)
	if err != nil {
		return 0, mapError(err, "failed to advance entry number counter %04d-%02d", year, month)
	}
	return seq, nil
}
