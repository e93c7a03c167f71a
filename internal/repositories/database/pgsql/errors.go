package pgsql

import (
	"errors"
	"fmt"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	entryNumberConstraint = "journal_entries_tenant_number_key"
)

// mapError translates driver errors into the apperrors taxonomy, keeping the cause.
func mapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, apperrors.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName == entryNumberConstraint {
				return fmt.Errorf("%s: %w: %s", msg, apperrors.ErrDuplicateNumber, pgErr.Detail)
			}
			return fmt.Errorf("%s: %w: %s", msg, apperrors.ErrDuplicate, pgErr.Detail)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", msg, apperrors.ErrNotFound, pgErr.Detail)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
