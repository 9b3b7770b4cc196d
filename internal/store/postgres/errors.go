package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"reliable-inventory/internal/core"
)

// mapError translates driver errors into core error kinds:
//
//	no rows             -> ErrNotFound
//	unique / foreign key -> ErrConflict
//	check constraint     -> ErrInvariantViolation
//
// Anything else is wrapped unchanged.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, core.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", what, core.ErrConflict, constraintDetail(pgErr))
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%s: %w: %s", what, core.ErrInvariantViolation, constraintDetail(pgErr))
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

func constraintDetail(pgErr *pgconn.PgError) string {
	if pgErr.Detail != "" {
		return pgErr.ConstraintName + " (" + pgErr.Detail + ")"
	}
	return pgErr.ConstraintName
}

// expectOne returns ErrNotFound when a keyed UPDATE or DELETE matched no row.
func expectOne(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", what, core.ErrNotFound)
	}
	return nil
}
