package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"inventoryapi/internal/repository"
)

// PostgreSQL SQLSTATE codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", repository.ErrInvalidReference, pgErr.ConstraintName)
	case codeNumericOutOfRange:
		return fmt.Errorf("%w: %s", repository.ErrOutOfRange, pgErr.Message)
	case codeCheckViolation:
		if strings.Contains(pgErr.ConstraintName, "quantity") {
			return repository.ErrInsufficientStock
		}
	}
	return err
}

// setClause renders "col = $1, col = $2" for the given assignments and
// returns the matching args.
func setClause(as []repository.Assignment) (string, []any) {
	sets := make([]string, 0, len(as))
	args := make([]any, 0, len(as)+1)
	for i, a := range as {
		sets = append(sets, fmt.Sprintf("%s = $%d", a.Column, i+1))
		args = append(args, a.Value)
	}
	return strings.Join(sets, ", "), args
}
