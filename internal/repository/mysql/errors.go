package mysql

import (
	"errors"
	"fmt"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"inventoryapi/internal/repository"
)

// MySQL server error numbers.
const (
	errDupEntry            = 1062
	errNoReferencedRow     = 1452
	errCheckConstraintFail = 3819
	errOutOfRangeValue     = 1264
	errDataOutOfRange      = 1690
)

func mapError(err error) error {
	var myErr *driver.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}
	switch myErr.Number {
	case errDupEntry:
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, myErr.Message)
	case errNoReferencedRow:
		return fmt.Errorf("%w: %s", repository.ErrInvalidReference, myErr.Message)
	case errOutOfRangeValue, errDataOutOfRange:
		return fmt.Errorf("%w: %s", repository.ErrOutOfRange, myErr.Message)
	case errCheckConstraintFail:
		if strings.Contains(myErr.Message, "quantity") {
			return repository.ErrInsufficientStock
		}
	}
	return err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func setClause(as []repository.Assignment) (string, []any) {
	sets := make([]string, 0, len(as))
	args := make([]any, 0, len(as)+1)
	for _, a := range as {
		sets = append(sets, a.Column+" = ?")
		args = append(args, a.Value)
	}
	return strings.Join(sets, ", "), args
}

// pageClause renders LIMIT/OFFSET. MySQL needs a LIMIT before OFFSET, so an
// offset without limit uses the largest row count.
func pageClause(pq repository.PageQuery, args []any) (string, []any) {
	switch {
	case pq.Limit > 0 && pq.Offset > 0:
		return " LIMIT ? OFFSET ?", append(args, pq.Limit, pq.Offset)
	case pq.Limit > 0:
		return " LIMIT ?", append(args, pq.Limit)
	case pq.Offset > 0:
		return " LIMIT 18446744073709551615 OFFSET ?", append(args, pq.Offset)
	}
	return "", args
}
