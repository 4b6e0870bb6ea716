package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"regtrack/internal/domain"
)

// constraintViolation returns the name of the violated constraint when err
// is a postgres error with the given SQLSTATE code.
func constraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func isUniqueViolation(err error) bool {
	_, ok := constraintViolation(err, pgerrcode.UniqueViolation)
	return ok
}

func isForeignKeyViolation(err error) bool {
	_, ok := constraintViolation(err, pgerrcode.ForeignKeyViolation)
	return ok
}

// expectOneRow maps an UPDATE or DELETE that touched nothing to ErrNotFound.
func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// clampPage applies the default page size.
func clampPage(offset, limit int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// whereClause accumulates AND-ed conditions with positional arguments.
// Each condition carries one %d verb for its placeholder number.
type whereClause struct {
	sql  string
	args []interface{}
}

func newWhere(cond string, arg interface{}) *whereClause {
	w := &whereClause{}
	w.sql = "WHERE " + fmt.Sprintf(cond, 1)
	w.args = append(w.args, arg)
	return w
}

func (w *whereClause) and(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.sql += " AND " + fmt.Sprintf(cond, len(w.args))
}

// andRaw appends a condition without an argument.
func (w *whereClause) andRaw(cond string) {
	w.sql += " AND " + cond
}

// page appends LIMIT/OFFSET placeholders and returns the suffix and full args.
func (w *whereClause) page(offset, limit int) (string, []interface{}) {
	n := len(w.args)
	args := append(append([]interface{}{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
