package errs

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// FromStorage maps driver and gorm failures into the taxonomy. Unknown
// failures become CodeStorage.
func FromStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrInvalidField), errors.Is(err, gorm.ErrInvalidValue):
		return Wrap(CodeFieldAccess, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(CodeDuplicateID, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Wrap(CodeStorage, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.TrimSpace(pgErr.Code) == "23505" {
		return Wrap(CodeDuplicateID, op, err) // unique_violation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return Wrap(CodeDuplicateID, op, err) // ER_DUP_ENTRY
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint failed") {
		return Wrap(CodeDuplicateID, op, err)
	}
	return Wrap(CodeStorage, op, err)
}
