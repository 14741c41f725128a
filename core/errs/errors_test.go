package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"aggregate-persistence/core/errs"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *errs.Error
		want string
	}{
		{"OpAndMessage", &errs.Error{Code: errs.CodeNotFound, Op: "order.get", Message: "id 7"}, "order.get: id 7 (not_found)"},
		{"OpOnly", &errs.Error{Code: errs.CodeNotFound, Op: "order.get"}, "order.get (not_found)"},
		{"MessageOnly", &errs.Error{Code: errs.CodeNotFound, Message: "id 7"}, "id 7 (not_found)"},
		{"CodeOnly", &errs.Error{Code: errs.CodeNotFound}, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("saving: %w", errs.New(errs.CodeOptimisticLock, "save", "version 3"))

	assert.True(t, errors.Is(err, errs.ErrOptimisticLock))
	assert.False(t, errors.Is(err, errs.ErrNotFound))
	assert.True(t, errs.IsCode(err, errs.CodeOptimisticLock))
	assert.Equal(t, errs.CodeOptimisticLock, errs.CodeOf(err))
	assert.Equal(t, errs.Code(""), errs.CodeOf(errors.New("plain")))
}

func TestWrap_KeepsExistingCode(t *testing.T) {
	inner := errs.New(errs.CodeBatchLimit, "insert", "too many")
	wrapped := errs.Wrap(errs.CodeStorage, "outer", inner)

	assert.Equal(t, errs.CodeBatchLimit, errs.CodeOf(wrapped))
	assert.Nil(t, errs.Wrap(errs.CodeStorage, "outer", nil))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, errs.IsFatal(errs.New(errs.CodeFieldAccess, "diff", "")))
	assert.True(t, errs.IsFatal(errs.New(errs.CodeBatchLimit, "insert", "")))
	assert.False(t, errs.IsFatal(errs.New(errs.CodeOptimisticLock, "update", "")))
	assert.False(t, errs.IsFatal(errors.New("plain")))
}

func TestFromStorage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.Code
	}{
		{"RecordNotFound", gorm.ErrRecordNotFound, errs.CodeNotFound},
		{"InvalidField", gorm.ErrInvalidField, errs.CodeFieldAccess},
		{"PostgresUnique", &pgconn.PgError{Code: "23505"}, errs.CodeDuplicateID},
		{"MySQLDuplicate", &mysql.MySQLError{Number: 1062}, errs.CodeDuplicateID},
		{"SQLiteUnique", errors.New("UNIQUE constraint failed: demo_order.id"), errs.CodeDuplicateID},
		{"Other", errors.New("connection reset"), errs.CodeStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errs.CodeOf(errs.FromStorage("op", tt.err)))
		})
	}
	assert.Nil(t, errs.FromStorage("op", nil))
}
