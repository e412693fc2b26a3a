package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	pkgerrors "user-crud-service/pkg/errors"
)

type fakeCodedError struct {
	code int
	msg  string
}

func (e *fakeCodedError) Error() string { return e.msg }
func (e *fakeCodedError) Code() int { return e.code }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{"translated duplicate key", gorm.ErrDuplicatedKey, pkgerrors.IsConstraintViolation},
		{"sqlite unique code", &fakeCodedError{code: sqliteConstraintUnique, msg: "constraint failed"}, pkgerrors.IsConstraintViolation},
		{"sqlite primary key code", &fakeCodedError{code: sqliteConstraintPK, msg: "constraint failed"}, pkgerrors.IsConstraintViolation},
		{"sqlite unique text", errors.New("UNIQUE constraint failed: users.email"), pkgerrors.IsConstraintViolation},
		{"postgres unique text", errors.New(`ERROR: duplicate key value violates unique constraint "uni_users_email"`), pkgerrors.IsConstraintViolation},
		{"mysql unique text", errors.New("Error 1062: Duplicate entry 'a@x.com' for key 'email'"), pkgerrors.IsConstraintViolation},
		{"deadline", fmt.Errorf("acquire: %w", context.DeadlineExceeded), pkgerrors.IsStoreUnavailable},
		{"canceled by caller", fmt.Errorf("query: %w", context.Canceled), pkgerrors.IsQueryFailed},
		{"conn done", sql.ErrConnDone, pkgerrors.IsStoreUnavailable},
		{"closed pool", errors.New("sql: database is closed"), pkgerrors.IsStoreUnavailable},
		{"sqlite busy", &fakeCodedError{code: sqliteBusy, msg: "database is locked"}, pkgerrors.IsStoreUnavailable},
		{"sqlite cant open", &fakeCodedError{code: sqliteCantOpen, msg: "unable to open database file"}, pkgerrors.IsStoreUnavailable},
		{"sqlite not null", &fakeCodedError{code: 1299, msg: "NOT NULL constraint failed: users.name"}, pkgerrors.IsQueryFailed},
		{"syntax", errors.New(`near "SELEC": syntax error`), pkgerrors.IsQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", tt.err)
			assert.True(t, tt.want(err), "classified as %T", err)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, classify("op", nil))
}
