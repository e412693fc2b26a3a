package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"gorm.io/gorm"

	pkgerrors "user-crud-service/pkg/errors"
)

// SQLite result codes, see https://www.sqlite.org/rescode.html.
const (
	sqliteBusy             = 5
	sqliteLocked           = 6
	sqliteCantOpen         = 14
	sqliteConstraintPK     = 1555
	sqliteConstraintUnique = 2067
)

// codedError matches driver errors that expose a numeric result code,
// such as *sqlite.Error from the pure-Go SQLite driver.
type codedError interface {
	error
	Code() int
}

// classify maps a storage failure onto the DAL error vocabulary.
//
// Only the repo's own deadline counts as unavailability. A context canceled
// by the caller, for example a client that hung up, is a failed query.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isUniqueViolation(err):
		return pkgerrors.NewConstraintViolationError("user", "email", err)
	case isUnavailable(err):
		return pkgerrors.NewStoreUnavailableError(op, err)
	default:
		return pkgerrors.NewQueryFailedError(op, err)
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var coded codedError
	if errors.As(err, &coded) {
		if code := coded.Code(); code == sqliteConstraintUnique || code == sqliteConstraintPK {
			return true
		}
	}

	// Drivers without extended codes: fall back to the message text.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var coded codedError
	if errors.As(err, &coded) {
		switch coded.Code() & 0xff {
		case sqliteBusy, sqliteLocked, sqliteCantOpen:
			return true
		}
	}

	// database/sql does not export its closed-pool error.
	return strings.Contains(err.Error(), "sql: database is closed")
}
