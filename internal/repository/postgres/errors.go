package postgres

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sleepharmony/landing/internal/pkg/errors"
)

const pqUniqueViolation = "23505"

// driverError extracts the message and code of a driver error. ok is false
// for errors that did not come from a known driver.
func driverError(err error) (message, code string, unique, ok bool) {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Message, string(pqErr.Code), pqErr.Code == pqUniqueViolation, true
	}

	var sqliteErr *sqlite.Error
	if stderrors.As(err, &sqliteErr) {
		c := sqliteErr.Code()
		return sqliteErr.Error(), strconv.Itoa(c), c == sqlite3.SQLITE_CONSTRAINT_UNIQUE, true
	}

	return "", "", false, false
}

// storeError converts a driver error into an AppError. Unique violations are
// tagged with errors.ErrDuplicateKey; other driver errors keep the store's
// message and code.
func storeError(fallback string, err error) error {
	message, code, unique, ok := driverError(err)
	if !ok {
		return errors.DatabaseError(fallback, err)
	}
	if unique {
		return errors.Wrap(fmt.Errorf("%w: %w", errors.ErrDuplicateKey, err),
			errors.ErrCodeConflict, message, http.StatusConflict)
	}
	return errors.StoreFailure(message, code, err)
}
