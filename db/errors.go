package db

// errors.go maps driver failures onto the two error kinds callers need to
// distinguish: environment problems (StorageError) and schema constraint
// violations (ConstraintError). A missing row is neither; gets report
// absence with a nil record instead.

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
)

// sqliteConstraint is SQLITE_CONSTRAINT, the primary result code shared by
// all constraint violations (NOT NULL, FOREIGN KEY, CHECK and friends).
const sqliteConstraint = 19

// StorageError reports an environment-level failure: the database file
// cannot be opened or a statement cannot execute because of disk,
// permission or corruption problems. Fatal at startup.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage error: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConstraintError reports a write rejected by a schema constraint, such as
// an invoice referencing a client that does not exist, or by repository
// boundary validation. The presentation layer is expected to translate it
// into a user-facing validation message; it is never retried.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: constraint violation: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// IsConstraint reports whether err is, or wraps, a ConstraintError.
func IsConstraint(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}

// classify maps a driver error onto the package error taxonomy. The sqlite
// driver reports extended result codes, so the primary code is masked out
// for comparison.
func classify(op string, err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqliteConstraint {
		return &ConstraintError{Op: op, Err: err}
	}
	return &StorageError{Op: op, Err: err}
}
