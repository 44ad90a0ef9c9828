package store

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Outcomes callers are expected to handle. Any other error from the store is
// a storage fault and should abort the operation.
var (
	// ErrDuplicate means a username or a folder name under one account is taken.
	ErrDuplicate = errors.New("already exists")

	// ErrNotFound means the record does not exist or belongs to another
	// account. The two cases are intentionally indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrNotEmpty means a folder still holds items.
	ErrNotEmpty = errors.New("folder is not empty")

	// ErrPasswordTooLong means a new password exceeds bcrypt's 72-byte input.
	ErrPasswordTooLong = errors.New("password too long")
)

// Reason returns a short, user-facing explanation of err.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicate):
		return "that name is already taken"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrPasswordTooLong):
		return "the password must be at most 72 bytes"
	case errors.Is(err, ErrNotEmpty):
		return "the folder still contains items; move or delete them first"
	default:
		return "storage error"
	}
}

// IsFault reports whether err is a storage fault rather than one of the
// expected outcomes above.
func IsFault(err error) bool {
	return err != nil &&
		!errors.Is(err, ErrDuplicate) &&
		!errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrNotEmpty) &&
		!errors.Is(err, ErrPasswordTooLong)
}

func isUniqueViolation(err error) bool {
	return hasCode(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE)
}

func isForeignKeyViolation(err error) bool {
	return hasCode(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY)
}

func hasCode(err error, code int) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == code
	}
	return false
}
