package store

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a mutation target does not exist or is not
// visible under the caller's scope.
var ErrNotFound = errors.New("record not found")

// ErrUniqueViolation is returned when an insert collides with a unique
// constraint (duplicate email or username).
var ErrUniqueViolation = errors.New("unique constraint violation")

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. The driver exposes no typed error for this, so match the
// constraint text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
