package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist. It aliases
// gorm.ErrRecordNotFound so callers can match either sentinel with errors.Is.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates a unique-constraint violation, e.g. inserting a
// second ActionRecord for the same (entry, staff, action). The constraint is
// enforced by the database, so concurrent duplicate inserts cannot both
// succeed; exactly one caller observes ErrDuplicate.
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation detects unique-constraint errors across drivers that may
// not map to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}
