package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. The constraint name is a hint: Postgres names the
// violated index while SQLite only lists the columns, so a generic unique
// violation still matches.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
