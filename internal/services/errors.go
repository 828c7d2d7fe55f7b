package services

import "strings"

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure on the given column (e.g. "users.email").
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
