package db

import (
	"strings"

	"github.com/smuchow1962/conversion-table-manager/errors"
)

// ErrDatabaseClosed is returned when the store is used after Close.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed checks if an error indicates the database connection is closed,
// either our own ErrDatabaseClosed or the sql driver's error text.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
