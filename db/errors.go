package db

import (
	"strings"

	"github.com/teranos/ancestry/errors"
)

// ErrDatabaseClosed marks a store or migration call made after the
// connection returned by Open was closed, for example by a command's
// deferred close running before a late save.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err is ErrDatabaseClosed or a driver
// error saying the connection is closed. database/sql returns its own
// unexported error for this, so the driver case is matched by message.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
