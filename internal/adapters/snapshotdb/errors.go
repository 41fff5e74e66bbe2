package snapshotdb

import (
	"errors"
	"fmt"
)

// ErrNotSQLite is returned when a payload lacks the SQLite file header.
var ErrNotSQLite = errors.New("payload is not a SQLite database")

// LoadError reports a failed snapshot load.
type LoadError struct {
	Database string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Database, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
