package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound     = errors.New("item not found")
	ErrNoSnapshot   = errors.New("no snapshot published yet")
	ErrInvalidLimit = errors.New("invalid item limit")
	ErrNilSnapshot  = errors.New("nil snapshot")
)
