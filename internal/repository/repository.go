package repository

import "errors"

// ErrNotFound is returned when a lookup does not match any record.
var ErrNotFound = errors.New("record not found")
