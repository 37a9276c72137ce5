package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint (email or nickname)
// is violated. Callers must be able to tell this apart from transient
// failures.
var ErrConflict = errors.New("conflict")
