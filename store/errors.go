package store

import "errors"

// ErrProfileNotFound is returned when no profile exists under the requested
// kind and id.
var ErrProfileNotFound = errors.New("store: profile not found")
