package timeline

import "errors"

// ErrNotFound indicates the requested video or entry does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidRange indicates an entry create or update would produce
// start_seconds >= end_seconds. The stored row is left untouched.
var ErrInvalidRange = errors.New("invalid entry range")
