package errs

import (
	"errors"
)

// Authorization denials are raised as ErrNotFound on purpose: the API must
// not reveal whether a booking or item exists to a caller who may not see it.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)
