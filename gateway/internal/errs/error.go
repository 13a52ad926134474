package errs

import (
	"errors"
)

var (
	ErrSharerID = errors.New("X-Sharer-User-Id header is required")
)
