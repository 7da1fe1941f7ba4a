package wrangler

import "errors"

// ErrInvalidParams is returned when wrangler parameters fail
// validation.
var ErrInvalidParams = errors.New("invalid wrangler parameters")
