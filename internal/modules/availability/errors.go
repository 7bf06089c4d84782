package availability

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrLookup     = errors.New("reservation lookup failed")
)
