package caddy

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrHeld       = errors.New("caddy is held by another draft")
	ErrLookup     = errors.New("caddy lookup failed")
)
