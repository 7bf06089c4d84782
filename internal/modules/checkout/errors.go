package checkout

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("slot or caddy no longer available")
	ErrUpstream        = errors.New("checkout collaborator unavailable")
	ErrUnauthorized    = errors.New("caller identity missing or expired")
	ErrNotYetAvailable = errors.New("booking not confirmed yet")
	ErrNotFound        = errors.New("no draft ready for checkout")
)
