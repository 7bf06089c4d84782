package draft

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("draft not found")
	ErrInvalidTransition = errors.New("invalid step transition")
	ErrSlotClosed        = errors.New("selected slot is no longer open")
	ErrCaddyHeld         = errors.New("caddy is held by another draft")
	ErrCaddyCount        = errors.New("caddy count must equal player count")
	ErrUpstream          = errors.New("availability lookup failed")
)
