package caddy

import (
	"context"

	"golfclub/internal/domain"
)

// CaddyQuery is the read-only view of the caddy roster.
type CaddyQuery interface {
	ListAvailable(ctx context.Context, date string) ([]domain.Caddy, error)
}
