package draft

import (
	"context"

	"golfclub/internal/domain"
	"golfclub/internal/modules/availability"
	"golfclub/internal/modules/pricing"
)

// SnapshotStore persists the single recoverable snapshot per session.
type SnapshotStore interface {
	Save(ctx context.Context, s *domain.DraftSnapshot) error
	Get(ctx context.Context, sessionKey string) (*domain.DraftSnapshot, error)
	Delete(ctx context.Context, sessionKey string) error
}

// SlotResolver re-checks slot openness at transition time.
type SlotResolver interface {
	Resolve(ctx context.Context, date string, courseType domain.CourseType) (*availability.Result, error)
}

// HoldRegistry is the slice of the hold manager the draft drives.
type HoldRegistry interface {
	Acquire(key domain.SlotKey, caddyID, holder string) error
	Release(key domain.SlotKey, caddyID, holder string)
	ReleaseAll(key domain.SlotKey, holder string)
}

// Pricer recomputes the draft total whenever a priced field changes.
type Pricer interface {
	Breakdown(ctx context.Context, d *domain.BookingDraft) (pricing.Breakdown, error)
}
