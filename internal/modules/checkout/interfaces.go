package checkout

import (
	"context"

	"golfclub/internal/domain"
	"golfclub/internal/modules/pricing"
)

// Gateway creates checkout sessions at the payment provider.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// BookingStore is the write side of committed reservations plus the
// session-keyed lookup the reconciler polls.
type BookingStore interface {
	CreateBooked(ctx context.Context, b *domain.Booking) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Booking, error)
}

// SnapshotStore loads and finalizes the draft being paid for.
type SnapshotStore interface {
	Get(ctx context.Context, sessionKey string) (*domain.DraftSnapshot, error)
	GetByCheckoutID(ctx context.Context, checkoutID string) (*domain.DraftSnapshot, error)
	Save(ctx context.Context, s *domain.DraftSnapshot) error
	Delete(ctx context.Context, sessionKey string) error
}

// SlotChecker re-checks slot openness right before the provider call.
type SlotChecker interface {
	IsOpen(ctx context.Context, date string, courseType domain.CourseType, slot string) (bool, error)
}

// HoldRegistry releases the draft's holds once the booking commits.
type HoldRegistry interface {
	ReleaseAll(key domain.SlotKey, holder string)
}

// Pricer recomputes the authoritative total; client totals are never
// trusted at commit time.
type Pricer interface {
	Breakdown(ctx context.Context, d *domain.BookingDraft) (pricing.Breakdown, error)
}
