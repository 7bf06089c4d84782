package availability

import (
	"context"

	"golfclub/internal/domain"
)

// ReservationQuery is the read-only view of committed reservations.
type ReservationQuery interface {
	ListBooked(ctx context.Context, date string) ([]domain.Booking, error)
}
