package booking

import (
	"context"
	"errors"

	"golfclub/internal/domain"
	"golfclub/internal/repository"
)

var ErrNotFound = errors.New("booking not found")

const defaultPageSize = 20

type Reader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
}

type Service struct {
	bookings Reader
}

func NewService(bookings Reader) *Service {
	return &Service{bookings: bookings}
}

func (s *Service) ListMine(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.GetByUserID(ctx, userID, limit, offset)
}

// GetMine returns one booking, refusing to leak other golfers' rows.
func (s *Service) GetMine(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}
