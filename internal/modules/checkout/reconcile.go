package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"golfclub/internal/domain"
	"golfclub/internal/repository"
)

// Reconcile polls for the booking the webhook should have committed
// for the given provider session. Payment confirmation races the
// redirect back to the club site, so "not there yet" is retried a
// bounded number of times; an identity mismatch is terminal.
func (s *Service) Reconcile(ctx context.Context, userID int64, sessionID string) (*domain.Booking, error) {
	if sessionID == "" {
		return nil, ErrValidation
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		b, err := s.bookings.GetBySessionID(ctx, sessionID)
		if err == nil {
			if b.UserID != userID {
				return nil, ErrUnauthorized
			}
			return b, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if attempt == s.maxAttempts {
			break
		}

		log.Printf("level=info msg=booking not visible yet session_id=%s attempt=%d", sessionID, attempt)
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, ErrNotYetAvailable
}
