package availability

import (
	"context"
	"fmt"
	"strings"

	"golfclub/internal/domain"
	"golfclub/internal/modules/pricing"
)

type Service struct {
	reservations ReservationQuery
}

func NewService(reservations ReservationQuery) *Service {
	return &Service{reservations: reservations}
}

// Result splits one course type's candidate ladder for a date into
// open and closed slots. Open and Closed partition the ladder: they
// never overlap and their union is the full ladder.
type Result struct {
	Date       string            `json:"date"`
	CourseType domain.CourseType `json:"course_type"`
	Open       []string          `json:"open"`
	Closed     []string          `json:"closed"`
}

func (r *Result) IsClosed(slot string) bool {
	for _, s := range r.Closed {
		if s == slot {
			return true
		}
	}
	return false
}

// Resolve computes bookable slots by removing slots already committed
// in storage. A lookup failure returns an error and no slots: failure
// means "nothing bookable", never "everything open".
func (s *Service) Resolve(ctx context.Context, date string, courseType domain.CourseType) (*Result, error) {
	if _, err := pricing.ParseDate(date); err != nil {
		return nil, ErrValidation
	}
	ladder := Ladder(courseType)
	if ladder == nil {
		return nil, ErrValidation
	}

	booked, err := s.reservations.ListBooked(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookup, err)
	}

	closedSet := make(map[string]bool)
	for _, b := range booked {
		if b.CourseType != courseType {
			continue
		}
		if !strings.EqualFold(string(b.Status), string(domain.BookingBooked)) {
			continue
		}
		closedSet[b.TimeSlot] = true
	}

	res := &Result{Date: date, CourseType: courseType}
	for _, slot := range ladder {
		if closedSet[slot] {
			res.Closed = append(res.Closed, slot)
		} else {
			res.Open = append(res.Open, slot)
		}
	}
	return res, nil
}

// IsOpen re-checks a single slot at transition time. Fail closed: any
// resolver error reads as "not open".
func (s *Service) IsOpen(ctx context.Context, date string, courseType domain.CourseType, slot string) (bool, error) {
	res, err := s.Resolve(ctx, date, courseType)
	if err != nil {
		return false, err
	}
	for _, open := range res.Open {
		if open == slot {
			return true, nil
		}
	}
	return false, nil
}
