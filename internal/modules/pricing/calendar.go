package pricing

import (
	"context"
	"time"
)

// HolidayStore is the read side of the club's holiday table.
type HolidayStore interface {
	Exists(ctx context.Context, date string) (bool, error)
}

// ClubCalendar prices weekends and listed public holidays as holidays.
type ClubCalendar struct {
	store HolidayStore
}

func NewClubCalendar(store HolidayStore) *ClubCalendar {
	return &ClubCalendar{store: store}
}

func (c *ClubCalendar) IsHoliday(ctx context.Context, date string) (bool, error) {
	t, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return true, nil
	}
	return c.store.Exists(ctx, date)
}
