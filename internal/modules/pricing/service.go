package pricing

import (
	"context"
	"errors"
	"time"

	"golfclub/internal/domain"
)

// Club rates in THB. Green fees are per player and depend on course
// type and holiday pricing; the rest are flat per-unit rates.
const (
	GreenFeeWeekday18 = 2200
	GreenFeeHoliday18 = 4000
	GreenFeeWeekday9  = 1500
	GreenFeeHoliday9  = 2500

	CaddyRate = 400
	CartRate  = 500
	BagRate   = 300
)

var ErrBadDate = errors.New("invalid booking date")

type Breakdown struct {
	GreenFee float64 `json:"green_fee"`
	CaddyFee float64 `json:"caddy_fee"`
	CartFee  float64 `json:"cart_fee"`
	BagFee   float64 `json:"bag_fee"`
	Total    float64 `json:"total"`
}

// HolidayCalendar reports whether a date is holiday-priced. The
// implementation decides what counts (weekends plus the club's holiday
// table); the calculator never guesses.
type HolidayCalendar interface {
	IsHoliday(ctx context.Context, date string) (bool, error)
}

type Calculator struct {
	calendar HolidayCalendar
}

func NewCalculator(calendar HolidayCalendar) *Calculator {
	return &Calculator{calendar: calendar}
}

// Breakdown resolves holiday pricing for the date and computes the fee
// breakdown. The same calculator runs wherever a price is shown and
// wherever a commit is validated, so totals are always re-derivable.
func (c *Calculator) Breakdown(ctx context.Context, d *domain.BookingDraft) (Breakdown, error) {
	holiday, err := c.calendar.IsHoliday(ctx, d.Date)
	if err != nil {
		return Breakdown{}, err
	}
	return Compute(d.CourseType, d.Players, len(d.CaddyIDs), d.CartQty, d.BagQty, holiday), nil
}

// Compute is the pure pricing core. Callers must reject players=0 and
// negative quantities before commit; here they simply price to zero.
func Compute(courseType domain.CourseType, players, caddies, cartQty, bagQty int, holiday bool) Breakdown {
	b := Breakdown{
		GreenFee: float64(players) * GreenFeeRate(courseType, holiday),
		CaddyFee: float64(caddies) * CaddyRate,
		CartFee:  float64(cartQty) * CartRate,
		BagFee:   float64(bagQty) * BagRate,
	}
	b.Total = b.GreenFee + b.CaddyFee + b.CartFee + b.BagFee
	return b
}

func GreenFeeRate(courseType domain.CourseType, holiday bool) float64 {
	if courseType == domain.Course18 {
		if holiday {
			return GreenFeeHoliday18
		}
		return GreenFeeWeekday18
	}
	if holiday {
		return GreenFeeHoliday9
	}
	return GreenFeeWeekday9
}

// ParseDate validates the YYYY-MM-DD wire format used everywhere in
// the booking flow.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}
