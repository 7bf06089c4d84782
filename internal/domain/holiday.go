package domain

import "time"

// Holiday is one entry of the club's holiday calendar. Weekends are
// holiday-priced implicitly; this table carries the public holidays.
type Holiday struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
