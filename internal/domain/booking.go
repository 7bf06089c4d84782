package domain

import "time"

type CourseType string

const (
	Course9  CourseType = "9"
	Course18 CourseType = "18"
)

func (c CourseType) Valid() bool {
	return c == Course9 || c == Course18
}

type BookingStatus string

const (
	BookingBooked    BookingStatus = "booked"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// SlotKey identifies one tee-off slot. It is also the exclusivity
// domain for caddy holds: two drafts with different keys never contend.
type SlotKey struct {
	Date       string     `json:"date"`
	TimeSlot   string     `json:"time_slot"`
	CourseType CourseType `json:"course_type"`
}

// Booking is a committed tee-time reservation. Rows only appear here
// after the payment provider confirms the checkout session; this table
// is the single source of truth for slot and caddy allocation.
type Booking struct {
	ID         int64         `json:"id"`
	UserID     int64         `json:"user_id" validate:"required"`
	CourseType CourseType    `json:"course_type" validate:"required"`
	Date       string        `json:"date" validate:"required"`
	TimeSlot   string        `json:"time_slot" validate:"required"`
	Players    int           `json:"players" validate:"required,gte=1"`
	GroupName  string        `json:"group_name,omitempty"`
	CaddyIDs   []string      `json:"caddy_ids,omitempty"`
	CartQty    int           `json:"cart_qty"`
	BagQty     int           `json:"bag_qty"`
	GreenFee   float64       `json:"green_fee"`
	CaddyFee   float64       `json:"caddy_fee"`
	CartFee    float64       `json:"cart_fee"`
	BagFee     float64       `json:"bag_fee"`
	TotalPrice float64       `json:"total_price" validate:"required,gte=0"`
	Status     BookingStatus `json:"status"`
	SessionID  string        `json:"session_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (b *Booking) SlotKey() SlotKey {
	return SlotKey{Date: b.Date, TimeSlot: b.TimeSlot, CourseType: b.CourseType}
}
