package domain

import "time"

// Wizard steps. Forward transitions are guarded by the draft service,
// backward transitions are always allowed.
const (
	StepSlot    = 1
	StepPlayers = 2
	StepExtras  = 3
	StepReview  = 4
)

// BookingDraft is the in-progress reservation. It is mutated only by
// the draft service and re-persisted as a snapshot after every change
// so an interrupted session (crash, payment redirect) can be restored.
type BookingDraft struct {
	CourseType   CourseType `json:"course_type"`
	Date         string     `json:"date"`
	TimeSlot     string     `json:"time_slot"`
	Players      int        `json:"players"`
	GroupName    string     `json:"group_name"`
	CaddyEnabled bool       `json:"caddy_enabled"`
	CaddyIDs     []string   `json:"caddy_ids"`
	CartQty      int        `json:"cart_qty"`
	BagQty       int        `json:"bag_qty"`
	TotalPrice   float64    `json:"total_price"`
}

func (d *BookingDraft) SlotKey() SlotKey {
	return SlotKey{Date: d.Date, TimeSlot: d.TimeSlot, CourseType: d.CourseType}
}

// DraftSnapshot is the single keyed record per user session holding the
// serialized draft. Overwritten on every mutation, deleted on commit or
// explicit abandonment.
type DraftSnapshot struct {
	SessionKey  string       `json:"session_key"`
	UserID      int64        `json:"user_id"`
	Step        int          `json:"step"`
	HolderToken string       `json:"holder_token"`
	Draft       BookingDraft `json:"draft"`
	CheckoutID  string       `json:"checkout_id,omitempty"`
	Version     int64        `json:"version"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
