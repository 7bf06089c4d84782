package domain

import "time"

type CaddyStatus string

const (
	CaddyAvailable   CaddyStatus = "available"
	CaddyUnavailable CaddyStatus = "unavailable"
	CaddyOnLeave     CaddyStatus = "on_leave"
)

// Caddy is an employee record owned by the admin side; the booking core
// only reads it. BusySlots are the committed assignments for a date,
// derived from booked reservations plus out-of-band schedule entries.
type Caddy struct {
	ID         string      `json:"id"`
	Code       string      `json:"code,omitempty"`
	Name       string      `json:"name"`
	ProfilePic string      `json:"profile_pic,omitempty"`
	Status     CaddyStatus `json:"status"`
	BusySlots  []SlotKey   `json:"busy_slots,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (c *Caddy) BusyAt(key SlotKey) bool {
	for _, s := range c.BusySlots {
		if s == key {
			return true
		}
	}
	return false
}
