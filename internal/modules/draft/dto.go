package draft

// UpdateRequest carries the field edits of one wizard interaction.
// Absent fields are left untouched.
type UpdateRequest struct {
	CourseType   *string `json:"course_type,omitempty"`
	Date         *string `json:"date,omitempty"`
	TimeSlot     *string `json:"time_slot,omitempty"`
	Players      *int    `json:"players,omitempty"`
	GroupName    *string `json:"group_name,omitempty"`
	CaddyEnabled *bool   `json:"caddy_enabled,omitempty"`
	CartQty      *int    `json:"cart_qty,omitempty"`
	BagQty       *int    `json:"bag_qty,omitempty"`
}

type SelectCaddyRequest struct {
	CaddyID string `json:"caddy_id" binding:"required"`
}
