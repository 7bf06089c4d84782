package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the reservation core's tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&caddyModel{},
		&holidayModel{},
		&bookingModel{},
		&draftModel{},
	); err != nil {
		return err
	}

	// At most one booked row per slot, enforced by the schema so two
	// concurrent commits cannot both pass the in-transaction count.
	// Partial: cancelled and completed rows never block rebooking.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_slot_once
		 ON bookings (date, time_slot, course_type)
		 WHERE status = 'booked'`,
	).Error
}
