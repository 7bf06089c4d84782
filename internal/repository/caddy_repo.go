package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golfclub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaddyRepository struct {
	db *gorm.DB
}

func NewCaddyRepository(db *gorm.DB) *CaddyRepository {
	return &CaddyRepository{db: db}
}

type caddyModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Code       *string   `gorm:"column:code"`
	Name       string    `gorm:"column:name"`
	ProfilePic *string   `gorm:"column:profile_pic"`
	Status     string    `gorm:"column:status"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (caddyModel) TableName() string { return "caddies" }

func toDomainCaddy(m caddyModel) domain.Caddy {
	var code, pic string
	if m.Code != nil {
		code = *m.Code
	}
	if m.ProfilePic != nil {
		pic = *m.ProfilePic
	}

	return domain.Caddy{
		ID:         m.ID,
		Code:       code,
		Name:       m.Name,
		ProfilePic: pic,
		Status:     domain.CaddyStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// Upsert writes a roster entry, replacing any existing row with the
// same id. Used by the seeder and the admin import.
func (r *CaddyRepository) Upsert(ctx context.Context, c *domain.Caddy) error {
	var code, pic *string
	if c.Code != "" {
		v := c.Code
		code = &v
	}
	if c.ProfilePic != "" {
		v := c.ProfilePic
		pic = &v
	}

	m := caddyModel{
		ID:         c.ID,
		Code:       code,
		Name:       c.Name,
		ProfilePic: pic,
		Status:     string(c.Status),
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&m).Error
}

// ListAvailable returns caddies whose status is "available", each
// annotated with the slots they are already committed to on that date.
// Busy slots come from booked reservations; schedule changes made by
// the admin side land in the status column and drop the caddy here.
func (r *CaddyRepository) ListAvailable(ctx context.Context, date string) ([]domain.Caddy, error) {
	var rows []caddyModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(status) = ?", string(domain.CaddyAvailable)).
		Order("name ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	busy, err := r.busySlotsByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Caddy, 0, len(rows))
	for _, m := range rows {
		c := toDomainCaddy(m)
		c.BusySlots = busy[c.ID]
		out = append(out, c)
	}
	return out, nil
}

func (r *CaddyRepository) GetByID(ctx context.Context, id string) (*domain.Caddy, error) {
	var m caddyModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	c := toDomainCaddy(m)
	return &c, nil
}

func (r *CaddyRepository) busySlotsByDate(ctx context.Context, date string) (map[string][]domain.SlotKey, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("date = ? AND LOWER(status) = ?", date, string(domain.BookingBooked)).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make(map[string][]domain.SlotKey)
	for _, m := range rows {
		if m.CaddyIDs == nil || *m.CaddyIDs == "" {
			continue
		}
		var ids []string
		if err := json.Unmarshal([]byte(*m.CaddyIDs), &ids); err != nil {
			continue
		}
		key := domain.SlotKey{
			Date:       m.Date,
			TimeSlot:   m.TimeSlot,
			CourseType: domain.CourseType(m.CourseType),
		}
		for _, id := range ids {
			out[id] = append(out[id], key)
		}
	}
	return out, nil
}
