package repository

import (
	"context"
	"time"

	"golfclub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HolidayRepository struct {
	db *gorm.DB
}

func NewHolidayRepository(db *gorm.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

type holidayModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Date      string    `gorm:"column:date;uniqueIndex"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (holidayModel) TableName() string { return "holidays" }

// Upsert writes a calendar entry keyed by date.
func (r *HolidayRepository) Upsert(ctx context.Context, h *domain.Holiday) error {
	m := holidayModel{
		Date:      h.Date,
		Name:      h.Name,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(&m).Error
}

func (r *HolidayRepository) Exists(ctx context.Context, date string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&holidayModel{}).Where("date = ?", date).Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *HolidayRepository) List(ctx context.Context) ([]domain.Holiday, error) {
	var rows []holidayModel
	tx := r.db.WithContext(ctx).Order("date ASC").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Holiday, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.Holiday{
			ID:        m.ID,
			Date:      m.Date,
			Name:      m.Name,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
