package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golfclub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DraftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

type draftModel struct {
	SessionKey  string    `gorm:"column:session_key;primaryKey"`
	UserID      int64     `gorm:"column:user_id;index"`
	Step        int       `gorm:"column:step"`
	HolderToken string    `gorm:"column:holder_token"`
	DraftJSON   string    `gorm:"column:draft_json;type:text"`
	CheckoutID  *string   `gorm:"column:checkout_id"`
	Version     int64     `gorm:"column:version"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (draftModel) TableName() string { return "booking_drafts" }

// Save overwrites the single snapshot row for the session key. Called
// after every draft mutation so a crashed or redirected session can be
// restored exactly where it left off.
func (r *DraftRepository) Save(ctx context.Context, s *domain.DraftSnapshot) error {
	raw, err := json.Marshal(s.Draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	var checkoutID *string
	if s.CheckoutID != "" {
		v := s.CheckoutID
		checkoutID = &v
	}

	s.Version++
	s.UpdatedAt = time.Now().UTC()

	m := draftModel{
		SessionKey:  s.SessionKey,
		UserID:      s.UserID,
		Step:        s.Step,
		HolderToken: s.HolderToken,
		DraftJSON:   string(raw),
		CheckoutID:  checkoutID,
		Version:     s.Version,
		UpdatedAt:   s.UpdatedAt,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}},
			UpdateAll: true,
		}).
		Create(&m).Error
}

func (r *DraftRepository) Get(ctx context.Context, sessionKey string) (*domain.DraftSnapshot, error) {
	var m draftModel
	tx := r.db.WithContext(ctx).Where("session_key = ?", sessionKey).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}

	s := &domain.DraftSnapshot{
		SessionKey:  m.SessionKey,
		UserID:      m.UserID,
		Step:        m.Step,
		HolderToken: m.HolderToken,
		Version:     m.Version,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.CheckoutID != nil {
		s.CheckoutID = *m.CheckoutID
	}
	if err := json.Unmarshal([]byte(m.DraftJSON), &s.Draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return s, nil
}

func (r *DraftRepository) GetByCheckoutID(ctx context.Context, checkoutID string) (*domain.DraftSnapshot, error) {
	var m draftModel
	tx := r.db.WithContext(ctx).Where("checkout_id = ?", checkoutID).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}

	s := &domain.DraftSnapshot{
		SessionKey:  m.SessionKey,
		UserID:      m.UserID,
		Step:        m.Step,
		HolderToken: m.HolderToken,
		CheckoutID:  checkoutID,
		Version:     m.Version,
		UpdatedAt:   m.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(m.DraftJSON), &s.Draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return s, nil
}

func (r *DraftRepository) Delete(ctx context.Context, sessionKey string) error {
	return r.db.WithContext(ctx).
		Where("session_key = ?", sessionKey).
		Delete(&draftModel{}).Error
}
