package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golfclub/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrSlotTaken    = errors.New("slot already booked")
	ErrCaddyTaken   = errors.New("caddy already committed for this slot")
	ErrStaleSession = errors.New("checkout session already consumed")
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type bookingModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	UserID     int64     `gorm:"column:user_id"`
	CourseType string    `gorm:"column:course_type;index:idx_slot_lookup"`
	Date       string    `gorm:"column:date;index:idx_slot_lookup"`
	TimeSlot   string    `gorm:"column:time_slot;index:idx_slot_lookup"`
	Players    int       `gorm:"column:players"`
	GroupName  *string   `gorm:"column:group_name"`
	CaddyIDs   *string   `gorm:"column:caddy_ids;type:text"`
	CartQty    int       `gorm:"column:cart_qty"`
	BagQty     int       `gorm:"column:bag_qty"`
	GreenFee   float64   `gorm:"column:green_fee"`
	CaddyFee   float64   `gorm:"column:caddy_fee"`
	CartFee    float64   `gorm:"column:cart_fee"`
	BagFee     float64   `gorm:"column:bag_fee"`
	TotalPrice float64   `gorm:"column:total_price"`
	Status     string    `gorm:"column:status"`
	SessionID  *string   `gorm:"column:session_id;uniqueIndex:idx_session_once"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var groupName, sessionID string
	if m.GroupName != nil {
		groupName = *m.GroupName
	}
	if m.SessionID != nil {
		sessionID = *m.SessionID
	}

	var caddyIDs []string
	if m.CaddyIDs != nil && *m.CaddyIDs != "" {
		_ = json.Unmarshal([]byte(*m.CaddyIDs), &caddyIDs)
	}

	return &domain.Booking{
		ID:         m.ID,
		UserID:     m.UserID,
		CourseType: domain.CourseType(m.CourseType),
		Date:       m.Date,
		TimeSlot:   m.TimeSlot,
		Players:    m.Players,
		GroupName:  groupName,
		CaddyIDs:   caddyIDs,
		CartQty:    m.CartQty,
		BagQty:     m.BagQty,
		GreenFee:   m.GreenFee,
		CaddyFee:   m.CaddyFee,
		CartFee:    m.CartFee,
		BagFee:     m.BagFee,
		TotalPrice: m.TotalPrice,
		Status:     domain.BookingStatus(m.Status),
		SessionID:  sessionID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var groupName, sessionID *string
	if b.GroupName != "" {
		v := b.GroupName
		groupName = &v
	}
	if b.SessionID != "" {
		v := b.SessionID
		sessionID = &v
	}

	var caddyIDs *string
	if len(b.CaddyIDs) > 0 {
		raw, _ := json.Marshal(b.CaddyIDs)
		v := string(raw)
		caddyIDs = &v
	}

	return bookingModel{
		ID:         b.ID,
		UserID:     b.UserID,
		CourseType: string(b.CourseType),
		Date:       b.Date,
		TimeSlot:   b.TimeSlot,
		Players:    b.Players,
		GroupName:  groupName,
		CaddyIDs:   caddyIDs,
		CartQty:    b.CartQty,
		BagQty:     b.BagQty,
		GreenFee:   b.GreenFee,
		CaddyFee:   b.CaddyFee,
		CartFee:    b.CartFee,
		BagFee:     b.BagFee,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		SessionID:  sessionID,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ListBooked returns every reservation for the date whose status is
// "booked". Cancelled rows never block availability.
func (r *ReservationRepository) ListBooked(ctx context.Context, date string) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("date = ? AND LOWER(status) = ?", date, string(domain.BookingBooked)).
		Order("time_slot ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// CreateBooked is the compare-and-commit step: inside one transaction
// it re-checks that the slot is still unbooked and that none of the
// requested caddies is committed to the same slot, then inserts. The
// checks give precise errors; the partial unique slot index is the
// arbiter when two commits race past them, and the unique session
// index keeps a replayed webhook from inserting twice.
func (r *ReservationRepository) CreateBooked(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		err := tx.Model(&bookingModel{}).
			Where("date = ? AND time_slot = ? AND course_type = ? AND LOWER(status) = ?",
				b.Date, b.TimeSlot, string(b.CourseType), string(domain.BookingBooked)).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrSlotTaken
		}

		if len(b.CaddyIDs) > 0 {
			committed, err := committedCaddies(tx, b.SlotKey())
			if err != nil {
				return err
			}
			for _, id := range b.CaddyIDs {
				if committed[id] {
					return ErrCaddyTaken
				}
			}
		}

		b.Status = domain.BookingBooked
		m := toBookingModel(b)
		m.CreatedAt = time.Now().UTC()
		m.UpdatedAt = m.CreatedAt
		if err := tx.Create(&m).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				// idx_slot_once: a concurrent commit won the slot
				if pgErr.ConstraintName == "idx_slot_once" {
					return ErrSlotTaken
				}
				// idx_session_once: the webhook already committed this session
				return ErrStaleSession
			}
			return err
		}
		b.ID = m.ID
		b.CreatedAt = m.CreatedAt
		b.UpdatedAt = m.UpdatedAt
		return nil
	})
}

// committedCaddies collects caddy ids already bound to booked
// reservations for the slot key.
func committedCaddies(tx *gorm.DB, key domain.SlotKey) (map[string]bool, error) {
	var rows []bookingModel
	err := tx.
		Where("date = ? AND time_slot = ? AND course_type = ? AND LOWER(status) = ?",
			key.Date, key.TimeSlot, string(key.CourseType), string(domain.BookingBooked)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool)
	for _, m := range rows {
		if m.CaddyIDs == nil || *m.CaddyIDs == "" {
			continue
		}
		var ids []string
		if err := json.Unmarshal([]byte(*m.CaddyIDs), &ids); err != nil {
			continue
		}
		for _, id := range ids {
			out[id] = true
		}
	}
	return out, nil
}

func (r *ReservationRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *ReservationRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time_slot DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
