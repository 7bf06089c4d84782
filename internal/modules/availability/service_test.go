package availability

import (
	"context"
	"errors"
	"testing"

	"golfclub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReservationQuery struct {
	mock.Mock
}

func (m *MockReservationQuery) ListBooked(ctx context.Context, date string) ([]domain.Booking, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func TestResolve_PartitionsLadder(t *testing.T) {
	repo := new(MockReservationQuery)
	repo.On("ListBooked", mock.Anything, "2026-09-02").Return([]domain.Booking{
		{CourseType: domain.Course18, TimeSlot: "07:00", Status: domain.BookingBooked},
		{CourseType: domain.Course18, TimeSlot: "09:15", Status: domain.BookingBooked},
	}, nil)

	service := NewService(repo)
	res, err := service.Resolve(context.Background(), "2026-09-02", domain.Course18)

	assert.NoError(t, err)
	assert.Len(t, res.Closed, 2)
	assert.Len(t, res.Open, len(Slots18)-2)
	assert.True(t, res.IsClosed("07:00"))
	assert.True(t, res.IsClosed("09:15"))

	// open and closed never overlap
	for _, open := range res.Open {
		assert.False(t, res.IsClosed(open))
	}
}

func TestResolve_IgnoresOtherCourseAndCancelled(t *testing.T) {
	repo := new(MockReservationQuery)
	repo.On("ListBooked", mock.Anything, "2026-09-02").Return([]domain.Booking{
		// 9-hole booking must not close an 18-hole slot
		{CourseType: domain.Course9, TimeSlot: "12:15", Status: domain.BookingBooked},
		// cancelled rows never block
		{CourseType: domain.Course18, TimeSlot: "08:00", Status: domain.BookingCancelled},
	}, nil)

	service := NewService(repo)
	res, err := service.Resolve(context.Background(), "2026-09-02", domain.Course18)

	assert.NoError(t, err)
	assert.Empty(t, res.Closed)
	assert.Len(t, res.Open, len(Slots18))
}

func TestResolve_StatusMatchIsCaseInsensitive(t *testing.T) {
	repo := new(MockReservationQuery)
	repo.On("ListBooked", mock.Anything, "2026-09-02").Return([]domain.Booking{
		{CourseType: domain.Course18, TimeSlot: "06:30", Status: "Booked"},
	}, nil)

	service := NewService(repo)
	res, err := service.Resolve(context.Background(), "2026-09-02", domain.Course18)

	assert.NoError(t, err)
	assert.True(t, res.IsClosed("06:30"))
}

func TestResolve_FailsClosedOnLookupError(t *testing.T) {
	repo := new(MockReservationQuery)
	repo.On("ListBooked", mock.Anything, "2026-09-02").Return(nil, errors.New("db down"))

	service := NewService(repo)
	res, err := service.Resolve(context.Background(), "2026-09-02", domain.Course18)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrLookup)
}

func TestResolve_RejectsBadInput(t *testing.T) {
	service := NewService(new(MockReservationQuery))

	_, err := service.Resolve(context.Background(), "02/09/2026", domain.Course18)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Resolve(context.Background(), "2026-09-02", domain.CourseType("27"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIsOpen(t *testing.T) {
	repo := new(MockReservationQuery)
	repo.On("ListBooked", mock.Anything, "2026-09-02").Return([]domain.Booking{
		{CourseType: domain.Course9, TimeSlot: "13:00", Status: domain.BookingBooked},
	}, nil)

	service := NewService(repo)

	open, err := service.IsOpen(context.Background(), "2026-09-02", domain.Course9, "13:15")
	assert.NoError(t, err)
	assert.True(t, open)

	open, err = service.IsOpen(context.Background(), "2026-09-02", domain.Course9, "13:00")
	assert.NoError(t, err)
	assert.False(t, open)

	// a slot outside the 9-hole ladder is never open
	open, err = service.IsOpen(context.Background(), "2026-09-02", domain.Course9, "06:00")
	assert.NoError(t, err)
	assert.False(t, open)
}

func TestLadders_AreDisjoint(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Slots18 {
		seen[s] = true
	}
	for _, s := range Slots9 {
		assert.False(t, seen[s], "slot %s appears in both ladders", s)
	}
	assert.Len(t, Slots18, 25)
	assert.Len(t, Slots9, 20)
}
