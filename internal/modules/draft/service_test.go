package draft

import (
	"context"
	"testing"
	"time"

	"golfclub/internal/domain"
	"golfclub/internal/modules/availability"
	"golfclub/internal/modules/caddy"
	"golfclub/internal/modules/pricing"
	"golfclub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeSnapshots is an in-memory SnapshotStore; the draft flow reads
// back what it writes, so a recording mock would be all noise.
type fakeSnapshots struct {
	rows map[string]domain.DraftSnapshot
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{rows: make(map[string]domain.DraftSnapshot)}
}

func (f *fakeSnapshots) Save(ctx context.Context, s *domain.DraftSnapshot) error {
	s.Version++
	s.UpdatedAt = time.Now()
	f.rows[s.SessionKey] = *s
	return nil
}

func (f *fakeSnapshots) Get(ctx context.Context, sessionKey string) (*domain.DraftSnapshot, error) {
	row, ok := f.rows[sessionKey]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := row
	return &cp, nil
}

func (f *fakeSnapshots) Delete(ctx context.Context, sessionKey string) error {
	delete(f.rows, sessionKey)
	return nil
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, date string, courseType domain.CourseType) (*availability.Result, error) {
	args := m.Called(ctx, date, courseType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availability.Result), args.Error(1)
}

type stubPricer struct{}

func (stubPricer) Breakdown(ctx context.Context, d *domain.BookingDraft) (pricing.Breakdown, error) {
	holiday := false
	b := pricing.Compute(d.CourseType, d.Players, len(d.CaddyIDs), d.CartQty, d.BagQty, holiday)
	return b, nil
}

func openResult(date string, ct domain.CourseType) *availability.Result {
	return &availability.Result{Date: date, CourseType: ct, Open: availability.Ladder(ct)}
}

func newTestService(resolver *MockResolver) (*Service, *fakeSnapshots, *caddy.HoldManager) {
	snaps := newFakeSnapshots()
	holds := caddy.NewHoldManager(10 * time.Minute)
	return NewService(snaps, resolver, holds, stubPricer{}), snaps, holds
}

func startDraft(t *testing.T, s *Service) *domain.DraftSnapshot {
	t.Helper()
	snap, err := s.Start(context.Background(), "user:1", 1)
	require.NoError(t, err)
	require.Equal(t, domain.StepSlot, snap.Step)
	require.NotEmpty(t, snap.HolderToken)
	return snap
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestStart_CreatesDefaultsAndRestores(t *testing.T) {
	s, _, _ := newTestService(new(MockResolver))

	first := startDraft(t, s)
	assert.Equal(t, domain.Course18, first.Draft.CourseType)
	assert.Equal(t, 1, first.Draft.Players)
	assert.Equal(t, 2200.0, first.Draft.TotalPrice)

	// second call restores, not resets
	_, err := s.Update(context.Background(), "user:1", UpdateRequest{Players: intPtr(3)})
	require.NoError(t, err)

	again, err := s.Start(context.Background(), "user:1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Draft.Players)
	assert.Equal(t, first.HolderToken, again.HolderToken)
}

func TestUpdate_Validation(t *testing.T) {
	s, _, _ := newTestService(new(MockResolver))
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{Players: intPtr(0)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Update(ctx, "user:1", UpdateRequest{Date: strPtr("not-a-date")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Update(ctx, "user:1", UpdateRequest{TimeSlot: strPtr("05:00")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Update(ctx, "user:1", UpdateRequest{CourseType: strPtr("27")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Update(ctx, "user:1", UpdateRequest{CartQty: intPtr(-1)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdate_Reprices(t *testing.T) {
	s, _, _ := newTestService(new(MockResolver))
	startDraft(t, s)

	snap, err := s.Update(context.Background(), "user:1", UpdateRequest{
		Players: intPtr(4),
		CartQty: intPtr(2),
		BagQty:  intPtr(1),
	})
	require.NoError(t, err)
	// 4*2200 + 2*500 + 1*300
	assert.Equal(t, 10100.0, snap.Draft.TotalPrice)
}

func TestSelectCaddy_EqualityLimitAndHolds(t *testing.T) {
	s, _, holds := newTestService(new(MockResolver))
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{
		Date:         strPtr("2026-09-02"),
		TimeSlot:     strPtr("07:00"),
		Players:      intPtr(2),
		CaddyEnabled: boolPtr(true),
	})
	require.NoError(t, err)

	snap, err := s.SelectCaddy(ctx, "user:1", "cd-001")
	require.NoError(t, err)
	snap, err = s.SelectCaddy(ctx, "user:1", "cd-002")
	require.NoError(t, err)
	assert.Equal(t, []string{"cd-001", "cd-002"}, snap.Draft.CaddyIDs)
	// 2*2200 + 2*400
	assert.Equal(t, 5200.0, snap.Draft.TotalPrice)

	// third caddy for two players is refused
	_, err = s.SelectCaddy(ctx, "user:1", "cd-003")
	assert.ErrorIs(t, err, ErrCaddyCount)

	// both holds are live under the slot key
	key := snap.Draft.SlotKey()
	assert.True(t, holds.Held(key, "cd-001", snap.HolderToken))
	assert.True(t, holds.Held(key, "cd-002", snap.HolderToken))
}

func TestSelectCaddy_ContestedHold(t *testing.T) {
	s, _, holds := newTestService(new(MockResolver))
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{
		Date:         strPtr("2026-09-02"),
		TimeSlot:     strPtr("07:00"),
		CaddyEnabled: boolPtr(true),
	})
	require.NoError(t, err)

	key := domain.SlotKey{Date: "2026-09-02", TimeSlot: "07:00", CourseType: domain.Course18}
	require.NoError(t, holds.Acquire(key, "cd-001", "someone-else"))

	_, err = s.SelectCaddy(ctx, "user:1", "cd-001")
	assert.ErrorIs(t, err, ErrCaddyHeld)
}

func TestUpdate_SlotChangeReleasesHoldsAndClearsSelection(t *testing.T) {
	s, _, holds := newTestService(new(MockResolver))
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{
		Date:         strPtr("2026-09-02"),
		TimeSlot:     strPtr("07:00"),
		Players:      intPtr(2),
		CaddyEnabled: boolPtr(true),
	})
	require.NoError(t, err)
	_, err = s.SelectCaddy(ctx, "user:1", "cd-001")
	require.NoError(t, err)
	snap, err := s.SelectCaddy(ctx, "user:1", "cd-002")
	require.NoError(t, err)

	oldKey := snap.Draft.SlotKey()
	snap, err = s.Update(ctx, "user:1", UpdateRequest{TimeSlot: strPtr("08:00")})
	require.NoError(t, err)

	assert.Empty(t, snap.Draft.CaddyIDs)
	assert.False(t, holds.Held(oldKey, "cd-001", snap.HolderToken))
	assert.False(t, holds.Held(oldKey, "cd-002", snap.HolderToken))
}

func TestUpdate_CourseTypeChangeClearsForeignSlot(t *testing.T) {
	s, _, _ := newTestService(new(MockResolver))
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{
		Date:     strPtr("2026-09-02"),
		TimeSlot: strPtr("07:00"),
	})
	require.NoError(t, err)

	// 07:00 is not on the 9-hole ladder
	snap, err := s.Update(ctx, "user:1", UpdateRequest{CourseType: strPtr("9")})
	require.NoError(t, err)
	assert.Equal(t, domain.Course9, snap.Draft.CourseType)
	assert.Empty(t, snap.Draft.TimeSlot)
}

func TestAdvance_FullFlow(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, "2026-09-02", domain.Course18).
		Return(openResult("2026-09-02", domain.Course18), nil)

	s, _, _ := newTestService(resolver)
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{
		Date:     strPtr("2026-09-02"),
		TimeSlot: strPtr("07:00"),
	})
	require.NoError(t, err)

	snap, err := s.Advance(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepPlayers, snap.Step)

	_, err = s.Update(ctx, "user:1", UpdateRequest{Players: intPtr(3)})
	require.NoError(t, err)
	snap, err = s.Advance(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepExtras, snap.Step)

	snap, err = s.Advance(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepReview, snap.Step)

	// step 4 hands off to checkout; no further forward transition
	_, err = s.Advance(ctx, "user:1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAdvance_ExtrasRequiresCaddyEquality(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, "2026-09-02", domain.Course18).
		Return(openResult("2026-09-02", domain.Course18), nil)

	s, _, _ := newTestService(resolver)
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{
		Date:         strPtr("2026-09-02"),
		TimeSlot:     strPtr("07:00"),
		Players:      intPtr(3),
		CaddyEnabled: boolPtr(true),
	})
	require.NoError(t, err)
	_, err = s.Advance(ctx, "user:1")
	require.NoError(t, err)
	_, err = s.Advance(ctx, "user:1")
	require.NoError(t, err)

	_, err = s.SelectCaddy(ctx, "user:1", "cd-001")
	require.NoError(t, err)
	_, err = s.SelectCaddy(ctx, "user:1", "cd-002")
	require.NoError(t, err)

	// 2 of 3 selected: review is out of reach
	_, err = s.Advance(ctx, "user:1")
	assert.ErrorIs(t, err, ErrCaddyCount)

	_, err = s.SelectCaddy(ctx, "user:1", "cd-003")
	require.NoError(t, err)
	snap, err := s.Advance(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepReview, snap.Step)
}

func TestAdvance_SlotClosedClearsSelection(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, "2026-09-02", domain.Course18).
		Return(&availability.Result{
			Date:       "2026-09-02",
			CourseType: domain.Course18,
			Closed:     []string{"07:00"},
		}, nil)

	s, snaps, _ := newTestService(resolver)
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{
		Date:     strPtr("2026-09-02"),
		TimeSlot: strPtr("07:00"),
	})
	require.NoError(t, err)

	_, err = s.Advance(ctx, "user:1")
	assert.ErrorIs(t, err, ErrSlotClosed)

	stored, err := snaps.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Empty(t, stored.Draft.TimeSlot)
	assert.Equal(t, domain.StepSlot, stored.Step)
}

func TestAdvance_FailsClosedOnResolverError(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, "2026-09-02", domain.Course18).
		Return(nil, availability.ErrLookup)

	s, _, _ := newTestService(resolver)
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{
		Date:     strPtr("2026-09-02"),
		TimeSlot: strPtr("07:00"),
	})
	require.NoError(t, err)

	_, err = s.Advance(ctx, "user:1")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestRestoreAfterCancel(t *testing.T) {
	s, snaps, _ := newTestService(new(MockResolver))
	startDraft(t, s)
	ctx := context.Background()

	stored, _ := snaps.Get(ctx, "user:1")
	stored.Step = domain.StepReview
	stored.CheckoutID = "cs_test_123"
	require.NoError(t, snaps.Save(ctx, stored))

	snap, err := s.RestoreAfterCancel(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepReview, snap.Step)
	assert.Empty(t, snap.CheckoutID)
}

func TestMutationsInvalidatePendingCheckout(t *testing.T) {
	s, snaps, _ := newTestService(new(MockResolver))
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{
		Date:         strPtr("2026-09-02"),
		TimeSlot:     strPtr("07:00"),
		CaddyEnabled: boolPtr(true),
	})
	require.NoError(t, err)

	markSubmitted := func() {
		stored, gerr := snaps.Get(ctx, "user:1")
		require.NoError(t, gerr)
		stored.Step = domain.StepReview
		stored.CheckoutID = "cs_pending"
		require.NoError(t, snaps.Save(ctx, stored))
	}

	// an edit in another tab while the payment page is open must not
	// let the stale session commit different contents
	markSubmitted()
	snap, err := s.Update(ctx, "user:1", UpdateRequest{Players: intPtr(4)})
	require.NoError(t, err)
	assert.Empty(t, snap.CheckoutID)

	markSubmitted()
	snap, err = s.SelectCaddy(ctx, "user:1", "cd-001")
	require.NoError(t, err)
	assert.Empty(t, snap.CheckoutID)

	markSubmitted()
	snap, err = s.DeselectCaddy(ctx, "user:1", "cd-001")
	require.NoError(t, err)
	assert.Empty(t, snap.CheckoutID)

	markSubmitted()
	snap, err = s.Back(ctx, "user:1")
	require.NoError(t, err)
	assert.Empty(t, snap.CheckoutID)
}

func TestAbandon_ReleasesHoldsAndDeletes(t *testing.T) {
	s, snaps, holds := newTestService(new(MockResolver))
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Update(ctx, "user:1", UpdateRequest{
		Date:         strPtr("2026-09-02"),
		TimeSlot:     strPtr("07:00"),
		CaddyEnabled: boolPtr(true),
	})
	require.NoError(t, err)
	snap, err := s.SelectCaddy(ctx, "user:1", "cd-001")
	require.NoError(t, err)
	key := snap.Draft.SlotKey()

	require.NoError(t, s.Abandon(ctx, "user:1"))

	assert.False(t, holds.Held(key, "cd-001", snap.HolderToken))
	_, err = snaps.Get(ctx, "user:1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// abandoning an absent draft is a no-op
	assert.NoError(t, s.Abandon(ctx, "user:1"))
}

func TestBack(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything, mock.Anything).
		Return(openResult("2026-09-02", domain.Course18), nil)

	s, _, _ := newTestService(resolver)
	startDraft(t, s)
	ctx := context.Background()

	_, err := s.Back(ctx, "user:1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.Update(ctx, "user:1", UpdateRequest{
		Date:     strPtr("2026-09-02"),
		TimeSlot: strPtr("07:00"),
	})
	require.NoError(t, err)
	_, err = s.Advance(ctx, "user:1")
	require.NoError(t, err)

	snap, err := s.Back(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepSlot, snap.Step)
}
