package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golfclub/internal/domain"
	"golfclub/internal/modules/availability"
	"golfclub/internal/modules/caddy"
	"golfclub/internal/modules/pricing"
	"golfclub/internal/repository"

	"github.com/google/uuid"
)

type Service struct {
	snapshots SnapshotStore
	resolver  SlotResolver
	holds     HoldRegistry
	pricer    Pricer
}

func NewService(snapshots SnapshotStore, resolver SlotResolver, holds HoldRegistry, pricer Pricer) *Service {
	return &Service{
		snapshots: snapshots,
		resolver:  resolver,
		holds:     holds,
		pricer:    pricer,
	}
}

// Start restores the session's snapshot, or creates a fresh draft at
// step 1 when none exists. The holder token minted here owns every
// caddy hold the draft acquires.
func (s *Service) Start(ctx context.Context, sessionKey string, userID int64) (*domain.DraftSnapshot, error) {
	snap, err := s.snapshots.Get(ctx, sessionKey)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	snap = &domain.DraftSnapshot{
		SessionKey:  sessionKey,
		UserID:      userID,
		Step:        domain.StepSlot,
		HolderToken: uuid.NewString(),
		Draft: domain.BookingDraft{
			CourseType: domain.Course18,
			Date:       time.Now().Format("2006-01-02"),
			Players:    1,
			CaddyIDs:   []string{},
		},
	}
	if err := s.reprice(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Service) Get(ctx context.Context, sessionKey string) (*domain.DraftSnapshot, error) {
	snap, err := s.snapshots.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return snap, nil
}

// Update applies field edits. Changing date, time slot or course type
// while caddies are selected releases every hold under the old slot
// key and clears the selection: the holds' exclusivity domain is the
// old key and means nothing for the new one.
func (s *Service) Update(ctx context.Context, sessionKey string, req UpdateRequest) (*domain.DraftSnapshot, error) {
	snap, err := s.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	d := &snap.Draft
	oldKey := d.SlotKey()

	if req.CourseType != nil {
		ct := domain.CourseType(*req.CourseType)
		if !ct.Valid() {
			return nil, fmt.Errorf("%w: course type must be 9 or 18", ErrValidation)
		}
		d.CourseType = ct
		// the ladders are disjoint, so a slot from the old course
		// type can never be valid for the new one
		if d.TimeSlot != "" && !availability.InLadder(ct, d.TimeSlot) {
			d.TimeSlot = ""
		}
	}
	if req.Date != nil {
		if _, err := pricing.ParseDate(*req.Date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
		}
		d.Date = *req.Date
	}
	if req.TimeSlot != nil {
		if *req.TimeSlot != "" && !availability.InLadder(d.CourseType, *req.TimeSlot) {
			return nil, fmt.Errorf("%w: unknown time slot", ErrValidation)
		}
		d.TimeSlot = *req.TimeSlot
	}
	if req.Players != nil {
		if *req.Players < 1 {
			return nil, fmt.Errorf("%w: players must be >= 1", ErrValidation)
		}
		d.Players = *req.Players
	}
	if req.GroupName != nil {
		d.GroupName = *req.GroupName
	}
	if req.CartQty != nil {
		if *req.CartQty < 0 {
			return nil, fmt.Errorf("%w: cart quantity must be >= 0", ErrValidation)
		}
		d.CartQty = *req.CartQty
	}
	if req.BagQty != nil {
		if *req.BagQty < 0 {
			return nil, fmt.Errorf("%w: bag quantity must be >= 0", ErrValidation)
		}
		d.BagQty = *req.BagQty
	}
	if req.CaddyEnabled != nil {
		d.CaddyEnabled = *req.CaddyEnabled
		if !d.CaddyEnabled && len(d.CaddyIDs) > 0 {
			s.holds.ReleaseAll(oldKey, snap.HolderToken)
			d.CaddyIDs = []string{}
		}
	}

	if d.SlotKey() != oldKey && len(d.CaddyIDs) > 0 {
		s.holds.ReleaseAll(oldKey, snap.HolderToken)
		d.CaddyIDs = []string{}
	}

	// the pending payment session, if any, was created for the draft
	// as it stood at submit; any edit invalidates it
	snap.CheckoutID = ""

	if err := s.reprice(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// SelectCaddy acquires a hold for the caddy under the draft's slot key
// and adds it to the selection. Exactly one concurrent draft wins the
// hold; the loser gets ErrCaddyHeld and must pick someone else.
func (s *Service) SelectCaddy(ctx context.Context, sessionKey, caddyID string) (*domain.DraftSnapshot, error) {
	snap, err := s.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	d := &snap.Draft

	if !d.CaddyEnabled {
		return nil, fmt.Errorf("%w: caddy selection is not enabled", ErrValidation)
	}
	if d.TimeSlot == "" {
		return nil, fmt.Errorf("%w: select a time slot first", ErrValidation)
	}
	for _, id := range d.CaddyIDs {
		if id == caddyID {
			return snap, nil
		}
	}
	if len(d.CaddyIDs) >= d.Players {
		return nil, fmt.Errorf("%w: already selected %d of %d", ErrCaddyCount, len(d.CaddyIDs), d.Players)
	}

	if err := s.holds.Acquire(d.SlotKey(), caddyID, snap.HolderToken); err != nil {
		if errors.Is(err, caddy.ErrHeld) {
			return nil, ErrCaddyHeld
		}
		return nil, err
	}

	d.CaddyIDs = append(d.CaddyIDs, caddyID)
	snap.CheckoutID = ""
	if err := s.reprice(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// DeselectCaddy releases the hold and drops the caddy from the draft.
func (s *Service) DeselectCaddy(ctx context.Context, sessionKey, caddyID string) (*domain.DraftSnapshot, error) {
	snap, err := s.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	d := &snap.Draft

	kept := make([]string, 0, len(d.CaddyIDs))
	for _, id := range d.CaddyIDs {
		if id != caddyID {
			kept = append(kept, id)
		}
	}
	d.CaddyIDs = kept
	s.holds.Release(d.SlotKey(), caddyID, snap.HolderToken)
	snap.CheckoutID = ""

	if err := s.reprice(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Advance moves the draft one step forward after the step's guard
// passes. Step 4 hands off to checkout; it never advances here.
func (s *Service) Advance(ctx context.Context, sessionKey string) (*domain.DraftSnapshot, error) {
	snap, err := s.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	d := &snap.Draft

	switch snap.Step {
	case domain.StepSlot:
		if d.Date == "" || d.TimeSlot == "" || !d.CourseType.Valid() {
			return nil, fmt.Errorf("%w: date, time slot and course type are required", ErrValidation)
		}
		res, err := s.resolver.Resolve(ctx, d.Date, d.CourseType)
		if err != nil {
			// fail closed: an unreadable store means nothing is bookable
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		if res.IsClosed(d.TimeSlot) {
			// concurrent booking took the slot; clear the selection so
			// the client re-picks instead of silently keeping it
			s.holds.ReleaseAll(d.SlotKey(), snap.HolderToken)
			d.TimeSlot = ""
			d.CaddyIDs = []string{}
			if err := s.reprice(ctx, snap); err != nil {
				return nil, err
			}
			if err := s.snapshots.Save(ctx, snap); err != nil {
				return nil, err
			}
			return nil, ErrSlotClosed
		}
	case domain.StepPlayers:
		if d.Players < 1 {
			return nil, fmt.Errorf("%w: players must be >= 1", ErrValidation)
		}
	case domain.StepExtras:
		if d.CaddyEnabled && len(d.CaddyIDs) != d.Players {
			return nil, fmt.Errorf("%w: selected %d of %d", ErrCaddyCount, len(d.CaddyIDs), d.Players)
		}
	default:
		return nil, ErrInvalidTransition
	}

	snap.Step++
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Back moves one step backward. Always permitted above step 1.
func (s *Service) Back(ctx context.Context, sessionKey string) (*domain.DraftSnapshot, error) {
	snap, err := s.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if snap.Step <= domain.StepSlot {
		return nil, ErrInvalidTransition
	}
	snap.Step--
	snap.CheckoutID = ""
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// RestoreAfterCancel handles the payment-cancel redirect: the last
// persisted snapshot is restored at step 4, not step 1, so the golfer
// lands back on the review screen with everything intact.
func (s *Service) RestoreAfterCancel(ctx context.Context, sessionKey string) (*domain.DraftSnapshot, error) {
	snap, err := s.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	snap.Step = domain.StepReview
	snap.CheckoutID = ""
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Abandon releases every hold the draft owns and deletes the snapshot.
func (s *Service) Abandon(ctx context.Context, sessionKey string) error {
	snap, err := s.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	s.holds.ReleaseAll(snap.Draft.SlotKey(), snap.HolderToken)
	return s.snapshots.Delete(ctx, sessionKey)
}

func (s *Service) reprice(ctx context.Context, snap *domain.DraftSnapshot) error {
	b, err := s.pricer.Breakdown(ctx, &snap.Draft)
	if err != nil {
		return err
	}
	snap.Draft.TotalPrice = b.Total
	return nil
}
