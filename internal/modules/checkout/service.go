package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golfclub/internal/domain"
	"golfclub/internal/modules/availability"
	"golfclub/internal/modules/pricing"
	"golfclub/internal/pkg/validator"
	"golfclub/internal/repository"
)

type Service struct {
	gateway   Gateway
	bookings  BookingStore
	snapshots SnapshotStore
	slots     SlotChecker
	holds     HoldRegistry
	pricer    Pricer

	maxAttempts int
	delay       time.Duration
}

func NewService(
	gateway Gateway,
	bookings BookingStore,
	snapshots SnapshotStore,
	slots SlotChecker,
	holds HoldRegistry,
	pricer Pricer,
	maxAttempts int,
	delay time.Duration,
) *Service {
	return &Service{
		gateway:     gateway,
		bookings:    bookings,
		snapshots:   snapshots,
		slots:       slots,
		holds:       holds,
		pricer:      pricer,
		maxAttempts: maxAttempts,
		delay:       delay,
	}
}

// Submit is phase A: re-validate every commit-time invariant, create
// the provider session, and hand the payment URL back. No external
// call happens when validation fails.
func (s *Service) Submit(ctx context.Context, sessionKey string) (*SubmitResponse, error) {
	snap, err := s.snapshots.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if snap.Step != domain.StepReview {
		return nil, fmt.Errorf("%w: draft is not at the review step", ErrValidation)
	}

	d := &snap.Draft
	breakdown, err := s.validateDraft(ctx, d)
	if err != nil {
		return nil, err
	}

	open, err := s.slots.IsOpen(ctx, d.Date, d.CourseType, d.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if !open {
		return nil, ErrConflict
	}

	sess, err := s.gateway.CreateSession(ctx, SessionRequest{
		Reference:   snap.SessionKey,
		Description: fmt.Sprintf("Tee time %s %s (%s holes)", d.Date, d.TimeSlot, d.CourseType),
		Amount:      breakdown.Total,
		Currency:    "thb",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if sess == nil || sess.PaymentURL == "" {
		return nil, fmt.Errorf("%w: provider returned no payment url", ErrUpstream)
	}

	snap.CheckoutID = sess.ID
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return nil, err
	}

	log.Printf("level=info msg=checkout session created session_id=%s total=%.0f", sess.ID, breakdown.Total)
	return &SubmitResponse{SessionID: sess.ID, PaymentURL: sess.PaymentURL}, nil
}

// ConfirmSession is the webhook side: the provider confirmed payment,
// so commit the reservation. The insert is a compare-and-commit inside
// the store; a replayed webhook is a no-op.
func (s *Service) ConfirmSession(ctx context.Context, sessionID string) error {
	snap, err := s.snapshots.GetByCheckoutID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// snapshot already consumed; replay is fine if the booking exists
			if _, lerr := s.bookings.GetBySessionID(ctx, sessionID); lerr == nil {
				return nil
			}
			return ErrNotFound
		}
		return err
	}

	d := &snap.Draft
	breakdown, err := s.validateDraft(ctx, d)
	if err != nil {
		return err
	}

	b := &domain.Booking{
		UserID:     snap.UserID,
		CourseType: d.CourseType,
		Date:       d.Date,
		TimeSlot:   d.TimeSlot,
		Players:    d.Players,
		GroupName:  d.GroupName,
		CaddyIDs:   d.CaddyIDs,
		CartQty:    d.CartQty,
		BagQty:     d.BagQty,
		GreenFee:   breakdown.GreenFee,
		CaddyFee:   breakdown.CaddyFee,
		CartFee:    breakdown.CartFee,
		BagFee:     breakdown.BagFee,
		TotalPrice: breakdown.Total,
		SessionID:  sessionID,
	}

	if fields := validator.Validate(b); fields != nil {
		return fmt.Errorf("%w: %v", ErrValidation, fields)
	}

	if err := s.bookings.CreateBooked(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleSession):
			// webhook replay after a successful commit
			return nil
		case errors.Is(err, repository.ErrSlotTaken), errors.Is(err, repository.ErrCaddyTaken):
			log.Printf("level=error msg=commit conflict after payment session_id=%s err=%v", sessionID, err)
			return ErrConflict
		default:
			return err
		}
	}

	s.holds.ReleaseAll(d.SlotKey(), snap.HolderToken)
	if err := s.snapshots.Delete(ctx, snap.SessionKey); err != nil {
		log.Printf("level=error msg=failed to clear draft snapshot after commit session_key=%s err=%v", snap.SessionKey, err)
	}

	log.Printf("level=info msg=booking committed session_id=%s booking_id=%d", sessionID, b.ID)
	return nil
}

// validateDraft enforces the commit-time invariants and recomputes the
// authoritative price. The client's stored total is never used.
func (s *Service) validateDraft(ctx context.Context, d *domain.BookingDraft) (pricing.Breakdown, error) {
	if d.Players < 1 {
		return pricing.Breakdown{}, fmt.Errorf("%w: players must be >= 1", ErrValidation)
	}
	if d.CaddyEnabled && len(d.CaddyIDs) != d.Players {
		return pricing.Breakdown{}, fmt.Errorf("%w: caddy count must equal players (%d)", ErrValidation, d.Players)
	}
	if d.CartQty < 0 || d.BagQty < 0 {
		return pricing.Breakdown{}, fmt.Errorf("%w: quantities must be >= 0", ErrValidation)
	}
	if _, err := pricing.ParseDate(d.Date); err != nil {
		return pricing.Breakdown{}, fmt.Errorf("%w: invalid date", ErrValidation)
	}
	if !availability.InLadder(d.CourseType, d.TimeSlot) {
		return pricing.Breakdown{}, fmt.Errorf("%w: invalid time slot", ErrValidation)
	}

	breakdown, err := s.pricer.Breakdown(ctx, d)
	if err != nil {
		return pricing.Breakdown{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if breakdown.Total <= 0 {
		return pricing.Breakdown{}, fmt.Errorf("%w: total must be > 0", ErrValidation)
	}
	return breakdown, nil
}
