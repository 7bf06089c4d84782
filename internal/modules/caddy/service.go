package caddy

import (
	"context"
	"fmt"
	"time"

	"golfclub/internal/domain"
)

type Service struct {
	caddies         CaddyQuery
	holds           *HoldManager
	refreshInterval time.Duration
}

func NewService(caddies CaddyQuery, holds *HoldManager, refreshInterval time.Duration) *Service {
	return &Service{caddies: caddies, holds: holds, refreshInterval: refreshInterval}
}

// CaddyView is one selectable caddy in the step-3 list.
type CaddyView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

// ListResult carries the fresh candidate list plus the interval the
// client should re-poll at while the selection step is visible.
type ListResult struct {
	Caddies          []CaddyView `json:"caddies"`
	RefreshAfterSecs int         `json:"refresh_after_secs"`
}

// ListFree resolves the caddies selectable for the slot by the given
// holder: roster status "available", not committed to the slot in a
// booked reservation, not soft-held by another draft. Lookup failures
// fail closed.
func (s *Service) ListFree(ctx context.Context, key domain.SlotKey, holder string) (*ListResult, error) {
	if key.Date == "" || key.TimeSlot == "" || !key.CourseType.Valid() {
		return nil, ErrValidation
	}

	roster, err := s.caddies.ListAvailable(ctx, key.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookup, err)
	}

	byID := make(map[string]domain.Caddy, len(roster))
	candidates := make([]string, 0, len(roster))
	for _, c := range roster {
		if c.Status != domain.CaddyAvailable {
			continue
		}
		if c.BusyAt(key) {
			continue
		}
		byID[c.ID] = c
		candidates = append(candidates, c.ID)
	}

	free := s.holds.FilterFree(key, holder, candidates)

	res := &ListResult{
		Caddies:          make([]CaddyView, 0, len(free)),
		RefreshAfterSecs: int(s.refreshInterval / time.Second),
	}
	for _, id := range free {
		c := byID[id]
		res.Caddies = append(res.Caddies, CaddyView{
			ID:         c.ID,
			Name:       c.Name,
			ProfilePic: c.ProfilePic,
		})
	}
	return res, nil
}
