package caddy

import (
	"context"
	"log"
	"sync"
	"time"

	"golfclub/internal/domain"
)

type holdEntry struct {
	holder     string
	acquiredAt time.Time
}

// HoldManager grants short-lived exclusive holds on caddy ids, scoped
// to a slot key. Holds are advisory: they narrow the window for
// commit-time conflicts but the reservation store stays the final
// arbiter. Holds expire after the TTL so an abandoned draft cannot
// starve a caddy.
//
// All operations are pure in-memory map work; nothing blocks under the
// mutex.
type HoldManager struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	holds map[domain.SlotKey]map[string]holdEntry
}

func NewHoldManager(ttl time.Duration) *HoldManager {
	return &HoldManager{
		ttl:   ttl,
		now:   time.Now,
		holds: make(map[domain.SlotKey]map[string]holdEntry),
	}
}

// Acquire grants the hold, or ErrHeld when another live holder already
// has the caddy under the same key. Re-acquiring an own hold succeeds
// and refreshes its timestamp.
func (m *HoldManager) Acquire(key domain.SlotKey, caddyID, holder string) error {
	if caddyID == "" || holder == "" {
		return ErrValidation
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked(key)

	byID := m.holds[key]
	if byID == nil {
		byID = make(map[string]holdEntry)
		m.holds[key] = byID
	}

	if cur, ok := byID[caddyID]; ok && cur.holder != holder {
		return ErrHeld
	}

	byID[caddyID] = holdEntry{holder: holder, acquiredAt: m.now()}
	return nil
}

// Release drops the hold if this holder owns it. Releasing a hold that
// is absent or owned by someone else is a no-op.
func (m *HoldManager) Release(key domain.SlotKey, caddyID, holder string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byID := m.holds[key]
	if cur, ok := byID[caddyID]; ok && cur.holder == holder {
		delete(byID, caddyID)
	}
	if len(byID) == 0 {
		delete(m.holds, key)
	}
}

// ReleaseAll drops every hold the holder owns under the key. Used when
// the draft changes slot or terminates.
func (m *HoldManager) ReleaseAll(key domain.SlotKey, holder string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byID := m.holds[key]
	for id, cur := range byID {
		if cur.holder == holder {
			delete(byID, id)
		}
	}
	if len(byID) == 0 {
		delete(m.holds, key)
	}
}

// FilterFree returns the candidates not held by a different live
// holder. The caller's own holds stay selectable.
func (m *HoldManager) FilterFree(key domain.SlotKey, holder string, candidates []string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked(key)

	byID := m.holds[key]
	out := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if cur, ok := byID[id]; ok && cur.holder != holder {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Held reports whether this holder currently owns the hold.
func (m *HoldManager) Held(key domain.SlotKey, caddyID, holder string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked(key)

	cur, ok := m.holds[key][caddyID]
	return ok && cur.holder == holder
}

func (m *HoldManager) pruneLocked(key domain.SlotKey) {
	byID := m.holds[key]
	cutoff := m.now().Add(-m.ttl)
	for id, cur := range byID {
		if cur.acquiredAt.Before(cutoff) {
			delete(byID, id)
		}
	}
	if len(byID) == 0 {
		delete(m.holds, key)
	}
}

// StartSweeper prunes expired holds across all keys until the context
// is cancelled, so keys that nobody touches anymore still drain.
func (m *HoldManager) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
}

func (m *HoldManager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	cutoff := m.now().Add(-m.ttl)
	for key, byID := range m.holds {
		for id, cur := range byID {
			if cur.acquiredAt.Before(cutoff) {
				delete(byID, id)
				removed++
			}
		}
		if len(byID) == 0 {
			delete(m.holds, key)
		}
	}
	if removed > 0 {
		log.Printf("level=info msg=expired caddy holds swept count=%d", removed)
	}
}
