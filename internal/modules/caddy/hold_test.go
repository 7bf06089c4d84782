package caddy

import (
	"sync"
	"testing"
	"time"

	"golfclub/internal/domain"

	"github.com/stretchr/testify/assert"
)

var slotA = domain.SlotKey{Date: "2026-09-02", TimeSlot: "07:00", CourseType: domain.Course18}
var slotB = domain.SlotKey{Date: "2026-09-02", TimeSlot: "07:15", CourseType: domain.Course18}

func TestHoldManager_AcquireExclusive(t *testing.T) {
	m := NewHoldManager(10 * time.Minute)

	assert.NoError(t, m.Acquire(slotA, "cd-001", "holder-a"))
	assert.ErrorIs(t, m.Acquire(slotA, "cd-001", "holder-b"), ErrHeld)

	// same caddy under a different slot key never contends
	assert.NoError(t, m.Acquire(slotB, "cd-001", "holder-b"))
}

func TestHoldManager_ReacquireOwnHold(t *testing.T) {
	m := NewHoldManager(10 * time.Minute)

	assert.NoError(t, m.Acquire(slotA, "cd-001", "holder-a"))
	assert.NoError(t, m.Acquire(slotA, "cd-001", "holder-a"))
	assert.True(t, m.Held(slotA, "cd-001", "holder-a"))
}

func TestHoldManager_ReleaseIsOwnerOnlyAndIdempotent(t *testing.T) {
	m := NewHoldManager(10 * time.Minute)
	assert.NoError(t, m.Acquire(slotA, "cd-001", "holder-a"))

	// someone else's release is a no-op
	m.Release(slotA, "cd-001", "holder-b")
	assert.True(t, m.Held(slotA, "cd-001", "holder-a"))

	m.Release(slotA, "cd-001", "holder-a")
	assert.False(t, m.Held(slotA, "cd-001", "holder-a"))

	// double release is fine
	m.Release(slotA, "cd-001", "holder-a")
}

func TestHoldManager_ReleaseAll(t *testing.T) {
	m := NewHoldManager(10 * time.Minute)
	assert.NoError(t, m.Acquire(slotA, "cd-001", "holder-a"))
	assert.NoError(t, m.Acquire(slotA, "cd-002", "holder-a"))
	assert.NoError(t, m.Acquire(slotA, "cd-003", "holder-b"))

	m.ReleaseAll(slotA, "holder-a")

	assert.False(t, m.Held(slotA, "cd-001", "holder-a"))
	assert.False(t, m.Held(slotA, "cd-002", "holder-a"))
	assert.True(t, m.Held(slotA, "cd-003", "holder-b"))
}

func TestHoldManager_TTLExpiry(t *testing.T) {
	m := NewHoldManager(10 * time.Minute)

	now := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	assert.NoError(t, m.Acquire(slotA, "cd-001", "holder-a"))

	now = now.Add(11 * time.Minute)
	assert.False(t, m.Held(slotA, "cd-001", "holder-a"))
	assert.NoError(t, m.Acquire(slotA, "cd-001", "holder-b"))
}

func TestHoldManager_FilterFree(t *testing.T) {
	m := NewHoldManager(10 * time.Minute)
	assert.NoError(t, m.Acquire(slotA, "cd-001", "holder-a"))
	assert.NoError(t, m.Acquire(slotA, "cd-002", "holder-b"))

	free := m.FilterFree(slotA, "holder-a", []string{"cd-001", "cd-002", "cd-003"})

	// own hold stays selectable, the contested one disappears
	assert.Equal(t, []string{"cd-001", "cd-003"}, free)
}

func TestHoldManager_ConcurrentAcquireOneWins(t *testing.T) {
	m := NewHoldManager(10 * time.Minute)

	const holders = 16
	var wg sync.WaitGroup
	wins := make(chan string, holders)
	for i := 0; i < holders; i++ {
		wg.Add(1)
		holder := string(rune('a' + i))
		go func() {
			defer wg.Done()
			if m.Acquire(slotA, "cd-001", holder) == nil {
				wins <- holder
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	assert.Len(t, winners, 1)
	assert.True(t, m.Held(slotA, "cd-001", winners[0]))
}

func TestHoldManager_SweepDrainsUntouchedKeys(t *testing.T) {
	m := NewHoldManager(10 * time.Minute)

	now := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	assert.NoError(t, m.Acquire(slotA, "cd-001", "holder-a"))
	assert.NoError(t, m.Acquire(slotB, "cd-002", "holder-b"))

	now = now.Add(time.Hour)
	m.sweep()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.holds)
}
