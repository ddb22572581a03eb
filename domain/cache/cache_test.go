package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := NewLRU(2)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate
	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestLRU_OverwriteDoesNotGrow(t *testing.T) {
	t.Parallel()

	c := NewLRU(2)
	c.Set("a", 1)
	c.Set("a", 2)
	assert.Equal(t, 1, c.Len())

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTLMap_ExpiredReadIsMiss(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewTTLMapWithClock(func() time.Time { return now })

	m.SetWithTTL("boost", "rain", time.Minute)

	v, ok := m.Get("boost")
	assert.True(t, ok)
	assert.Equal(t, "rain", v)

	now = now.Add(2 * time.Minute)

	_, ok = m.Get("boost")
	assert.False(t, ok, "expired entry must read as a miss")
}

func TestTTLMap_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewTTLMapWithClock(func() time.Time { return now })

	m.Set("spawn", int64(42))
	now = now.Add(24 * time.Hour)

	v, ok := m.Get("spawn")
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestCooldownTracker_SeedOnMiss(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewCooldownTrackerWithClock(func() time.Time { return now })

	got := tracker.GCD(123)
	assert.Equal(t, now.Add(-15*time.Second), got, "missing entry seeds 15s in the past")

	// First action is immediately allowed for the default window
	assert.True(t, tracker.Ready(123, 15*time.Second))

	// Arming starts a real cooldown that blocks a subsequent call
	tracker.Arm(123)
	assert.False(t, tracker.Ready(123, 15*time.Second))

	now = now.Add(16 * time.Second)
	assert.True(t, tracker.Ready(123, 15*time.Second))
}

func TestCooldownTracker_SeedIsPersisted(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewCooldownTrackerWithClock(func() time.Time { return now })

	first := tracker.GCD(7)
	now = now.Add(5 * time.Second)
	second := tracker.GCD(7)

	assert.Equal(t, first, second, "seeded value must be stored, not recomputed")
}

func TestCooldownTracker_Clear(t *testing.T) {
	t.Parallel()

	tracker := NewCooldownTracker()
	tracker.Arm(1)
	tracker.Arm(2)

	tracker.Clear(1)
	assert.False(t, tracker.Ready(2, time.Hour))

	tracker.Clear(0)
	assert.True(t, tracker.Ready(2, gcdSeedOffset), "cleared guild reseeds in the past")
	assert.False(t, tracker.Ready(3, time.Hour),
		"a window beyond the seed offset still reads as cooling down")
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gcd:123:456", Key("gcd", int64(123), 456))
	assert.Equal(t, "solo", Key("solo"))
}
