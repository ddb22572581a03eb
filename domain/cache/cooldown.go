package cache

import (
	"fmt"
	"sync"
	"time"
)

// gcdSeedOffset is how far in the past a missing global-cooldown entry is
// seeded. Seeding behind now means the first real command in a guild is
// immediately allowed instead of being blocked on a cold start. The first
// action is only immediate for windows up to this offset, which matches
// the default GLOBAL_COOLDOWN of 15s.
const gcdSeedOffset = 15 * time.Second

// CooldownTracker gates how often non-catch game commands may run per guild
type CooldownTracker struct {
	mu   sync.Mutex
	last map[int64]time.Time
	now  func() time.Time
}

// NewCooldownTracker creates an empty tracker
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		last: make(map[int64]time.Time),
		now:  time.Now,
	}
}

// NewCooldownTrackerWithClock creates a tracker with an injectable clock
func NewCooldownTrackerWithClock(now func() time.Time) *CooldownTracker {
	return &CooldownTracker{
		last: make(map[int64]time.Time),
		now:  now,
	}
}

// GCD returns the guild's global-cooldown timestamp. A missing entry is
// seeded to now minus the seed offset and persisted, so the very next
// action is allowed.
func (t *CooldownTracker) GCD(guildID int64) time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ts, ok := t.last[guildID]; ok {
		return ts
	}
	seeded := t.now().Add(-gcdSeedOffset)
	t.last[guildID] = seeded
	return seeded
}

// Ready reports whether the guild's cooldown has elapsed for the given window
func (t *CooldownTracker) Ready(guildID int64, window time.Duration) bool {
	return t.now().Sub(t.GCD(guildID)) >= window
}

// Arm records an action at the current time, starting a fresh cooldown
func (t *CooldownTracker) Arm(guildID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[guildID] = t.now()
}

// Clear drops one guild's entry, or every entry when guildID is zero
func (t *CooldownTracker) Clear(guildID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if guildID == 0 {
		t.last = make(map[int64]time.Time)
		return
	}
	delete(t.last, guildID)
}

// Key builds a composite cache key from scope parts
func Key(parts ...any) string {
	key := ""
	for i, part := range parts {
		if i > 0 {
			key += ":"
		}
		key += fmt.Sprint(part)
	}
	return key
}
