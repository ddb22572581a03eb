package cache

import (
	"sync"
	"time"
)

// TTLMap is an unbounded key-value store with optional per-entry expiry.
// Intended for low-cardinality guild-scoped state (weather boosts, last
// emote-sync results). Expired entries read as misses and are removed lazily.
type TTLMap struct {
	mu      sync.Mutex
	entries map[string]ttlEntry
	now     func() time.Time
}

type ttlEntry struct {
	value     any
	expiresAt time.Time // zero = never expires
}

// NewTTLMap creates an empty TTLMap
func NewTTLMap() *TTLMap {
	return &TTLMap{
		entries: make(map[string]ttlEntry),
		now:     time.Now,
	}
}

// NewTTLMapWithClock creates a TTLMap with an injectable clock for tests
func NewTTLMapWithClock(now func() time.Time) *TTLMap {
	return &TTLMap{
		entries: make(map[string]ttlEntry),
		now:     now,
	}
}

// Get returns the value for key and whether a live entry was present
func (m *TTLMap) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key forever, silently overwriting
func (m *TTLMap) Set(key string, value any) {
	m.SetWithTTL(key, value, 0)
}

// SetWithTTL stores value under key for ttl; ttl <= 0 means no expiry
func (m *TTLMap) SetWithTTL(key string, value any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := ttlEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
}

// Delete removes key if present
func (m *TTLMap) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Clear removes all entries. There are no timers to release; expiry is
// evaluated on read, so Clear cannot leak handles.
func (m *TTLMap) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]ttlEntry)
}
