package services

import (
	"sync"
	"time"

	"smokeybot/domain/entities"
)

// SpawnState describes the monster currently catchable in a guild
type SpawnState struct {
	Monster   *entities.Monster
	Boosted   bool
	SpawnedAt time.Time
}

// SpawnRegistry holds the per-guild spawn state. Discord event handlers run
// on separate goroutines, so the read-test-clear of a catch attempt must be
// one critical section per guild: the first claimant wins, every concurrent
// attempt against the same spawn loses.
type SpawnRegistry struct {
	mu     sync.Mutex
	guilds map[int64]*guildSpawn
}

type guildSpawn struct {
	mu    sync.Mutex
	state SpawnState
}

// NewSpawnRegistry creates an empty registry
func NewSpawnRegistry() *SpawnRegistry {
	return &SpawnRegistry{guilds: make(map[int64]*guildSpawn)}
}

func (r *SpawnRegistry) guild(guildID int64) *guildSpawn {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guilds[guildID]
	if !ok {
		g = &guildSpawn{}
		r.guilds[guildID] = g
	}
	return g
}

// Publish replaces the guild's spawn state. A forced respawn simply
// overwrites whatever was there.
func (r *SpawnRegistry) Publish(guildID int64, monster *entities.Monster, boosted bool, at time.Time) {
	g := r.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = SpawnState{Monster: monster, Boosted: boosted, SpawnedAt: at}
}

// Current returns a snapshot of the guild's spawn state and whether a
// monster is active. The snapshot may be stale by the time the caller acts
// on it; only Claim decides a catch.
func (r *SpawnRegistry) Current(guildID int64) (SpawnState, bool) {
	g := r.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state, g.state.Monster != nil
}

// Claim atomically tests the active monster against match and, on a hit,
// clears the state and returns the monster. Exactly one caller can claim a
// given spawn; the clear happens before any persistence work.
func (r *SpawnRegistry) Claim(guildID int64, match func(*entities.Monster) bool) (*entities.Monster, bool) {
	g := r.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Monster == nil || !match(g.state.Monster) {
		return nil, false
	}
	monster := g.state.Monster
	g.state = SpawnState{}
	return monster, true
}

// Clear drops the guild's spawn state unconditionally
func (r *SpawnRegistry) Clear(guildID int64) {
	g := r.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = SpawnState{}
}
