package emotes

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Emote is one pending upload inside a sync job
type Emote struct {
	Name      string
	URL       string
	MediaType string
}

// SyncJob is a guild's emote sync request. Emotes are consumed from the
// front of Pending, one per uploader tick.
type SyncJob struct {
	GuildID         string
	RequestID       uuid.UUID
	Provider        string
	Channel         string
	NotifyChannelID string
	RequesterID     string
	Pending         []Emote
	Total           int // size of Pending at registration, never mutated
	Uploaded        int
	Skipped         int
	CreatedAt       time.Time
}

// EmoteQueue holds at most one sync job per guild. Jobs drain in the
// order they were registered, system-wide.
type EmoteQueue struct {
	mu    sync.Mutex
	jobs  map[string]*SyncJob
	order []string
}

// NewEmoteQueue creates an empty emote queue
func NewEmoteQueue() *EmoteQueue {
	return &EmoteQueue{
		jobs: make(map[string]*SyncJob),
	}
}

// Register adds a job for its guild. It reports false when the guild
// already has a job in flight.
func (q *EmoteQueue) Register(job *SyncJob) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.jobs[job.GuildID]; exists {
		return false
	}

	q.jobs[job.GuildID] = job
	q.order = append(q.order, job.GuildID)
	return true
}

// Get returns the guild's job, nil if none
func (q *EmoteQueue) Get(guildID string) *SyncJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.jobs[guildID]
}

// Cancel removes the guild's job. It reports whether a job was removed.
// Emotes already uploaded stay on the guild.
func (q *EmoteQueue) Cancel(guildID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.removeLocked(guildID)
}

// Remove deletes a drained or terminally failed job
func (q *EmoteQueue) Remove(guildID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.removeLocked(guildID)
}

func (q *EmoteQueue) removeLocked(guildID string) bool {
	if _, exists := q.jobs[guildID]; !exists {
		return false
	}
	delete(q.jobs, guildID)
	for i, id := range q.order {
		if id == guildID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return true
}

// First returns the oldest registered job, nil when the queue is empty
func (q *EmoteQueue) First() *SyncJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.order) == 0 {
		return nil
	}
	return q.jobs[q.order[0]]
}

// PopEmote removes and returns the next pending emote of the guild's
// job. The second return is false when nothing is pending.
func (q *EmoteQueue) PopEmote(guildID string) (Emote, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, exists := q.jobs[guildID]
	if !exists || len(job.Pending) == 0 {
		return Emote{}, false
	}

	emote := job.Pending[0]
	job.Pending = job.Pending[1:]
	return emote, true
}

// PendingCount returns how many emotes remain in the guild's job, zero
// when the guild has no job
func (q *EmoteQueue) PendingCount(guildID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, exists := q.jobs[guildID]
	if !exists {
		return 0
	}
	return len(job.Pending)
}

// Len returns the number of registered jobs
func (q *EmoteQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
