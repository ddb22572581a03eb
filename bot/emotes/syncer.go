package emotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Sentinel errors surfaced to the requesting user by the feature layer
var (
	ErrUnknownProvider = errors.New("unknown emote provider")
	ErrSyncInFlight    = errors.New("an emote sync is already running for this guild")
	ErrNothingToSync   = errors.New("nothing to sync")
)

// GuildEmojiLister reads a guild's current emoji set
type GuildEmojiLister interface {
	GuildEmojis(guildID string) ([]*discordgo.Emoji, error)
}

// Syncer runs the producer side of the pipeline: it validates a sync
// request, filters candidates and registers the job in the shared queue.
type Syncer struct {
	queue     *EmoteQueue
	providers map[string]Provider
	lister    GuildEmojiLister
}

// NewSyncer creates a syncer over the shared queue
func NewSyncer(queue *EmoteQueue, lister GuildEmojiLister, providers ...Provider) *Syncer {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Syncer{queue: queue, providers: byName, lister: lister}
}

// Providers returns the registered provider names
func (s *Syncer) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}

// StartSync validates and registers a sync job for the guild. Candidates
// whose names collide (case-sensitively) with existing guild emoji are
// dropped before the job is registered.
func (s *Syncer) StartSync(ctx context.Context, guildID, providerName, channel, notifyChannelID, requesterID string) (*SyncJob, error) {
	provider, ok := s.providers[providerName]
	if !ok {
		return nil, ErrUnknownProvider
	}

	if s.queue.Get(guildID) != nil {
		return nil, ErrSyncInFlight
	}

	candidates, err := provider.FetchCandidates(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch emotes from %s: %w", providerName, err)
	}
	if len(candidates) == 0 {
		return nil, ErrNothingToSync
	}

	existing, err := s.lister.GuildEmojis(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild emoji: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, emoji := range existing {
		taken[emoji.Name] = true
	}

	pending := make([]Emote, 0, len(candidates))
	for _, c := range candidates {
		if taken[c.Name] {
			continue
		}
		pending = append(pending, Emote{Name: c.Name, URL: c.URL, MediaType: c.MediaType})
	}
	if len(pending) == 0 {
		return nil, ErrNothingToSync
	}

	job := &SyncJob{
		GuildID:         guildID,
		RequestID:       uuid.New(),
		Provider:        providerName,
		Channel:         channel,
		NotifyChannelID: notifyChannelID,
		RequesterID:     requesterID,
		Pending:         pending,
		Total:           len(pending),
		CreatedAt:       time.Now(),
	}
	if !s.queue.Register(job) {
		// Lost a race with a concurrent request for the same guild
		return nil, ErrSyncInFlight
	}

	log.WithFields(log.Fields{
		"guild":     guildID,
		"provider":  providerName,
		"channel":   channel,
		"requestId": job.RequestID,
		"pending":   len(pending),
	}).Info("Registered emote sync job")

	return job, nil
}

// CancelSync removes the guild's job if one exists
func (s *Syncer) CancelSync(guildID string) bool {
	cancelled := s.queue.Cancel(guildID)
	if cancelled {
		log.WithField("guild", guildID).Info("Cancelled emote sync job")
	}
	return cancelled
}
