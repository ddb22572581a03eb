package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"smokeybot/domain/entities"
	"smokeybot/domain/events"
	"smokeybot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// spawnRedrawLimit bounds how many times an invalid catalog draw (missing
// name or artwork) is redrawn before the spawn attempt is abandoned.
const spawnRedrawLimit = 5

// boostMultiplier is how much heavier a boosted-category candidate weighs
const boostMultiplier = 4

// ChannelResolver reports whether a channel is still reachable by the bot
type ChannelResolver interface {
	ChannelExists(channelID int64) bool
}

// SpawnAnnouncer delivers the spawn notification for a guild
type SpawnAnnouncer interface {
	AnnounceSpawn(guildID, channelID int64, monster *entities.Monster, boosted bool)
}

// spawnService drives the per-guild spawn state machine
type spawnService struct {
	settingsRepo interfaces.GuildSettingsRepository
	monsterRepo  interfaces.MonsterRepository
	registry     *SpawnRegistry
	weather      *Weather
	resolver     ChannelResolver
	announcer    SpawnAnnouncer
	publisher    interfaces.EventPublisher
	now          func() time.Time
}

// NewSpawnService creates a spawn service bound to the shared registry and
// weather rotation
func NewSpawnService(
	settingsRepo interfaces.GuildSettingsRepository,
	monsterRepo interfaces.MonsterRepository,
	registry *SpawnRegistry,
	weather *Weather,
	resolver ChannelResolver,
	announcer SpawnAnnouncer,
	publisher interfaces.EventPublisher,
) *spawnService {
	return &spawnService{
		settingsRepo: settingsRepo,
		monsterRepo:  monsterRepo,
		registry:     registry,
		weather:      weather,
		resolver:     resolver,
		announcer:    announcer,
		publisher:    publisher,
		now:          time.Now,
	}
}

// TrySpawn draws a monster for the guild and publishes it. A guild whose
// spawn channel is gone gets the feature disabled instead of a retry: a
// missing channel does not fix itself, so failing fast avoids a spawn loop
// that can never announce anything.
func (s *spawnService) TrySpawn(ctx context.Context, guildID int64) error {
	settings, err := s.settingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}
	if !settings.SmokemonEnabled {
		return nil
	}

	if !settings.HasSpawnChannel() || !s.resolver.ChannelExists(*settings.SpawnChannelID) {
		log.WithField("guild_id", guildID).Warn("Spawn channel unresolvable, disabling game for guild")
		settings.SmokemonEnabled = false
		if err := s.settingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
			return fmt.Errorf("failed to disable game for guild %d: %w", guildID, err)
		}
		return nil
	}

	candidates, err := s.monsterRepo.ListSpawnCandidates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list spawn candidates: %w", err)
	}
	if len(candidates) == 0 {
		log.Warn("Monster catalog has no spawn candidates")
		return nil
	}

	boostCategory := s.weather.CategoryFor(guildID)
	monster := drawWeighted(candidates, boostCategory)
	for i := 0; monster != nil && !monster.IsSpawnable() && i < spawnRedrawLimit; i++ {
		log.WithFields(log.Fields{
			"monster_id": monster.ID,
			"attempt":    i + 1,
		}).Debug("Redrawing invalid spawn candidate")
		monster = drawWeighted(candidates, boostCategory)
	}
	if monster == nil || !monster.IsSpawnable() {
		return fmt.Errorf("no spawnable monster after %d redraws", spawnRedrawLimit)
	}

	boosted := monster.Category == boostCategory
	s.registry.Publish(guildID, monster, boosted, s.now())

	s.announcer.AnnounceSpawn(guildID, *settings.SpawnChannelID, monster, boosted)

	if err := s.publisher.Publish(events.MonsterSpawnedEvent{
		GuildID:   guildID,
		MonsterID: monster.ID,
		Name:      monster.NameEnglish,
		Category:  monster.Category,
		Boosted:   boosted,
	}); err != nil {
		log.WithError(err).Warn("Failed to publish spawn event")
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"monster":  monster.NameEnglish,
		"boosted":  boosted,
	}).Info("Monster spawned")

	return nil
}

// drawWeighted picks a candidate with probability proportional to its base
// weight, with boosted-category candidates weighted heavier
func drawWeighted(candidates []*entities.Monster, boostCategory string) *entities.Monster {
	total := 0
	for _, m := range candidates {
		total += effectiveWeight(m, boostCategory)
	}
	if total <= 0 {
		return nil
	}

	roll := rand.Intn(total)
	for _, m := range candidates {
		roll -= effectiveWeight(m, boostCategory)
		if roll < 0 {
			return m
		}
	}
	return candidates[len(candidates)-1]
}

func effectiveWeight(m *entities.Monster, boostCategory string) int {
	if m.BaseWeight <= 0 {
		return 0
	}
	if m.Category == boostCategory {
		return m.BaseWeight * boostMultiplier
	}
	return m.BaseWeight
}
