package bot

import (
	"context"
	"math/rand"
	"time"

	"smokeybot/domain/services"

	log "github.com/sirupsen/logrus"
)

// Spawn gaps are randomized between these multiples of the check interval
// so guilds do not learn an exact spawn rhythm.
const (
	spawnGapMinTicks = 2
	spawnGapMaxTicks = 8
)

// StartSpawnWorker starts a background worker that periodically spawns
// monsters into enabled guilds.
// Returns a cleanup function to stop the worker gracefully
func (b *Bot) StartSpawnWorker(ctx context.Context) func() {
	ticker := time.NewTicker(b.config.SpawnCheckInterval)
	stopChan := make(chan struct{})

	// Next spawn time per guild, only touched by the worker goroutine
	nextSpawn := make(map[int64]time.Time)

	randomGap := func() time.Duration {
		ticks := spawnGapMinTicks + rand.Intn(spawnGapMaxTicks-spawnGapMinTicks+1)
		return time.Duration(ticks) * b.config.SpawnCheckInterval
	}

	processSpawns := func() {
		// Use a temporary UnitOfWork to query the enabled guild list
		tempUow := b.uowFactory.CreateForGuild(0)
		if err := tempUow.Begin(context.Background()); err != nil {
			log.Errorf("Error beginning transaction to get guild list: %v", err)
			return
		}

		guilds, err := tempUow.GuildSettingsRepository().ListEnabledGuilds(context.Background())
		tempUow.Rollback()

		if err != nil {
			log.Errorf("Error getting enabled guilds: %v", err)
			return
		}

		now := time.Now()
		for _, settings := range guilds {
			guildID := settings.GuildID

			if due, ok := nextSpawn[guildID]; ok && now.Before(due) {
				continue
			}
			// A still-uncaught monster keeps its slot until someone claims it
			if _, active := b.registry.Current(guildID); active {
				nextSpawn[guildID] = now.Add(randomGap())
				continue
			}

			uow := b.uowFactory.CreateForGuild(guildID)
			if err := uow.Begin(context.Background()); err != nil {
				log.Errorf("Error beginning spawn transaction for guild %d: %v", guildID, err)
				continue
			}

			spawnService := services.NewSpawnService(
				uow.GuildSettingsRepository(),
				uow.MonsterRepository(),
				b.registry,
				b.weather,
				b.ChannelResolver(),
				b.SpawnAnnouncer(),
				uow.Publisher(),
			)

			if err := spawnService.TrySpawn(context.Background(), guildID); err != nil {
				log.Errorf("Error spawning monster for guild %d: %v", guildID, err)
				uow.Rollback()
				continue
			}

			if err := uow.Commit(); err != nil {
				log.Errorf("Error committing spawn transaction for guild %d: %v", guildID, err)
				continue
			}

			nextSpawn[guildID] = now.Add(randomGap())
		}
	}

	go func() {
		log.Info("Spawn worker started")

		for {
			select {
			case <-ctx.Done():
				log.Info("Spawn worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Spawn worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				processSpawns()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// StartWeatherWorker starts a background worker that rotates the boosted
// spawn category on a fixed schedule.
// Returns a cleanup function to stop the worker gracefully
func (b *Bot) StartWeatherWorker(ctx context.Context) func() {
	ticker := time.NewTicker(b.config.WeatherInterval)
	stopChan := make(chan struct{})

	go func() {
		log.Info("Weather worker started")

		for {
			select {
			case <-ctx.Done():
				log.Info("Weather worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Weather worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				b.weather.Rotate()
				log.Debug("Rotated boosted spawn category")
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}
