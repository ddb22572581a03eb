package services

import (
	"context"
	"fmt"
	"math/rand"

	"smokeybot/domain/entities"
	"smokeybot/domain/events"
	"smokeybot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// shinyOdds is the denominator of the shiny roll on a successful catch
const shinyOdds = 64

// CatchOutcome describes how a catch attempt resolved
type CatchOutcome struct {
	Success   bool
	NoSpawn   bool // there was no active monster to catch
	Monster   *entities.Monster
	Caught    *entities.CaughtMonster
	Duplicate bool
	Reward    int64
}

// catchService resolves catch attempts against the shared spawn registry
type catchService struct {
	registry    *SpawnRegistry
	monsterRepo interfaces.MonsterRepository
	caughtRepo  interfaces.CaughtMonsterRepository
	playerRepo  interfaces.PlayerRepository
	publisher   interfaces.EventPublisher
}

// NewCatchService creates a catch service
func NewCatchService(
	registry *SpawnRegistry,
	monsterRepo interfaces.MonsterRepository,
	caughtRepo interfaces.CaughtMonsterRepository,
	playerRepo interfaces.PlayerRepository,
	publisher interfaces.EventPublisher,
) *catchService {
	return &catchService{
		registry:    registry,
		monsterRepo: monsterRepo,
		caughtRepo:  caughtRepo,
		playerRepo:  playerRepo,
		publisher:   publisher,
	}
}

// TryCatch resolves one catch attempt. The registry claim is the
// serialization point: the spawn state is cleared before any persistence,
// so a concurrent attempt against the same spawn cannot also succeed. All
// reward work happens after the claim and does not affect whether the
// catch counted.
func (s *catchService) TryCatch(ctx context.Context, guildID, userID int64, guess string) (*CatchOutcome, error) {
	if _, active := s.registry.Current(guildID); !active {
		return &CatchOutcome{NoSpawn: true}, nil
	}

	monster, claimed := s.registry.Claim(guildID, func(m *entities.Monster) bool {
		return GuessMatches(guess, m.Names())
	})
	if !claimed {
		// Either the guess was wrong or another attempt won the race
		_, stillActive := s.registry.Current(guildID)
		return &CatchOutcome{NoSpawn: !stillActive}, nil
	}

	duplicates, err := s.caughtRepo.CountSpecies(ctx, guildID, userID, monster.ID)
	if err != nil {
		// The claim already consumed the spawn; log and carry on with a
		// non-duplicate reward rather than failing the whole catch.
		log.WithError(err).Warn("Failed to count owned species, assuming first catch")
		duplicates = 0
	}
	duplicate := duplicates > 0

	reward := monster.CurrencyReward
	if duplicate {
		reward /= 2
	}

	caught := &entities.CaughtMonster{
		GuildID:   guildID,
		UserID:    userID,
		MonsterID: monster.ID,
		Level:     rand.Intn(30) + 1,
		Shiny:     rand.Intn(shinyOdds) == 0,
	}

	if err := s.caughtRepo.Create(ctx, caught); err != nil {
		return nil, fmt.Errorf("failed to persist caught monster: %w", err)
	}
	if _, err := s.playerRepo.GetOrCreatePlayer(ctx, guildID, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure player record: %w", err)
	}
	if err := s.playerRepo.AddCurrency(ctx, guildID, userID, reward); err != nil {
		return nil, fmt.Errorf("failed to award currency: %w", err)
	}
	if err := s.playerRepo.IncrementCatches(ctx, guildID, userID); err != nil {
		return nil, fmt.Errorf("failed to increment catches: %w", err)
	}

	if err := s.publisher.Publish(events.MonsterCaughtEvent{
		GuildID:   guildID,
		UserID:    userID,
		MonsterID: monster.ID,
		Name:      monster.NameEnglish,
		Level:     caught.Level,
		Shiny:     caught.Shiny,
		Duplicate: duplicate,
		Reward:    reward,
	}); err != nil {
		log.WithError(err).Warn("Failed to publish catch event")
	}

	return &CatchOutcome{
		Success:   true,
		Monster:   monster,
		Caught:    caught,
		Duplicate: duplicate,
		Reward:    reward,
	}, nil
}
