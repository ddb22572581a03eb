package game

import (
	"context"
	"strconv"
	"strings"

	"smokeybot/bot/common"
	"smokeybot/domain/entities"
	"smokeybot/domain/services"
	"smokeybot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// leaderboardLimit is how many players leaderboards show
const leaderboardLimit = 10

// pokedexLimit is how many owned monsters the pokedex embed lists
const pokedexLimit = 15

// Catch resolves one catch attempt. Catch is exempt from the global
// cooldown, but a failed attempt re-arms it.
func (f *Feature) Catch(ctx context.Context, guildID, userID int64, guess string, r common.Responder) {
	if strings.TrimSpace(guess) == "" {
		r.ReplyError("Usage: catch <monster name>")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to process catch")
		return
	}
	defer uow.Rollback()

	catchService := services.NewCatchService(
		f.registry,
		uow.MonsterRepository(),
		uow.CaughtMonsterRepository(),
		uow.PlayerRepository(),
		uow.Publisher(),
	)

	outcome, err := catchService.TryCatch(ctx, guildID, userID, guess)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guild_id": guildID,
			"user_id":  userID,
		}).Error("Catch attempt failed")
		r.ReplyError("Failed to process catch")
		return
	}

	if !outcome.Success {
		f.cooldowns.Arm(guildID)
		if outcome.NoSpawn {
			r.Reply("There is nothing to catch right now.")
		} else {
			r.Reply("That's not it!")
		}
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		r.ReplyError("Failed to process catch")
		return
	}

	if m := observability.GetMetrics(); m != nil {
		m.RecordMonsterCaught(outcome.Caught.Shiny)
	}

	r.ReplyEmbed(buildCatchEmbed(userID, outcome))
}

// Info shows the player's latest catch, or a specific one by ID
func (f *Feature) Info(ctx context.Context, guildID, userID int64, idArg string, r common.Responder) {
	if f.onCooldown(guildID) {
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to look up monster")
		return
	}
	defer uow.Rollback()

	var caught *entities.CaughtMonster
	var err error
	if strings.TrimSpace(idArg) == "" {
		caught, err = uow.CaughtMonsterRepository().GetLatest(ctx, guildID, userID)
	} else {
		id, parseErr := strconv.ParseInt(strings.TrimSpace(idArg), 10, 64)
		if parseErr != nil {
			r.ReplyError("Monster ID must be a number")
			return
		}
		caught, err = uow.CaughtMonsterRepository().GetByID(ctx, id)
		if caught != nil && caught.GuildID != guildID {
			caught = nil
		}
	}
	if err != nil {
		log.WithError(err).Error("Failed to load caught monster")
		r.ReplyError("Failed to look up monster")
		return
	}
	if caught == nil {
		r.Reply("No monster found. Catch one first!")
		return
	}

	species, err := uow.MonsterRepository().GetByID(ctx, caught.MonsterID)
	if err != nil || species == nil {
		log.WithError(err).WithField("monster_id", caught.MonsterID).Error("Failed to load species for info")
		r.ReplyError("Failed to look up monster")
		return
	}

	r.ReplyEmbed(buildInfoEmbed(caught, species))
}

// Leaderboard shows the guild's top catchers or richest players
func (f *Feature) Leaderboard(ctx context.Context, s *discordgo.Session, guildID int64, kind string, r common.Responder) {
	if f.onCooldown(guildID) {
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to load leaderboard")
		return
	}
	defer uow.Rollback()

	leaderboardService := services.NewLeaderboardService(uow.PlayerRepository())

	var players []*entities.Player
	var err error
	var title string
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "currency", "rich", "balance":
		players, err = leaderboardService.TopBalances(ctx, guildID, leaderboardLimit)
		title = "Richest Trainers"
	default:
		players, err = leaderboardService.TopCatchers(ctx, guildID, leaderboardLimit)
		title = "Top Catchers"
	}
	if err != nil {
		log.WithError(err).Error("Failed to load leaderboard")
		r.ReplyError("Failed to load leaderboard")
		return
	}
	if len(players) == 0 {
		r.Reply("Nobody has caught anything yet.")
		return
	}

	r.ReplyEmbed(buildLeaderboardEmbed(s, guildID, title, players))
}

// Pokedex lists the player's most recent catches
func (f *Feature) Pokedex(ctx context.Context, guildID, userID int64, r common.Responder) {
	if f.onCooldown(guildID) {
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to load pokedex")
		return
	}
	defer uow.Rollback()

	owned, err := uow.CaughtMonsterRepository().ListByOwner(ctx, guildID, userID, pokedexLimit)
	if err != nil {
		log.WithError(err).Error("Failed to list owned monsters")
		r.ReplyError("Failed to load pokedex")
		return
	}
	if len(owned) == 0 {
		r.Reply("Your pokedex is empty. Catch something first!")
		return
	}

	// The catalog is small; resolve each species once
	speciesByID := make(map[int64]*entities.Monster)
	for _, cm := range owned {
		if _, ok := speciesByID[cm.MonsterID]; ok {
			continue
		}
		species, err := uow.MonsterRepository().GetByID(ctx, cm.MonsterID)
		if err != nil {
			log.WithError(err).WithField("monster_id", cm.MonsterID).Warn("Failed to resolve species for pokedex")
			continue
		}
		speciesByID[cm.MonsterID] = species
	}

	r.ReplyEmbed(buildPokedexEmbed(owned, speciesByID))
}
