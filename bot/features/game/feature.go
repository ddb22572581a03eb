package game

import (
	"context"
	"time"

	"smokeybot/bot/common"
	"smokeybot/domain/cache"
	"smokeybot/domain/interfaces"
	"smokeybot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles the catching game commands: catch, info, leaderboard
// and pokedex
type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory
	registry   *services.SpawnRegistry
	cooldowns  *cache.CooldownTracker
	gcdWindow  time.Duration
}

// New creates the game feature bound to the shared spawn registry and
// cooldown tracker
func New(uowFactory interfaces.UnitOfWorkFactory, registry *services.SpawnRegistry, cooldowns *cache.CooldownTracker, gcdWindow time.Duration) *Feature {
	return &Feature{
		uowFactory: uowFactory,
		registry:   registry,
		cooldowns:  cooldowns,
		gcdWindow:  gcdWindow,
	}
}

// HandleCommand routes game slash commands to the shared handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	guildID, err := common.ParseUserID(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}
	userID, err := common.ParseUserID(i.Member.User.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	ctx := context.Background()
	r := common.NewInteractionResponder(s, i)
	data := i.ApplicationCommandData()

	switch data.Name {
	case "catch":
		guess := ""
		if len(data.Options) > 0 {
			guess = data.Options[0].StringValue()
		}
		f.Catch(ctx, guildID, userID, guess, r)
	case "info":
		idArg := ""
		if len(data.Options) > 0 {
			idArg = data.Options[0].StringValue()
		}
		f.Info(ctx, guildID, userID, idArg, r)
	case "leaderboard":
		kind := ""
		if len(data.Options) > 0 {
			kind = data.Options[0].StringValue()
		}
		f.Leaderboard(ctx, s, guildID, kind, r)
	case "pokedex":
		f.Pokedex(ctx, guildID, userID, r)
	}
}

// onCooldown gates non-catch game commands on the guild's global cooldown.
// A gated command is silently dropped; arming happens only when the command
// actually runs.
func (f *Feature) onCooldown(guildID int64) bool {
	if f.cooldowns.Ready(guildID, f.gcdWindow) {
		f.cooldowns.Arm(guildID)
		return false
	}
	log.WithField("guild_id", guildID).Debug("Game command dropped by global cooldown")
	return true
}
