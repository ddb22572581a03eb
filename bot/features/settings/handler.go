package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"smokeybot/bot/common"
	"smokeybot/domain/entities"
	"smokeybot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Smokemon toggles the catching game for the guild: args["enable"|"disable"]
func (f *Feature) Smokemon(ctx context.Context, s *discordgo.Session, guildStrID, userStrID string, args []string, r common.Responder) {
	if !common.IsUserAdmin(s, guildStrID, userStrID) {
		r.ReplyError("You need administrator permissions to use this command")
		return
	}

	var enabled bool
	switch arg := firstArg(args); arg {
	case "enable", "on":
		enabled = true
	case "disable", "off":
		enabled = false
	default:
		r.ReplyError("Usage: smokemon enable|disable")
		return
	}

	guildID, err := strconv.ParseInt(guildStrID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		r.ReplyError("Failed to process command")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to update settings")
		return
	}
	defer uow.Rollback()

	guildSettingsService := services.NewGuildSettingsService(
		uow.GuildSettingsRepository(),
	)

	if err := guildSettingsService.SetGameEnabled(ctx, guildID, enabled); err != nil {
		log.Errorf("Failed to toggle game: %v", err)
		r.ReplyError("Failed to update settings")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		r.ReplyError("Failed to update settings")
		return
	}

	if enabled {
		r.Reply("✅ Smokemon enabled. Set a spawn channel with `spawn-channel <#channel>` if you have not already.")
	} else {
		r.Reply("✅ Smokemon disabled.")
	}
}

// SpawnChannel binds the channel monsters spawn into; no argument disables
// spawning by clearing the channel
func (f *Feature) SpawnChannel(ctx context.Context, s *discordgo.Session, guildStrID, userStrID string, args []string, r common.Responder) {
	if !common.IsUserAdmin(s, guildStrID, userStrID) {
		r.ReplyError("You need administrator permissions to use this command")
		return
	}

	guildID, err := strconv.ParseInt(guildStrID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		r.ReplyError("Failed to process command")
		return
	}

	var channelID *int64
	if arg := firstArg(args); arg != "" && arg != "clear" {
		id, ok := parseChannelMention(arg)
		if !ok {
			r.ReplyError("Usage: spawn-channel <#channel> (or `spawn-channel clear`)")
			return
		}
		channelID = &id
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to update settings")
		return
	}
	defer uow.Rollback()

	guildSettingsService := services.NewGuildSettingsService(
		uow.GuildSettingsRepository(),
	)

	if err := guildSettingsService.UpdateSpawnChannel(ctx, guildID, channelID); err != nil {
		log.Errorf("Failed to update spawn channel: %v", err)
		r.ReplyError("Failed to update settings")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		r.ReplyError("Failed to update settings")
		return
	}

	if channelID != nil {
		r.Reply(fmt.Sprintf("✅ Monsters will now spawn in <#%d>", *channelID))
	} else {
		r.Reply("✅ Spawn channel cleared; monsters will not spawn until one is set")
	}
}

// Prefix changes the guild's text-command prefix, validated against the
// small allowed set
func (f *Feature) Prefix(ctx context.Context, s *discordgo.Session, guildStrID, userStrID string, args []string, r common.Responder) {
	if !common.IsUserAdmin(s, guildStrID, userStrID) {
		r.ReplyError("You need administrator permissions to use this command")
		return
	}

	prefix := firstArg(args)
	if !entities.IsAllowedPrefix(prefix) {
		r.ReplyError(fmt.Sprintf("Prefix must be one of: %s", strings.Join(entities.AllowedPrefixes, " ")))
		return
	}

	guildID, err := strconv.ParseInt(guildStrID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		r.ReplyError("Failed to process command")
		return
	}

	uow := f.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		r.ReplyError("Failed to update settings")
		return
	}
	defer uow.Rollback()

	guildSettingsService := services.NewGuildSettingsService(
		uow.GuildSettingsRepository(),
	)

	if err := guildSettingsService.UpdatePrefix(ctx, guildID, prefix); err != nil {
		log.Errorf("Failed to update prefix: %v", err)
		r.ReplyError("Failed to update settings")
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		r.ReplyError("Failed to update settings")
		return
	}

	f.invalidatePrefix(guildID)
	r.Reply(fmt.Sprintf("✅ Prefix changed to `%s`", prefix))
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(args[0]))
}

// parseChannelMention extracts the channel ID from a mention token like
// <#123>. A bare numeric ID is also accepted.
func parseChannelMention(token string) (int64, bool) {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "<#") && strings.HasSuffix(token, ">") {
		token = strings.TrimSuffix(strings.TrimPrefix(token, "<#"), ">")
	}
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
