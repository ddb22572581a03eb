package settings

import (
	"context"

	"smokeybot/bot/common"
	"smokeybot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles guild settings management: toggling the game, binding
// the spawn channel and changing the text-command prefix
type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory

	// invalidatePrefix drops the router's cached prefix after a change
	invalidatePrefix func(guildID int64)
}

// New creates the settings feature
func New(uowFactory interfaces.UnitOfWorkFactory, invalidatePrefix func(guildID int64)) *Feature {
	if invalidatePrefix == nil {
		invalidatePrefix = func(int64) {}
	}
	return &Feature{
		uowFactory:       uowFactory,
		invalidatePrefix: invalidatePrefix,
	}
}

// HandleCommand routes the /settings slash command subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	ctx := context.Background()
	r := common.NewInteractionResponder(s, i)
	sub := options[0]

	switch sub.Name {
	case "smokemon":
		arg := ""
		if len(sub.Options) > 0 {
			arg = sub.Options[0].StringValue()
		}
		f.Smokemon(ctx, s, i.GuildID, i.Member.User.ID, []string{arg}, r)
	case "spawn-channel":
		args := []string{}
		if len(sub.Options) > 0 && sub.Options[0].Name == "channel" {
			channel := sub.Options[0].ChannelValue(nil)
			if channel != nil && channel.ID != "" {
				args = append(args, "<#"+channel.ID+">")
			}
		}
		f.SpawnChannel(ctx, s, i.GuildID, i.Member.User.ID, args, r)
	case "prefix":
		arg := ""
		if len(sub.Options) > 0 {
			arg = sub.Options[0].StringValue()
		}
		f.Prefix(ctx, s, i.GuildID, i.Member.User.ID, []string{arg}, r)
	default:
		log.WithField("subcommand", sub.Name).Warn("Unknown settings subcommand")
	}
}
