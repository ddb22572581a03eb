package emotes

import (
	"context"
	"strings"

	"smokeybot/bot/common"
	botemotes "smokeybot/bot/emotes"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the emote sync commands: sync-emotes and cancel-sync
type Feature struct {
	syncer *botemotes.Syncer
}

// New creates the emotes feature over the shared syncer
func New(syncer *botemotes.Syncer) *Feature {
	return &Feature{syncer: syncer}
}

// HandleCommand routes emote slash commands to the shared handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil {
		common.RespondWithError(s, i, "This command only works in a server")
		return
	}

	ctx := context.Background()
	r := common.NewInteractionResponder(s, i)
	data := i.ApplicationCommandData()

	switch data.Name {
	case "sync-emotes":
		var provider, channel string
		for _, opt := range data.Options {
			switch opt.Name {
			case "provider":
				provider = opt.StringValue()
			case "channel":
				channel = opt.StringValue()
			}
		}
		f.Sync(ctx, s, i.GuildID, i.Member.User.ID, i.ChannelID, []string{provider, channel}, r)
	case "cancel-sync":
		f.Cancel(ctx, s, i.GuildID, i.Member.User.ID, r)
	}
}

func (f *Feature) providerList() string {
	return strings.Join(f.syncer.Providers(), ", ")
}
