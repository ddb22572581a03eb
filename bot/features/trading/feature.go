package trading

import (
	"context"

	"smokeybot/bot/common"
	"smokeybot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles trade offers between players
type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// New creates the trading feature
func New(uowFactory interfaces.UnitOfWorkFactory) *Feature {
	return &Feature{uowFactory: uowFactory}
}

// HandleCommand routes the /trade slash command subcommands
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

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	ctx := context.Background()
	r := common.NewInteractionResponder(s, i)
	sub := options[0]

	switch sub.Name {
	case "offer":
		var recipient string
		var monsterArg string
		for _, opt := range sub.Options {
			switch opt.Name {
			case "user":
				recipient = opt.UserValue(nil).ID
			case "monster":
				monsterArg = opt.StringValue()
			}
		}
		f.Offer(ctx, guildID, userID, []string{"<@" + recipient + ">", monsterArg}, r)
	case "accept":
		f.Accept(ctx, guildID, userID, optionString(sub, "id"), r)
	case "cancel":
		f.Cancel(ctx, guildID, userID, optionString(sub, "id"), r)
	case "list":
		f.List(ctx, s, guildID, r)
	}
}

func optionString(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}
