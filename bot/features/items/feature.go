package items

import (
	"context"

	"smokeybot/bot/common"
	"smokeybot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles the evolution item commands: shop, buy, give, use
type Feature struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// New creates the items feature
func New(uowFactory interfaces.UnitOfWorkFactory) *Feature {
	return &Feature{uowFactory: uowFactory}
}

// HandleCommand routes the /item slash command subcommands
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
	case "shop":
		f.Shop(ctx, guildID, r)
	case "buy":
		f.Buy(ctx, guildID, userID, optionString(sub, "item"), r)
	case "give":
		var recipient string
		for _, opt := range sub.Options {
			if opt.Name == "user" {
				recipient = opt.UserValue(nil).ID
			}
		}
		f.Give(ctx, guildID, userID, []string{"<@" + recipient + ">", optionString(sub, "item")}, r)
	case "use":
		f.Use(ctx, guildID, userID, []string{optionString(sub, "item"), optionString(sub, "monster")}, r)
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
